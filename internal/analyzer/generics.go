package analyzer

import "github.com/schiffy91/btrc-sub001/internal/ast"

// collectGenericInstances registers te (if it carries generic arguments)
// into genericInstances keyed by its base name, deduplicated by
// normalizeTypeKey. For a freshly-registered class instance it validates
// the argument count against the class's declared generic parameters and
// substitutes those parameters through every method's return type,
// recursively registering the resulting instances. This is how
// "Map<string,int>.keys()" (returning List<string>) produces a
// registration for List<string> without the call ever having been
// written in source. Recursion terminates because substitution never
// introduces a name absent from the original argument tuple's own bases.
func (a *Analyzer) collectGenericInstances(te *ast.TypeExpr) {
	if te == nil {
		return
	}
	for _, arg := range te.GenericArgs {
		a.collectGenericInstances(arg)
	}
	if len(te.GenericArgs) == 0 {
		return
	}
	key := normalizeTypeKey(te)
	seen := a.genericSeen[te.Base]
	if seen == nil {
		seen = map[genericKey]bool{}
		a.genericSeen[te.Base] = seen
	}
	if seen[key] {
		return
	}
	seen[key] = true
	a.genericInstances[te.Base] = append(a.genericInstances[te.Base], te.GenericArgs)

	info, ok := a.classTable[te.Base]
	if !ok {
		return
	}
	if len(info.GenericParams) != len(te.GenericArgs) {
		a.errorAt(te.Position, "generic type %q expects %d argument(s), got %d", te.Base, len(info.GenericParams), len(te.GenericArgs))
		return
	}
	subst := bindGenericParams(info.GenericParams, te.GenericArgs)
	for _, mname := range info.MethodOrder {
		m := info.Methods[mname]
		if m.ReturnType == nil {
			continue
		}
		substituted := substituteType(m.ReturnType, subst)
		if len(substituted.GenericArgs) > 0 {
			a.collectGenericInstances(substituted)
		}
	}
}
