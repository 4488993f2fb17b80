package analyzer

import (
	"fmt"
	"strings"

	"github.com/schiffy91/btrc-sub001/internal/ast"
)

var numericBases = map[string]bool{"int": true, "float": true, "double": true, "char": true}

// normalizeTypeKey renders te into a structural, position-independent key
// used to deduplicate generic-instance registrations and to compare two
// TypeExprs for equality regardless of where they appear in source.
func normalizeTypeKey(te *ast.TypeExpr) genericKey {
	if te == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(te.Base)
	if len(te.GenericArgs) > 0 {
		b.WriteByte('<')
		for i, arg := range te.GenericArgs {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(string(normalizeTypeKey(arg)))
		}
		b.WriteByte('>')
	}
	fmt.Fprintf(&b, "|%d|%v|%v|%v", te.PointerDepth, te.Nullable, te.IsConst, te.IsArray)
	return genericKey(b.String())
}

// formatType renders te as "base<args>***?" for diagnostic messages.
func formatType(te *ast.TypeExpr) string {
	if te == nil {
		return "<unknown>"
	}
	var b strings.Builder
	b.WriteString(te.Base)
	if len(te.GenericArgs) > 0 {
		b.WriteByte('<')
		for i, arg := range te.GenericArgs {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(formatType(arg))
		}
		b.WriteByte('>')
	}
	for i := 0; i < te.PointerDepth; i++ {
		b.WriteByte('*')
	}
	if te.Nullable {
		b.WriteByte('?')
	}
	if te.IsArray {
		b.WriteString("[]")
	}
	return b.String()
}

func typeEqualIgnoringPosition(a, b *ast.TypeExpr) bool {
	return normalizeTypeKey(a) == normalizeTypeKey(b)
}

// typesCompatible implements "source may be assigned to target" per the
// rules: same base compares generic args pairwise; the numeric set is
// mutually compatible; string<->char* is compatible; null/void* is
// compatible with any pointer or string; user classes are compatible
// through the subclass/interface chain; everything else known is
// incompatible, and unknown pairs are conservatively compatible.
func (a *Analyzer) typesCompatible(target, source *ast.TypeExpr) bool {
	if target == nil || source == nil {
		return true
	}
	if target.Base == source.Base {
		if len(target.GenericArgs) != len(source.GenericArgs) {
			return false
		}
		for i := range target.GenericArgs {
			if !a.typesCompatible(target.GenericArgs[i], source.GenericArgs[i]) {
				return false
			}
		}
		return true
	}
	if numericBases[target.Base] && numericBases[source.Base] {
		return true
	}
	if target.Base == "string" && source.Base == "char" && source.PointerDepth >= 1 {
		return true
	}
	if source.Base == "string" && target.Base == "char" && target.PointerDepth >= 1 {
		return true
	}
	if source.Base == "void" && source.PointerDepth >= 1 {
		if target.PointerDepth >= 1 || target.Base == "string" {
			return true
		}
	}
	if _, ok := a.classTable[source.Base]; ok {
		if a.isSubclass(source.Base, target.Base) {
			return true
		}
	}
	if isKnownPrimitive(target.Base) && isKnownPrimitive(source.Base) {
		return false
	}
	return true
}

var knownPrimitives = map[string]bool{
	"int": true, "float": true, "double": true, "char": true, "bool": true,
	"void": true, "string": true, "short": true, "long": true,
	"unsigned": true, "signed": true,
}

func isKnownPrimitive(base string) bool {
	return knownPrimitives[base]
}

// isSubclass reports whether child is parent, or descends from parent via
// the class parent chain, or implements parent as an interface (directly
// or through an interface's own parent chain).
func (a *Analyzer) isSubclass(child, parent string) bool {
	if child == parent {
		return true
	}
	cur := child
	visited := map[string]bool{}
	for cur != "" && !visited[cur] {
		visited[cur] = true
		info, ok := a.classTable[cur]
		if !ok {
			break
		}
		for _, iface := range info.Interfaces {
			if a.isSubInterface(iface, parent) {
				return true
			}
		}
		if info.Parent == parent {
			return true
		}
		cur = info.Parent
	}
	return false
}

func (a *Analyzer) isSubInterface(child, parent string) bool {
	cur := child
	visited := map[string]bool{}
	for cur != "" && !visited[cur] {
		if cur == parent {
			return true
		}
		visited[cur] = true
		info, ok := a.interfaceTable[cur]
		if !ok {
			break
		}
		cur = info.Parent
	}
	return false
}

// substituteType recursively replaces generic parameter names (leaves of
// te matching an entry in subst) with their bound argument, preserving any
// additional pointer depth te itself carries. Recursion terminates because
// substituted arguments never reintroduce a name present in subst.
func substituteType(te *ast.TypeExpr, subst map[string]*ast.TypeExpr) *ast.TypeExpr {
	if te == nil {
		return nil
	}
	if bound, ok := subst[te.Base]; ok && len(te.GenericArgs) == 0 {
		out := *bound
		out.PointerDepth += te.PointerDepth
		if te.Nullable {
			out.Nullable = true
		}
		if te.IsArray {
			out.IsArray = true
			out.ArraySize = te.ArraySize
		}
		return &out
	}
	out := *te
	if len(te.GenericArgs) > 0 {
		out.GenericArgs = make([]*ast.TypeExpr, len(te.GenericArgs))
		for i, arg := range te.GenericArgs {
			out.GenericArgs[i] = substituteType(arg, subst)
		}
	}
	return &out
}

func bindGenericParams(params []string, args []*ast.TypeExpr) map[string]*ast.TypeExpr {
	subst := make(map[string]*ast.TypeExpr, len(params))
	for i, p := range params {
		if i < len(args) {
			subst[p] = args[i]
		}
	}
	return subst
}

// stringMethodReturnType is the intrinsics table for string/char* built-in
// methods the analyzer must type without a declared signature.
var stringMethodReturnType = map[string]string{
	"len": "int", "byteLen": "int", "charLen": "int",
	"contains": "bool", "startsWith": "bool", "endsWith": "bool", "equals": "bool",
	"indexOf": "int", "lastIndexOf": "int", "isEmpty": "bool",
	"toUpper": "string", "toLower": "string", "trim": "string",
	"trimStart": "string", "trimEnd": "string", "replace": "string",
	"substring": "string", "charAt": "char", "concat": "string",
	"repeat": "string", "reverse": "string", "padStart": "string", "padEnd": "string",
	"toInt": "int", "toFloat": "float", "toString": "string",
}

// split is the one string method whose return type is a pointer (an array
// of substrings), called out separately since the table above holds bare
// base names.
const stringSplitMethod = "split"

func stringMethodType(name string) *ast.TypeExpr {
	if name == stringSplitMethod {
		return &ast.TypeExpr{Base: "string", PointerDepth: 1}
	}
	if base, ok := stringMethodReturnType[name]; ok {
		return &ast.TypeExpr{Base: base}
	}
	return nil
}

// collectionArity reports the number of generic parameters the named
// built-in generic container intrinsically carries, used to decide whether
// IndexExpr yields the first or second generic argument.
func collectionArity(base string) int {
	switch base {
	case "Vector", "List", "Thread", "Mutex":
		return 1
	case "Map":
		return 2
	}
	return 0
}
