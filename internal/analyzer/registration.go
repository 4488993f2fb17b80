package analyzer

import (
	"sort"

	"github.com/schiffy91/btrc-sub001/internal/ast"
)

// registerDeclarations walks the top-level declarations twice: interfaces
// first (so class registration can see a complete interface table), then
// classes/functions/enums. Class registration itself needs the parent
// class's skeleton to already exist to copy down fields/methods, which is
// why forward-referenced parents are tolerated here and only rejected
// later in validateInheritance if the chain is genuinely broken or cyclic.
func (a *Analyzer) registerDeclarations(program *ast.Program) {
	for _, decl := range program.Decls {
		if iface, ok := decl.(*ast.InterfaceDecl); ok {
			a.registerInterface(iface)
		}
	}
	for _, decl := range program.Decls {
		switch d := decl.(type) {
		case *ast.ClassDecl:
			a.registerClass(d)
		case *ast.FunctionDecl:
			a.registerFunction(d)
		case *ast.EnumDecl:
			a.registerEnum(d)
		case *ast.RichEnumDecl:
			a.registerRichEnum(d)
		}
	}
}

func (a *Analyzer) registerInterface(decl *ast.InterfaceDecl) {
	if _, exists := a.interfaceTable[decl.Name]; exists {
		a.errorAt(decl.Position, "duplicate interface name %q", decl.Name)
		return
	}
	info := newInterfaceInfo(decl.Name)
	info.Parent = decl.Extends
	info.GenericParams = decl.GenericArgs
	for _, m := range decl.Methods {
		if _, dup := info.Methods[m.Name]; dup {
			a.errorAt(m.Position, "duplicate method %q in interface %q", m.Name, decl.Name)
			continue
		}
		info.Methods[m.Name] = m
		info.MethodOrder = append(info.MethodOrder, m.Name)
	}
	a.interfaceTable[decl.Name] = info
}

// resolveInterfaceParents inherits method signatures from each interface's
// parent interface, a second pass so single-parent interface chains
// resolve regardless of declaration order.
func (a *Analyzer) resolveInterfaceParents(program *ast.Program) {
	for _, decl := range program.Decls {
		id, ok := decl.(*ast.InterfaceDecl)
		if !ok || id.Extends == "" {
			continue
		}
		parent, ok := a.interfaceTable[id.Extends]
		if !ok {
			a.errorAt(id.Position, "Parent interface %q not found", id.Extends)
			continue
		}
		info, ok := a.interfaceTable[id.Name]
		if !ok {
			continue
		}
		visited := map[string]bool{id.Name: true}
		for anc := parent; anc != nil && !visited[anc.Name]; anc = a.interfaceTable[anc.Parent] {
			visited[anc.Name] = true
			for _, name := range anc.MethodOrder {
				if _, exists := info.Methods[name]; !exists {
					info.Methods[name] = anc.Methods[name]
					info.MethodOrder = append(info.MethodOrder, name)
				}
			}
		}
	}
}

func (a *Analyzer) registerClass(decl *ast.ClassDecl) {
	if _, exists := a.classTable[decl.Name]; exists {
		a.errorAt(decl.Position, "duplicate class name %q", decl.Name)
		return
	}
	info := newClassInfo(decl.Name)
	info.GenericParams = decl.GenericArgs
	info.Parent = decl.Extends
	info.Interfaces = decl.Implements
	info.IsAbstract = decl.IsAbstract
	a.classTable[decl.Name] = info

	if decl.Extends != "" {
		if parent, ok := a.classTable[decl.Extends]; ok {
			for _, name := range parent.FieldOrder {
				info.Fields[name] = parent.Fields[name]
				info.FieldOrder = append(info.FieldOrder, name)
			}
			for _, name := range parent.MethodOrder {
				info.Methods[name] = parent.Methods[name]
				info.MethodOrder = append(info.MethodOrder, name)
			}
			for _, name := range parent.PropertyOrder {
				info.Properties[name] = parent.Properties[name]
				info.PropertyOrder = append(info.PropertyOrder, name)
			}
		}
	}

	declaredFields := map[string]bool{}
	for _, f := range decl.Fields {
		if declaredFields[f.Name] {
			a.errorAt(f.Position, "duplicate field %q in class %q", f.Name, decl.Name)
			continue
		}
		declaredFields[f.Name] = true
		if _, inherited := info.Fields[f.Name]; !inherited {
			info.FieldOrder = append(info.FieldOrder, f.Name)
		}
		info.Fields[f.Name] = f
	}
	declaredMethods := map[string]bool{}
	for _, m := range decl.Methods {
		if declaredMethods[m.Name] {
			a.errorAt(m.Position, "duplicate method %q in class %q", m.Name, decl.Name)
			continue
		}
		declaredMethods[m.Name] = true
		if _, inherited := info.Methods[m.Name]; !inherited {
			info.MethodOrder = append(info.MethodOrder, m.Name)
		}
		info.Methods[m.Name] = m
	}
	declaredProps := map[string]bool{}
	for _, p := range decl.Properties {
		if declaredProps[p.Name] {
			a.errorAt(p.Position, "duplicate property %q in class %q", p.Name, decl.Name)
			continue
		}
		declaredProps[p.Name] = true
		if _, inherited := info.Properties[p.Name]; !inherited {
			info.PropertyOrder = append(info.PropertyOrder, p.Name)
		}
		info.Properties[p.Name] = p
	}
	if decl.Constructor != nil {
		info.Constructor = decl.Constructor
	}
}

// registerFunction coalesces a forward declaration (body-less) with its
// later defining declaration of the same name; two body-ful declarations
// of the same name is a duplicate-name error.
func (a *Analyzer) registerFunction(decl *ast.FunctionDecl) {
	existing, exists := a.functionTable[decl.Name]
	if !exists {
		a.functionTable[decl.Name] = decl
		return
	}
	if existing.Body == nil && decl.Body != nil {
		a.functionTable[decl.Name] = decl
		return
	}
	if existing.Body != nil && decl.Body == nil {
		return // forward decl following the definition; keep the definition
	}
	a.errorAt(decl.Position, "duplicate function name %q", decl.Name)
}

func (a *Analyzer) registerEnum(decl *ast.EnumDecl) {
	if _, exists := a.enumTable[decl.Name]; exists {
		a.errorAt(decl.Position, "duplicate enum name %q", decl.Name)
		return
	}
	var values []string
	for _, v := range decl.Values {
		values = append(values, v.Name)
	}
	a.enumTable[decl.Name] = values
}

func (a *Analyzer) registerRichEnum(decl *ast.RichEnumDecl) {
	if _, exists := a.richEnumTable[decl.Name]; exists {
		a.errorAt(decl.Position, "duplicate enum name %q", decl.Name)
		return
	}
	a.richEnumTable[decl.Name] = decl
}

// validateInheritance checks that every class's declared parent exists and
// that the parent chain is acyclic, walking up from each class and
// recording visited names. It iterates the declarations, not the class
// table, so diagnostics come out in source order.
func (a *Analyzer) validateInheritance(program *ast.Program) {
	for _, decl := range program.Decls {
		cd, ok := decl.(*ast.ClassDecl)
		if !ok || cd.Extends == "" {
			continue
		}
		if _, ok := a.classTable[cd.Extends]; !ok {
			a.errorAt(cd.Position, "Parent class %q not found", cd.Extends)
			continue
		}
		visited := map[string]bool{cd.Name: true}
		cur := cd.Extends
		for cur != "" {
			if visited[cur] {
				a.errorAt(cd.Position, "Circular inheritance detected: %q -> %q", cd.Name, cur)
				break
			}
			visited[cur] = true
			parent, ok := a.classTable[cur]
			if !ok {
				break
			}
			cur = parent.Parent
		}
	}
}

// validateInterfaces checks that every interface a class implements is
// fully and compatibly implemented, and that abstract parent methods are
// implemented by non-abstract descendants.
func (a *Analyzer) validateInterfaces(program *ast.Program) {
	for _, decl := range program.Decls {
		cd, ok := decl.(*ast.ClassDecl)
		if !ok {
			continue
		}
		info, ok := a.classTable[cd.Name]
		if !ok {
			continue
		}
		for _, ifaceName := range info.Interfaces {
			iface, ok := a.interfaceTable[ifaceName]
			if !ok {
				continue
			}
			for _, mname := range iface.MethodOrder {
				sig := iface.Methods[mname]
				impl, has := info.Methods[mname]
				if !has {
					a.errorAt(cd.Position, "class %q does not implement method %q required by interface %q", info.Name, mname, ifaceName)
					continue
				}
				if !a.signatureCompatibleWithSig(impl, sig) {
					a.errorAt(impl.Position, "method %q in class %q has a signature incompatible with interface %q", mname, info.Name, ifaceName)
				}
			}
		}
		if info.IsAbstract {
			continue
		}
		for _, mname := range info.MethodOrder {
			if m := info.Methods[mname]; m.IsAbstract {
				a.errorAt(cd.Position, "non-abstract class %q does not implement abstract method %q", info.Name, mname)
			}
		}
	}
}

// validateOverrides checks that a method shadowing a parent method of the
// same name has a compatible signature.
func (a *Analyzer) validateOverrides(program *ast.Program) {
	for _, decl := range program.Decls {
		cd, ok := decl.(*ast.ClassDecl)
		if !ok {
			continue
		}
		info, ok := a.classTable[cd.Name]
		if !ok || info.Parent == "" {
			continue
		}
		parent, ok := a.classTable[info.Parent]
		if !ok {
			continue
		}
		for _, mname := range info.MethodOrder {
			m := info.Methods[mname]
			pm, has := parent.Methods[mname]
			if !has || pm == m {
				continue
			}
			if !a.signatureCompatible(m, pm) {
				a.errorAt(m.Position, "method %q in class %q is not signature-compatible with the overridden method in %q", mname, info.Name, info.Parent)
			}
		}
	}
}

func (a *Analyzer) signatureCompatible(m, parent *ast.MethodDecl) bool {
	if len(m.Params) != len(parent.Params) {
		return false
	}
	if !a.typesCompatibleReturn(m.ReturnType, parent.ReturnType) {
		return false
	}
	for i := range m.Params {
		if !a.typesCompatible(parent.Params[i].Type, m.Params[i].Type) {
			return false
		}
	}
	return true
}

func (a *Analyzer) signatureCompatibleWithSig(m *ast.MethodDecl, sig *ast.MethodSig) bool {
	if len(m.Params) != len(sig.Params) {
		return false
	}
	if !a.typesCompatibleReturn(m.ReturnType, sig.ReturnType) {
		return false
	}
	for i := range m.Params {
		if !a.typesCompatible(sig.Params[i].Type, m.Params[i].Type) {
			return false
		}
	}
	return true
}

func (a *Analyzer) typesCompatibleReturn(a1, a2 *ast.TypeExpr) bool {
	if a1 == nil || a2 == nil {
		return a1 == a2
	}
	return a.typesCompatible(a2, a1)
}

// sortedStrings is a small helper used by exhaustiveness diagnostics that
// must list missing names in alphabetical order.
func sortedStrings(ss []string) []string {
	out := append([]string(nil), ss...)
	sort.Strings(out)
	return out
}
