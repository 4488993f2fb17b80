package analyzer

import (
	"github.com/schiffy91/btrc-sub001/internal/ast"
	"github.com/schiffy91/btrc-sub001/internal/util"
)

// computeCyclableFlags builds a directed graph from each class to the
// classes reachable through its fields (including generic container
// arguments, since "List<Node>" holds Node references just as surely as a
// direct field would) and marks IsCyclable on every class that can reach
// itself, directly via a self-referencing field or indirectly via a
// cycle through one or more other classes. This is the fixed point the
// later ARC pass consults to decide which classes need cycle-breaking
// (weak references) rather than plain reference counting.
func (a *Analyzer) computeCyclableFlags() {
	graph := make(map[string]util.Set[string], len(a.classTable))
	for name, info := range a.classTable {
		refs := util.NewSet[string]()
		for _, fname := range info.FieldOrder {
			f := info.Fields[fname]
			collectClassRefs(f.Type, a.classTable, refs)
		}
		graph[name] = refs
	}

	for name, info := range a.classTable {
		info.IsCyclable = reachesSelf(name, graph)
	}
}

// collectClassRefs walks te (and its generic arguments) collecting every
// base name that names a known class, regardless of pointer depth.
func collectClassRefs(te *ast.TypeExpr, classTable map[string]*ClassInfo, out util.Set[string]) {
	if te == nil {
		return
	}
	if _, ok := classTable[te.Base]; ok {
		out.Add(te.Base)
	}
	for _, arg := range te.GenericArgs {
		collectClassRefs(arg, classTable, out)
	}
}

// reachesSelf reports whether a directed-graph walk from start, following
// graph edges, ever returns to start.
func reachesSelf(start string, graph map[string]util.Set[string]) bool {
	visited := util.NewSet[string]()
	var walk func(cur string) bool
	walk = func(cur string) bool {
		for next := range graph[cur] {
			if next == start {
				return true
			}
			if visited.Has(next) {
				continue
			}
			visited.Add(next)
			if walk(next) {
				return true
			}
		}
		return false
	}
	return walk(start)
}
