package analyzer

import (
	"golang.org/x/tools/go/callgraph"
	"golang.org/x/tools/go/ssa"
)

// ReachableFunctions returns the roots and every function reachable from
// them in g. Closures count as reachable from the function that defines
// them.
func ReachableFunctions(g *callgraph.Graph, roots []*ssa.Function) map[*ssa.Function]bool {
	reachable := make(map[*ssa.Function]bool)
	var visit func(fn *ssa.Function)
	visit = func(fn *ssa.Function) {
		if fn == nil || reachable[fn] {
			return
		}
		reachable[fn] = true
		if n := g.Nodes[fn]; n != nil {
			for _, e := range n.Out {
				visit(e.Callee.Func)
			}
		}
		for _, anonFn := range fn.AnonFuncs {
			visit(anonFn)
		}
	}
	for _, fn := range roots {
		visit(fn)
	}
	return reachable
}
