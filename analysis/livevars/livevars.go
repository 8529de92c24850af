package livevars

import (
	"github.com/caterinaurban/lyra/analysis/cfg"
	"github.com/caterinaurban/lyra/analysis/ir"
	"github.com/caterinaurban/lyra/analysis/semantics"
	"github.com/caterinaurban/lyra/utils/worklist"
)

// LiveVars computes the variables live on entry to every node of g with a
// round-robin worklist. Nothing is live at the exits. The result agrees with
// a backward run of the fixpoint interpreter over State, which needs no
// widening since the lattice is finite.
func LiveVars(g *cfg.Graph, vars ir.VarSet) map[cfg.NodeID]State {
	sem := semantics.Semantics[State]{}
	liveIn := make(map[cfg.NodeID]State, g.Len())
	for _, n := range g.Nodes() {
		liveIn[n] = Dead(vars)
	}

	transfer := func(n cfg.NodeID) State {
		out := Dead(vars)
		for _, e := range g.OutEdges(n) {
			out = out.Join(sem.Edge(semantics.Backward, e, liveIn[e.To]))
		}
		return sem.Block(semantics.Backward, g.Node(n).Stmts, out, nil)
	}

	// Every node is visited once, so that nodes that cannot reach an exit
	// still read their own variables.
	start := append(g.PostOrder(), unreached(g)...)

	worklist.StartV(start, func(n cfg.NodeID, add func(cfg.NodeID)) {
		up := transfer(n)
		if up.Leq(liveIn[n]) {
			return
		}
		liveIn[n] = liveIn[n].Join(up)
		for _, p := range g.Predecessors(n) {
			add(p)
		}
	})
	return liveIn
}

func unreached(g *cfg.Graph) (res []cfg.NodeID) {
	for _, n := range g.Nodes() {
		if !g.Reachable(n) {
			res = append(res, n)
		}
	}
	return
}
