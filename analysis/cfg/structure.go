package cfg

import "golang.org/x/exp/slices"

// analyzeStructure computes the traversal orders, the dominator tree and
// the loop heads of the graph.
func (g *Graph) analyzeStructure() {
	G := g.successorGraph()

	g.po = G.PostOrder(g.entry)
	g.rpo = G.ReversePostOrder(g.entry)
	g.dom = G.Dominators(g.entry)

	rank := make(map[NodeID]int, len(g.rpo))
	for i, n := range g.rpo {
		rank[n] = i
	}

	g.loopHeads = make(map[NodeID]bool)
	for _, edges := range g.out {
		for _, e := range edges {
			if e.Kind == Back {
				g.loopHeads[e.To] = true
				continue
			}
			// Retreating edges with respect to the depth-first traversal
			// close a cycle. Every cycle reachable from the entry contains one.
			from, fok := rank[e.From]
			to, tok := rank[e.To]
			if fok && tok && to <= from {
				g.loopHeads[e.To] = true
			}
		}
	}
}

// LoopHeads lists the widening points of the graph in increasing order:
// the targets of Back edges and of edges that close a cycle.
func (g *Graph) LoopHeads() []NodeID {
	res := make([]NodeID, 0, len(g.loopHeads))
	for n := range g.loopHeads {
		res = append(res, n)
	}
	slices.Sort(res)
	return res
}

// IsLoopHead checks whether n is a widening point.
func (g *Graph) IsLoopHead(n NodeID) bool {
	return g.loopHeads[n]
}

// Reachable checks whether n can be reached from the entry.
func (g *Graph) Reachable(n NodeID) bool {
	return g.dom.Reachable(n)
}

// Dominates checks whether every path from the entry to b passes through a.
func (g *Graph) Dominates(a, b NodeID) bool {
	return g.dom.Dominates(a, b)
}

// Irreducible checks whether some cycle can be entered at more than one
// node, i.e. some edge closes a cycle without targeting a dominator of
// its source.
func (g *Graph) Irreducible() bool {
	for _, edges := range g.out {
		for _, e := range edges {
			if g.loopHeads[e.To] && g.Reachable(e.From) && g.closesCycle(e) && !g.Dominates(e.To, e.From) {
				return true
			}
		}
	}
	return false
}

func (g *Graph) closesCycle(e Edge) bool {
	return slices.Index(g.rpo, e.To) <= slices.Index(g.rpo, e.From)
}

// PostOrder lists the nodes reachable from the entry in depth-first post-order.
func (g *Graph) PostOrder() []NodeID {
	return slices.Clone(g.po)
}

// ReversePostOrder lists the nodes reachable from the entry in reverse post-order.
func (g *Graph) ReversePostOrder() []NodeID {
	return slices.Clone(g.rpo)
}

// Order assigns every node its priority for a worklist traversal: reverse
// post-order for forward analyses and post-order for backward ones.
// Nodes unreachable from the entry come last, in increasing order.
func (g *Graph) Order(forward bool) map[NodeID]int {
	seq := g.po
	if forward {
		seq = g.rpo
	}

	order := make(map[NodeID]int, len(g.nodes))
	for i, n := range seq {
		order[n] = i
	}
	for _, n := range g.Nodes() {
		if _, found := order[n]; !found {
			order[n] = len(order)
		}
	}
	return order
}
