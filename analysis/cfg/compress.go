package cfg

import (
	"github.com/caterinaurban/lyra/analysis/ir"

	uf "github.com/spakin/disjoint"
)

// mergeable checks whether the target of the only edge leaving n may be
// appended to the block of n.
func (g *Graph) mergeable(n NodeID) (NodeID, bool) {
	if len(g.out[n]) != 1 || g.IsExit(n) || !g.Reachable(n) {
		return 0, false
	}
	e := g.out[n][0]
	switch {
	case e.Kind != Unconditional,
		e.To == n,
		e.To == g.entry,
		len(g.in[e.To]) != 1,
		g.loopHeads[e.To]:
		return 0, false
	}
	return e.To, true
}

// Compress merges straight-line chains of nodes into single blocks: a node
// is absorbed into its predecessor when it is the only, unconditional
// successor of that predecessor, which in turn is its only predecessor.
// Entries, exits, loop heads and unreachable nodes keep their own blocks.
//
// Compress returns the new graph and, for every node of g, the node of the
// new graph containing its statements.
func Compress(g *Graph) (*Graph, map[NodeID]NodeID) {
	elements := make([]*uf.Element, len(g.nodes))
	for i := range elements {
		elements[i] = uf.NewElement()
	}

	absorbed := make([]bool, len(g.nodes))
	next := make(map[NodeID]NodeID)
	for _, n := range g.Nodes() {
		if succ, ok := g.mergeable(n); ok {
			uf.Union(elements[n], elements[succ])
			absorbed[succ] = true
			next[n] = succ
		}
	}

	b := NewBuilder()
	heads := make(map[*uf.Element]NodeID)
	tails := make(map[NodeID]NodeID)
	for _, n := range g.Nodes() {
		if absorbed[n] {
			continue
		}

		stmts := []ir.Stmt{}
		tail := n
		for {
			stmts = append(stmts, g.nodes[tail].Stmts...)
			succ, ok := next[tail]
			if !ok {
				break
			}
			tail = succ
		}

		id := b.AddNode(stmts...)
		heads[elements[n].Find()] = id
		tails[id] = tail
	}

	mapping := make(map[NodeID]NodeID, len(g.nodes))
	for _, n := range g.Nodes() {
		mapping[n] = heads[elements[n].Find()]
	}

	for id := NodeID(0); int(id) < len(heads); id++ {
		for _, e := range g.out[tails[id]] {
			b.AddEdge(id, mapping[e.To], e.Kind, e.Cond)
		}
	}
	b.SetEntry(mapping[g.entry])
	for _, x := range g.exits {
		b.AddExit(mapping[x])
	}

	res, err := b.Build()
	if err != nil {
		// The input graph was already validated.
		panic(err)
	}
	return res, mapping
}
