// Package cfg models the control-flow graphs handed to the interpreter.
// Graphs are built once with a Builder and are immutable afterwards.
package cfg

import (
	"fmt"
	"strings"

	"github.com/caterinaurban/lyra/analysis/ir"
	"github.com/caterinaurban/lyra/utils/graph"
)

// NodeID identifies a node within its graph.
type NodeID int

func (n NodeID) String() string {
	return fmt.Sprintf("n%d", int(n))
}

// EdgeKind labels the edges of a control-flow graph.
type EdgeKind uint8

const (
	Unconditional EdgeKind = iota
	// True is taken when the condition of the edge holds.
	True
	// False is taken when the condition of the edge does not hold.
	False
	// Back closes a loop. It may carry the loop condition.
	Back
)

func (k EdgeKind) String() string {
	switch k {
	case Unconditional:
		return "unconditional"
	case True:
		return "true"
	case False:
		return "false"
	case Back:
		return "back"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Node is a basic block: an ordered sequence of statements.
type Node struct {
	ID    NodeID
	Stmts []ir.Stmt
}

func (n *Node) String() string {
	if len(n.Stmts) == 0 {
		return n.ID.String()
	}
	strs := make([]string, len(n.Stmts))
	for i, s := range n.Stmts {
		strs[i] = s.String()
	}
	return n.ID.String() + ": " + strings.Join(strs, "; ")
}

// Edge is a labelled transition between two nodes.
type Edge struct {
	From, To NodeID
	Kind     EdgeKind
	// Cond is the branch condition of True and False edges, and optionally
	// of Back edges. Nil otherwise.
	Cond ir.Expr
}

// Assumption returns the condition known to hold when the edge is taken,
// or nil if the edge does not constrain the state.
func (e Edge) Assumption() ir.Expr {
	if e.Cond == nil {
		return nil
	}
	if e.Kind == False {
		return ir.Negate(e.Cond)
	}
	return e.Cond
}

func (e Edge) String() string {
	str := fmt.Sprintf("%s → %s", e.From, e.To)
	switch {
	case e.Cond != nil:
		return fmt.Sprintf("%s [%s: %s]", str, e.Kind, e.Cond)
	case e.Kind != Unconditional:
		return fmt.Sprintf("%s [%s]", str, e.Kind)
	}
	return str
}

// Graph is an immutable control-flow graph with exactly one entry node
// and zero or more exit nodes.
type Graph struct {
	nodes []*Node
	entry NodeID
	exits []NodeID

	out [][]Edge
	in  [][]Edge

	// Structural information computed once at construction.
	po        []NodeID
	rpo       []NodeID
	dom       graph.Dominators[NodeID]
	loopHeads map[NodeID]bool
}

// Entry returns the entry node.
func (g *Graph) Entry() NodeID {
	return g.entry
}

// Exits returns the exit nodes.
func (g *Graph) Exits() []NodeID {
	return append([]NodeID(nil), g.exits...)
}

// IsExit checks whether n is an exit node.
func (g *Graph) IsExit(n NodeID) bool {
	for _, e := range g.exits {
		if e == n {
			return true
		}
	}
	return false
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Nodes lists all node identifiers in increasing order.
func (g *Graph) Nodes() []NodeID {
	res := make([]NodeID, len(g.nodes))
	for i := range g.nodes {
		res[i] = NodeID(i)
	}
	return res
}

// Node returns the basic block with the given identifier.
func (g *Graph) Node(n NodeID) *Node {
	return g.nodes[n]
}

// OutEdges lists the edges leaving n.
func (g *Graph) OutEdges(n NodeID) []Edge {
	return g.out[n]
}

// InEdges lists the edges entering n.
func (g *Graph) InEdges(n NodeID) []Edge {
	return g.in[n]
}

func matches(e Edge, kinds []EdgeKind) bool {
	if len(kinds) == 0 {
		return true
	}
	for _, k := range kinds {
		if e.Kind == k {
			return true
		}
	}
	return false
}

// Successors lists the targets of edges leaving n. If kinds are given,
// only edges of those kinds are considered.
func (g *Graph) Successors(n NodeID, kinds ...EdgeKind) []NodeID {
	res := []NodeID{}
	for _, e := range g.out[n] {
		if matches(e, kinds) {
			res = append(res, e.To)
		}
	}
	return res
}

// Predecessors lists the sources of edges entering n. If kinds are given,
// only edges of those kinds are considered.
func (g *Graph) Predecessors(n NodeID, kinds ...EdgeKind) []NodeID {
	res := []NodeID{}
	for _, e := range g.in[n] {
		if matches(e, kinds) {
			res = append(res, e.From)
		}
	}
	return res
}

// successorGraph exposes the edge relation to the generic graph algorithms.
func (g *Graph) successorGraph() graph.Graph[NodeID] {
	return graph.OfHashable(func(n NodeID) []NodeID {
		return g.Successors(n)
	})
}

func (g *Graph) String() string {
	var sb strings.Builder
	for _, n := range g.nodes {
		sb.WriteString(n.String())
		switch {
		case n.ID == g.entry && g.IsExit(n.ID):
			sb.WriteString(" (entry, exit)")
		case n.ID == g.entry:
			sb.WriteString(" (entry)")
		case g.IsExit(n.ID):
			sb.WriteString(" (exit)")
		}
		sb.WriteString("\n")
		for _, e := range g.out[n.ID] {
			sb.WriteString("  " + e.String() + "\n")
		}
	}
	return sb.String()
}
