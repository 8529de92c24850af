package cfg

import (
	"github.com/caterinaurban/lyra/analysis/ir"

	"github.com/pkg/errors"
)

var (
	ErrUnknownNode         = errors.New("unknown node")
	ErrNoEntry             = errors.New("missing entry node")
	ErrDuplicateEntry      = errors.New("entry node set more than once")
	ErrMissingCondition    = errors.New("conditional edge without a condition")
	ErrUnexpectedCondition = errors.New("unconditional edge with a condition")
)

// Builder accumulates the nodes and edges of a control-flow graph.
// Structural problems are reported by Build.
type Builder struct {
	nodes   []*Node
	edges   []Edge
	entries []NodeID
	exits   []NodeID
}

func NewBuilder() *Builder {
	return &Builder{}
}

// AddNode creates a basic block with the given statements.
func (b *Builder) AddNode(stmts ...ir.Stmt) NodeID {
	id := NodeID(len(b.nodes))
	b.nodes = append(b.nodes, &Node{ID: id, Stmts: stmts})
	return id
}

// AddEdge connects two nodes. True and False edges require a condition,
// and unconditional edges must not have one.
func (b *Builder) AddEdge(from, to NodeID, kind EdgeKind, cond ir.Expr) {
	b.edges = append(b.edges, Edge{From: from, To: to, Kind: kind, Cond: cond})
}

// Jump adds an unconditional edge.
func (b *Builder) Jump(from, to NodeID) {
	b.AddEdge(from, to, Unconditional, nil)
}

// Branch adds a True edge to then and a False edge to els, both guarded by cond.
func (b *Builder) Branch(from NodeID, cond ir.Expr, then, els NodeID) {
	b.AddEdge(from, then, True, cond)
	b.AddEdge(from, els, False, cond)
}

// SetEntry marks the entry node. It must be called exactly once.
func (b *Builder) SetEntry(n NodeID) {
	b.entries = append(b.entries, n)
}

// AddExit marks an exit node.
func (b *Builder) AddExit(n NodeID) {
	for _, e := range b.exits {
		if e == n {
			return
		}
	}
	b.exits = append(b.exits, n)
}

func (b *Builder) known(n NodeID) bool {
	return n >= 0 && int(n) < len(b.nodes)
}

func (b *Builder) validate() error {
	switch len(b.entries) {
	case 0:
		return ErrNoEntry
	case 1:
	default:
		return errors.Wrapf(ErrDuplicateEntry, "entries %v", b.entries)
	}
	if !b.known(b.entries[0]) {
		return errors.Wrapf(ErrUnknownNode, "entry %s", b.entries[0])
	}

	for _, n := range b.exits {
		if !b.known(n) {
			return errors.Wrapf(ErrUnknownNode, "exit %s", n)
		}
	}

	for _, e := range b.edges {
		switch {
		case !b.known(e.From):
			return errors.Wrapf(ErrUnknownNode, "source of edge %s", e)
		case !b.known(e.To):
			return errors.Wrapf(ErrUnknownNode, "target of edge %s", e)
		case (e.Kind == True || e.Kind == False) && e.Cond == nil:
			return errors.Wrapf(ErrMissingCondition, "edge %s", e)
		case e.Kind == Unconditional && e.Cond != nil:
			return errors.Wrapf(ErrUnexpectedCondition, "edge %s", e)
		case e.Kind > Back:
			return errors.Errorf("edge %s has an unknown kind", e)
		}
	}
	return nil
}

// Build validates the accumulated graph and freezes it.
func (b *Builder) Build() (*Graph, error) {
	if err := b.validate(); err != nil {
		return nil, errors.WithMessage(err, "malformed control-flow graph")
	}

	g := &Graph{
		nodes: make([]*Node, len(b.nodes)),
		entry: b.entries[0],
		exits: append([]NodeID(nil), b.exits...),
		out:   make([][]Edge, len(b.nodes)),
		in:    make([][]Edge, len(b.nodes)),
	}
	for i, n := range b.nodes {
		g.nodes[i] = &Node{ID: n.ID, Stmts: append([]ir.Stmt(nil), n.Stmts...)}
	}
	for _, e := range b.edges {
		g.out[e.From] = append(g.out[e.From], e)
		g.in[e.To] = append(g.in[e.To], e)
	}

	g.analyzeStructure()
	return g, nil
}
