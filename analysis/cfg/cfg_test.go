package cfg

import (
	"os"
	"testing"

	"github.com/caterinaurban/lyra/analysis/ir"
	"github.com/caterinaurban/lyra/utils"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	utils.SetNoColorize(true)
	os.Exit(m.Run())
}

// buildLoop builds
//
//	i = 0; while i < n: i = i + 1; print(i)
func buildLoop(t *testing.T) *Graph {
	b := NewBuilder()
	start := b.AddNode(ir.Assign{Target: "i", Value: ir.C(0)})
	head := b.AddNode()
	body := b.AddNode(ir.Assign{Target: "i", Value: ir.Bin(ir.Add, ir.V("i"), ir.C(1))})
	exit := b.AddNode(ir.ExprStmt{X: ir.Call{Func: "print", Args: []ir.Expr{ir.V("i")}}})

	b.Jump(start, head)
	b.Branch(head, ir.Bin(ir.Lt, ir.V("i"), ir.V("n")), body, exit)
	b.AddEdge(body, head, Back, nil)
	b.SetEntry(start)
	b.AddExit(exit)

	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func TestBuildErrors(t *testing.T) {
	cond := ir.Bin(ir.Gt, ir.V("x"), ir.C(0))

	tests := []struct {
		name     string
		build    func(b *Builder)
		expected error
	}{
		{"NoEntry", func(b *Builder) {
			b.AddNode()
		}, ErrNoEntry},
		{"DuplicateEntry", func(b *Builder) {
			n := b.AddNode()
			b.SetEntry(n)
			b.SetEntry(n)
		}, ErrDuplicateEntry},
		{"UnknownEntry", func(b *Builder) {
			b.SetEntry(3)
		}, ErrUnknownNode},
		{"UnknownSuccessor", func(b *Builder) {
			n := b.AddNode()
			b.SetEntry(n)
			b.Jump(n, 7)
		}, ErrUnknownNode},
		{"UnknownExit", func(b *Builder) {
			n := b.AddNode()
			b.SetEntry(n)
			b.AddExit(-1)
		}, ErrUnknownNode},
		{"MissingCondition", func(b *Builder) {
			n, m := b.AddNode(), b.AddNode()
			b.SetEntry(n)
			b.AddEdge(n, m, True, nil)
		}, ErrMissingCondition},
		{"UnexpectedCondition", func(b *Builder) {
			n, m := b.AddNode(), b.AddNode()
			b.SetEntry(n)
			b.AddEdge(n, m, Unconditional, cond)
		}, ErrUnexpectedCondition},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b := NewBuilder()
			test.build(b)
			g, err := b.Build()
			assert.Nil(t, g)
			assert.ErrorIs(t, err, test.expected)
		})
	}
}

func TestLoopStructure(t *testing.T) {
	g := buildLoop(t)

	assert.Equal(t, NodeID(0), g.Entry())
	assert.Equal(t, []NodeID{3}, g.Exits())
	assert.Equal(t, []NodeID{1}, g.LoopHeads())
	assert.True(t, g.IsLoopHead(1))
	assert.False(t, g.IsLoopHead(0))

	assert.Equal(t, []NodeID{0, 2}, g.Predecessors(1))
	assert.Equal(t, []NodeID{2}, g.Predecessors(1, Back))
	assert.Equal(t, []NodeID{2, 3}, g.Successors(1))
	assert.Equal(t, []NodeID{3}, g.Successors(1, False))
	assert.Empty(t, g.Successors(3))

	assert.Equal(t, []NodeID{2, 3, 1, 0}, g.PostOrder())
	assert.Equal(t, []NodeID{0, 1, 3, 2}, g.ReversePostOrder())
	assert.Equal(t, map[NodeID]int{0: 0, 1: 1, 3: 2, 2: 3}, g.Order(true))
	assert.Equal(t, map[NodeID]int{2: 0, 3: 1, 1: 2, 0: 3}, g.Order(false))

	assert.True(t, g.Dominates(1, 2))
	assert.True(t, g.Dominates(0, 3))
	assert.False(t, g.Dominates(2, 3))
	assert.False(t, g.Irreducible())

	edge := g.OutEdges(1)[1]
	assert.Equal(t, False, edge.Kind)
	assert.Equal(t, "i >= n", edge.Assumption().String())
	assert.Nil(t, g.OutEdges(0)[0].Assumption())
}

func TestLoopHeadWithoutBackEdge(t *testing.T) {
	b := NewBuilder()
	n0, n1, n2 := b.AddNode(), b.AddNode(), b.AddNode()
	b.Jump(n0, n1)
	b.Jump(n1, n2)
	b.Jump(n2, n1)
	b.SetEntry(n0)

	g, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, []NodeID{n1}, g.LoopHeads())
	assert.Empty(t, g.Exits())
}

func TestIrreducible(t *testing.T) {
	b := NewBuilder()
	n0, n1, n2 := b.AddNode(), b.AddNode(), b.AddNode()
	b.Branch(n0, ir.Input{}, n1, n2)
	b.Jump(n1, n2)
	b.Jump(n2, n1)
	b.SetEntry(n0)

	g, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, []NodeID{n1}, g.LoopHeads())
	assert.True(t, g.Irreducible())
}

func TestUnreachable(t *testing.T) {
	b := NewBuilder()
	n0, n1, dead := b.AddNode(), b.AddNode(), b.AddNode()
	b.Jump(n0, n1)
	b.Jump(dead, n1)
	b.SetEntry(n0)
	b.AddExit(n1)

	g, err := b.Build()
	require.NoError(t, err)
	assert.False(t, g.Reachable(dead))
	assert.NotContains(t, g.ReversePostOrder(), dead)
	assert.Equal(t, 2, g.Order(true)[dead])
	assert.Equal(t, []NodeID{n0, dead}, g.Predecessors(n1))
}

func TestCompress(t *testing.T) {
	x, y := ir.V("x"), ir.V("y")

	b := NewBuilder()
	n0 := b.AddNode(ir.Assign{Target: "x", Value: ir.C(1)})
	n1 := b.AddNode(ir.Assign{Target: "y", Value: ir.C(2)})
	n2 := b.AddNode()
	n3 := b.AddNode(ir.Assign{Target: "x", Value: y})
	n4 := b.AddNode(ir.Assign{Target: "y", Value: x})
	n5 := b.AddNode(ir.ExprStmt{X: ir.Call{Func: "print", Args: []ir.Expr{x}}})
	b.Jump(n0, n1)
	b.Jump(n1, n2)
	b.Branch(n2, ir.Bin(ir.Lt, x, y), n3, n4)
	b.Jump(n3, n5)
	b.Jump(n4, n5)
	b.SetEntry(n0)
	b.AddExit(n5)

	g, err := b.Build()
	require.NoError(t, err)

	c, mapping := Compress(g)
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, map[NodeID]NodeID{0: 0, 1: 0, 2: 0, 3: 1, 4: 2, 5: 3}, mapping)
	assert.Equal(t, "n0: x = 1; y = 2", c.Node(0).String())
	assert.Equal(t, []NodeID{1, 2}, c.Successors(0))
	assert.Equal(t, []NodeID{3}, c.Exits())
	assert.Equal(t, NodeID(0), c.Entry())

	t.Run("KeepsLoopHeads", func(t *testing.T) {
		loop := buildLoop(t)
		c, _ := Compress(loop)
		assert.Equal(t, loop.Len(), c.Len())
		assert.Equal(t, loop.LoopHeads(), c.LoopHeads())
	})
}

func TestGraphString(t *testing.T) {
	g := goldie.New(t)
	g.Assert(t, "loop", []byte(buildLoop(t).String()))
}

func TestToDot(t *testing.T) {
	g := buildLoop(t)
	dg := ToDot(g, "loop", func(n NodeID) string {
		return "visited"
	})

	require.Len(t, dg.Nodes, 4)
	require.Len(t, dg.Edges, 4)
	assert.Equal(t, "n1\nvisited", dg.Nodes[1].Attrs["label"])
	assert.Equal(t, "2", dg.Nodes[1].Attrs["peripheries"])
	assert.Equal(t, "i >= n", dg.Edges[2].Attrs["label"])
	assert.Equal(t, "dashed", dg.Edges[3].Attrs["style"])

	src, err := dg.Bytes()
	require.NoError(t, err)
	assert.Contains(t, string(src), `"n2" -> "n1"`)
}
