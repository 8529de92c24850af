package testutil

import (
	"testing"

	"github.com/caterinaurban/lyra/analysis/cfg"
	"github.com/caterinaurban/lyra/analysis/ir"
	"github.com/caterinaurban/lyra/analysis/program"
)

// Scenario is a control-flow graph with the variables it mentions and
// named nodes of interest.
type Scenario struct {
	Name  string
	CFG   *cfg.Graph
	Vars  ir.VarSet
	Nodes map[string]cfg.NodeID
}

// Node returns the named node of the scenario.
func (s Scenario) Node(t *testing.T, name string) cfg.NodeID {
	t.Helper()
	n, found := s.Nodes[name]
	if !found {
		t.Fatalf("scenario %s has no node %s", s.Name, name)
	}
	return n
}

func build(t *testing.T, name string, b *cfg.Builder, nodes map[string]cfg.NodeID) Scenario {
	t.Helper()
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return Scenario{
		Name:  name,
		CFG:   g,
		Vars:  program.NewFunction(name, nil, "", g).Vars,
		Nodes: nodes,
	}
}

func assign(v ir.Var, e ir.Expr) ir.Stmt {
	return ir.Assign{Target: v, Value: e}
}

func printStmt(e ir.Expr) ir.Stmt {
	return ir.ExprStmt{X: ir.Call{Func: "print", Args: []ir.Expr{e}}}
}

// Straight builds
//
//	x = 3; y = 5; a = x + y
//	if a > 0: a = 2 * a
//	print(a)
func Straight(t *testing.T) Scenario {
	x, y, a := ir.V("x"), ir.V("y"), ir.V("a")

	b := cfg.NewBuilder()
	start := b.AddNode(
		assign("x", ir.C(3)),
		assign("y", ir.C(5)),
		assign("a", ir.Bin(ir.Add, x, y)))
	double := b.AddNode(assign("a", ir.Bin(ir.Mul, ir.C(2), a)))
	exit := b.AddNode(printStmt(a))

	b.Branch(start, ir.Bin(ir.Gt, a, ir.C(0)), double, exit)
	b.Jump(double, exit)
	b.SetEntry(start)
	b.AddExit(exit)

	return build(t, "straight", b, map[string]cfg.NodeID{
		"start":  start,
		"double": double,
		"exit":   exit,
	})
}

// Counter builds
//
//	[n = bound]; i = 0
//	while i < n: i = i + 1
//	print(i)
//
// The bound is only assigned if it is not nil.
func Counter(t *testing.T, bound ir.Expr) Scenario {
	i, n := ir.V("i"), ir.V("n")

	b := cfg.NewBuilder()
	stmts := []ir.Stmt{assign("i", ir.C(0))}
	if bound != nil {
		stmts = append([]ir.Stmt{assign("n", bound)}, stmts...)
	}
	start := b.AddNode(stmts...)
	head := b.AddNode()
	body := b.AddNode(assign("i", ir.Bin(ir.Add, i, ir.C(1))))
	exit := b.AddNode(printStmt(i))

	b.Jump(start, head)
	b.Branch(head, ir.Bin(ir.Lt, i, n), body, exit)
	b.AddEdge(body, head, cfg.Back, nil)
	b.SetEntry(start)
	b.AddExit(exit)

	return build(t, "counter", b, map[string]cfg.NodeID{
		"start": start,
		"head":  head,
		"body":  body,
		"exit":  exit,
	})
}

// SelfLoop builds a loop whose head is also its body
//
//	i = 0
//	while i < 100: i = i + 1
//
// with the condition on the back edge.
func SelfLoop(t *testing.T) Scenario {
	i := ir.V("i")
	cond := ir.Bin(ir.Lt, i, ir.C(100))

	b := cfg.NewBuilder()
	start := b.AddNode(assign("i", ir.C(0)))
	loop := b.AddNode(assign("i", ir.Bin(ir.Add, i, ir.C(1))))
	exit := b.AddNode(printStmt(i))

	b.Jump(start, loop)
	b.AddEdge(loop, loop, cfg.Back, cond)
	b.AddEdge(loop, exit, cfg.False, cond)
	b.SetEntry(start)
	b.AddExit(exit)

	return build(t, "self-loop", b, map[string]cfg.NodeID{
		"start": start,
		"loop":  loop,
		"exit":  exit,
	})
}

// DeadBranch builds
//
//	x = 0
//	if false: x = 1
//	print(x)
func DeadBranch(t *testing.T) Scenario {
	b := cfg.NewBuilder()
	start := b.AddNode(assign("x", ir.C(0)))
	dead := b.AddNode(assign("x", ir.C(1)))
	merge := b.AddNode(printStmt(ir.V("x")))

	b.Branch(start, ir.False, dead, merge)
	b.Jump(dead, merge)
	b.SetEntry(start)
	b.AddExit(merge)

	return build(t, "dead-branch", b, map[string]cfg.NodeID{
		"start": start,
		"dead":  dead,
		"merge": merge,
	})
}

// Nested builds
//
//	i = 0; s = 0
//	while i < 10:
//	  j = 0
//	  while j < i: j = j + 1; s = s + j
//	  i = i + 1
//	print(s)
func Nested(t *testing.T) Scenario {
	i, j, s := ir.V("i"), ir.V("j"), ir.V("s")

	b := cfg.NewBuilder()
	start := b.AddNode(assign("i", ir.C(0)), assign("s", ir.C(0)))
	outer := b.AddNode()
	reset := b.AddNode(assign("j", ir.C(0)))
	inner := b.AddNode()
	body := b.AddNode(assign("j", ir.Bin(ir.Add, j, ir.C(1))), assign("s", ir.Bin(ir.Add, s, j)))
	step := b.AddNode(assign("i", ir.Bin(ir.Add, i, ir.C(1))))
	exit := b.AddNode(printStmt(s))

	b.Jump(start, outer)
	b.Branch(outer, ir.Bin(ir.Lt, i, ir.C(10)), reset, exit)
	b.Jump(reset, inner)
	b.Branch(inner, ir.Bin(ir.Lt, j, i), body, step)
	b.AddEdge(body, inner, cfg.Back, nil)
	b.AddEdge(step, outer, cfg.Back, nil)
	b.SetEntry(start)
	b.AddExit(exit)

	return build(t, "nested", b, map[string]cfg.NodeID{
		"start": start,
		"outer": outer,
		"inner": inner,
		"body":  body,
		"step":  step,
		"exit":  exit,
	})
}

// Irreducible builds a cycle with two entries
//
//	x = input()
//	if x > 0: goto left else goto right
//	left:  x = x + 1; if x < 50 goto right else exit
//	right: x = x + 2; goto left
func Irreducible(t *testing.T) Scenario {
	x := ir.V("x")

	b := cfg.NewBuilder()
	start := b.AddNode(assign("x", ir.Input{}))
	left := b.AddNode(assign("x", ir.Bin(ir.Add, x, ir.C(1))))
	right := b.AddNode(assign("x", ir.Bin(ir.Add, x, ir.C(2))))
	exit := b.AddNode(printStmt(x))

	b.Branch(start, ir.Bin(ir.Gt, x, ir.C(0)), left, right)
	b.Branch(left, ir.Bin(ir.Lt, x, ir.C(50)), right, exit)
	b.Jump(right, left)
	b.SetEntry(start)
	b.AddExit(exit)

	return build(t, "irreducible", b, map[string]cfg.NodeID{
		"start": start,
		"left":  left,
		"right": right,
		"exit":  exit,
	})
}
