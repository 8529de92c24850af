package absint

import (
	"os"
	"testing"

	"github.com/caterinaurban/lyra/analysis/cfg"
	"github.com/caterinaurban/lyra/analysis/domains/interval"
	"github.com/caterinaurban/lyra/analysis/ir"
	L "github.com/caterinaurban/lyra/analysis/lattice"
	"github.com/caterinaurban/lyra/analysis/livevars"
	"github.com/caterinaurban/lyra/analysis/semantics"
	"github.com/caterinaurban/lyra/testutil"
	"github.com/caterinaurban/lyra/utils"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	utils.SetNoColorize(true)
	os.Exit(m.Run())
}

func intervals(t *testing.T, opts ...Option) *Interpreter[interval.State] {
	t.Helper()
	in, err := New(semantics.Semantics[interval.State]{}, opts...)
	require.NoError(t, err)
	return in
}

func runIntervals(t *testing.T, sc testutil.Scenario, opts ...Option) *Result[interval.State] {
	t.Helper()
	res, err := intervals(t, opts...).Run(sc.CFG, interval.Top(sc.Vars))
	require.NoError(t, err)
	require.False(t, res.Stats().Aborted, "analysis of %s did not terminate", sc.Name)
	return res
}

func TestStraight(t *testing.T) {
	sc := testutil.Straight(t)
	res := runIntervals(t, sc)

	exit := res.Exit()
	assert.Equal(t, "[3, 3]", exit.Get("x").String())
	assert.Equal(t, "[5, 5]", exit.Get("y").String())
	assert.Equal(t, "[16, 16]", exit.Get("a").String())
	assert.Equal(t, "[8, 8]", res.Entering(sc.Node(t, "double")).Get("a").String())

	assert.Zero(t, res.Stats().Widenings)
	assert.Zero(t, res.Stats().PrecisionLosses)

	goldie.New(t).Assert(t, "straight", []byte(res.String()))
}

func TestCounter(t *testing.T) {
	t.Run("UnknownBound", func(t *testing.T) {
		sc := testutil.Counter(t, nil)
		res := runIntervals(t, sc)

		assert.Equal(t, "[0, ∞]", res.Entering(sc.Node(t, "head")).Get("i").String())
		assert.Equal(t, "[0, ∞]", res.Entering(sc.Node(t, "exit")).Get("i").String())
		assert.Equal(t, "[1, ∞]", res.Exiting(sc.Node(t, "body")).Get("i").String())
		assert.Positive(t, res.Stats().Widenings)
	})

	t.Run("ConstantBound", func(t *testing.T) {
		sc := testutil.Counter(t, ir.C(10))
		res := runIntervals(t, sc)

		assert.Equal(t, "[0, 10]", res.Entering(sc.Node(t, "head")).Get("i").String())
		assert.Equal(t, "[0, 9]", res.Entering(sc.Node(t, "body")).Get("i").String())
		assert.Equal(t, "[10, 10]", res.Exit().Get("i").String())
		assert.Equal(t, 1, res.Stats().Narrowings)
	})

	t.Run("NoNarrowing", func(t *testing.T) {
		sc := testutil.Counter(t, ir.C(10))
		res := runIntervals(t, sc, WithNarrowing(0))

		assert.Equal(t, "[0, ∞]", res.Entering(sc.Node(t, "head")).Get("i").String())
		assert.Equal(t, "[10, ∞]", res.Exit().Get("i").String())
		assert.Zero(t, res.Stats().Narrowings)
	})

	t.Run("DelayedWidening", func(t *testing.T) {
		sc := testutil.Counter(t, ir.C(3))
		res := runIntervals(t, sc, WithWideningDelay(10), WithNarrowing(0))

		// The loop stabilizes before widening kicks in.
		assert.Zero(t, res.Stats().Widenings)
		assert.Equal(t, "[0, 3]", res.Entering(sc.Node(t, "head")).Get("i").String())
		assert.Equal(t, "[3, 3]", res.Exit().Get("i").String())
	})
}

func TestDeadBranch(t *testing.T) {
	sc := testutil.DeadBranch(t)
	res := runIntervals(t, sc)

	dead := sc.Node(t, "dead")
	assert.False(t, res.Reachable(dead))
	assert.True(t, res.Entering(dead).IsBot())
	assert.True(t, res.Exiting(dead).IsBot())
	for _, s := range res.StatementStates(dead) {
		assert.True(t, s.IsBot())
	}

	merge := sc.Node(t, "merge")
	assert.True(t, res.Reachable(merge))
	assert.Equal(t, "[0, 0]", res.Entering(merge).Get("x").String())
}

func TestTermination(t *testing.T) {
	t.Run("SelfLoop", func(t *testing.T) {
		sc := testutil.SelfLoop(t)
		res := runIntervals(t, sc)

		assert.Equal(t, "[0, 99]", res.Entering(sc.Node(t, "loop")).Get("i").String())
		assert.Equal(t, "[100, 100]", res.Exit().Get("i").String())
	})

	t.Run("Nested", func(t *testing.T) {
		sc := testutil.Nested(t)
		res := runIntervals(t, sc)

		outer := res.Entering(sc.Node(t, "outer")).Get("i")
		assert.True(t, outer.Contains(0) && outer.Contains(10))
		assert.False(t, outer.Contains(-1))

		i := res.Exit().Get("i")
		assert.True(t, i.Contains(10))
		assert.False(t, i.Contains(9))
		assert.True(t, res.Exit().Get("s").Contains(0))
	})

	t.Run("Irreducible", func(t *testing.T) {
		sc := testutil.Irreducible(t)
		require.True(t, sc.CFG.Irreducible())
		res := runIntervals(t, sc)

		assert.Equal(t, "[50, ∞]", res.Entering(sc.Node(t, "exit")).Get("x").String())
	})

	t.Run("IterationBound", func(t *testing.T) {
		sc := testutil.Counter(t, nil)
		res, err := intervals(t, WithMaxIterations(2)).Run(sc.CFG, interval.Top(sc.Vars))
		require.NoError(t, err)

		assert.True(t, res.Stats().Aborted)
		assert.Equal(t, 2, res.Stats().Iterations)
		assert.Contains(t, res.Stats().String(), "(aborted)")
	})
}

func TestStatementStates(t *testing.T) {
	sc := testutil.Straight(t)

	t.Run("Forward", func(t *testing.T) {
		res := runIntervals(t, sc)
		states := res.StatementStates(sc.Node(t, "start"))
		require.Len(t, states, 4)

		assert.True(t, states[0].Get("x").IsTop())
		assert.Equal(t, "[3, 3]", states[1].Get("x").String())
		assert.True(t, states[1].Get("y").IsTop())
		assert.Equal(t, "[5, 5]", states[2].Get("y").String())
		assert.Equal(t, "[8, 8]", states[3].Get("a").String())
		assert.True(t, L.Eq(states[3].Get("a"), res.Exiting(sc.Node(t, "start")).Get("a")))
	})

	t.Run("Backward", func(t *testing.T) {
		in, err := New(semantics.Semantics[livevars.State]{}, WithDirection(semantics.Backward))
		require.NoError(t, err)
		res, err := in.Run(sc.CFG, livevars.Dead(sc.Vars))
		require.NoError(t, err)

		states := res.StatementStates(sc.Node(t, "start"))
		require.Len(t, states, 4)

		// Program order: before x = 3, before y = 5, before a = x + y, after it.
		assert.Empty(t, states[0].Members())
		assert.Equal(t, []ir.Var{"x"}, states[1].Members())
		assert.Equal(t, []ir.Var{"x", "y"}, states[2].Members())
		assert.Equal(t, []ir.Var{"a"}, states[3].Members())
	})
}

func TestBackwardLiveness(t *testing.T) {
	for _, sc := range []testutil.Scenario{
		testutil.Straight(t),
		testutil.Counter(t, nil),
		testutil.Counter(t, ir.C(10)),
		testutil.SelfLoop(t),
		testutil.Nested(t),
		testutil.Irreducible(t),
	} {
		sc := sc
		t.Run(sc.Name, func(t *testing.T) {
			in, err := New(semantics.Semantics[livevars.State]{}, WithDirection(semantics.Backward))
			require.NoError(t, err)
			res, err := in.Run(sc.CFG, livevars.Dead(sc.Vars))
			require.NoError(t, err)
			assert.Equal(t, semantics.Backward, res.Direction())

			expected := livevars.LiveVars(sc.CFG, sc.Vars)
			for _, n := range sc.CFG.Nodes() {
				assert.Equal(t, expected[n].Members(), res.Entering(n).Members(), "live variables entering %s", n)
			}
		})
	}

	t.Run("Counter", func(t *testing.T) {
		sc := testutil.Counter(t, nil)
		in, err := New(semantics.Semantics[livevars.State]{}, WithDirection(semantics.Backward))
		require.NoError(t, err)
		res, err := in.Run(sc.CFG, livevars.Dead(sc.Vars))
		require.NoError(t, err)

		assert.Equal(t, []ir.Var{"n"}, res.Entering(sc.Node(t, "start")).Members())
		assert.Equal(t, []ir.Var{"i", "n"}, res.Entering(sc.Node(t, "head")).Members())
		assert.Equal(t, []ir.Var{"i"}, res.Entering(sc.Node(t, "exit")).Members())
		assert.Empty(t, res.Exit().Members())
	})
}

func TestPrecisionLoss(t *testing.T) {
	x, y := ir.V("x"), ir.V("y")

	b := cfg.NewBuilder()
	start := b.AddNode(
		ir.Assign{Target: "x", Value: ir.Call{Func: semantics.Input}},
		ir.Assign{Target: "y", Value: ir.Bin(ir.Div, ir.C(10), x)})
	head := b.AddNode()
	body := b.AddNode(ir.Assign{Target: "y", Value: ir.Bin(ir.Mod, y, x)})
	exit := b.AddNode()
	b.Jump(start, head)
	b.Branch(head, ir.Bin(ir.Lt, y, ir.C(5)), body, exit)
	b.AddEdge(body, head, cfg.Back, nil)
	b.SetEntry(start)
	b.AddExit(exit)
	g, err := b.Build()
	require.NoError(t, err)

	var reported []string
	sem := semantics.Semantics[interval.State]{
		OnPrecisionLoss: func(stmt ir.Stmt) {
			reported = append(reported, stmt.String())
		},
	}
	in, err := New(sem)
	require.NoError(t, err)
	res, err := in.Run(g, interval.Top(ir.Vars("x", "y")))
	require.NoError(t, err)

	// Statements are counted once, however often they are visited.
	assert.Equal(t, 2, res.Stats().PrecisionLosses)
	assert.Contains(t, reported, "y = 10 / x")
	assert.Contains(t, reported, "y = y % x")
	assert.Equal(t, "[5, ∞]", res.Exit().Get("y").String())
}

func TestErrors(t *testing.T) {
	t.Run("InvalidOption", func(t *testing.T) {
		for _, opt := range []Option{
			WithNarrowing(-1),
			WithWideningDelay(-2),
			WithMaxIterations(0),
			WithDirection(semantics.Direction(7)),
			WithLogger(nil),
		} {
			_, err := New(semantics.Semantics[interval.State]{}, opt)
			assert.ErrorIs(t, err, ErrInvalidOption)
		}
	})

	t.Run("UnknownVariable", func(t *testing.T) {
		sc := testutil.Straight(t)
		_, err := intervals(t).Run(sc.CFG, interval.Top(ir.Vars("x", "y")))
		assert.ErrorIs(t, err, ErrUnknownVariable)
		assert.Contains(t, err.Error(), "a")
	})

	t.Run("UnknownConditionVariable", func(t *testing.T) {
		b := cfg.NewBuilder()
		start, exit := b.AddNode(), b.AddNode()
		b.Branch(start, ir.Bin(ir.Lt, ir.V("k"), ir.C(0)), exit, exit)
		b.SetEntry(start)
		b.AddExit(exit)
		g, err := b.Build()
		require.NoError(t, err)

		_, err = intervals(t).Run(g, interval.Top(ir.Vars("x")))
		assert.ErrorIs(t, err, ErrUnknownVariable)
	})

	t.Run("ForwardLiveness", func(t *testing.T) {
		sc := testutil.Straight(t)
		in, err := New(semantics.Semantics[livevars.State]{})
		require.NoError(t, err)

		_, err = in.Run(sc.CFG, livevars.Dead(sc.Vars))
		assert.ErrorIs(t, err, ErrDirection)
	})

	t.Run("NoExits", func(t *testing.T) {
		b := cfg.NewBuilder()
		loop := b.AddNode()
		b.AddEdge(loop, loop, cfg.Back, nil)
		b.SetEntry(loop)
		g, err := b.Build()
		require.NoError(t, err)

		in, err := New(semantics.Semantics[interval.State]{}, WithDirection(semantics.Backward))
		require.NoError(t, err)
		_, err = in.Run(g, interval.Top(ir.Vars("x")))
		assert.ErrorIs(t, err, ErrNoExits)

		res, err := intervals(t).Run(g, interval.Top(ir.Vars("x")))
		require.NoError(t, err)
		assert.True(t, res.Exit().IsBot())
	})
}

func TestToDot(t *testing.T) {
	sc := testutil.DeadBranch(t)
	res := runIntervals(t, sc)

	dg := res.ToDot("dead-branch")
	require.Len(t, dg.Nodes, 3)
	assert.Equal(t, "n1\nx = 1\nunreachable", dg.Nodes[sc.Node(t, "dead")].Attrs["label"])
	assert.Equal(t, "n2\nprint(x)\nin: {ret → [-∞, ∞], x → [0, 0]}\nout: {ret → [-∞, ∞], x → [0, 0]}",
		dg.Nodes[sc.Node(t, "merge")].Attrs["label"])

	_, err := dg.Bytes()
	require.NoError(t, err)
}
