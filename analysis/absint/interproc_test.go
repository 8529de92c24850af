package absint

import (
	"testing"

	"github.com/caterinaurban/lyra/analysis/domains/interval"
	"github.com/caterinaurban/lyra/analysis/domains/sign"
	"github.com/caterinaurban/lyra/analysis/ir"
	L "github.com/caterinaurban/lyra/analysis/lattice"
	"github.com/caterinaurban/lyra/analysis/livevars"
	"github.com/caterinaurban/lyra/analysis/program"
	"github.com/caterinaurban/lyra/analysis/semantics"
	"github.com/caterinaurban/lyra/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const callsPath = "../program/testdata/calls.yaml"

func intervalEntry(f *program.Function) interval.State {
	return interval.Top(f.Vars)
}

func TestAnalyzeProgram(t *testing.T) {
	loaded := testutil.LoadProgram(t, callsPath)
	res, err := intervals(t).AnalyzeProgram(loaded.Program, intervalEntry)
	require.NoError(t, err)
	require.False(t, res.Aborted)
	require.Len(t, res.Results, 3)

	main := res.Results["main"].Exit()
	// The summary of inc is shared by all calls, including inc(y).
	assert.Equal(t, "[2, ∞]", main.Get("x").String())
	// The recursion in fact is widened: its results are only known to be
	// positive.
	assert.Equal(t, "[1, ∞]", main.Get("y").String())
	assert.True(t, main.Get("z").IsTop())

	fact := res.Summaries["fact"]
	assert.True(t, fact.Entry.Get("k").IsTop())
	assert.Equal(t, "[1, ∞]", fact.Exit.Get("r").String())

	inc := res.Summaries["inc"]
	assert.Equal(t, "[1, ∞]", inc.Entry.Get("v").String())
	assert.Equal(t, "[2, ∞]", inc.Exit.Get("ret").String())

	assert.Equal(t, res.Summaries["main"].Entry.String(), intervalEntry(loaded.Program.MainFunction()).String())
	assert.GreaterOrEqual(t, res.Rounds, 3)
	assert.False(t, res.Stats().Aborted)
	assert.Contains(t, res.String(), "fact\nentry: ")
}

func TestAnalyzeProgramStraight(t *testing.T) {
	loaded := testutil.LoadProgram(t, "../program/testdata/straight.yaml")
	res, err := intervals(t).AnalyzeProgram(loaded.Program, intervalEntry)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Rounds)
	assert.Equal(t, "[16, 16]", res.Results["main"].Exit().Get("a").String())
	assert.Equal(t, "[16, 16]", res.Summaries["main"].Exit.Get("a").String())
}

func TestCallSummaries(t *testing.T) {
	loaded := testutil.LoadProgramSource(t, `
functions:
  - name: main
    entry: body
    exits: [body]
    nodes:
      - id: body
        stmts:
          - assign: a
            value: {call: id, args: [1]}
          - assign: b
            value: {call: id, args: [5]}
          - assign: c
            value: {call: missing, args: [a]}
  - name: id
    params: [p]
    entry: only
    exits: [only]
    nodes:
      - id: only
        stmts:
          - return: p
  - name: unused
    entry: only
    exits: [only]
    nodes:
      - id: only
        stmts:
          - return: 0
`)
	res, err := intervals(t).AnalyzeProgram(loaded.Program, intervalEntry)
	require.NoError(t, err)

	main := res.Results["main"].Exit()
	// Both calls share the summary of id, which is not recursive and is
	// joined without widening.
	assert.Equal(t, "[1, 5]", main.Get("a").String())
	assert.Equal(t, "[1, 5]", main.Get("b").String())
	assert.True(t, main.Get("c").IsTop())
	assert.Equal(t, "[1, 5]", res.Summaries["id"].Entry.Get("p").String())

	t.Run("Uncalled", func(t *testing.T) {
		assert.Equal(t, []string{"unused"}, loaded.Program.Unreachable())
		unused := res.Results["unused"]
		require.NotNil(t, unused)
		assert.True(t, res.Summaries["unused"].Entry.IsBot())
		assert.True(t, unused.Exit().IsBot())
		assert.False(t, unused.Reachable(unused.Graph().Entry()))
	})
}

func TestCallFeedback(t *testing.T) {
	// The result of the first call is the argument of the second, so the
	// entry of inc grows at every round until it is widened.
	loaded := testutil.LoadProgramSource(t, `
functions:
  - name: main
    entry: body
    exits: [body]
    nodes:
      - id: body
        stmts:
          - assign: x
            value: {call: inc, args: [2]}
          - assign: z
            value: {call: inc, args: [x]}
  - name: inc
    params: [v]
    entry: only
    exits: [only]
    nodes:
      - id: only
        stmts:
          - return: {op: "+", args: [v, 1]}
`)
	res, err := intervals(t).AnalyzeProgram(loaded.Program, intervalEntry)
	require.NoError(t, err)
	require.False(t, res.Aborted)

	assert.Equal(t, "[2, ∞]", res.Summaries["inc"].Entry.Get("v").String())
	main := res.Results["main"].Exit()
	assert.Equal(t, "[3, ∞]", main.Get("x").String())
	assert.Equal(t, "[3, ∞]", main.Get("z").String())
}

func TestCallInCondition(t *testing.T) {
	loaded := testutil.LoadProgramSource(t, `
functions:
  - name: main
    entry: start
    exits: [pos, neg]
    nodes:
      - id: start
        stmts:
          - assign: x
            value: 1
      - id: pos
        stmts:
          - assign: y
            value: 1
      - id: neg
        stmts:
          - assign: y
            value: 2
    edges:
      - {from: start, to: pos, kind: true, cond: {op: ">", args: [{call: g, args: [x]}, 0]}}
      - {from: start, to: neg, kind: false, cond: {op: ">", args: [{call: g, args: [x]}, 0]}}
  - name: g
    params: [p]
    entry: only
    exits: [only]
    nodes:
      - id: only
        stmts:
          - return: 5
`)
	assert.Empty(t, loaded.Program.Unreachable())

	res, err := intervals(t).AnalyzeProgram(loaded.Program, intervalEntry)
	require.NoError(t, err)

	g := res.Results["g"]
	assert.True(t, g.Reachable(g.Graph().Entry()))
	assert.Equal(t, "[1, 1]", res.Summaries["g"].Entry.Get("p").String())
	assert.Equal(t, "[5, 5]", res.Summaries["g"].Exit.Get("ret").String())
	assert.Equal(t, "[1, 2]", res.Results["main"].Exit().Get("y").String())
}

func TestAnalyzeProgramSign(t *testing.T) {
	loaded := testutil.LoadProgram(t, callsPath)
	in, err := New(semantics.Semantics[sign.State]{})
	require.NoError(t, err)

	res, err := in.AnalyzeProgram(loaded.Program, func(f *program.Function) sign.State {
		return sign.Top(f.Vars)
	})
	require.NoError(t, err)
	require.False(t, res.Aborted)

	assert.Equal(t, L.Positive, res.Results["main"].Exit().Get("x"))
	assert.Equal(t, L.Positive, res.Summaries["inc"].Exit.Get("ret"))
}

func TestAnalyzeProgramBackward(t *testing.T) {
	loaded := testutil.LoadProgram(t, callsPath)
	in, err := New(semantics.Semantics[livevars.State]{}, WithDirection(semantics.Backward))
	require.NoError(t, err)

	res, err := in.AnalyzeProgram(loaded.Program, func(f *program.Function) livevars.State {
		return livevars.Dead(f.Vars)
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Rounds)

	main := res.Summaries["main"].Entry
	assert.True(t, main.Contains("l"))
	assert.False(t, main.Contains("x"))
	assert.False(t, main.Contains("z"))

	assert.Equal(t, []ir.Var{"v"}, res.Summaries["inc"].Entry.Members())
	assert.Equal(t, []ir.Var{"k"}, res.Summaries["fact"].Entry.Members())
}

func TestAnalyzeProgramErrors(t *testing.T) {
	loaded := testutil.LoadProgram(t, callsPath)

	t.Run("UnknownVariable", func(t *testing.T) {
		_, err := intervals(t).AnalyzeProgram(loaded.Program, func(f *program.Function) interval.State {
			return interval.Top(ir.NewVarSet(f.Params...))
		})
		assert.ErrorIs(t, err, ErrUnknownVariable)
		assert.Contains(t, err.Error(), "function ")
	})

	t.Run("NoFrame", func(t *testing.T) {
		in, err := New(semantics.Semantics[opaque]{})
		require.NoError(t, err)

		_, err = in.AnalyzeProgram(loaded.Program, func(f *program.Function) opaque {
			return opaque{interval.Top(f.Vars)}
		})
		assert.ErrorIs(t, err, ErrNoFrame)
	})
}

// opaque hides the interprocedural operations of interval states.
type opaque struct{ s interval.State }

func (o opaque) Vars() ir.VarSet                   { return o.s.Vars() }
func (o opaque) Bot() opaque                       { return opaque{o.s.Bot()} }
func (o opaque) Leq(p opaque) bool                 { return o.s.Leq(p.s) }
func (o opaque) Join(p opaque) opaque              { return opaque{o.s.Join(p.s)} }
func (o opaque) Meet(p opaque) opaque              { return opaque{o.s.Meet(p.s)} }
func (o opaque) Widen(p opaque) opaque             { return opaque{o.s.Widen(p.s)} }
func (o opaque) Narrow(p opaque) opaque            { return opaque{o.s.Narrow(p.s)} }
func (o opaque) IsBot() bool                       { return o.s.IsBot() }
func (o opaque) IsTop() bool                       { return o.s.IsTop() }
func (o opaque) String() string                    { return o.s.String() }
func (o opaque) Assign(v ir.Var, e ir.Expr) opaque { return opaque{o.s.Assign(v, e)} }
func (o opaque) WeakAssign(v ir.Var, e ir.Expr) opaque {
	return opaque{o.s.WeakAssign(v, e)}
}
func (o opaque) Substitute(v ir.Var, e ir.Expr) opaque {
	return opaque{o.s.Substitute(v, e)}
}
func (o opaque) WeakSubstitute(v ir.Var, e ir.Expr) opaque {
	return opaque{o.s.WeakSubstitute(v, e)}
}
func (o opaque) Assume(cond ir.Expr) opaque { return opaque{o.s.Assume(cond)} }
func (o opaque) Forget(v ir.Var) opaque     { return opaque{o.s.Forget(v)} }
func (o opaque) Output(e ir.Expr) opaque    { return opaque{o.s.Output(e)} }
func (o opaque) Use(e ir.Expr) opaque       { return opaque{o.s.Use(e)} }
