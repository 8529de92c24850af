package livevars

import (
	"testing"

	"github.com/caterinaurban/lyra/analysis/ir"
	L "github.com/caterinaurban/lyra/analysis/lattice"
	"github.com/caterinaurban/lyra/analysis/semantics"
	"github.com/caterinaurban/lyra/testutil"

	"github.com/stretchr/testify/assert"
)

func members(s State) []string {
	res := []string{}
	for _, v := range s.Members() {
		res = append(res, string(v))
	}
	return res
}

func TestTransfer(t *testing.T) {
	vars := ir.Vars("x", "y", "z", "l", "l[*]")
	live := Live(vars, "x", "z")

	tests := []struct {
		name     string
		apply    func(State) State
		expected []string
	}{
		{"Kill", func(s State) State {
			return s.Substitute("x", ir.C(1))
		}, []string{"z"}},
		{"KillAndGen", func(s State) State {
			return s.Substitute("x", ir.Bin(ir.Add, ir.V("x"), ir.V("y")))
		}, []string{"x", "y", "z"}},
		{"Weak", func(s State) State {
			return s.WeakSubstitute("l[*]", ir.V("y"))
		}, []string{"x", "y", "z"}},
		{"Assume", func(s State) State {
			return s.Assume(ir.Bin(ir.Lt, ir.V("y"), ir.C(3)))
		}, []string{"x", "y", "z"}},
		{"Output", func(s State) State {
			return s.Output(ir.Index{Container: "l", Key: ir.V("y")})
		}, []string{"l", "l[*]", "x", "y", "z"}},
		{"ForwardIdentity", func(s State) State {
			return s.Assign("x", ir.V("y")).WeakAssign("z", ir.C(0)).Forget("x")
		}, []string{"x", "z"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, members(test.apply(live)))
		})
	}
}

func TestCheckDirection(t *testing.T) {
	s := Dead(ir.Vars("x"))
	assert.ErrorIs(t, s.CheckDirection(semantics.Forward), ErrForward)
	assert.NoError(t, s.CheckDirection(semantics.Backward))
}

func TestLiveVars(t *testing.T) {
	sc := testutil.Counter(t, nil)
	live := LiveVars(sc.CFG, sc.Vars)

	assert.Equal(t, []string{"i"}, members(live[sc.Node(t, "exit")]))
	assert.Equal(t, []string{"i", "n"}, members(live[sc.Node(t, "body")]))
	assert.Equal(t, []string{"i", "n"}, members(live[sc.Node(t, "head")]))
	assert.Equal(t, []string{"n"}, members(live[sc.Node(t, "start")]))

	t.Run("DeadAssignment", func(t *testing.T) {
		sc := testutil.Straight(t)
		live := LiveVars(sc.CFG, sc.Vars)

		assert.Equal(t, []string{"a"}, members(live[sc.Node(t, "double")]))
		assert.Empty(t, members(live[sc.Node(t, "start")]))
	})
}

func TestLattice(t *testing.T) {
	vars := ir.Vars("x", "y")
	a, b := Live(vars, "x"), Live(vars, "y")

	bot := a.Bot()
	assert.True(t, vars.Equal(a.Vars()))
	assert.True(t, vars.Equal(bot.Vars()))

	assert.False(t, Dead(vars).IsBot(), "no live variables is not bottom")
	assert.True(t, bot.IsBot())
	assert.True(t, bot.Leq(Dead(vars)))
	assert.False(t, Dead(vars).Leq(bot))
	assert.True(t, a.Join(b).IsTop())
	assert.Empty(t, members(a.Meet(b)))
	assert.True(t, a.Meet(bot).IsBot())
	assert.True(t, L.Eq(a.Join(b), a.Widen(b)))
	assert.True(t, L.Eq(a, a.Join(bot)))
	assert.True(t, a.Leq(a.Join(b)))
	assert.True(t, bot.Substitute("x", ir.V("y")).IsBot())
	assert.Equal(t, "⊥", bot.String())
}
