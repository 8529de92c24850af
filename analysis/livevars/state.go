// Package livevars implements live variable analysis. A variable is live at
// a program point if its current value may be read later on.
package livevars

import (
	"github.com/caterinaurban/lyra/analysis/ir"
	L "github.com/caterinaurban/lyra/analysis/lattice"
	"github.com/caterinaurban/lyra/analysis/semantics"

	"github.com/pkg/errors"
)

var ErrForward = errors.New("liveness can only be computed backward")

// State is the set of live variables, lifted with a bottom element for
// program points from which no exit is reached. The empty set of live
// variables is not bottom.
type State struct {
	reached bool
	live    L.Set
}

var (
	_ semantics.State[State]      = State{}
	_ semantics.DirectionChecker = State{}
)

// Dead returns the state where no variable in vars is live. It is the state
// at the exits of a program.
func Dead(vars ir.VarSet) State {
	return State{true, L.Create().Lattice().Powerset(vars).Bot()}
}

// Live returns the state where the given variables are live.
func Live(vars ir.VarSet, live ...ir.Var) State {
	return State{true, L.Create().Element().Powerset(vars, live...)}
}

func (s State) Vars() ir.VarSet { return s.live.Universe() }

// Contains checks whether v is live.
func (s State) Contains(v ir.Var) bool {
	return s.reached && s.live.Contains(v)
}

// Members lists the live variables in order.
func (s State) Members() []ir.Var {
	if !s.reached {
		return nil
	}
	return s.live.Members()
}

func (s State) Bot() State {
	return State{false, L.Create().Lattice().Powerset(s.Vars()).Bot()}
}

func (s State) IsBot() bool { return !s.reached }
func (s State) IsTop() bool { return s.reached && s.live.IsTop() }

func (s State) Leq(o State) bool {
	switch {
	case !s.reached:
		return true
	case !o.reached:
		return false
	}
	return s.live.Leq(o.live)
}

func (s State) Join(o State) State {
	switch {
	case !s.reached:
		return o
	case !o.reached:
		return s
	}
	return State{true, s.live.Join(o.live)}
}

func (s State) Meet(o State) State {
	if !s.reached {
		return s
	}
	if !o.reached {
		return o
	}
	return State{true, s.live.Meet(o.live)}
}

func (s State) Widen(o State) State  { return s.Join(o) }
func (s State) Narrow(o State) State { return s.Meet(o) }

func (s State) String() string {
	if !s.reached {
		return "⊥"
	}
	return s.live.String()
}

func (s State) CheckDirection(dir semantics.Direction) error {
	if dir.IsForward() {
		return ErrForward
	}
	return nil
}

// use marks the variables read by e as live.
func (s State) use(e ir.Expr) State {
	if !s.reached {
		return s
	}
	return State{true, s.live.Add(ir.FreeVars(e)...)}
}

func (s State) Substitute(v ir.Var, e ir.Expr) State {
	if !s.reached {
		return s
	}
	return State{true, s.live.Remove(v)}.use(e)
}

func (s State) WeakSubstitute(_ ir.Var, e ir.Expr) State { return s.use(e) }
func (s State) Assume(cond ir.Expr) State                { return s.use(cond) }
func (s State) Output(e ir.Expr) State                   { return s.use(e) }
func (s State) Use(e ir.Expr) State                      { return s.use(e) }

// Forward operations do not affect liveness.

func (s State) Assign(ir.Var, ir.Expr) State     { return s }
func (s State) WeakAssign(ir.Var, ir.Expr) State { return s }
func (s State) Forget(ir.Var) State              { return s }
