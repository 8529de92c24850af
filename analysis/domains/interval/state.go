// Package interval implements the interval abstract domain: every variable
// is bound to an interval of integers.
package interval

import (
	"github.com/caterinaurban/lyra/analysis/ir"
	L "github.com/caterinaurban/lyra/analysis/lattice"
	"github.com/caterinaurban/lyra/analysis/semantics"
)

// Lattice is the lattice of interval states over a variable set.
type Lattice struct {
	stores *L.StoreLattice[L.Interval]
}

// NewLattice creates the lattice of interval states over vars.
func NewLattice(vars ir.VarSet) *Lattice {
	return &Lattice{L.NewStoreLattice[L.Interval](L.Create().Lattice().Interval(), vars)}
}

func (l *Lattice) String() string {
	return l.stores.String()
}

// Bot returns the state of unreachable program points.
func (l *Lattice) Bot() State {
	return State{l.stores.Bot()}
}

// Top returns the state binding every variable to [-∞, ∞].
func (l *Lattice) Top() State {
	return State{l.stores.Top()}
}

// Top returns the state binding every variable in vars to [-∞, ∞].
func Top(vars ir.VarSet) State {
	return NewLattice(vars).Top()
}

// State binds program variables to intervals.
type State struct {
	store L.Store[L.Interval]
}

var (
	_ semantics.State[State] = State{}
	_ semantics.Frame[State] = State{}
	_ semantics.Lossy        = State{}
)

// Vars returns the variables bound by the state.
func (s State) Vars() ir.VarSet {
	return s.store.Vars()
}

// Get returns the interval bound to v.
func (s State) Get(v ir.Var) L.Interval {
	return s.store.Get(v)
}

// Set binds v to the interval i.
func (s State) Set(v ir.Var, i L.Interval) State {
	return State{s.store.Set(v, i)}
}

func (s State) bottom() State {
	return State{L.NewStoreLattice[L.Interval](L.Create().Lattice().Interval(), s.Vars()).Bot()}
}

func (s State) Bot() State            { return s.bottom() }
func (s State) Leq(o State) bool      { return s.store.Leq(o.store) }
func (s State) Join(o State) State    { return State{s.store.Join(o.store)} }
func (s State) Meet(o State) State    { return State{s.store.Meet(o.store)} }
func (s State) Widen(o State) State   { return State{s.store.Widen(o.store)} }
func (s State) Narrow(o State) State  { return State{s.store.Narrow(o.store)} }
func (s State) IsBot() bool           { return s.store.IsBot() }
func (s State) IsTop() bool           { return s.store.IsTop() }
func (s State) String() string        { return s.store.String() }
func (s State) Output(ir.Expr) State  { return s }
func (s State) Use(ir.Expr) State     { return s }
func (s State) Forget(v ir.Var) State { return s.Set(v, L.Create().Lattice().Interval().Top()) }

// Assign binds v to the value of e.
func (s State) Assign(v ir.Var, e ir.Expr) State {
	if s.IsBot() {
		return s
	}
	return s.Set(v, s.Eval(e))
}

// WeakAssign joins the value of e into v.
func (s State) WeakAssign(v ir.Var, e ir.Expr) State {
	if s.IsBot() {
		return s
	}
	return s.Set(v, s.Get(v).Join(s.Eval(e)))
}

// Substitute computes the state before v = e from the state after it. The
// value of e must lie in the interval of v, which refines a variable read
// by e directly. Unless the assignment can be inverted, v is unknown before.
func (s State) Substitute(v ir.Var, e ir.Expr) State {
	if s.IsBot() {
		return s
	}

	post := s.Get(v)
	if inv, ok := invert(v, e, post); ok {
		return s.Set(v, inv)
	}

	for _, w := range ir.FreeVars(e) {
		if w == v {
			return s.Forget(v)
		}
	}

	if s.Eval(e).Meet(post).IsBot() {
		return s.bottom()
	}
	if ref, ok := e.(ir.Ref); ok {
		s = s.Set(ref.Var, s.Get(ref.Var).Meet(post))
	}
	return s.Forget(v)
}

// invert computes the value of v before v = v ± c.
func invert(v ir.Var, e ir.Expr, post L.Interval) (L.Interval, bool) {
	b, ok := e.(ir.Binary)
	if !ok || (b.Op != ir.Add && b.Op != ir.Sub) {
		return L.Interval{}, false
	}
	ref, ok := b.X.(ir.Ref)
	if !ok || ref.Var != v {
		return L.Interval{}, false
	}
	c, ok := b.Y.(ir.Const)
	if !ok {
		return L.Interval{}, false
	}

	if b.Op == ir.Add {
		return post.Sub(L.Const(c.Value)), true
	}
	return post.Add(L.Const(c.Value)), true
}

// WeakSubstitute computes the state before a weak update of v. The value of
// v before the update is included in its value after it.
func (s State) WeakSubstitute(v ir.Var, e ir.Expr) State {
	return s
}

// Enter binds the parameters of a callee to the values of the arguments.
// Extra parameters are unknown.
func (s State) Enter(callee ir.VarSet, params []ir.Var, args []ir.Expr) State {
	if s.IsBot() {
		return NewLattice(callee).Bot()
	}
	entry := NewLattice(callee).Top()
	for i, p := range params {
		if i < len(args) {
			entry = entry.Set(p, s.Eval(args[i]))
		}
	}
	return entry
}

// Leave binds target to the value of result at the exit of a callee.
func (s State) Leave(target, result ir.Var, exit State) State {
	switch {
	case s.IsBot():
		return s
	case exit.IsBot():
		return s.bottom()
	case target == "":
		return s
	case !exit.Vars().Contains(result):
		return s.Forget(target)
	}
	return s.Set(target, exit.Get(result))
}
