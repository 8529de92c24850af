// Package sign implements the sign abstract domain: every variable is bound
// to the set of signs it may take.
package sign

import (
	"github.com/caterinaurban/lyra/analysis/ir"
	L "github.com/caterinaurban/lyra/analysis/lattice"
	"github.com/caterinaurban/lyra/analysis/semantics"
)

// Lattice is the lattice of sign states over a variable set.
type Lattice struct {
	stores *L.StoreLattice[L.Sign]
}

func NewLattice(vars ir.VarSet) *Lattice {
	return &Lattice{L.NewStoreLattice[L.Sign](L.Create().Lattice().Sign(), vars)}
}

func (l *Lattice) String() string { return l.stores.String() }
func (l *Lattice) Bot() State     { return State{l.stores.Bot()} }
func (l *Lattice) Top() State     { return State{l.stores.Top()} }

// Top returns the state where every variable in vars may have any sign.
func Top(vars ir.VarSet) State {
	return NewLattice(vars).Top()
}

// State binds program variables to sets of signs.
type State struct {
	store L.Store[L.Sign]
}

var (
	_ semantics.State[State] = State{}
	_ semantics.Frame[State] = State{}
	_ semantics.Lossy        = State{}
)

func (s State) Vars() ir.VarSet                 { return s.store.Vars() }
func (s State) Get(v ir.Var) L.Sign             { return s.store.Get(v) }
func (s State) Set(v ir.Var, sign L.Sign) State { return State{s.store.Set(v, sign)} }

func (s State) bottom() State { return NewLattice(s.Vars()).Bot() }

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
func (s State) Forget(v ir.Var) State { return s.Set(v, L.SignTop) }

func (s State) Assign(v ir.Var, e ir.Expr) State {
	if s.IsBot() {
		return s
	}
	return s.Set(v, s.Eval(e))
}

func (s State) WeakAssign(v ir.Var, e ir.Expr) State {
	if s.IsBot() {
		return s
	}
	return s.Set(v, s.Get(v).Join(s.Eval(e)))
}

// Substitute computes the state before v = e. The signs of e must be
// compatible with those of v after the assignment.
func (s State) Substitute(v ir.Var, e ir.Expr) State {
	if s.IsBot() {
		return s
	}
	for _, w := range ir.FreeVars(e) {
		if w == v {
			return s.Forget(v)
		}
	}

	post := s.Get(v)
	if s.Eval(e).Meet(post).IsBot() {
		return s.bottom()
	}
	if ref, ok := e.(ir.Ref); ok {
		s = s.Set(ref.Var, s.Get(ref.Var).Meet(post))
	}
	return s.Forget(v)
}

func (s State) WeakSubstitute(ir.Var, ir.Expr) State {
	return s
}

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
