package lattice

import (
	"strings"

	"github.com/caterinaurban/lyra/analysis/ir"
	"github.com/caterinaurban/lyra/utils"

	"github.com/benbjohnson/immutable"
)

// StoreLattice is the lattice of total maps from a variable set to
// elements of an underlying lattice, ordered pointwise. Maps that bind any
// variable to ⊥ are identified with the single bottom store.
type StoreLattice[E Element[E]] struct {
	lat  Lattice[E]
	vars ir.VarSet
}

// NewStoreLattice creates the store lattice over vars with values in lat.
func NewStoreLattice[E Element[E]](lat Lattice[E], vars ir.VarSet) *StoreLattice[E] {
	return &StoreLattice[E]{lat: lat, vars: vars}
}

func (l *StoreLattice[E]) String() string {
	return l.vars.String() + " → " + l.lat.String()
}

// Vars returns the variables bound by every store of the lattice.
func (l *StoreLattice[E]) Vars() ir.VarSet {
	return l.vars
}

// Bot returns the store describing no concrete state.
func (l *StoreLattice[E]) Bot() Store[E] {
	return Store[E]{lat: l.lat, vars: l.vars}
}

// Top returns the store binding every variable to ⊤.
func (l *StoreLattice[E]) Top() Store[E] {
	return l.Uniform(l.lat.Top())
}

// Uniform returns the store binding every variable to e.
func (l *StoreLattice[E]) Uniform(e E) Store[E] {
	if e.IsBot() {
		return l.Bot()
	}

	b := immutable.NewMapBuilder[ir.Var, E](utils.StringHasher[ir.Var]())
	for _, v := range l.vars.Slice() {
		b.Set(v, e)
	}
	return Store[E]{lat: l.lat, vars: l.vars, mp: b.Map()}
}

// Store is a persistent abstract store. Updates return new stores and
// leave the receiver unchanged. A nil map denotes ⊥.
type Store[E Element[E]] struct {
	lat  Lattice[E]
	vars ir.VarSet
	mp   *immutable.Map[ir.Var, E]
}

var _ Element[Store[Interval]] = Store[Interval]{}

// Vars returns the variables bound by the store.
func (s Store[E]) Vars() ir.VarSet {
	return s.vars
}

// Get returns the value bound to v. Every variable is ⊥ in the bottom store.
// Panics if v is not part of the variable set.
func (s Store[E]) Get(v ir.Var) E {
	if !s.vars.Contains(v) {
		panic(ErrVarSetMismatch)
	}
	if s.mp == nil {
		return s.lat.Bot()
	}
	e, _ := s.mp.Get(v)
	return e
}

// Set binds v to e. Binding ⊥ yields the bottom store, and the bottom store
// absorbs all updates.
func (s Store[E]) Set(v ir.Var, e E) Store[E] {
	if !s.vars.Contains(v) {
		panic(ErrVarSetMismatch)
	}
	switch {
	case s.mp == nil:
		return s
	case e.IsBot():
		return s.bottom()
	}
	s.mp = s.mp.Set(v, e)
	return s
}

// ForEach visits every binding in variable order.
func (s Store[E]) ForEach(do func(ir.Var, E)) {
	for _, v := range s.vars.Slice() {
		do(v, s.Get(v))
	}
}

func (s Store[E]) bottom() Store[E] {
	return Store[E]{lat: s.lat, vars: s.vars}
}

func (s Store[E]) check(o Store[E]) {
	if !s.vars.Equal(o.vars) {
		panic(ErrVarSetMismatch)
	}
}

// pointwise combines the bindings of two non-bottom stores.
func (s Store[E]) pointwise(o Store[E], op func(a, b E) E) Store[E] {
	res := s
	for _, v := range s.vars.Slice() {
		a, _ := s.mp.Get(v)
		b, _ := o.mp.Get(v)
		c := op(a, b)
		if c.IsBot() {
			return s.bottom()
		}
		res.mp = res.mp.Set(v, c)
	}
	return res
}

func (s Store[E]) IsBot() bool {
	return s.mp == nil
}

func (s Store[E]) IsTop() bool {
	if s.mp == nil {
		return false
	}
	for _, v := range s.vars.Slice() {
		if e, _ := s.mp.Get(v); !e.IsTop() {
			return false
		}
	}
	return true
}

// Leq computes s ⊑ o pointwise.
func (s Store[E]) Leq(o Store[E]) bool {
	s.check(o)
	switch {
	case s.mp == nil:
		return true
	case o.mp == nil:
		return false
	}

	for _, v := range s.vars.Slice() {
		a, _ := s.mp.Get(v)
		b, _ := o.mp.Get(v)
		if !a.Leq(b) {
			return false
		}
	}
	return true
}

// Join computes s ⊔ o pointwise.
func (s Store[E]) Join(o Store[E]) Store[E] {
	s.check(o)
	switch {
	case s.mp == nil:
		return o
	case o.mp == nil:
		return s
	}
	return s.pointwise(o, func(a, b E) E { return a.Join(b) })
}

// Meet computes s ⊓ o pointwise.
func (s Store[E]) Meet(o Store[E]) Store[E] {
	s.check(o)
	if s.mp == nil || o.mp == nil {
		return s.bottom()
	}
	return s.pointwise(o, func(a, b E) E { return a.Meet(b) })
}

// Widen computes s ∇ o pointwise.
func (s Store[E]) Widen(o Store[E]) Store[E] {
	s.check(o)
	switch {
	case s.mp == nil:
		return o
	case o.mp == nil:
		return s
	}
	return s.pointwise(o, func(a, b E) E { return a.Widen(b) })
}

// Narrow computes s △ o pointwise.
func (s Store[E]) Narrow(o Store[E]) Store[E] {
	s.check(o)
	if s.mp == nil || o.mp == nil {
		return s.bottom()
	}
	return s.pointwise(o, func(a, b E) E { return a.Narrow(b) })
}

func (s Store[E]) String() string {
	if s.mp == nil {
		return colorize.Element("⊥")
	}

	strs := make([]string, 0, s.vars.Len())
	s.ForEach(func(v ir.Var, e E) {
		strs = append(strs, colorize.Key(v.String())+" → "+e.String())
	})
	return "{" + strings.Join(strs, ", ") + "}"
}
