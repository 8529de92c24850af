package lattice

import (
	"strings"

	"github.com/caterinaurban/lyra/analysis/ir"

	"golang.org/x/tools/container/intsets"
)

// PowersetLattice is the lattice of subsets of a finite variable universe.
type PowersetLattice struct {
	universe ir.VarSet
}

func (l *PowersetLattice) String() string {
	return colorize.Lattice("℘") + l.universe.String()
}

// Universe returns the variables that may be members of a set.
func (l *PowersetLattice) Universe() ir.VarSet {
	return l.universe
}

// Bot returns the empty set.
func (l *PowersetLattice) Bot() Set {
	return Set{universe: l.universe, bits: &intsets.Sparse{}}
}

// Top returns the whole universe.
func (l *PowersetLattice) Top() Set {
	bits := &intsets.Sparse{}
	for i := 0; i < l.universe.Len(); i++ {
		bits.Insert(i)
	}
	return Set{universe: l.universe, bits: bits}
}

// Set is a subset of a variable universe. Members are stored as their
// positions in the universe. The underlying bit set is never mutated once
// the Set is constructed.
type Set struct {
	universe ir.VarSet
	bits     *intsets.Sparse
}

var _ Element[Set] = Set{}

// Powerset creates a set of the given members. Panics if a member is not
// part of the universe.
func (elementFactory) Powerset(universe ir.VarSet, members ...ir.Var) Set {
	return latFact.Powerset(universe).Bot().Add(members...)
}

func (s Set) check(o Set) {
	if s.universe.Len() != o.universe.Len() || !s.universe.Equal(o.universe) {
		panic(ErrVarSetMismatch)
	}
}

func (s Set) index(v ir.Var) int {
	i := s.universe.Index(v)
	if i < 0 {
		panic(ErrVarSetMismatch)
	}
	return i
}

func (s Set) with(update func(bits *intsets.Sparse)) Set {
	bits := &intsets.Sparse{}
	bits.Copy(s.bits)
	update(bits)
	return Set{universe: s.universe, bits: bits}
}

// Universe returns the variables that may be members of s.
func (s Set) Universe() ir.VarSet {
	return s.universe
}

// Add returns the set extended with vs.
func (s Set) Add(vs ...ir.Var) Set {
	return s.with(func(bits *intsets.Sparse) {
		for _, v := range vs {
			bits.Insert(s.index(v))
		}
	})
}

// Remove returns the set without vs.
func (s Set) Remove(vs ...ir.Var) Set {
	return s.with(func(bits *intsets.Sparse) {
		for _, v := range vs {
			bits.Remove(s.index(v))
		}
	})
}

// Contains checks whether v is a member of the set.
func (s Set) Contains(v ir.Var) bool {
	i := s.universe.Index(v)
	return i >= 0 && s.bits.Has(i)
}

// Len returns the number of members.
func (s Set) Len() int {
	return s.bits.Len()
}

// Members lists the members in universe order.
func (s Set) Members() []ir.Var {
	idxs := s.bits.AppendTo(nil)
	res := make([]ir.Var, len(idxs))
	for i, idx := range idxs {
		res[i] = s.universe.At(idx)
	}
	return res
}

func (s Set) IsBot() bool {
	return s.bits.IsEmpty()
}

func (s Set) IsTop() bool {
	return s.bits.Len() == s.universe.Len()
}

// Leq computes s ⊆ o.
func (s Set) Leq(o Set) bool {
	s.check(o)
	return s.bits.SubsetOf(o.bits)
}

// Join computes s ∪ o.
func (s Set) Join(o Set) Set {
	s.check(o)
	bits := &intsets.Sparse{}
	bits.Union(s.bits, o.bits)
	return Set{universe: s.universe, bits: bits}
}

// Meet computes s ∩ o.
func (s Set) Meet(o Set) Set {
	s.check(o)
	bits := &intsets.Sparse{}
	bits.Intersection(s.bits, o.bits)
	return Set{universe: s.universe, bits: bits}
}

// Widen is the join, since the universe is finite.
func (s Set) Widen(o Set) Set {
	return s.Join(o)
}

// Narrow is the meet, since the universe is finite.
func (s Set) Narrow(o Set) Set {
	return s.Meet(o)
}

func (s Set) String() string {
	members := s.Members()
	strs := make([]string, len(members))
	for i, v := range members {
		strs[i] = colorize.Key(v.String())
	}
	return "{" + strings.Join(strs, ", ") + "}"
}
