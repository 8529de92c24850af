package ir

import (
	"strings"

	"golang.org/x/exp/slices"
)

// Var identifies a program variable.
type Var string

func (v Var) String() string {
	return string(v)
}

const elemSuffix = "[*]"

// ElemOf is the derived key summarising every element of the list or
// dictionary held by container.
func ElemOf(container Var) Var {
	return container + elemSuffix
}

// IsElem reports whether v is a derived element key.
func (v Var) IsElem() bool {
	return strings.HasSuffix(string(v), elemSuffix)
}

// VarSet is an immutable, sorted set of variables. Analyses are run over a
// variable set enumerated once by the front end.
type VarSet struct {
	vars []Var
	idx  map[Var]int
}

// NewVarSet creates a variable set. Duplicates are ignored.
func NewVarSet(vs ...Var) VarSet {
	vars := slices.Clone(vs)
	slices.Sort(vars)
	vars = slices.Compact(vars)

	idx := make(map[Var]int, len(vars))
	for i, v := range vars {
		idx[v] = i
	}
	return VarSet{vars: vars, idx: idx}
}

// Vars is a shorthand for creating a variable set from names.
func Vars(names ...string) VarSet {
	vs := make([]Var, len(names))
	for i, n := range names {
		vs[i] = Var(n)
	}
	return NewVarSet(vs...)
}

func (s VarSet) Len() int {
	return len(s.vars)
}

func (s VarSet) Contains(v Var) bool {
	_, found := s.idx[v]
	return found
}

// Index returns the position of v in the sorted set, or -1.
func (s VarSet) Index(v Var) int {
	if i, found := s.idx[v]; found {
		return i
	}
	return -1
}

// At returns the variable at the given position.
func (s VarSet) At(i int) Var {
	return s.vars[i]
}

// Slice returns the variables in sorted order.
func (s VarSet) Slice() []Var {
	return slices.Clone(s.vars)
}

func (s VarSet) Union(o VarSet) VarSet {
	return NewVarSet(append(s.Slice(), o.vars...)...)
}

func (s VarSet) Equal(o VarSet) bool {
	return slices.Equal(s.vars, o.vars)
}

func (s VarSet) String() string {
	strs := make([]string, len(s.vars))
	for i, v := range s.vars {
		strs[i] = string(v)
	}
	return "{" + strings.Join(strs, ", ") + "}"
}
