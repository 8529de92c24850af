package lattice

import (
	"errors"

	"github.com/caterinaurban/lyra/utils"

	"github.com/fatih/color"
)

var colorize = struct {
	Lattice func(...interface{}) string
	Element func(...interface{}) string
	Const   func(...interface{}) string
	Key     func(...interface{}) string
}{
	Lattice: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiBlue).SprintFunc())(is...)
	},
	Element: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgCyan).SprintFunc())(is...)
	},
	Const: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiWhite).SprintFunc())(is...)
	},
	Key: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgYellow).SprintFunc())(is...)
	},
}

var (
	errInternal = errors.New("internal error")
	// ErrVarSetMismatch is raised when combining abstract values that range
	// over different variable universes.
	ErrVarSetMismatch = errors.New("lattice elements range over different variable sets")
)

// Element is implemented by every abstract value E of a complete lattice.
// All operations are pure: neither operand is modified.
//
// Widen must over-approximate Join and guarantee that every increasing chain
// a0, a0 ∇ a1, (a0 ∇ a1) ∇ a2, ... eventually stabilizes.
// Narrow must satisfy a ⊓ b ⊑ a △ b ⊑ a.
type Element[E any] interface {
	Leq(E) bool
	Join(E) E
	Meet(E) E
	Widen(E) E
	Narrow(E) E

	IsBot() bool
	IsTop() bool

	String() string
}

// Lattice provides the extremal elements of a lattice of E.
type Lattice[E any] interface {
	Bot() E
	Top() E
	String() string
}

// Eq checks that a ⊑ b and b ⊑ a.
func Eq[E Element[E]](a, b E) bool {
	return a.Leq(b) && b.Leq(a)
}

// Geq checks that b ⊑ a.
func Geq[E Element[E]](a, b E) bool {
	return b.Leq(a)
}

// JoinAll computes the least upper bound of the given elements.
// The result is ⊥ if no elements are given.
func JoinAll[E Element[E]](lat Lattice[E], es ...E) E {
	res := lat.Bot()
	for _, e := range es {
		res = res.Join(e)
	}
	return res
}
