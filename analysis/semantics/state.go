// Package semantics maps statements and branch conditions to the
// operations of an abstract domain, separately for each direction.
package semantics

import (
	"github.com/caterinaurban/lyra/analysis/ir"
	"github.com/caterinaurban/lyra/analysis/lattice"
)

// State is implemented by the abstract states of a domain. Every operation
// returns a new state and leaves the receiver unchanged.
type State[S any] interface {
	lattice.Element[S]

	// Bot returns the state of unreachable program points, over the same
	// variables as the receiver.
	Bot() S

	// Assign strongly updates v with the value of e.
	Assign(v ir.Var, e ir.Expr) S
	// WeakAssign joins the value of e into v. Used for the derived element
	// keys of containers.
	WeakAssign(v ir.Var, e ir.Expr) S
	// Substitute computes the state before v = e, given the state after it.
	Substitute(v ir.Var, e ir.Expr) S
	// WeakSubstitute computes the state before a weak update of v.
	WeakSubstitute(v ir.Var, e ir.Expr) S
	// Assume restricts the state to the concrete states satisfying cond.
	Assume(cond ir.Expr) S
	// Forget sets v to an unknown value.
	Forget(v ir.Var) S
	// Output accounts for e being printed.
	Output(e ir.Expr) S
	// Use accounts for e being read without being stored.
	Use(e ir.Expr) S
}

// Frame is implemented by states supporting interprocedural analysis.
type Frame[S any] interface {
	// Enter computes the entry state of a callee over its variables, binding
	// params to the values of args in the receiver. Other callee variables
	// are unknown.
	Enter(callee ir.VarSet, params []ir.Var, args []ir.Expr) S
	// Leave binds target in the receiver to the value of result in the exit
	// state of the callee. The result is ⊥ if exit is ⊥. An empty target
	// discards the value.
	Leave(target ir.Var, result ir.Var, exit S) S
}

// Lossy is implemented by states that can tell whether evaluating an
// expression loses precision, e.g. when dividing by a possibly-zero value.
type Lossy interface {
	Inexact(e ir.Expr) bool
}

// Calls resolves calls to functions of the analyzed program. Call returns
// the state after target = call, and false if call.Func is not a function
// of the program. An empty target discards the returned value.
type Calls[S any] interface {
	Call(call ir.Call, target ir.Var, s S) (S, bool)
}

// DirectionChecker is implemented by states whose operations are only sound
// in some analysis directions.
type DirectionChecker interface {
	CheckDirection(dir Direction) error
}
