// Package absint computes abstract states at every program point by
// chaotic iteration with widening and narrowing, for any abstract domain
// implementing the semantics.State contract.
package absint

import (
	"github.com/caterinaurban/lyra/analysis/cfg"
	"github.com/caterinaurban/lyra/analysis/ir"
	"github.com/caterinaurban/lyra/analysis/semantics"

	"github.com/pkg/errors"
)

var (
	ErrInvalidOption   = errors.New("invalid interpreter option")
	ErrUnknownVariable = errors.New("variable not tracked by the initial state")
	ErrDirection       = errors.New("unsupported analysis direction")
	ErrNoExits         = errors.New("backward analysis of a graph without exits")
)

// Scoped is implemented by states over a fixed set of variables. Runs check
// that every variable of the graph is tracked by the initial state.
type Scoped interface {
	Vars() ir.VarSet
}

// Interpreter runs abstract interpretations of control-flow graphs.
type Interpreter[S semantics.State[S]] struct {
	sem semantics.Semantics[S]
	options
}

// New creates an interpreter for the given semantics. By default, it
// analyzes forward, does not delay widening, and narrows twice.
func New[S semantics.State[S]](sem semantics.Semantics[S], opts ...Option) (*Interpreter[S], error) {
	in := &Interpreter[S]{sem: sem, options: defaultOptions()}
	for _, opt := range opts {
		opt(&in.options)
	}

	switch {
	case in.narrowing < 0:
		return nil, errors.Wrapf(ErrInvalidOption, "%d narrowing passes", in.narrowing)
	case in.wideningDelay < 0:
		return nil, errors.Wrapf(ErrInvalidOption, "widening delay %d", in.wideningDelay)
	case in.maxIterations <= 0:
		return nil, errors.Wrapf(ErrInvalidOption, "at most %d iterations", in.maxIterations)
	case in.dir != semantics.Forward && in.dir != semantics.Backward:
		return nil, errors.Wrapf(ErrInvalidOption, "direction %s", in.dir)
	case in.log == nil:
		return nil, errors.Wrap(ErrInvalidOption, "no logger")
	}
	return in, nil
}

// Direction returns the direction of the analysis.
func (in *Interpreter[S]) Direction() semantics.Direction {
	return in.dir
}

// Run computes the abstract states of g. The initial state holds at the
// entry of forward analyses and at every exit of backward ones. The error
// is non-nil only if the analysis cannot start.
func (in *Interpreter[S]) Run(g *cfg.Graph, init S) (*Result[S], error) {
	if err := in.check(g, init); err != nil {
		return nil, err
	}
	return in.run(g, init, in.sem), nil
}

func (in *Interpreter[S]) check(g *cfg.Graph, init S) error {
	if dc, ok := any(init).(semantics.DirectionChecker); ok {
		if err := dc.CheckDirection(in.dir); err != nil {
			return errors.WithMessage(ErrDirection, err.Error())
		}
	}
	if !in.dir.IsForward() && len(g.Exits()) == 0 {
		return ErrNoExits
	}

	scoped, ok := any(init).(Scoped)
	if !ok {
		return nil
	}
	vars := scoped.Vars()
	for _, n := range g.Nodes() {
		for _, stmt := range g.Node(n).Stmts {
			for _, v := range ir.StmtVars(stmt) {
				if !vars.Contains(v) {
					return errors.Wrapf(ErrUnknownVariable, "%s in %s", v, g.Node(n))
				}
			}
		}
		for _, e := range g.OutEdges(n) {
			if e.Cond == nil {
				continue
			}
			for _, v := range ir.FreeVars(e.Cond) {
				if !vars.Contains(v) {
					return errors.Wrapf(ErrUnknownVariable, "%s in %s", v, e)
				}
			}
		}
	}
	return nil
}
