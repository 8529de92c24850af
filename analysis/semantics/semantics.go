package semantics

import (
	"fmt"

	"github.com/caterinaurban/lyra/analysis/cfg"
	"github.com/caterinaurban/lyra/analysis/ir"
)

// Semantics dispatches statements and edges to the operations of the
// states S. Forward and backward analyses use separate tables.
type Semantics[S State[S]] struct {
	// Calls resolves calls to program functions in forward analyses.
	// Without it, their results are unknown.
	Calls Calls[S]
	// OnPrecisionLoss is invoked for statements whose evaluation lost
	// precision, if the states report it.
	OnPrecisionLoss func(ir.Stmt)
}

// Statement transfers s over stmt. Forward, s holds before stmt and the
// result after it. Backward, it is the other way around.
func (sem Semantics[S]) Statement(dir Direction, stmt ir.Stmt, s S) S {
	if s.IsBot() {
		return s
	}

	switch dir {
	case Forward:
		sem.checkPrecision(stmt, s)
		return sem.forwardStatement(stmt, s)
	case Backward:
		return sem.backwardStatement(stmt, s)
	}
	panic(fmt.Errorf("unknown direction %s", dir))
}

// Edge transfers s along e. Forward, s is the state at the end of the source
// and the result the state entering the target. Backward, s is the state
// entering the target and the result the state at the end of the source.
func (sem Semantics[S]) Edge(dir Direction, e cfg.Edge, s S) S {
	if s.IsBot() {
		return s
	}

	switch dir {
	case Forward:
		return sem.forwardEdge(e, s)
	case Backward:
		return sem.backwardEdge(e, s)
	}
	panic(fmt.Errorf("unknown direction %s", dir))
}

// Block transfers s over the statements of a block, in program order
// forward and in reverse order backward. The states between statements are
// reported to visit in the order they are computed, if visit is not nil.
func (sem Semantics[S]) Block(dir Direction, stmts []ir.Stmt, s S, visit func(i int, s S)) S {
	if dir == Forward {
		for i, stmt := range stmts {
			if visit != nil {
				visit(i, s)
			}
			s = sem.Statement(dir, stmt, s)
		}
		return s
	}

	for i := len(stmts) - 1; i >= 0; i-- {
		if visit != nil {
			visit(i+1, s)
		}
		s = sem.Statement(dir, stmts[i], s)
	}
	return s
}

func (sem Semantics[S]) checkPrecision(stmt ir.Stmt, s S) {
	l, ok := any(s).(Lossy)
	if !ok || sem.OnPrecisionLoss == nil {
		return
	}

	var exprs []ir.Expr
	switch stmt := stmt.(type) {
	case ir.Assign:
		exprs = []ir.Expr{stmt.Value}
	case ir.IndexAssign:
		exprs = []ir.Expr{stmt.Key, stmt.Value}
	case ir.Return:
		exprs = []ir.Expr{stmt.Value}
	case ir.ExprStmt:
		exprs = []ir.Expr{stmt.X}
	}
	for _, e := range exprs {
		if l.Inexact(e) {
			sem.OnPrecisionLoss(stmt)
			return
		}
	}
}
