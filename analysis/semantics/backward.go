package semantics

import (
	"github.com/caterinaurban/lyra/analysis/cfg"
	"github.com/caterinaurban/lyra/analysis/ir"
)

func (sem Semantics[S]) backwardStatement(stmt ir.Stmt, s S) S {
	switch stmt := stmt.(type) {
	case ir.Assign:
		return backwardAssign(stmt.Target, stmt.Value, s)
	case ir.Return:
		return backwardAssign(stmt.Result, stmt.Value, s)
	case ir.IndexAssign:
		s = s.WeakSubstitute(ir.ElemOf(stmt.Container), stmt.Value)
		return s.Use(stmt.Key).Use(ir.Ref{Var: stmt.Container})
	case ir.ExprStmt:
		if call, ok := asCall(stmt.X); ok && call.Func == Print {
			for _, arg := range call.Args {
				s = s.Output(arg)
			}
			return s
		}
		return s.Use(stmt.X)
	}
	return s
}

func backwardAssign[S State[S]](target ir.Var, e ir.Expr, s S) S {
	if call, ok := asCall(e); ok && call.Func == Input {
		return s.Substitute(target, ir.Input{})
	}
	return s.Substitute(target, e)
}

func (sem Semantics[S]) backwardEdge(e cfg.Edge, s S) S {
	if cond := e.Assumption(); cond != nil {
		return s.Assume(cond)
	}
	return s
}
