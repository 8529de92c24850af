package semantics

import (
	"github.com/caterinaurban/lyra/analysis/cfg"
	"github.com/caterinaurban/lyra/analysis/ir"
)

func (sem Semantics[S]) forwardStatement(stmt ir.Stmt, s S) S {
	switch stmt := stmt.(type) {
	case ir.Assign:
		return sem.forwardAssign(stmt.Target, stmt.Value, s)
	case ir.Return:
		return sem.forwardAssign(stmt.Result, stmt.Value, s)
	case ir.IndexAssign:
		s = sem.forwardNestedCalls(stmt.Key, s)
		s = sem.forwardNestedCalls(stmt.Value, s)
		return s.WeakAssign(ir.ElemOf(stmt.Container), stmt.Value)
	case ir.ExprStmt:
		return sem.forwardExprStmt(stmt.X, s)
	}
	return s
}

func (sem Semantics[S]) forwardAssign(target ir.Var, e ir.Expr, s S) S {
	call, ok := asCall(e)
	if !ok {
		s = sem.forwardNestedCalls(e, s)
		return s.Assign(target, e)
	}

	for _, arg := range call.Args {
		s = sem.forwardNestedCalls(arg, s)
	}
	if res, ok := sem.forwardCall(call, target, s); ok {
		return res
	}
	return s.Forget(target)
}

func (sem Semantics[S]) forwardExprStmt(e ir.Expr, s S) S {
	call, ok := asCall(e)
	if !ok {
		return sem.forwardNestedCalls(e, s)
	}

	for _, arg := range call.Args {
		s = sem.forwardNestedCalls(arg, s)
	}
	if res, ok := sem.forwardCall(call, "", s); ok {
		return res
	}
	return s
}

// forwardCall applies the effect of a call. The result is false if the
// target should be forgotten instead.
func (sem Semantics[S]) forwardCall(call ir.Call, target ir.Var, s S) (S, bool) {
	if s.IsBot() {
		return s, true
	}

	switch call.Func {
	case Print:
		for _, arg := range call.Args {
			s = s.Output(arg)
		}
		if target == "" {
			return s, true
		}
		return s.Forget(target), true
	case Input:
		if target == "" {
			return s, true
		}
		return s.Assign(target, ir.Input{}), true
	}

	if sem.Calls != nil {
		if res, ok := sem.Calls.Call(call, target, s); ok {
			return res, true
		}
	}
	if target == "" {
		return s, true
	}
	return s, false
}

// forwardNestedCalls applies the effects of calls nested in e. Their
// values are unknown to the domain.
func (sem Semantics[S]) forwardNestedCalls(e ir.Expr, s S) S {
	for _, call := range nestedCalls(e) {
		s, _ = sem.forwardCall(call, "", s)
	}
	return s
}

// forwardEdge evaluates the calls in the branch condition before assuming
// it. The condition of both branches of a node is evaluated on each edge.
func (sem Semantics[S]) forwardEdge(e cfg.Edge, s S) S {
	if cond := e.Assumption(); cond != nil {
		return sem.forwardNestedCalls(cond, s).Assume(cond)
	}
	return s
}
