package interval

import (
	"github.com/caterinaurban/lyra/analysis/ir"
	L "github.com/caterinaurban/lyra/analysis/lattice"
)

var (
	top      = L.Create().Lattice().Interval().Top()
	falsity  = L.Const(0)
	truth    = L.Const(1)
	booleans = L.Finite(0, 1)
)

// Eval computes the interval of values e may evaluate to. Expressions the
// domain cannot represent evaluate to [-∞, ∞].
func (s State) Eval(e ir.Expr) L.Interval {
	res, _ := s.eval(e)
	return res
}

// Inexact checks whether evaluating e loses precision beyond the
// imprecision of the intervals themselves.
func (s State) Inexact(e ir.Expr) bool {
	if s.IsBot() {
		return false
	}
	_, exact := s.eval(e)
	return !exact
}

func (s State) eval(e ir.Expr) (L.Interval, bool) {
	switch e := e.(type) {
	case ir.Const:
		return L.Const(e.Value), true
	case ir.Ref:
		return s.Get(e.Var), true
	case ir.Index:
		if _, exact := s.eval(e.Key); !exact {
			return top, false
		}
		if elem := ir.ElemOf(e.Container); s.Vars().Contains(elem) {
			return s.Get(elem), true
		}
		return top, true
	case ir.Unary:
		x, exact := s.eval(e.X)
		switch e.Op {
		case ir.Neg:
			return x.Neg(), exact
		case ir.Not:
			return not(x), exact
		}
		return top, exact
	case ir.Binary:
		return s.evalBinary(e)
	}
	return top, true
}

func (s State) evalBinary(e ir.Binary) (L.Interval, bool) {
	x, xexact := s.eval(e.X)
	y, yexact := s.eval(e.Y)
	exact := xexact && yexact
	if x.IsBot() || y.IsBot() {
		return L.Interval{}, exact
	}

	if e.Op.IsComparison() {
		return compare(e.Op, x, y), exact
	}

	switch e.Op {
	case ir.Add:
		return x.Add(y), exact
	case ir.Sub:
		return x.Sub(y), exact
	case ir.Mul:
		return x.Mul(y), exact
	case ir.Div:
		res, ok := x.Div(y)
		return res, exact && ok
	case ir.Mod:
		res, ok := x.Mod(y)
		return res, exact && ok
	case ir.And:
		switch {
		case eq(x, falsity) || eq(y, falsity):
			return falsity, exact
		case !x.Contains(0) && !y.Contains(0):
			return truth, exact
		}
		return booleans, exact
	case ir.Or:
		switch {
		case !x.Contains(0) || !y.Contains(0):
			return truth, exact
		case eq(x, falsity) && eq(y, falsity):
			return falsity, exact
		}
		return booleans, exact
	}
	return top, exact
}

func eq(a, b L.Interval) bool {
	return L.Eq(a, b)
}

func not(x L.Interval) L.Interval {
	switch {
	case x.IsBot():
		return x
	case eq(x, falsity):
		return truth
	case !x.Contains(0):
		return falsity
	}
	return booleans
}

// compare evaluates x op y to true, false or either.
func compare(op ir.Op, x, y L.Interval) L.Interval {
	holds, fails := false, false
	switch op {
	case ir.Lt:
		holds, fails = x.High().Lt(y.Low()), x.Low().Geq(y.High())
	case ir.Le:
		holds, fails = x.High().Leq(y.Low()), x.Low().Gt(y.High())
	case ir.Gt:
		return compare(ir.Lt, y, x)
	case ir.Ge:
		return compare(ir.Le, y, x)
	case ir.Eq:
		xc, xok := x.Constant()
		yc, yok := y.Constant()
		holds, fails = xok && yok && xc == yc, x.Meet(y).IsBot()
	case ir.Ne:
		return not(compare(ir.Eq, x, y))
	}

	switch {
	case holds:
		return truth
	case fails:
		return falsity
	}
	return booleans
}
