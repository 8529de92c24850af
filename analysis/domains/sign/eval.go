package sign

import (
	"github.com/caterinaurban/lyra/analysis/ir"
	L "github.com/caterinaurban/lyra/analysis/lattice"
)

// Booleans are 0 and 1, i.e. zero and positive.
const booleans = L.NonNegative

// Eval computes the signs e may evaluate to.
func (s State) Eval(e ir.Expr) L.Sign {
	res, _ := s.eval(e)
	return res
}

// Inexact checks whether evaluating e divides by a value that may be zero.
func (s State) Inexact(e ir.Expr) bool {
	if s.IsBot() {
		return false
	}
	_, exact := s.eval(e)
	return !exact
}

func (s State) eval(e ir.Expr) (L.Sign, bool) {
	switch e := e.(type) {
	case ir.Const:
		return L.SignOf(e.Value), true
	case ir.Ref:
		return s.Get(e.Var), true
	case ir.Index:
		if elem := ir.ElemOf(e.Container); s.Vars().Contains(elem) {
			return s.Get(elem), true
		}
	case ir.Unary:
		x, exact := s.eval(e.X)
		switch e.Op {
		case ir.Neg:
			return x.Neg(), exact
		case ir.Not:
			return not(x), exact
		}
		return L.SignTop, exact
	case ir.Binary:
		x, xexact := s.eval(e.X)
		y, yexact := s.eval(e.Y)
		exact := xexact && yexact
		if x.IsBot() || y.IsBot() {
			return L.SignBot, exact
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
		case ir.And, ir.Or:
			return booleans, exact
		}
		if e.Op.IsComparison() {
			return compare(e.Op, x, y), exact
		}
	}
	return L.SignTop, true
}

func not(x L.Sign) L.Sign {
	switch {
	case x.IsBot():
		return x
	case x == L.Zero:
		return L.Positive
	case x&L.Zero == 0:
		return L.Zero
	}
	return booleans
}

// compare evaluates x op y to true (positive), false (zero) or either.
func compare(op ir.Op, x, y L.Sign) L.Sign {
	switch op {
	case ir.Eq:
		switch {
		case x.Meet(y).IsBot():
			return L.Zero
		case x == L.Zero && y == L.Zero:
			return L.Positive
		}
		return booleans
	case ir.Ne:
		return not(compare(ir.Eq, x, y))
	}

	switch {
	case refine(op, x, y).IsBot():
		return L.Zero
	case refine(op.Complement(), x, y).IsBot():
		return L.Positive
	}
	return booleans
}
