package sign

import (
	"github.com/caterinaurban/lyra/analysis/ir"
	L "github.com/caterinaurban/lyra/analysis/lattice"
)

// Assume restricts the state to the concrete states satisfying cond.
func (s State) Assume(cond ir.Expr) State {
	if s.IsBot() {
		return s
	}

	switch c := cond.(type) {
	case ir.Const:
		if c.Value == 0 {
			return s.bottom()
		}
		return s
	case ir.Binary:
		switch {
		case c.Op == ir.And:
			return s.Assume(c.X).Assume(c.Y)
		case c.Op == ir.Or:
			return s.Assume(c.X).Join(s.Assume(c.Y))
		case c.Op.IsComparison():
			return s.assumeComparison(c)
		}
	case ir.Unary:
		if c.Op == ir.Not {
			if neg := ir.Negate(c.X); !isNot(neg) {
				return s.Assume(neg)
			}
			return s.assumeZero(c.X, true)
		}
	}
	return s.assumeZero(cond, false)
}

func isNot(e ir.Expr) bool {
	u, ok := e.(ir.Unary)
	return ok && u.Op == ir.Not
}

// assumeZero restricts the state by whether e is zero.
func (s State) assumeZero(e ir.Expr, zero bool) State {
	v := s.Eval(e)
	if zero {
		v = v.Meet(L.Zero)
	} else {
		v = v.NotEqual(L.Zero)
	}
	if v.IsBot() {
		return s.bottom()
	}
	if ref, ok := e.(ir.Ref); ok {
		return s.Set(ref.Var, v)
	}
	return s
}

func (s State) assumeComparison(c ir.Binary) State {
	x, y := s.Eval(c.X), s.Eval(c.Y)
	if x.IsBot() || y.IsBot() || compare(c.Op, x, y) == L.Zero {
		return s.bottom()
	}

	if ref, ok := c.X.(ir.Ref); ok {
		x = refine(c.Op, x, y)
		s = s.Set(ref.Var, x)
		if s.IsBot() {
			return s
		}
	}
	if ref, ok := c.Y.(ir.Ref); ok {
		s = s.Set(ref.Var, refine(c.Op.Flip(), s.Get(ref.Var), x))
	}
	return s
}

func refine(op ir.Op, x, y L.Sign) L.Sign {
	switch op {
	case ir.Lt:
		return x.LessThan(y)
	case ir.Le:
		return x.AtMost(y)
	case ir.Gt:
		return x.GreaterThan(y)
	case ir.Ge:
		return x.AtLeast(y)
	case ir.Eq:
		return x.Meet(y)
	case ir.Ne:
		return x.NotEqual(y)
	}
	return x
}
