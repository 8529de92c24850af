package interval

import (
	"github.com/caterinaurban/lyra/analysis/ir"
	L "github.com/caterinaurban/lyra/analysis/lattice"
)

// Assume restricts the state to the concrete states satisfying cond.
// Comparisons refine the variables they compare directly. Conjunctions
// refine sequentially and disjunctions join the refinements of both sides.
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
			return s.assumeTruth(c.X, false)
		}
	}
	return s.assumeTruth(cond, true)
}

func isNot(e ir.Expr) bool {
	u, ok := e.(ir.Unary)
	return ok && u.Op == ir.Not
}

// assumeTruth restricts the state by the truth value of an arbitrary
// expression. A variable used as a condition is refined against zero.
func (s State) assumeTruth(e ir.Expr, expected bool) State {
	v := s.Eval(e)
	switch {
	case v.IsBot():
		return s.bottom()
	case expected && eq(v, falsity):
		return s.bottom()
	case !expected && !v.Contains(0):
		return s.bottom()
	}

	if ref, ok := e.(ir.Ref); ok {
		if expected {
			return s.Set(ref.Var, s.Get(ref.Var).NotEqual(falsity))
		}
		return s.Set(ref.Var, s.Get(ref.Var).Meet(falsity))
	}
	return s
}

func (s State) assumeComparison(c ir.Binary) State {
	x, y := s.Eval(c.X), s.Eval(c.Y)
	if x.IsBot() || y.IsBot() || eq(compare(c.Op, x, y), falsity) {
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

// refine restricts x to the values satisfying x op y for some value of y.
func refine(op ir.Op, x, y L.Interval) L.Interval {
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
