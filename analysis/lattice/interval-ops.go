package lattice

// Arithmetic on intervals. Every operation is strict in ⊥.

// Neg computes -[a, b] = [-b, -a].
func (e Interval) Neg() Interval {
	if !e.nonEmpty {
		return e
	}
	return Span(e.high.Neg(), e.low.Neg())
}

// Add computes [a, b] + [c, d] = [a + c, b + d].
func (e1 Interval) Add(e2 Interval) Interval {
	if !e1.nonEmpty || !e2.nonEmpty {
		return Interval{}
	}
	return Span(e1.low.Plus(e2.low), e1.high.Plus(e2.high))
}

// Sub computes [a, b] - [c, d] = [a - d, b - c].
func (e1 Interval) Sub(e2 Interval) Interval {
	if !e1.nonEmpty || !e2.nonEmpty {
		return Interval{}
	}
	return Span(e1.low.Minus(e2.high), e1.high.Minus(e2.low))
}

// Mul computes the hull of the pairwise products of the bounds.
func (e1 Interval) Mul(e2 Interval) Interval {
	if !e1.nonEmpty || !e2.nonEmpty {
		return Interval{}
	}
	return hull(
		e1.low.Mult(e2.low),
		e1.low.Mult(e2.high),
		e1.high.Mult(e2.low),
		e1.high.Mult(e2.high),
	)
}

// Div computes the quotient of truncating integer division. If the divisor
// may be zero, the result is [-∞, ∞] and exact is false.
func (e1 Interval) Div(e2 Interval) (res Interval, exact bool) {
	if !e1.nonEmpty || !e2.nonEmpty {
		return Interval{}, true
	}
	if e2.Contains(0) {
		return intervalLattice.Top(), false
	}
	return hull(
		e1.low.Div(e2.low),
		e1.low.Div(e2.high),
		e1.high.Div(e2.low),
		e1.high.Div(e2.high),
	), true
}

// Mod computes the remainder of truncating integer division. The remainder
// takes the sign of the dividend and its magnitude is less than the divisor's.
// If the divisor may be zero, the result is [-∞, ∞] and exact is false.
func (e1 Interval) Mod(e2 Interval) (res Interval, exact bool) {
	if !e1.nonEmpty || !e2.nonEmpty {
		return Interval{}, true
	}
	if e2.Contains(0) {
		return intervalLattice.Top(), false
	}

	m := e2.low.Abs().Max(e2.high.Abs()).Minus(FiniteBound(1))
	switch {
	case e1.low.Geq(FiniteBound(0)):
		return Span(FiniteBound(0), e1.high.Min(m)), true
	case e1.high.Leq(FiniteBound(0)):
		return Span(e1.low.Max(m.Neg()), FiniteBound(0)), true
	}
	return Span(e1.low.Max(m.Neg()), e1.high.Min(m)), true
}

func hull(bs ...Bound) Interval {
	low, high := bs[0], bs[0]
	for _, b := range bs[1:] {
		low, high = low.Min(b), high.Max(b)
	}
	return Span(low, high)
}

// Refinements used when assuming a comparison e1 ⋈ e2 holds. Each returns
// the subset of e1 that may satisfy the comparison with some member of e2.

// LessThan refines e1 under e1 < e2.
func (e1 Interval) LessThan(e2 Interval) Interval {
	if !e2.nonEmpty {
		return Interval{}
	}
	return e1.Meet(Span(MinusInfinity{}, e2.high.Minus(FiniteBound(1))))
}

// AtMost refines e1 under e1 ≤ e2.
func (e1 Interval) AtMost(e2 Interval) Interval {
	if !e2.nonEmpty {
		return Interval{}
	}
	return e1.Meet(Span(MinusInfinity{}, e2.high))
}

// GreaterThan refines e1 under e1 > e2.
func (e1 Interval) GreaterThan(e2 Interval) Interval {
	if !e2.nonEmpty {
		return Interval{}
	}
	return e1.Meet(Span(e2.low.Plus(FiniteBound(1)), PlusInfinity{}))
}

// AtLeast refines e1 under e1 ≥ e2.
func (e1 Interval) AtLeast(e2 Interval) Interval {
	if !e2.nonEmpty {
		return Interval{}
	}
	return e1.Meet(Span(e2.low, PlusInfinity{}))
}

// NotEqual refines e1 under e1 ≠ e2. Only a constant e2 matching one of
// the bounds of e1 shaves that bound off.
func (e1 Interval) NotEqual(e2 Interval) Interval {
	if !e1.nonEmpty || !e2.nonEmpty {
		return Interval{}
	}
	c, ok := e2.Constant()
	if !ok {
		return e1
	}

	low, high := e1.low, e1.high
	if low.Eq(FiniteBound(c)) {
		low = low.Plus(FiniteBound(1))
	}
	if high.Eq(FiniteBound(c)) {
		high = high.Minus(FiniteBound(1))
	}
	return Span(low, high)
}
