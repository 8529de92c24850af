package lattice

import "math"

// IntervalLattice is the lattice of integer intervals, ordered by inclusion.
type IntervalLattice struct{}

var intervalLattice = &IntervalLattice{}

func (*IntervalLattice) String() string {
	return colorize.Lattice("Interval")
}

// Bot returns the empty interval.
func (*IntervalLattice) Bot() Interval {
	return Interval{}
}

// Top returns [-∞, ∞].
func (*IntervalLattice) Top() Interval {
	return Interval{nonEmpty: true, low: MinusInfinity{}, high: PlusInfinity{}}
}

// Interval is an interval and a member of the interval lattice.
// Any non-empty interval consists of two bounds, `low` and `high`,
// where low ≤ high. The zero value is the empty interval ⊥.
type Interval struct {
	nonEmpty  bool
	low, high Bound
}

var _ Element[Interval] = Interval{}

// Span creates an interval with possibly infinite bounds.
// The result is ⊥ if low > high. A lower bound of ∞ or an upper bound of -∞
// arises only from saturated arithmetic, and is clamped to the nearest
// 64-bit integer.
func Span(low, high Bound) Interval {
	if low.Eq(PlusInfinity{}) {
		low = FiniteBound(math.MaxInt64)
	}
	if high.Eq(MinusInfinity{}) {
		high = FiniteBound(math.MinInt64)
	}
	if low.Gt(high) {
		return Interval{}
	}
	return Interval{nonEmpty: true, low: low, high: high}
}

// Finite creates an interval with finite bounds.
func Finite(low, high int64) Interval {
	return Span(FiniteBound(low), FiniteBound(high))
}

// Const creates the singleton interval [c, c].
func Const(c int64) Interval {
	return Finite(c, c)
}

// Interval creates an interval with possibly infinite bounds.
func (elementFactory) Interval(low, high Bound) Interval {
	return Span(low, high)
}

func (e Interval) String() string {
	if !e.nonEmpty {
		return colorize.Element("⊥")
	}
	return "[" + colorize.Const(e.low.String()) + ", " + colorize.Const(e.high.String()) + "]"
}

// IsBot checks that the interval is empty.
func (e Interval) IsBot() bool {
	return !e.nonEmpty
}

// IsTop checks that the interval is equal to [-∞, ∞].
func (e Interval) IsTop() bool {
	return e.nonEmpty && e.low.Eq(MinusInfinity{}) && e.high.Eq(PlusInfinity{})
}

// Low returns the lower bound. Panics on ⊥.
func (e Interval) Low() Bound {
	e.mustBeNonEmpty()
	return e.low
}

// High returns the upper bound. Panics on ⊥.
func (e Interval) High() Bound {
	e.mustBeNonEmpty()
	return e.high
}

func (e Interval) mustBeNonEmpty() {
	if !e.nonEmpty {
		panic(errInternal)
	}
}

// Constant returns c if the interval is [c, c].
func (e Interval) Constant() (int64, bool) {
	if !e.nonEmpty {
		return 0, false
	}
	l, ok := e.low.(FiniteBound)
	if !ok || !e.low.Eq(e.high) {
		return 0, false
	}
	return int64(l), true
}

// Contains checks whether c is a member of the interval.
func (e Interval) Contains(c int64) bool {
	return e.nonEmpty && e.low.Leq(FiniteBound(c)) && e.high.Geq(FiniteBound(c))
}

// Leq computes e1 ⊑ e2, i.e. whether e1 is included in e2.
func (e1 Interval) Leq(e2 Interval) bool {
	switch {
	case !e1.nonEmpty:
		return true
	case !e2.nonEmpty:
		return false
	}
	return e2.low.Leq(e1.low) && e1.high.Leq(e2.high)
}

// Join computes e1 ⊔ e2.
// The resulting interval takes the lowest of the lower bounds,
// and the highest of the upper bounds.
func (e1 Interval) Join(e2 Interval) Interval {
	switch {
	case !e1.nonEmpty:
		return e2
	case !e2.nonEmpty:
		return e1
	}
	return Span(e1.low.Min(e2.low), e1.high.Max(e2.high))
}

// Meet computes e1 ⊓ e2.
// The resulting interval takes the highest of the lower bounds,
// and the lowest of the upper bounds.
func (e1 Interval) Meet(e2 Interval) Interval {
	if !e1.nonEmpty || !e2.nonEmpty {
		return Interval{}
	}
	return Span(e1.low.Max(e2.low), e1.high.Min(e2.high))
}

// Widen computes e1 ∇ e2. A bound of e1 is kept if e2 does not exceed it,
// and is otherwise pushed to the corresponding infinity:
//
//	[a, b] ∇ [c, d] = [c < a ? -∞ : a, d > b ? ∞ : b]
func (e1 Interval) Widen(e2 Interval) Interval {
	switch {
	case !e1.nonEmpty:
		return e2
	case !e2.nonEmpty:
		return e1
	}

	var low, high Bound = e1.low, e1.high
	if e2.low.Lt(e1.low) {
		low = MinusInfinity{}
	}
	if e2.high.Gt(e1.high) {
		high = PlusInfinity{}
	}
	return Span(low, high)
}

// Narrow computes e1 △ e2. Only infinite bounds of e1 are refined, by
// taking the corresponding bound of e2:
//
//	[a, b] △ [c, d] = [a = -∞ ? c : a, b = ∞ ? d : b]
func (e1 Interval) Narrow(e2 Interval) Interval {
	if !e1.nonEmpty || !e2.nonEmpty {
		return Interval{}
	}

	var low, high Bound = e1.low, e1.high
	if low.Eq(MinusInfinity{}) {
		low = e2.low
	}
	if high.Eq(PlusInfinity{}) {
		high = e2.high
	}
	return Span(low, high)
}
