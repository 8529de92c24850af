package lattice

import (
	"math"
	"strconv"
)

// Bound is an interface implemented by all interval bounds i.e.,
// any FiniteBound value, PlusInfinity and MinusInfinity.
//
// Finite arithmetic saturates: a result that does not fit in 64 bits
// becomes the infinity of the same sign.
type Bound interface {
	String() string
	IsInfinite() bool

	Eq(Bound) bool
	Leq(Bound) bool
	Geq(Bound) bool
	Lt(Bound) bool
	Gt(Bound) bool

	Plus(Bound) Bound
	Minus(Bound) Bound
	Mult(Bound) Bound
	Div(Bound) Bound
	Neg() Bound
	Abs() Bound

	Max(Bound) Bound
	Min(Bound) Bound
}

type (
	// FiniteBound is an integer bound.
	FiniteBound int64
	// PlusInfinity is the bound ∞.
	PlusInfinity struct{}
	// MinusInfinity is the bound -∞.
	MinusInfinity struct{}
)

var (
	_ Bound = FiniteBound(0)
	_ Bound = PlusInfinity{}
	_ Bound = MinusInfinity{}
)

// rank orders the kinds of bounds: -∞ < ℤ < ∞.
func rank(b Bound) int {
	switch b.(type) {
	case MinusInfinity:
		return -1
	case FiniteBound:
		return 0
	case PlusInfinity:
		return 1
	}
	panic(errInternal)
}

// compare returns -1, 0 or 1 if b1 < b2, b1 = b2 or b1 > b2 respectively.
func compare(b1, b2 Bound) int {
	r1, r2 := rank(b1), rank(b2)
	switch {
	case r1 < r2:
		return -1
	case r1 > r2:
		return 1
	case r1 != 0:
		return 0
	}

	c1, c2 := b1.(FiniteBound), b2.(FiniteBound)
	switch {
	case c1 < c2:
		return -1
	case c1 > c2:
		return 1
	}
	return 0
}

// sign returns -1, 0 or 1 for negative, zero and positive bounds.
func sign(b Bound) int {
	return compare(b, FiniteBound(0))
}

// infinity returns the infinite bound with the given sign.
func infinity(s int) Bound {
	if s < 0 {
		return MinusInfinity{}
	}
	return PlusInfinity{}
}

func (b FiniteBound) String() string {
	return strconv.FormatInt(int64(b), 10)
}

func (PlusInfinity) String() string {
	return "∞"
}

func (MinusInfinity) String() string {
	return "-∞"
}

// IsInfinite is false for the finite bound.
func (FiniteBound) IsInfinite() bool { return false }

// IsInfinite is true for ∞.
func (PlusInfinity) IsInfinite() bool { return true }

// IsInfinite is true for -∞.
func (MinusInfinity) IsInfinite() bool { return true }

// Eq compares for equality with another bound. Two finite bounds
// are equal if their underlying values are equal.
func (b1 FiniteBound) Eq(b2 Bound) bool   { return compare(b1, b2) == 0 }
func (b1 PlusInfinity) Eq(b2 Bound) bool  { return compare(b1, b2) == 0 }
func (b1 MinusInfinity) Eq(b2 Bound) bool { return compare(b1, b2) == 0 }

// Leq computes b1 ≤ b2. The semantics is -∞ ≤ c ≤ ∞, where c ∈ ℤ.
func (b1 FiniteBound) Leq(b2 Bound) bool   { return compare(b1, b2) <= 0 }
func (b1 PlusInfinity) Leq(b2 Bound) bool  { return compare(b1, b2) <= 0 }
func (b1 MinusInfinity) Leq(b2 Bound) bool { return compare(b1, b2) <= 0 }

// Geq computes b1 ≥ b2.
func (b1 FiniteBound) Geq(b2 Bound) bool   { return compare(b1, b2) >= 0 }
func (b1 PlusInfinity) Geq(b2 Bound) bool  { return compare(b1, b2) >= 0 }
func (b1 MinusInfinity) Geq(b2 Bound) bool { return compare(b1, b2) >= 0 }

// Lt computes b1 < b2.
func (b1 FiniteBound) Lt(b2 Bound) bool   { return compare(b1, b2) < 0 }
func (b1 PlusInfinity) Lt(b2 Bound) bool  { return compare(b1, b2) < 0 }
func (b1 MinusInfinity) Lt(b2 Bound) bool { return compare(b1, b2) < 0 }

// Gt computes b1 > b2.
func (b1 FiniteBound) Gt(b2 Bound) bool   { return compare(b1, b2) > 0 }
func (b1 PlusInfinity) Gt(b2 Bound) bool  { return compare(b1, b2) > 0 }
func (b1 MinusInfinity) Gt(b2 Bound) bool { return compare(b1, b2) > 0 }

// Max returns the greater of the two bounds.
func (b1 FiniteBound) Max(b2 Bound) Bound   { return maxBound(b1, b2) }
func (b1 PlusInfinity) Max(b2 Bound) Bound  { return b1 }
func (b1 MinusInfinity) Max(b2 Bound) Bound { return b2 }

// Min returns the lesser of the two bounds.
func (b1 FiniteBound) Min(b2 Bound) Bound   { return minBound(b1, b2) }
func (b1 PlusInfinity) Min(b2 Bound) Bound  { return b2 }
func (b1 MinusInfinity) Min(b2 Bound) Bound { return b1 }

func maxBound(b1, b2 Bound) Bound {
	if b1.Geq(b2) {
		return b1
	}
	return b2
}

func minBound(b1, b2 Bound) Bound {
	if b1.Leq(b2) {
		return b1
	}
	return b2
}

// Plus computes b1 + b2. The semantics of plus is:
//
//	.--------------------.
//	|   b2   |  b1 + b2  |
//	|========|===========|
//	|   ∈ ℤ  |  b1 + b2  |
//	|--------|-----------|
//	|    ∞   |     ∞     |
//	|--------|-----------|
//	|   -∞   |    -∞     |
//	 --------------------
func (b1 FiniteBound) Plus(b2 Bound) Bound {
	c2, ok := b2.(FiniteBound)
	if !ok {
		return b2
	}

	s := b1 + c2
	switch {
	case b1 > 0 && c2 > 0 && s < 0:
		return PlusInfinity{}
	case b1 < 0 && c2 < 0 && s >= 0:
		return MinusInfinity{}
	}
	return s
}

// Plus computes ∞ + b2. Adding -∞ is undefined.
func (b1 PlusInfinity) Plus(b2 Bound) Bound {
	if _, ok := b2.(MinusInfinity); ok {
		panic(errInternal)
	}
	return b1
}

// Plus computes -∞ + b2. Adding ∞ is undefined.
func (b1 MinusInfinity) Plus(b2 Bound) Bound {
	if _, ok := b2.(PlusInfinity); ok {
		panic(errInternal)
	}
	return b1
}

// Minus computes b1 - b2 as b1 + (-b2).
func (b1 FiniteBound) Minus(b2 Bound) Bound {
	if b2 == FiniteBound(math.MinInt64) {
		if b1 >= 0 {
			return PlusInfinity{}
		}
		return b1 + 1 + math.MaxInt64
	}
	return b1.Plus(b2.Neg())
}

func (b1 PlusInfinity) Minus(b2 Bound) Bound  { return b1.Plus(b2.Neg()) }
func (b1 MinusInfinity) Minus(b2 Bound) Bound { return b1.Plus(b2.Neg()) }

// Neg computes -b. Negating the least 64-bit integer saturates to ∞.
func (b FiniteBound) Neg() Bound {
	if b == math.MinInt64 {
		return PlusInfinity{}
	}
	return -b
}

func (PlusInfinity) Neg() Bound  { return MinusInfinity{} }
func (MinusInfinity) Neg() Bound { return PlusInfinity{} }

// Abs computes |b|.
func (b FiniteBound) Abs() Bound {
	if b < 0 {
		return b.Neg()
	}
	return b
}

func (PlusInfinity) Abs() Bound  { return PlusInfinity{} }
func (MinusInfinity) Abs() Bound { return PlusInfinity{} }

// Mult computes b1 * b2. The semantics of multiplication is:
//
//	.-----------------------------.
//	|   b1   |   b2   |  b1 * b2  |
//	|========|========|===========|
//	|  ∈  ℤ  |  ∈  ℤ  |  b1 * b2  |
//	|--------|--------|-----------|
//	|    0   |  (-)∞  |     0     |
//	|--------|--------|-----------|
//	|  ≠  0  |  (-)∞  |    (-)∞   |
//	 -----------------------------
//
// The sign of an infinite result is the product of the operand signs.
func (b1 FiniteBound) Mult(b2 Bound) Bound {
	c2, ok := b2.(FiniteBound)
	if !ok {
		return multInfinite(b1, b2)
	}

	if b1 == 0 || c2 == 0 {
		return FiniteBound(0)
	}
	p := b1 * c2
	if p/c2 != b1 || (b1 == -1 && c2 == math.MinInt64) || (c2 == -1 && b1 == math.MinInt64) {
		return infinity(sign(b1) * sign(c2))
	}
	return p
}

func (b1 PlusInfinity) Mult(b2 Bound) Bound  { return multInfinite(b1, b2) }
func (b1 MinusInfinity) Mult(b2 Bound) Bound { return multInfinite(b1, b2) }

func multInfinite(b1, b2 Bound) Bound {
	s := sign(b1) * sign(b2)
	if s == 0 {
		return FiniteBound(0)
	}
	return infinity(s)
}

// Div computes b1 / b2, truncating towards zero. The semantics of division is:
//
//	.-----------------------------.
//	|   b1   |   b2   |  b1 / b2  |
//	|========|========|===========|
//	|  ∈  ℤ  |  ∈ ℤ≠0 |  b1 / b2  |
//	|--------|--------|-----------|
//	|  ∈  ℤ  |  (-)∞  |     0     |
//	|--------|--------|-----------|
//	|  (-)∞  |  ≠  0  |    (-)∞   |
//	|--------|--------|-----------|
//	|    *   |    0   |   panic   |
//	 -----------------------------
//
// Callers must exclude zero divisors.
func (b1 FiniteBound) Div(b2 Bound) Bound {
	c2, ok := b2.(FiniteBound)
	switch {
	case !ok:
		return FiniteBound(0)
	case c2 == 0:
		panic(errInternal)
	case b1 == math.MinInt64 && c2 == -1:
		return PlusInfinity{}
	}
	return b1 / c2
}

func (b1 PlusInfinity) Div(b2 Bound) Bound  { return divInfinite(b1, b2) }
func (b1 MinusInfinity) Div(b2 Bound) Bound { return divInfinite(b1, b2) }

func divInfinite(b1, b2 Bound) Bound {
	s := sign(b2)
	if s == 0 {
		panic(errInternal)
	}
	return infinity(sign(b1) * s)
}
