package lattice

import "strings"

// SignLattice is the finite lattice of sets of signs {-, 0, +}.
type SignLattice struct{}

var signLattice = &SignLattice{}

func (*SignLattice) String() string {
	return colorize.Lattice("Sign")
}

func (*SignLattice) Bot() Sign { return SignBot }
func (*SignLattice) Top() Sign { return SignTop }

// Sign is a set of signs, encoded as a bit mask. Joins are unions and
// meets are intersections. The lattice has finite height, so widening is
// the join and narrowing is the meet.
type Sign uint8

const (
	Negative Sign = 1 << iota
	Zero
	Positive

	SignBot     Sign = 0
	NonPositive      = Negative | Zero
	NonZero          = Negative | Positive
	NonNegative      = Zero | Positive
	SignTop          = Negative | Zero | Positive
)

var _ Element[Sign] = Sign(0)

// SignOf abstracts a single integer.
func SignOf(c int64) Sign {
	switch {
	case c < 0:
		return Negative
	case c > 0:
		return Positive
	}
	return Zero
}

func (e Sign) String() string {
	switch e {
	case SignBot:
		return colorize.Element("⊥")
	case SignTop:
		return colorize.Element("⊤")
	}

	strs := []string{}
	if e&Negative != 0 {
		strs = append(strs, "-")
	}
	if e&Zero != 0 {
		strs = append(strs, "0")
	}
	if e&Positive != 0 {
		strs = append(strs, "+")
	}
	return colorize.Const(strings.Join(strs, ""))
}

func (e Sign) IsBot() bool { return e == SignBot }
func (e Sign) IsTop() bool { return e == SignTop }

func (e1 Sign) Leq(e2 Sign) bool     { return e1&^e2 == 0 }
func (e1 Sign) Join(e2 Sign) Sign    { return e1 | e2 }
func (e1 Sign) Meet(e2 Sign) Sign    { return e1 & e2 }
func (e1 Sign) Widen(e2 Sign) Sign   { return e1 | e2 }
func (e1 Sign) Narrow(e2 Sign) Sign  { return e1 & e2 }
func (e Sign) Contains(c int64) bool { return e&SignOf(c) != 0 }

// atoms enumerates the individual signs of the set.
func (e Sign) atoms() []Sign {
	res := make([]Sign, 0, 3)
	for _, a := range []Sign{Negative, Zero, Positive} {
		if e&a != 0 {
			res = append(res, a)
		}
	}
	return res
}

// lift extends an operation on individual signs to sets of signs.
func (e1 Sign) lift(e2 Sign, op func(a, b Sign) Sign) Sign {
	res := SignBot
	for _, a := range e1.atoms() {
		for _, b := range e2.atoms() {
			res |= op(a, b)
		}
	}
	return res
}

// Neg swaps the negative and positive signs.
func (e Sign) Neg() Sign {
	res := e & Zero
	if e&Negative != 0 {
		res |= Positive
	}
	if e&Positive != 0 {
		res |= Negative
	}
	return res
}

func (e1 Sign) Add(e2 Sign) Sign {
	return e1.lift(e2, func(a, b Sign) Sign {
		switch {
		case a == Zero:
			return b
		case b == Zero, a == b:
			return a
		}
		return SignTop
	})
}

func (e1 Sign) Sub(e2 Sign) Sign {
	return e1.Add(e2.Neg())
}

func (e1 Sign) Mul(e2 Sign) Sign {
	return e1.lift(e2, func(a, b Sign) Sign {
		switch {
		case a == Zero || b == Zero:
			return Zero
		case a == b:
			return Positive
		}
		return Negative
	})
}

// Div computes the signs of truncating integer division. If the divisor
// may be zero, the result is ⊤ and exact is false.
func (e1 Sign) Div(e2 Sign) (res Sign, exact bool) {
	if e1 == SignBot || e2 == SignBot {
		return SignBot, true
	}
	if e2&Zero != 0 {
		return SignTop, false
	}
	return e1.lift(e2, func(a, b Sign) Sign {
		switch {
		case a == Zero:
			return Zero
		case a == b:
			return NonNegative
		}
		return NonPositive
	}), true
}

// Mod computes the signs of the remainder, which follows the dividend.
func (e1 Sign) Mod(e2 Sign) (res Sign, exact bool) {
	if e1 == SignBot || e2 == SignBot {
		return SignBot, true
	}
	if e2&Zero != 0 {
		return SignTop, false
	}

	res = e1 & Zero
	if e1&Negative != 0 {
		res |= NonPositive
	}
	if e1&Positive != 0 {
		res |= NonNegative
	}
	return res, true
}

// LessThan refines e1 under e1 < e2.
func (e1 Sign) LessThan(e2 Sign) Sign {
	switch {
	case e2 == SignBot:
		return SignBot
	case e2&Positive == 0:
		return e1 & Negative
	}
	return e1
}

// AtMost refines e1 under e1 ≤ e2.
func (e1 Sign) AtMost(e2 Sign) Sign {
	switch {
	case e2 == SignBot:
		return SignBot
	case e2 == Negative:
		return e1 & Negative
	case e2&Positive == 0:
		return e1 & NonPositive
	}
	return e1
}

// GreaterThan refines e1 under e1 > e2.
func (e1 Sign) GreaterThan(e2 Sign) Sign {
	return e1.Neg().LessThan(e2.Neg()).Neg()
}

// AtLeast refines e1 under e1 ≥ e2.
func (e1 Sign) AtLeast(e2 Sign) Sign {
	return e1.Neg().AtMost(e2.Neg()).Neg()
}

// NotEqual refines e1 under e1 ≠ e2.
func (e1 Sign) NotEqual(e2 Sign) Sign {
	switch e2 {
	case SignBot:
		return SignBot
	case Zero:
		return e1 &^ Zero
	}
	return e1
}
