// Package ir defines the statements and expressions found in the basic
// blocks of a control-flow graph.
package ir

import (
	"fmt"
	"strings"
)

// Op is a unary or binary operator.
type Op int

const (
	Add Op = iota
	Sub
	Mul
	Div
	Mod
	Lt
	Le
	Gt
	Ge
	Eq
	Ne
	And
	Or
	Neg
	Not
)

var opStrings = [...]string{
	Add: "+",
	Sub: "-",
	Mul: "*",
	Div: "/",
	Mod: "%",
	Lt:  "<",
	Le:  "<=",
	Gt:  ">",
	Ge:  ">=",
	Eq:  "==",
	Ne:  "!=",
	And: "and",
	Or:  "or",
	Neg: "-",
	Not: "not",
}

func (o Op) String() string {
	if int(o) < len(opStrings) {
		return opStrings[o]
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// ParseOp maps the textual form of a binary operator to its Op.
func ParseOp(s string) (Op, bool) {
	for op, str := range opStrings[:Neg] {
		if str == s {
			return Op(op), true
		}
	}
	return 0, false
}

func (o Op) IsComparison() bool {
	return o >= Lt && o <= Ne
}

// Flip gives the comparison obtained by swapping the operands: a < b iff b > a.
func (o Op) Flip() Op {
	switch o {
	case Lt:
		return Gt
	case Le:
		return Ge
	case Gt:
		return Lt
	case Ge:
		return Le
	}
	return o
}

// Complement gives the comparison holding exactly when o does not.
func (o Op) Complement() Op {
	switch o {
	case Lt:
		return Ge
	case Le:
		return Gt
	case Gt:
		return Le
	case Ge:
		return Lt
	case Eq:
		return Ne
	case Ne:
		return Eq
	}
	panic(fmt.Errorf("%s is not a comparison", o))
}

type Expr interface {
	fmt.Stringer
	expr()
}

type (
	// Const is an integer literal. Booleans are 1 (true) and 0 (false).
	Const struct{ Value int64 }
	// Ref reads a variable.
	Ref struct{ Var Var }
	Binary struct {
		Op   Op
		X, Y Expr
	}
	Unary struct {
		Op Op
		X  Expr
	}
	// Call invokes a builtin or a function of the analyzed program.
	Call struct {
		Func string
		Args []Expr
	}
	// Index reads an element of a list or dictionary.
	Index struct {
		Container Var
		Key       Expr
	}
	// Input is a value provided by the environment.
	Input struct{}
)

var (
	True  = Const{1}
	False = Const{0}
)

func (Const) expr()  {}
func (Ref) expr()    {}
func (Binary) expr() {}
func (Unary) expr()  {}
func (Call) expr()   {}
func (Index) expr()  {}
func (Input) expr()  {}

func C(v int64) Const {
	return Const{v}
}

func V(name string) Ref {
	return Ref{Var(name)}
}

func Bin(op Op, x, y Expr) Binary {
	return Binary{op, x, y}
}

func (e Const) String() string {
	return fmt.Sprint(e.Value)
}

func (e Ref) String() string {
	return string(e.Var)
}

func (e Binary) String() string {
	return operand(e.X) + " " + e.Op.String() + " " + operand(e.Y)
}

func (e Unary) String() string {
	if e.Op == Not {
		return "not " + operand(e.X)
	}
	return e.Op.String() + operand(e.X)
}

func (e Call) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return e.Func + "(" + strings.Join(args, ", ") + ")"
}

func (e Index) String() string {
	return string(e.Container) + "[" + e.Key.String() + "]"
}

func (Input) String() string {
	return "input()"
}

func operand(e Expr) string {
	if _, ok := e.(Binary); ok {
		return "(" + e.String() + ")"
	}
	return e.String()
}

// FreeVars lists the variables read by e, without duplicates, in order of
// first occurrence. Index reads contribute the container and its element key.
func FreeVars(e Expr) []Var {
	seen := map[Var]bool{}
	res := []Var{}
	add := func(v Var) {
		if !seen[v] {
			seen[v] = true
			res = append(res, v)
		}
	}

	var visit func(Expr)
	visit = func(e Expr) {
		switch e := e.(type) {
		case Ref:
			add(e.Var)
		case Binary:
			visit(e.X)
			visit(e.Y)
		case Unary:
			visit(e.X)
		case Call:
			for _, a := range e.Args {
				visit(a)
			}
		case Index:
			add(e.Container)
			add(ElemOf(e.Container))
			visit(e.Key)
		}
	}
	visit(e)
	return res
}

// Calls lists the names of the functions invoked in e.
func Calls(e Expr) (res []string) {
	switch e := e.(type) {
	case Binary:
		return append(Calls(e.X), Calls(e.Y)...)
	case Unary:
		return Calls(e.X)
	case Call:
		res = append(res, e.Func)
		for _, a := range e.Args {
			res = append(res, Calls(a)...)
		}
	case Index:
		return Calls(e.Key)
	}
	return
}

// Negate builds the condition holding exactly when cond does not, pushing the
// negation through connectives and comparisons.
func Negate(cond Expr) Expr {
	switch c := cond.(type) {
	case Const:
		if c.Value == 0 {
			return True
		}
		return False
	case Binary:
		switch {
		case c.Op.IsComparison():
			return Binary{c.Op.Complement(), c.X, c.Y}
		case c.Op == And:
			return Binary{Or, Negate(c.X), Negate(c.Y)}
		case c.Op == Or:
			return Binary{And, Negate(c.X), Negate(c.Y)}
		}
	case Unary:
		if c.Op == Not {
			return c.X
		}
	}
	return Unary{Not, cond}
}
