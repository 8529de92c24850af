package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExprString(t *testing.T) {
	e := Bin(Mul, C(2), Bin(Add, V("x"), V("y")))
	assert.Equal(t, "2 * (x + y)", e.String())
	assert.Equal(t, "not (a > 0)", Unary{Not, Bin(Gt, V("a"), C(0))}.String())
	assert.Equal(t, "f(x, 1)", Call{"f", []Expr{V("x"), C(1)}}.String())
	assert.Equal(t, "D[k] = 3", IndexAssign{"D", V("k"), C(3)}.String())
}

func TestNegate(t *testing.T) {
	tests := []struct {
		cond, exp Expr
	}{
		{Bin(Lt, V("i"), V("n")), Bin(Ge, V("i"), V("n"))},
		{Bin(Eq, V("x"), C(0)), Bin(Ne, V("x"), C(0))},
		{
			Bin(And, Bin(Gt, V("x"), C(0)), Bin(Le, V("y"), C(3))),
			Bin(Or, Bin(Le, V("x"), C(0)), Bin(Gt, V("y"), C(3))),
		},
		{Unary{Not, V("b")}, V("b")},
		{V("b"), Unary{Not, V("b")}},
		{True, False},
		{False, True},
	}

	for _, test := range tests {
		assert.Equal(t, test.exp, Negate(test.cond), "negating %s", test.cond)
	}
}

func TestFreeVars(t *testing.T) {
	e := Bin(Add, V("x"), Bin(Mul, V("y"), Index{"D", V("x")}))
	assert.Equal(t, []Var{"x", "y", "D", "D[*]"}, FreeVars(e))
	assert.Empty(t, FreeVars(C(3)))
	assert.Equal(t, []string{"f", "g"}, Calls(Call{"f", []Expr{Call{"g", nil}}}))
}

func TestVarSet(t *testing.T) {
	s := Vars("y", "x", "y", "a")
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []Var{"a", "x", "y"}, s.Slice())
	assert.True(t, s.Contains("x"))
	assert.False(t, s.Contains("z"))
	assert.Equal(t, 1, s.Index("x"))
	assert.Equal(t, -1, s.Index("z"))
	assert.True(t, s.Union(Vars("z")).Contains("z"))
	assert.True(t, s.Equal(Vars("a", "x", "y")))
	assert.Equal(t, "{a, x, y}", s.String())
	assert.True(t, ElemOf("D").IsElem())
}

func TestParseOp(t *testing.T) {
	op, ok := ParseOp("<=")
	assert.True(t, ok)
	assert.Equal(t, Le, op)
	_, ok = ParseOp("not")
	assert.False(t, ok)
}
