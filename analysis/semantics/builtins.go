package semantics

import "github.com/caterinaurban/lyra/analysis/ir"

// Builtin functions with a dedicated semantics. Calls to any other function
// that is not part of the program yield an unknown value.
const (
	Print = "print"
	Input = "input"
)

// nestedCalls lists the calls occurring in e, innermost first.
func nestedCalls(e ir.Expr) (res []ir.Call) {
	switch e := e.(type) {
	case ir.Binary:
		return append(nestedCalls(e.X), nestedCalls(e.Y)...)
	case ir.Unary:
		return nestedCalls(e.X)
	case ir.Index:
		return nestedCalls(e.Key)
	case ir.Call:
		for _, a := range e.Args {
			res = append(res, nestedCalls(a)...)
		}
		return append(res, e)
	}
	return nil
}

// asCall checks whether e is a call at the top level.
func asCall(e ir.Expr) (ir.Call, bool) {
	c, ok := e.(ir.Call)
	return c, ok
}
