package ir

import "fmt"

type Stmt interface {
	fmt.Stringer
	stmt()
}

type (
	// Assign strongly updates Target.
	Assign struct {
		Target Var
		Value  Expr
	}
	// IndexAssign writes an element of a list or dictionary. All elements
	// are summarised by ElemOf(Container), which is weakly updated.
	IndexAssign struct {
		Container Var
		Key       Expr
		Value     Expr
	}
	// ExprStmt evaluates an expression for its effect, e.g. print(x).
	ExprStmt struct {
		X Expr
	}
	// Return stores the returned value in the result variable of the
	// enclosing function.
	Return struct {
		Result Var
		Value  Expr
	}
)

func (Assign) stmt()      {}
func (IndexAssign) stmt() {}
func (ExprStmt) stmt()    {}
func (Return) stmt()      {}

func (s Assign) String() string {
	return fmt.Sprintf("%s = %s", s.Target, s.Value)
}

func (s IndexAssign) String() string {
	return fmt.Sprintf("%s[%s] = %s", s.Container, s.Key, s.Value)
}

func (s ExprStmt) String() string {
	return s.X.String()
}

func (s Return) String() string {
	return "return " + s.Value.String()
}

// StmtCalls lists the functions invoked by a statement.
func StmtCalls(s Stmt) []string {
	switch s := s.(type) {
	case Assign:
		return Calls(s.Value)
	case IndexAssign:
		return append(Calls(s.Key), Calls(s.Value)...)
	case ExprStmt:
		return Calls(s.X)
	case Return:
		return Calls(s.Value)
	}
	return nil
}

// StmtVars lists the variables a statement reads or writes.
func StmtVars(s Stmt) []Var {
	switch s := s.(type) {
	case Assign:
		return append([]Var{s.Target}, FreeVars(s.Value)...)
	case IndexAssign:
		vs := []Var{s.Container, ElemOf(s.Container)}
		vs = append(vs, FreeVars(s.Key)...)
		return append(vs, FreeVars(s.Value)...)
	case ExprStmt:
		return FreeVars(s.X)
	case Return:
		return append([]Var{s.Result}, FreeVars(s.Value)...)
	}
	return nil
}
