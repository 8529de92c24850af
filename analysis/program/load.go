package program

import (
	"io"
	"strconv"

	"github.com/caterinaurban/lyra/analysis/cfg"
	"github.com/caterinaurban/lyra/analysis/ir"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	ErrMalformedExpr = errors.New("malformed expression")
	ErrMalformedStmt = errors.New("malformed statement")
	ErrUnknownLabel  = errors.New("unknown node label")
	ErrEdgeKind      = errors.New("unknown edge kind")
)

type (
	programYAML struct {
		Main      string         `yaml:"main"`
		Functions []functionYAML `yaml:"functions"`
	}

	functionYAML struct {
		Name   string     `yaml:"name"`
		Params []string   `yaml:"params"`
		Result string     `yaml:"result"`
		Vars   []string   `yaml:"vars"`
		Entry  string     `yaml:"entry"`
		Exits  []string   `yaml:"exits"`
		Nodes  []nodeYAML `yaml:"nodes"`
		Edges  []edgeYAML `yaml:"edges"`
	}

	nodeYAML struct {
		ID    string      `yaml:"id"`
		Stmts []yaml.Node `yaml:"stmts"`
	}

	edgeYAML struct {
		From string    `yaml:"from"`
		To   string    `yaml:"to"`
		Kind string    `yaml:"kind"`
		Cond yaml.Node `yaml:"cond"`
	}

	stmtYAML struct {
		Assign string    `yaml:"assign"`
		Store  string    `yaml:"store"`
		Key    yaml.Node `yaml:"key"`
		Value  yaml.Node `yaml:"value"`
		Expr   yaml.Node `yaml:"expr"`
		Return yaml.Node `yaml:"return"`
	}

	exprYAML struct {
		Op    string      `yaml:"op"`
		Call  string      `yaml:"call"`
		Index string      `yaml:"index"`
		Key   yaml.Node   `yaml:"key"`
		Args  []yaml.Node `yaml:"args"`
	}
)

var edgeKinds = map[string]cfg.EdgeKind{
	"":              cfg.Unconditional,
	"unconditional": cfg.Unconditional,
	"true":          cfg.True,
	"false":         cfg.False,
	"back":          cfg.Back,
}

// Load reads a program from its YAML description:
//
//	main: main
//	functions:
//	  - name: main
//	    entry: head
//	    exits: [done]
//	    nodes:
//	      - id: head
//	        stmts:
//	          - assign: x
//	            value: {op: "+", args: [x, 1]}
//	      - id: done
//	        stmts:
//	          - expr: {call: print, args: [x]}
//	    edges:
//	      - {from: head, to: done}
//
// Expressions are integers, booleans, variable names, input, or mappings
// with an operator, a call or an index. Unless listed under vars, the
// variables of a function are collected from its statements.
func Load(r io.Reader) (*Program, error) {
	var raw programYAML
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "cannot decode program")
	}
	if raw.Main == "" {
		raw.Main = "main"
	}

	fns := make([]*Function, 0, len(raw.Functions))
	for _, rf := range raw.Functions {
		f, err := rf.function()
		if err != nil {
			return nil, errors.WithMessagef(err, "function %s", rf.Name)
		}
		fns = append(fns, f)
	}
	return New(raw.Main, fns...)
}

func (rf functionYAML) function() (*Function, error) {
	b := cfg.NewBuilder()
	ids := make(map[string]cfg.NodeID, len(rf.Nodes))
	result := ir.Var(rf.Result)
	if result == "" {
		result = DefaultResult
	}

	for _, rn := range rf.Nodes {
		stmts := make([]ir.Stmt, 0, len(rn.Stmts))
		for i := range rn.Stmts {
			stmt, err := parseStmt(&rn.Stmts[i], result)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, stmt)
		}
		ids[rn.ID] = b.AddNode(stmts...)
	}

	lookup := func(label string) (cfg.NodeID, error) {
		if id, found := ids[label]; found {
			return id, nil
		}
		return 0, errors.Wrapf(ErrUnknownLabel, "%q", label)
	}

	for _, re := range rf.Edges {
		from, err := lookup(re.From)
		if err != nil {
			return nil, err
		}
		to, err := lookup(re.To)
		if err != nil {
			return nil, err
		}
		kind, found := edgeKinds[re.Kind]
		if !found {
			return nil, errors.Wrapf(ErrEdgeKind, "%q", re.Kind)
		}
		var cond ir.Expr
		if !isAbsent(&re.Cond) {
			if cond, err = parseExpr(&re.Cond); err != nil {
				return nil, err
			}
		}
		b.AddEdge(from, to, kind, cond)
	}

	entry, err := lookup(rf.Entry)
	if err != nil {
		return nil, errors.WithMessage(err, "entry")
	}
	b.SetEntry(entry)
	for _, label := range rf.Exits {
		exit, err := lookup(label)
		if err != nil {
			return nil, errors.WithMessage(err, "exit")
		}
		b.AddExit(exit)
	}

	g, err := b.Build()
	if err != nil {
		return nil, err
	}

	params := make([]ir.Var, len(rf.Params))
	for i, p := range rf.Params {
		params[i] = ir.Var(p)
	}
	f := NewFunction(rf.Name, params, result, g)
	if len(rf.Vars) > 0 {
		f.Vars = f.Vars.Union(ir.Vars(rf.Vars...))
	}
	return f, nil
}

func isAbsent(n *yaml.Node) bool {
	return n.Kind == 0
}

func parseStmt(n *yaml.Node, result ir.Var) (ir.Stmt, error) {
	var raw stmtYAML
	if err := n.Decode(&raw); err != nil {
		return nil, errors.Wrapf(ErrMalformedStmt, "line %d: %v", n.Line, err)
	}

	switch {
	case raw.Assign != "" && !isAbsent(&raw.Value):
		value, err := parseExpr(&raw.Value)
		return ir.Assign{Target: ir.Var(raw.Assign), Value: value}, err
	case raw.Store != "" && !isAbsent(&raw.Key) && !isAbsent(&raw.Value):
		key, err := parseExpr(&raw.Key)
		if err != nil {
			return nil, err
		}
		value, err := parseExpr(&raw.Value)
		return ir.IndexAssign{Container: ir.Var(raw.Store), Key: key, Value: value}, err
	case !isAbsent(&raw.Expr):
		x, err := parseExpr(&raw.Expr)
		return ir.ExprStmt{X: x}, err
	case !isAbsent(&raw.Return):
		value, err := parseExpr(&raw.Return)
		return ir.Return{Result: result, Value: value}, err
	}
	return nil, errors.Wrapf(ErrMalformedStmt, "line %d", n.Line)
}

func parseExpr(n *yaml.Node) (ir.Expr, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return parseScalar(n)
	case yaml.SequenceNode:
		return nil, errors.Wrapf(ErrMalformedExpr, "line %d: unexpected sequence", n.Line)
	case yaml.MappingNode:
	default:
		return nil, errors.Wrapf(ErrMalformedExpr, "line %d", n.Line)
	}

	var raw exprYAML
	if err := n.Decode(&raw); err != nil {
		return nil, errors.Wrapf(ErrMalformedExpr, "line %d: %v", n.Line, err)
	}
	args := make([]ir.Expr, len(raw.Args))
	for i := range raw.Args {
		arg, err := parseExpr(&raw.Args[i])
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}

	switch {
	case raw.Call != "":
		return ir.Call{Func: raw.Call, Args: args}, nil
	case raw.Index != "":
		if isAbsent(&raw.Key) {
			return nil, errors.Wrapf(ErrMalformedExpr, "line %d: index without key", n.Line)
		}
		key, err := parseExpr(&raw.Key)
		return ir.Index{Container: ir.Var(raw.Index), Key: key}, err
	case len(args) == 1 && (raw.Op == "-" || raw.Op == "not"):
		op := ir.Neg
		if raw.Op == "not" {
			op = ir.Not
		}
		return ir.Unary{Op: op, X: args[0]}, nil
	case len(args) == 2:
		if op, ok := ir.ParseOp(raw.Op); ok {
			return ir.Bin(op, args[0], args[1]), nil
		}
	}
	return nil, errors.Wrapf(ErrMalformedExpr, "line %d: operator %q with %d operands", n.Line, raw.Op, len(args))
}

func parseScalar(n *yaml.Node) (ir.Expr, error) {
	switch n.ShortTag() {
	case "!!int":
		c, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedExpr, "line %d: %v", n.Line, err)
		}
		return ir.C(c), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, errors.Wrapf(ErrMalformedExpr, "line %d: %v", n.Line, err)
		}
		if b {
			return ir.True, nil
		}
		return ir.False, nil
	case "!!str":
		if n.Value == "input" {
			return ir.Input{}, nil
		}
		if n.Value != "" {
			return ir.V(n.Value), nil
		}
	}
	return nil, errors.Wrapf(ErrMalformedExpr, "line %d: %q", n.Line, n.Value)
}
