// Package program groups the control-flow graphs of the functions of an
// analyzed program, together with their parameters and variables.
package program

import (
	"fmt"
	"strings"

	"github.com/caterinaurban/lyra/analysis/cfg"
	"github.com/caterinaurban/lyra/analysis/ir"
	"github.com/caterinaurban/lyra/analysis/semantics"
	"github.com/caterinaurban/lyra/utils"
	"github.com/caterinaurban/lyra/utils/dot"
	"github.com/caterinaurban/lyra/utils/graph"

	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// DefaultResult is the variable holding the returned value of a function,
// unless another one is given.
const DefaultResult ir.Var = "ret"

var (
	ErrNoMain            = errors.New("no main function")
	ErrDuplicateFunction = errors.New("duplicate function")
	ErrBuiltinName       = errors.New("function shadows a builtin")
)

// Function is a function of the analyzed program.
type Function struct {
	Name   string
	Params []ir.Var
	Result ir.Var
	// Vars are all the variables of the function, including its parameters
	// and result. Every abstract state of the function is over these.
	Vars ir.VarSet
	CFG  *cfg.Graph
}

// NewFunction creates a function whose variables are the parameters, the
// result and every variable mentioned in the graph.
func NewFunction(name string, params []ir.Var, result ir.Var, g *cfg.Graph) *Function {
	if result == "" {
		result = DefaultResult
	}
	vs := append([]ir.Var{result}, params...)
	for _, n := range g.Nodes() {
		for _, stmt := range g.Node(n).Stmts {
			vs = append(vs, ir.StmtVars(stmt)...)
		}
		for _, e := range g.OutEdges(n) {
			if e.Cond != nil {
				vs = append(vs, ir.FreeVars(e.Cond)...)
			}
		}
	}
	return &Function{
		Name:   name,
		Params: params,
		Result: result,
		Vars:   ir.NewVarSet(vs...),
		CFG:    g,
	}
}

// callOccurrences lists the functions invoked by f, once per call
// expression in statements and branch conditions.
func (f *Function) callOccurrences() (res []string) {
	for _, n := range f.CFG.Nodes() {
		for _, stmt := range f.CFG.Node(n).Stmts {
			res = append(res, ir.StmtCalls(stmt)...)
		}
		for _, e := range f.CFG.OutEdges(n) {
			if e.Cond != nil {
				res = append(res, ir.Calls(e.Cond)...)
			}
		}
	}
	return
}

// Calls lists the functions invoked by f, without duplicates, in order of
// first occurrence.
func (f *Function) Calls() []string {
	seen := map[string]bool{}
	res := []string{}
	for _, name := range f.callOccurrences() {
		if !seen[name] {
			seen[name] = true
			res = append(res, name)
		}
	}
	return res
}

func (f *Function) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = utils.VarString(string(p))
	}
	return fmt.Sprintf("%s(%s) → %s\n%s",
		utils.FunString(f.Name), strings.Join(params, ", "), utils.VarString(string(f.Result)), f.CFG)
}

// Program is a set of functions with a designated main function.
type Program struct {
	Functions map[string]*Function
	Main      string
}

// New creates a program. The main function must be among fns.
func New(main string, fns ...*Function) (*Program, error) {
	p := &Program{Functions: make(map[string]*Function, len(fns)), Main: main}
	for _, f := range fns {
		if isBuiltin(f.Name) {
			return nil, errors.Wrapf(ErrBuiltinName, "%s", f.Name)
		}
		if _, found := p.Functions[f.Name]; found {
			return nil, errors.Wrapf(ErrDuplicateFunction, "%s", f.Name)
		}
		p.Functions[f.Name] = f
	}
	if _, found := p.Functions[main]; !found {
		return nil, errors.Wrapf(ErrNoMain, "%s is not defined", main)
	}
	return p, nil
}

func isBuiltin(name string) bool {
	return name == semantics.Print || name == semantics.Input
}

// Function returns the function with the given name.
func (p *Program) Function(name string) (*Function, bool) {
	f, found := p.Functions[name]
	return f, found
}

// MainFunction returns the function where execution starts.
func (p *Program) MainFunction() *Function {
	return p.Functions[p.Main]
}

// Names lists the functions of the program in alphabetical order.
func (p *Program) Names() []string {
	names := maps.Keys(p.Functions)
	slices.Sort(names)
	return names
}

// CallGraph connects every function to the functions of the program it
// calls. Calls to builtins and undefined functions are not edges.
func (p *Program) CallGraph() graph.Graph[string] {
	return graph.OfHashable(func(name string) (res []string) {
		f, found := p.Functions[name]
		if !found {
			return nil
		}
		for _, callee := range f.Calls() {
			if _, found := p.Functions[callee]; found {
				res = append(res, callee)
			}
		}
		return
	})
}

// CallSites counts the call expressions targeting each function of the
// program. A condition shared by the two branches of a node is counted on
// both edges.
func (p *Program) CallSites() map[string]int {
	res := make(map[string]int, len(p.Functions))
	for _, f := range p.Functions {
		for _, callee := range f.callOccurrences() {
			if _, found := p.Functions[callee]; found {
				res[callee]++
			}
		}
	}
	return res
}

// CallDAG decomposes the call graph into strongly connected components.
// Components of mutually recursive functions are cyclic. Every function is
// part of the decomposition, including those unreachable from main.
func (p *Program) CallDAG() graph.SCCDecomposition[string] {
	roots := append([]string{p.Main}, p.Names()...)
	return p.CallGraph().SCC(roots)
}

// Callees lists the functions of the program transitively called by each
// function, in sorted order. Recursive functions are their own callees.
func (p *Program) Callees() map[string][]string {
	dag := p.CallDAG()
	cg := p.CallGraph()
	reach := graph.BottomUp(dag,
		func(name string) map[string]bool {
			res := map[string]bool{}
			for _, callee := range cg.Edges(name) {
				res[callee] = true
			}
			return res
		},
		func(a, b map[string]bool) map[string]bool {
			res := maps.Clone(a)
			maps.Copy(res, b)
			return res
		})

	res := make(map[string][]string, len(p.Functions))
	for _, name := range p.Names() {
		callees := maps.Keys(reach[dag.ComponentOf(name)])
		slices.Sort(callees)
		res[name] = callees
	}
	return res
}

// Unreachable lists the functions that main never calls, even
// transitively, in sorted order.
func (p *Program) Unreachable() (res []string) {
	reached := map[string]bool{}
	p.CallGraph().BFS(p.Main, func(name string) bool {
		reached[name] = true
		return false
	})
	for _, name := range p.Names() {
		if !reached[name] {
			res = append(res, name)
		}
	}
	return
}

// ToDot creates a dot graph of the call graph. Recursive functions are
// drawn with a double border inside a cluster of their component, and
// functions unreachable from main are grayed out.
func (p *Program) ToDot() *dot.DotGraph {
	dag := p.CallDAG()
	unreachable := map[string]bool{}
	for _, name := range p.Unreachable() {
		unreachable[name] = true
	}

	dg := p.CallGraph().ToDotGraph(p.Names(), &graph.VisualizationConfig[string]{
		NodeAttrs: func(name string) (string, dot.DotAttrs) {
			attrs := dot.DotAttrs{"label": name, "shape": "box"}
			if name == p.Main {
				attrs["fillcolor"] = "#a0ecfa"
			}
			if unreachable[name] {
				attrs["fillcolor"] = "lightgray"
			}
			if dag.IsCyclic(dag.ComponentOf(name)) {
				attrs["peripheries"] = "2"
			}
			return name, attrs
		},
		ClusterKey: func(name string) any {
			if comp := dag.ComponentOf(name); dag.IsCyclic(comp) {
				return comp
			}
			return nil
		},
		ClusterAttrs: func(key any) (string, dot.DotAttrs) {
			return fmt.Sprintf("scc%d", key), dot.DotAttrs{"label": "recursive", "style": "dashed"}
		},
	})
	dg.Title = "call graph"
	return dg
}

func (p *Program) String() string {
	strs := make([]string, 0, len(p.Functions))
	for _, name := range p.Names() {
		strs = append(strs, p.Functions[name].String())
	}
	return strings.Join(strs, "\n\n")
}
