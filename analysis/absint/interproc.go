package absint

import (
	"strings"

	"github.com/caterinaurban/lyra/analysis/ir"
	"github.com/caterinaurban/lyra/analysis/program"
	"github.com/caterinaurban/lyra/analysis/semantics"
	"github.com/caterinaurban/lyra/utils"
	"github.com/caterinaurban/lyra/utils/graph"
	"github.com/caterinaurban/lyra/utils/pq"

	"github.com/pkg/errors"
)

var ErrNoFrame = errors.New("states do not support interprocedural analysis")

// Summary over-approximates the states at the entry and at the exits of a
// function over all of its calls.
type Summary[S semantics.State[S]] struct {
	Entry S
	Exit  S
	// Number of times the entry and exit states grew.
	entries, exits int
}

// ProgramResult is the outcome of the analysis of a whole program.
type ProgramResult[S semantics.State[S]] struct {
	Program   *program.Program
	Results   map[string]*Result[S]
	Summaries map[string]*Summary[S]
	// Rounds is the number of function analyses performed.
	Rounds  int
	Aborted bool
}

// Stats sums the statistics of the final analysis of every function.
func (r *ProgramResult[S]) Stats() (res Stats) {
	for _, fr := range r.Results {
		s := fr.Stats()
		res.Iterations += s.Iterations
		res.Widenings += s.Widenings
		res.Narrowings += s.Narrowings
		res.PrecisionLosses += s.PrecisionLosses
		res.Aborted = res.Aborted || s.Aborted
	}
	res.Aborted = res.Aborted || r.Aborted
	return
}

func (r *ProgramResult[S]) String() string {
	strs := make([]string, 0, len(r.Results))
	for _, name := range r.Program.Names() {
		sum := r.Summaries[name]
		strs = append(strs, utils.FunString(name)+"\n"+
			"entry: "+sum.Entry.String()+"\n"+
			"exit: "+sum.Exit.String()+"\n"+
			r.Results[name].String())
	}
	return strings.Join(strs, "\n")
}

// interproc resolves calls to program functions with their summaries.
type interproc[S semantics.State[S]] struct {
	in        *Interpreter[S]
	p         *program.Program
	summaries map[string]*Summary[S]
	callers   map[string][]string
	recursive map[string]bool
	sites     map[string]int
	W         pq.PriorityQueue[string]
}

// Call propagates the arguments to the entry of the callee and applies its
// current exit state. The continuation of the call is unreachable until the
// callee is known to return.
func (ip *interproc[S]) Call(call ir.Call, target ir.Var, s S) (S, bool) {
	f, found := ip.p.Function(call.Func)
	if !found {
		return s, false
	}

	frame := any(s).(semantics.Frame[S])
	ip.enter(f, frame.Enter(f.Vars, f.Params, call.Args))
	return frame.Leave(target, f.Result, ip.summaries[f.Name].Exit), true
}

// enter joins entry into the entry state of f and schedules f if it grew.
func (ip *interproc[S]) enter(f *program.Function, entry S) {
	sum := ip.summaries[f.Name]
	if entry.Leq(sum.Entry) {
		return
	}

	// Entries of functions outside recursion may additionally grow once
	// per call site. They are still widened eventually, since the result of
	// one call may flow to the arguments of another.
	delay := ip.in.wideningDelay
	if !ip.recursive[f.Name] {
		delay += ip.sites[f.Name]
	}

	joined := sum.Entry.Join(entry)
	if sum.entries > delay {
		joined = sum.Entry.Widen(joined)
	}
	sum.entries++
	sum.Entry = joined
	ip.in.log.Debugw("entry grew", "function", f.Name, "state", joined)
	ip.W.Add(f.Name)
}

// leave joins the exit state of the last analysis of f into its summary
// and schedules the callers of f if it grew.
func (ip *interproc[S]) leave(f *program.Function, exit S) {
	sum := ip.summaries[f.Name]
	if exit.Leq(sum.Exit) {
		return
	}

	joined := sum.Exit.Join(exit)
	if ip.recursive[f.Name] && sum.exits > ip.in.wideningDelay {
		joined = sum.Exit.Widen(joined)
	}
	sum.exits++
	sum.Exit = joined
	ip.in.log.Debugw("exit grew", "function", f.Name, "state", joined)
	for _, caller := range ip.callers[f.Name] {
		ip.W.Add(caller)
	}
}

// AnalyzeProgram analyzes every function of p. Forward, the analysis starts
// at the main function, whose entry state is init(main), and follows calls
// through function summaries. Functions never called are unreachable.
// Backward, calls are not followed and every function is analyzed with
// init(f) at its exits.
func (in *Interpreter[S]) AnalyzeProgram(p *program.Program, init func(*program.Function) S) (*ProgramResult[S], error) {
	res := &ProgramResult[S]{
		Program:   p,
		Results:   make(map[string]*Result[S], len(p.Functions)),
		Summaries: make(map[string]*Summary[S], len(p.Functions)),
	}

	inits := make(map[string]S, len(p.Functions))
	for _, name := range p.Names() {
		f := p.Functions[name]
		s := init(f)
		if err := in.check(f.CFG, s); err != nil {
			return nil, errors.WithMessagef(err, "function %s", name)
		}
		inits[name] = s
	}

	if !in.dir.IsForward() {
		for _, name := range p.Names() {
			r := in.run(p.Functions[name].CFG, inits[name], in.sem)
			res.Results[name] = r
			res.Summaries[name] = &Summary[S]{
				Entry: r.Entering(r.Graph().Entry()),
				Exit:  inits[name],
			}
			res.Rounds++
		}
		return res, nil
	}

	if _, ok := any(inits[p.Main]).(semantics.Frame[S]); !ok {
		return nil, ErrNoFrame
	}

	dag := p.CallDAG()
	ip := &interproc[S]{
		in:        in,
		p:         p,
		summaries: res.Summaries,
		callers:   callers(p, p.CallGraph()),
		recursive: recursive(p, dag),
		sites:     p.CallSites(),
		W: pq.Empty(func(a, b string) bool {
			ra, rb := dag.TopologicalRank(a), dag.TopologicalRank(b)
			return ra < rb || (ra == rb && a < b)
		}),
	}
	for name, s := range inits {
		ip.summaries[name] = &Summary[S]{Entry: s.Bot(), Exit: s.Bot()}
	}
	ip.summaries[p.Main].Entry = inits[p.Main]
	ip.W.Add(p.Main)

	sem := in.sem
	sem.Calls = ip
	for !ip.W.IsEmpty() {
		if res.Rounds >= in.maxIterations {
			in.log.Warnw("round bound reached", "bound", in.maxIterations)
			res.Aborted = true
			break
		}
		res.Rounds++

		f := p.Functions[ip.W.GetNext()]
		in.log.Debugw("analyze", "function", f.Name, "entry", ip.summaries[f.Name].Entry)
		r := in.run(f.CFG, ip.summaries[f.Name].Entry, sem)
		res.Results[f.Name] = r
		ip.leave(f, r.Exit())
	}

	for _, name := range p.Names() {
		if _, found := res.Results[name]; !found {
			res.Results[name] = in.run(p.Functions[name].CFG, ip.summaries[name].Entry, sem)
		}
	}
	return res, nil
}

// recursive marks the functions of cyclic call-graph components.
func recursive(p *program.Program, dag graph.SCCDecomposition[string]) map[string]bool {
	res := make(map[string]bool, len(p.Functions))
	for _, name := range p.Names() {
		res[name] = dag.IsCyclic(dag.ComponentOf(name))
	}
	return res
}

// callers inverts the call graph.
func callers(p *program.Program, cg graph.Graph[string]) map[string][]string {
	res := map[string][]string{}
	for _, name := range p.Names() {
		for _, callee := range cg.Edges(name) {
			res[callee] = append(res[callee], name)
		}
	}
	return res
}
