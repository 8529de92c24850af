package absint

import (
	"github.com/caterinaurban/lyra/analysis/cfg"
	"github.com/caterinaurban/lyra/analysis/ir"
	"github.com/caterinaurban/lyra/analysis/semantics"
	"github.com/caterinaurban/lyra/utils/pq"

	"golang.org/x/exp/slices"
)

// fixpoint holds the states of a run under way. Pre and post are relative
// to the analysis direction: backward, pre[n] holds at the end of n.
type fixpoint[S semantics.State[S]] struct {
	options
	g    *cfg.Graph
	sem  semantics.Semantics[S]
	init S
	bot  S

	starts map[cfg.NodeID]bool
	order  map[cfg.NodeID]int

	pre, post map[cfg.NodeID]S
	// Program-order states between the statements of a node.
	stmts  map[cfg.NodeID][]S
	visits map[cfg.NodeID]int
	// Statements which lost precision, per node.
	losses map[cfg.NodeID]map[string]bool
	// The node being transferred, used to attribute precision losses.
	current cfg.NodeID

	stats Stats
}

func (in *Interpreter[S]) run(g *cfg.Graph, init S, sem semantics.Semantics[S]) *Result[S] {
	fp := &fixpoint[S]{
		options: in.options,
		g:       g,
		init:    init,
		bot:     init.Bot(),
		starts:  map[cfg.NodeID]bool{},
		order:   g.Order(in.dir.IsForward()),
		pre:     make(map[cfg.NodeID]S, g.Len()),
		post:    make(map[cfg.NodeID]S, g.Len()),
		stmts:   make(map[cfg.NodeID][]S, g.Len()),
		visits:  make(map[cfg.NodeID]int, g.Len()),
		losses:  map[cfg.NodeID]map[string]bool{},
	}

	onLoss := sem.OnPrecisionLoss
	sem.OnPrecisionLoss = func(stmt ir.Stmt) {
		if fp.losses[fp.current] == nil {
			fp.losses[fp.current] = map[string]bool{}
		}
		fp.losses[fp.current][stmt.String()] = true
		if onLoss != nil {
			onLoss(stmt)
		}
	}
	fp.sem = sem

	if in.dir.IsForward() {
		fp.starts[g.Entry()] = true
	} else {
		for _, exit := range g.Exits() {
			fp.starts[exit] = true
		}
	}

	for _, n := range g.Nodes() {
		fp.pre[n] = fp.bot
		fp.post[n] = fp.bot
	}

	fp.ascend()
	if !fp.stats.Aborted {
		fp.descend()
	}
	for _, l := range fp.losses {
		fp.stats.PrecisionLosses += len(l)
	}

	in.log.Debugw("fixpoint reached",
		"iterations", fp.stats.Iterations,
		"widenings", fp.stats.Widenings,
		"narrowings", fp.stats.Narrowings,
		"aborted", fp.stats.Aborted)
	return fp.freeze()
}

// isWideningPoint checks whether iteration may diverge at n. Every cycle
// through reachable nodes contains a loop head. Backward analyses may also
// iterate over cycles unreachable from the entry.
func (fp *fixpoint[S]) isWideningPoint(n cfg.NodeID) bool {
	return fp.g.IsLoopHead(n) || (!fp.dir.IsForward() && !fp.g.Reachable(n))
}

func (fp *fixpoint[S]) successors(n cfg.NodeID) []cfg.NodeID {
	if fp.dir.IsForward() {
		return fp.g.Successors(n)
	}
	return fp.g.Predecessors(n)
}

// incoming joins the states flowing into n along its edges in the analysis
// direction.
func (fp *fixpoint[S]) incoming(n cfg.NodeID) S {
	res := fp.bot
	if fp.starts[n] {
		res = fp.init
	}

	if fp.dir.IsForward() {
		for _, e := range fp.g.InEdges(n) {
			res = res.Join(fp.sem.Edge(fp.dir, e, fp.post[e.From]))
		}
		return res
	}

	for _, e := range fp.g.OutEdges(n) {
		res = res.Join(fp.sem.Edge(fp.dir, e, fp.post[e.To]))
	}
	return res
}

// transfer computes the state on the other side of n, recording the states
// between its statements.
func (fp *fixpoint[S]) transfer(n cfg.NodeID, s S) S {
	fp.current = n
	stmts := fp.g.Node(n).Stmts
	states := make([]S, len(stmts)+1)

	out := fp.sem.Block(fp.dir, stmts, s, func(i int, s S) {
		states[i] = s
	})

	if fp.dir.IsForward() {
		states[len(stmts)] = out
	} else {
		states[0] = out
		states[len(stmts)] = s
	}
	fp.stmts[n] = states
	return out
}

func eq[S semantics.State[S]](a, b S) bool {
	return a.Leq(b) && b.Leq(a)
}

// ascend iterates until the states stabilize, widening at loop heads.
func (fp *fixpoint[S]) ascend() {
	W := pq.Empty(func(a, b cfg.NodeID) bool {
		return fp.order[a] < fp.order[b]
	})
	starts := make([]cfg.NodeID, 0, len(fp.starts))
	for n := range fp.starts {
		starts = append(starts, n)
	}
	slices.Sort(starts)
	for _, n := range starts {
		W.Add(n)
	}

	for !W.IsEmpty() {
		if fp.stats.Iterations >= fp.maxIterations {
			fp.log.Warnw("iteration bound reached", "bound", fp.maxIterations, "pending", W.Len())
			fp.stats.Aborted = true
			return
		}
		fp.stats.Iterations++

		n := W.GetNext()
		old := fp.pre[n]
		in := fp.incoming(n)
		if fp.isWideningPoint(n) && fp.visits[n] > fp.wideningDelay {
			in = old.Widen(in)
			fp.stats.Widenings++
			fp.log.Debugw("widen", "node", n, "state", in)
		}

		first := fp.visits[n] == 0
		fp.visits[n]++
		if !first && eq(old, in) {
			continue
		}
		fp.pre[n] = in
		fp.log.Debugw("visit", "node", n, "visit", fp.visits[n], "state", in)

		out := fp.transfer(n, in)
		if !first && eq(fp.post[n], out) {
			continue
		}
		fp.post[n] = out
		for _, succ := range fp.successors(n) {
			W.Add(succ)
		}
	}
}

// descend refines the post-fixpoint by recomputing every state, narrowing
// at loop heads.
func (fp *fixpoint[S]) descend() {
	order := fp.g.Nodes()
	slices.SortFunc(order, func(a, b cfg.NodeID) bool {
		return fp.order[a] < fp.order[b]
	})

	for pass := 0; pass < fp.narrowing; pass++ {
		changed := false
		for _, n := range order {
			if fp.visits[n] == 0 {
				continue
			}

			old := fp.pre[n]
			in := fp.incoming(n)
			if fp.isWideningPoint(n) {
				in = old.Narrow(in)
			}
			if eq(old, in) {
				continue
			}

			if fp.isWideningPoint(n) {
				fp.stats.Narrowings++
			}
			changed = true
			fp.pre[n] = in
			fp.post[n] = fp.transfer(n, in)
			fp.log.Debugw("narrow", "node", n, "pass", pass, "state", in)
		}
		if !changed {
			return
		}
	}
}
