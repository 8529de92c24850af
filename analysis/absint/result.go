package absint

import (
	"fmt"
	"strings"

	"github.com/caterinaurban/lyra/analysis/cfg"
	"github.com/caterinaurban/lyra/analysis/semantics"
	"github.com/caterinaurban/lyra/utils"
	i "github.com/caterinaurban/lyra/utils/indenter"
)

// Stats summarizes the work done by a run.
type Stats struct {
	// Iterations is the number of node visits of the ascending phase.
	Iterations int
	Widenings  int
	// Narrowings is the number of loop head states refined by narrowing.
	Narrowings int
	// PrecisionLosses is the number of statements whose evaluation was
	// reported inexact by the domain.
	PrecisionLosses int
	// Aborted is set if the iteration bound was reached. The states are
	// not sound in that case.
	Aborted bool
}

func (s Stats) String() string {
	res := fmt.Sprintf("%d iterations, %d widenings, %d narrowings, %d precision losses",
		s.Iterations, s.Widenings, s.Narrowings, s.PrecisionLosses)
	if s.Aborted {
		res += " (aborted)"
	}
	return res
}

// Result is the outcome of a run. It is never modified once returned.
type Result[S semantics.State[S]] struct {
	dir       semantics.Direction
	g         *cfg.Graph
	pre, post map[cfg.NodeID]S
	stmts     map[cfg.NodeID][]S
	bot       S
	stats     Stats
}

func (fp *fixpoint[S]) freeze() *Result[S] {
	return &Result[S]{
		dir:   fp.dir,
		g:     fp.g,
		pre:   fp.pre,
		post:  fp.post,
		stmts: fp.stmts,
		bot:   fp.bot,
		stats: fp.stats,
	}
}

// Graph returns the analyzed control-flow graph.
func (r *Result[S]) Graph() *cfg.Graph {
	return r.g
}

func (r *Result[S]) Direction() semantics.Direction {
	return r.dir
}

func (r *Result[S]) Stats() Stats {
	return r.stats
}

func (r *Result[S]) get(m map[cfg.NodeID]S, n cfg.NodeID) S {
	if s, found := m[n]; found {
		return s
	}
	return r.bot
}

// Pre returns the state before n in the analysis direction.
func (r *Result[S]) Pre(n cfg.NodeID) S {
	return r.get(r.pre, n)
}

// Post returns the state after n in the analysis direction.
func (r *Result[S]) Post(n cfg.NodeID) S {
	return r.get(r.post, n)
}

// Entering returns the state before the first statement of n.
func (r *Result[S]) Entering(n cfg.NodeID) S {
	if r.dir.IsForward() {
		return r.Pre(n)
	}
	return r.Post(n)
}

// Exiting returns the state after the last statement of n.
func (r *Result[S]) Exiting(n cfg.NodeID) S {
	if r.dir.IsForward() {
		return r.Post(n)
	}
	return r.Pre(n)
}

// StatementStates lists the states of n in program order: the state
// before every statement followed by the state after the last one.
func (r *Result[S]) StatementStates(n cfg.NodeID) []S {
	if states, found := r.stmts[n]; found {
		return append([]S(nil), states...)
	}

	states := make([]S, len(r.g.Node(n).Stmts)+1)
	for j := range states {
		states[j] = r.bot
	}
	return states
}

// Reachable checks whether n may be executed. Backward, it checks whether
// an exit may be reached from n.
func (r *Result[S]) Reachable(n cfg.NodeID) bool {
	return !r.Pre(n).IsBot()
}

// Exit joins the states after every exit node of the graph.
func (r *Result[S]) Exit() S {
	res := r.bot
	for _, n := range r.g.Exits() {
		res = res.Join(r.Exiting(n))
	}
	return res
}

func (r *Result[S]) nodeString(n cfg.NodeID) string {
	header := utils.BlockString(n.String())
	switch {
	case n == r.g.Entry():
		header += " (entry)"
	case r.g.IsExit(n):
		header += " (exit)"
	}

	states := r.StatementStates(n)
	stmts := r.g.Node(n).Stmts
	if len(stmts) == 0 {
		return i.Indenter().Start(header + " ").NestStrings(states[0].String()).End("\n")
	}

	lines := make([]string, 0, 2*len(stmts)+1)
	for j, stmt := range stmts {
		lines = append(lines, states[j].String(), utils.StmtString(stmt.String()))
	}
	lines = append(lines, states[len(stmts)].String())
	return i.Indenter().Start(header).NestStrings(lines...).End("")
}

// String lists the states between the statements of every node.
func (r *Result[S]) String() string {
	var b strings.Builder
	for _, n := range r.g.Nodes() {
		b.WriteString(r.nodeString(n))
	}
	return b.String()
}
