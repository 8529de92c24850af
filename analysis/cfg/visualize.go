package cfg

import (
	"fmt"
	"strings"

	"github.com/caterinaurban/lyra/utils"
	"github.com/caterinaurban/lyra/utils/dot"
)

var opts = utils.Opts()

// ToDot creates a dot graph of the control-flow graph. If annotate is not
// nil, its result is appended to the label of every node, e.g. to show
// the abstract states computed for it.
func ToDot(g *Graph, title string, annotate func(NodeID) string) *dot.DotGraph {
	G := &dot.DotGraph{
		Title: title,
		Options: map[string]string{
			"minlen":  fmt.Sprint(opts.Minlen()),
			"nodesep": fmt.Sprint(opts.Nodesep()),
			"rankdir": "TB",
		},
	}

	nodeToDotNode := make(map[NodeID]*dot.DotNode)
	for _, n := range g.Nodes() {
		lines := []string{n.String()}
		for _, s := range g.Node(n).Stmts {
			lines = append(lines, s.String())
		}
		if annotate != nil {
			lines = append(lines, annotate(n))
		}

		dnode := &dot.DotNode{
			ID: n.String(),
			Attrs: dot.DotAttrs{
				"label": strings.Join(lines, "\n"),
				"shape": "box",
			},
		}
		switch {
		case n == g.Entry():
			dnode.Attrs["fillcolor"] = "#a0ecfa"
		case g.IsExit(n):
			dnode.Attrs["fillcolor"] = "#cce6ff"
		case !g.Reachable(n):
			dnode.Attrs["fillcolor"] = "lightgray"
		}
		if g.IsLoopHead(n) {
			dnode.Attrs["peripheries"] = "2"
		}

		G.Nodes = append(G.Nodes, dnode)
		nodeToDotNode[n] = dnode
	}

	for _, n := range g.Nodes() {
		for _, e := range g.OutEdges(n) {
			attrs := dot.DotAttrs{}
			switch e.Kind {
			case True:
				attrs["color"] = "darkgreen"
			case False:
				attrs["color"] = "red"
			case Back:
				attrs["style"] = "dashed"
				attrs["color"] = "blue"
			}
			if e.Cond != nil {
				attrs["label"] = e.Assumption().String()
			}

			G.Edges = append(G.Edges, &dot.DotEdge{
				From:  nodeToDotNode[e.From],
				To:    nodeToDotNode[e.To],
				Attrs: attrs,
			})
		}
	}

	return G
}
