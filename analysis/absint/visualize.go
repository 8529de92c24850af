package absint

import (
	"github.com/caterinaurban/lyra/analysis/cfg"
	"github.com/caterinaurban/lyra/utils/dot"
)

// ToDot creates a dot graph of the analyzed control-flow graph, labelling
// every node with the states entering and exiting it. Colors should be
// disabled with utils.SetNoColorize before rendering.
func (r *Result[S]) ToDot(title string) *dot.DotGraph {
	return cfg.ToDot(r.g, title, func(n cfg.NodeID) string {
		if !r.Reachable(n) {
			return "unreachable"
		}
		return "in: " + r.Entering(n).String() + "\nout: " + r.Exiting(n).String()
	})
}
