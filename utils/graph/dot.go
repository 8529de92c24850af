package graph

import (
	"fmt"

	"github.com/caterinaurban/lyra/utils"
	"github.com/caterinaurban/lyra/utils/dot"
)

var opts = utils.Opts()

type VisualizationConfig[T any] struct {
	// Provides the ID and attributes for dot nodes.
	// If not provided, the ID is the stringified node.
	NodeAttrs func(node T) (string, dot.DotAttrs)
	// Groups nodes with the same key in a cluster. Nodes with a nil key are
	// not clustered. Keys must be comparable.
	ClusterKey func(node T) any
	// Provides the ID and attributes for dot clusters.
	ClusterAttrs func(key any) (string, dot.DotAttrs)
	// Provides the attributes of an edge.
	EdgeAttrs func(from, to T) dot.DotAttrs
}

// ToDotGraph renders the given nodes and the edges between them.
func (G Graph[T]) ToDotGraph(nodes []T, cfg *VisualizationConfig[T]) *dot.DotGraph {
	if cfg == nil {
		cfg = &VisualizationConfig[T]{}
	}

	dg := &dot.DotGraph{
		Options: map[string]string{
			"minlen":  fmt.Sprint(opts.Minlen()),
			"nodesep": fmt.Sprint(opts.Nodesep()),
			"rankdir": "TB",
		},
	}

	clusters := map[any]*dot.DotCluster{}
	place := func(node T, dNode *dot.DotNode) {
		var key any
		if cfg.ClusterKey != nil {
			key = cfg.ClusterKey(node)
		}
		if key == nil {
			dg.Nodes = append(dg.Nodes, dNode)
			return
		}

		cl, found := clusters[key]
		if !found {
			cl = dot.NewDotCluster(fmt.Sprint(key))
			if cfg.ClusterAttrs != nil {
				cl.ID, cl.Attrs = cfg.ClusterAttrs(key)
			}
			clusters[key] = cl
			dg.Clusters = append(dg.Clusters, cl)
		}
		cl.Nodes = append(cl.Nodes, dNode)
	}

	nodeToDotNode := G.mapFactory()
	for _, node := range nodes {
		dNode := &dot.DotNode{ID: fmt.Sprint(node)}
		if cfg.NodeAttrs != nil {
			dNode.ID, dNode.Attrs = cfg.NodeAttrs(node)
		}
		nodeToDotNode.Set(node, dNode)
		place(node, dNode)
	}

	for _, node := range nodes {
		a, _ := nodeToDotNode.Get(node)
		for _, succ := range G.Edges(node) {
			b, found := nodeToDotNode.Get(succ)
			if !found {
				continue
			}
			de := &dot.DotEdge{From: a.(*dot.DotNode), To: b.(*dot.DotNode)}
			if cfg.EdgeAttrs != nil {
				de.Attrs = cfg.EdgeAttrs(node, succ)
			}
			dg.Edges = append(dg.Edges, de)
		}
	}

	return dg
}
