package graph

import "fmt"

// Dominators is the dominator tree of the nodes reachable from a root.
// Nodes are identified by their DFS post-order index, so the root has the
// highest index and every immediate dominator has a higher index than the
// nodes it dominates.
type Dominators[T any] struct {
	order []T
	index Mapper[T]
	idom  []int
}

// Source: https://www.cs.rice.edu/~keith/EMBED/dom.pdf
func (G Graph[T]) Dominators(root T) Dominators[T] {
	postorderTime := G.mapFactory()
	pred := G.mapFactory()

	time := 0
	order := []T{}

	var dfs func(T)
	dfs = func(node T) {
		if _, seen := postorderTime.Get(node); seen {
			return
		}

		postorderTime.Set(node, -1)

		for _, e := range G.Edges(node) {
			var preds []T
			if predsItf, found := pred.Get(e); found {
				preds = predsItf.([]T)
			}

			pred.Set(e, append(preds, node))

			dfs(e)
		}

		postorderTime.Set(node, time)
		order = append(order, node)
		time++
	}

	dfs(root)

	doms := make([]int, time)
	for i := range doms {
		doms[i] = -1
	}
	doms[time-1] = time - 1

	intersect := func(a, b int) int {
		for a != b {
			for a < b {
				a = doms[a]
			}
			for b < a {
				b = doms[b]
			}
		}
		return a
	}

	for changed := true; changed; {
		changed = false

		// Reverse post-order, skipping the root.
		for i := time - 2; i >= 0; i-- {
			newIdom := -1
			predsItf, _ := pred.Get(order[i])

			for _, p := range predsItf.([]T) {
				jItf, _ := postorderTime.Get(p)
				j := jItf.(int)

				if doms[j] == -1 {
					continue
				}
				if newIdom == -1 {
					newIdom = j
				} else {
					newIdom = intersect(j, newIdom)
				}
			}

			if newIdom != doms[i] {
				doms[i] = newIdom
				changed = true
			}
		}
	}

	return Dominators[T]{order: order, index: postorderTime, idom: doms}
}

func (d Dominators[T]) indexOf(node T) (int, bool) {
	itf, found := d.index.Get(node)
	if !found {
		return -1, false
	}
	return itf.(int), true
}

// Reachable reports whether node was reached from the root.
func (d Dominators[T]) Reachable(node T) bool {
	_, ok := d.indexOf(node)
	return ok
}

// Dominates reports whether every path from the root to b passes through a.
// Unreachable nodes neither dominate nor are dominated.
func (d Dominators[T]) Dominates(a, b T) bool {
	ai, aok := d.indexOf(a)
	bi, bok := d.indexOf(b)
	if !aok || !bok {
		return false
	}
	for bi < ai {
		bi = d.idom[bi]
	}
	return bi == ai
}

// IDom returns the immediate dominator of node. The root has none.
func (d Dominators[T]) IDom(node T) (res T, ok bool) {
	i, found := d.indexOf(node)
	if !found || i == len(d.order)-1 {
		return
	}
	return d.order[d.idom[i]], true
}

// Common returns the nearest node dominating all the given nodes.
func (d Dominators[T]) Common(nodes ...T) T {
	if len(nodes) == 0 {
		panic("Empty list of nodes for dominator computation")
	}

	dom := -1
	for _, node := range nodes {
		i, found := d.indexOf(node)
		if !found {
			panic(fmt.Errorf("%v was not reachable when computing the dominator tree", node))
		}

		if dom == -1 {
			dom = i
			continue
		}
		for dom != i {
			for dom < i {
				dom = d.idom[dom]
			}
			for i < dom {
				i = d.idom[i]
			}
		}
	}

	return d.order[dom]
}
