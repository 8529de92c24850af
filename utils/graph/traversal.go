package graph

import W "github.com/caterinaurban/lyra/utils/worklist"

type traversalFunc[T any] func(node T) (stop bool)

// Performs a breadth-first search from the provided start nodes, calling the
// provided function (f) for every reachable node, stopping early if f returns
// true.
// Returns whether the search stopped early (as a result of f returning true).
func (G Graph[T]) BFSV(f traversalFunc[T], starts ...T) bool {
	visited := G.mapFactory()
	for _, start := range starts {
		visited.Set(start, true)
	}

	done := false
	W.StartV(starts, func(node T, add func(T)) {
		if done || f(node) {
			done = true
			return
		}

		for _, next := range G.Edges(node) {
			if _, found := visited.Get(next); !found {
				visited.Set(next, true)
				add(next)
			}
		}
	})

	return done
}

// Performs a breadth-first search from the provided start node, calling the
// provided function (f) for every reachable node, stopping early if f returns
// true.
func (G Graph[T]) BFS(start T, f traversalFunc[T]) bool {
	return G.BFSV(f, start)
}

// PostOrder returns the nodes reachable from the roots in depth-first
// post-order. Successors are visited in the order returned by Edges, which
// makes the result deterministic whenever the edge relation is.
func (G Graph[T]) PostOrder(roots ...T) []T {
	visited := G.mapFactory()
	order := []T{}

	type frame struct {
		node T
		next int
	}

	for _, root := range roots {
		if _, seen := visited.Get(root); seen {
			continue
		}
		visited.Set(root, true)
		stack := []frame{{node: root}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			succs := G.Edges(top.node)
			if top.next < len(succs) {
				succ := succs[top.next]
				top.next++
				if _, seen := visited.Get(succ); !seen {
					visited.Set(succ, true)
					stack = append(stack, frame{node: succ})
				}
				continue
			}
			order = append(order, top.node)
			stack = stack[:len(stack)-1]
		}
	}

	return order
}

// ReversePostOrder returns the reverse of PostOrder.
func (G Graph[T]) ReversePostOrder(roots ...T) []T {
	po := G.PostOrder(roots...)
	rpo := make([]T, len(po))
	for i, n := range po {
		rpo[len(po)-1-i] = n
	}
	return rpo
}
