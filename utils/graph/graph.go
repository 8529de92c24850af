// Package graph exposes generic algorithms over any data with a graph
// representation. A caller only provides the edge relation and, for node
// types that are not comparable, a key-value map factory.
package graph

type Mapper[K any] interface {
	Get(key K) (any, bool)
	Set(key K, value any)
}

type mapFactory[K any] func() Mapper[K]
type edgesOf[T any] func(node T) []T

type Graph[T any] struct {
	mapFactory  mapFactory[T]
	edgesOf     edgesOf[T]
	cachedEdges Mapper[T]
}

// Edges returns the successors of node. Results are cached, so the edge
// relation must not change over the lifetime of the graph.
func (G Graph[T]) Edges(node T) []T {
	if cached, found := G.cachedEdges.Get(node); found {
		return cached.([]T)
	}

	es := G.edgesOf(node)
	G.cachedEdges.Set(node, es)
	return es
}

// Reverse builds the transposed graph over the nodes reachable from roots.
func (G Graph[T]) Reverse(roots ...T) Graph[T] {
	preds := G.mapFactory()
	G.BFSV(func(node T) bool {
		for _, succ := range G.Edges(node) {
			var ps []T
			if itf, found := preds.Get(succ); found {
				ps = itf.([]T)
			}
			preds.Set(succ, append(ps, node))
		}
		return false
	}, roots...)

	return Of(G.mapFactory, func(node T) []T {
		if itf, found := preds.Get(node); found {
			return itf.([]T)
		}
		return nil
	})
}

func Of[T any](mapFactory mapFactory[T], edgesOf edgesOf[T]) Graph[T] {
	return Graph[T]{
		mapFactory,
		edgesOf,
		mapFactory(),
	}
}

// Mapper implementation using Go's builtin maps
type mapMapper[K comparable] map[K]any

func (m mapMapper[K]) Get(key K) (any, bool) {
	value, ok := m[key]
	return value, ok
}

func (m mapMapper[K]) Set(key K, value any) {
	m[key] = value
}

func OfHashable[K comparable](edgesOf edgesOf[K]) Graph[K] {
	return Of(func() Mapper[K] { return mapMapper[K]{} }, edgesOf)
}
