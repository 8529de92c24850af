package graph

import "testing"

func TestSCC(t *testing.T) {
	scc := _sampleGraph.SCC([]int{0})

	same := [][]int{{0, 1, 4}, {2, 3, 7}, {5, 6}}
	for _, group := range same {
		for _, n := range group[1:] {
			if scc.ComponentOf(n) != scc.ComponentOf(group[0]) {
				t.Errorf("%d and %d should share a component", n, group[0])
			}
		}
		if !scc.IsCyclic(scc.ComponentOf(group[0])) {
			t.Errorf("component of %d should be cyclic", group[0])
		}
	}

	if scc.IsCyclic(scc.ComponentOf(8)) {
		t.Error("component of 8 should not be cyclic")
	}

	// Edges only lead to components with lower or equal index.
	for from, tos := range edges {
		for _, to := range tos {
			if scc.ComponentOf(to) > scc.ComponentOf(from) {
				t.Errorf("edge %d -> %d goes up in the decomposition", from, to)
			}
		}
	}

	if scc.TopologicalRank(0) != 0 {
		t.Errorf("the start node should rank first, got %d", scc.TopologicalRank(0))
	}
	if scc.ComponentOf(42) != -1 {
		t.Error("unreachable nodes have no component")
	}
}

func TestSCCToGraph(t *testing.T) {
	scc := _sampleGraph.SCC([]int{0})
	G := scc.ToGraph()

	for idx := range scc.Components {
		for _, e := range G.Edges(idx) {
			if e == idx {
				t.Errorf("component %d has a self-edge in the condensation", idx)
			}
		}
	}
}

func TestBottomUp(t *testing.T) {
	scc := _sampleGraph.SCC([]int{0})
	reach := BottomUp(scc,
		func(n int) map[int]bool { return map[int]bool{n: true} },
		func(a, b map[int]bool) map[int]bool {
			res := make(map[int]bool, len(a)+len(b))
			for n := range a {
				res[n] = true
			}
			for n := range b {
				res[n] = true
			}
			return res
		})

	for n, exp := range map[int]int{0: 14, 5: 2, 9: 5, 8: 1, 12: 1} {
		if got := len(reach[scc.ComponentOf(n)]); got != exp {
			t.Errorf("expected %d nodes reachable from %d, got %d", exp, n, got)
		}
	}
}
