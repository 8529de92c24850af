package pq

import "testing"

func TestPriorityQueueOrder(t *testing.T) {
	q := Empty(func(a, b int) bool { return a < b })
	for _, x := range []int{5, 1, 4, 1, 3} {
		q.Add(x)
	}

	if q.Len() != 4 {
		t.Fatalf("duplicates should be ignored, got %d elements", q.Len())
	}
	if !q.Contains(4) || q.Contains(2) {
		t.Error("unexpected membership")
	}

	prev := -1
	for !q.IsEmpty() {
		next := q.GetNext()
		if next < prev {
			t.Errorf("%d dequeued after %d", next, prev)
		}
		prev = next
	}

	// Removed elements may be queued again.
	q.Add(1)
	if q.GetNext() != 1 {
		t.Error("expected 1")
	}
}
