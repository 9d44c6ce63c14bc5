package graph

import "github.com/tidwall/btree"

// candidate is a connection under consideration during selection.
type candidate struct {
	a, b       int
	weight     float64 // unpenalized weight
	reshuffled bool    // already re-queued once with an intersection penalty
}

type queuedCandidate struct {
	candidate
	priority float64
	seq      uint64
}

// candidateQueue is a min-priority queue ordered by priority, ties broken by
// insertion order so that selection is deterministic for a given seed.
type candidateQueue struct {
	tree *btree.BTreeG[queuedCandidate]
	seq  uint64
}

func newCandidateQueue() *candidateQueue {
	less := func(x, y queuedCandidate) bool {
		if x.priority != y.priority {
			return x.priority < y.priority
		}
		return x.seq < y.seq
	}
	return &candidateQueue{
		tree: btree.NewBTreeGOptions(less, btree.Options{NoLocks: true}),
	}
}

func (q *candidateQueue) push(c candidate, priority float64) {
	q.seq++
	q.tree.Set(queuedCandidate{candidate: c, priority: priority, seq: q.seq})
}

func (q *candidateQueue) pop() (candidate, bool) {
	item, ok := q.tree.PopMin()
	if !ok {
		return candidate{}, false
	}
	return item.candidate, true
}

func (q *candidateQueue) Len() int {
	return q.tree.Len()
}
