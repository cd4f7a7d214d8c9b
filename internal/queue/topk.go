// Package queue provides the fixed-capacity buffer that retains the best
// correspondence pairs seen by a search.
package queue

import (
	"math"
	"sort"

	"github.com/hupe1980/corrmin/model"
)

type slot struct {
	result model.Result
	seq    uint64 // insertion order, for stable ties
	filled bool
}

// TopK keeps the k results with the smallest distance.
//
// Every slot starts at +Inf. Offer scans for the slot holding the largest
// distance and replaces it only when the new distance is strictly smaller,
// so among equal distances the earliest offered result is kept.
// TopK is not safe for concurrent use.
type TopK struct {
	slots []slot
	seq   uint64
}

// NewTopK creates a buffer for k results. k must be positive.
func NewTopK(k int) *TopK {
	if k <= 0 {
		panic("queue: k must be positive")
	}
	t := &TopK{slots: make([]slot, k)}
	for i := range t.slots {
		t.slots[i].result.Distance = math.Inf(1)
	}
	return t
}

// K returns the capacity.
func (t *TopK) K() int { return len(t.slots) }

// worst returns the index of the slot with the largest distance.
// Ties resolve to the lowest index.
func (t *TopK) worst() int {
	w := 0
	for i := 1; i < len(t.slots); i++ {
		if t.slots[i].result.Distance > t.slots[w].result.Distance {
			w = i
		}
	}
	return w
}

// Max returns the largest retained distance, +Inf while a slot is empty.
func (t *TopK) Max() float64 {
	return t.slots[t.worst()].result.Distance
}

// Offer stores r if its distance is strictly below the current maximum and
// reports whether it was stored.
func (t *TopK) Offer(r model.Result) bool {
	w := t.worst()
	if !(r.Distance < t.slots[w].result.Distance) {
		return false
	}
	t.slots[w] = slot{result: r, seq: t.seq, filled: true}
	t.seq++
	return true
}

// Len returns the number of filled slots.
func (t *TopK) Len() int {
	n := 0
	for _, s := range t.slots {
		if s.filled {
			n++
		}
	}
	return n
}

// Results returns the filled slots ordered by distance, ties in the order
// they were offered.
func (t *TopK) Results() []model.Result {
	filled := make([]slot, 0, len(t.slots))
	for _, s := range t.slots {
		if s.filled {
			filled = append(filled, s)
		}
	}
	sort.Slice(filled, func(i, j int) bool {
		if filled[i].result.Distance != filled[j].result.Distance {
			return filled[i].result.Distance < filled[j].result.Distance
		}
		return filled[i].seq < filled[j].seq
	})

	out := make([]model.Result, len(filled))
	for i, s := range filled {
		out[i] = s.result
	}
	return out
}
