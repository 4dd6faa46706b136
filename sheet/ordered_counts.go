package sheet

import "sort"

// orderedCounts tracks, for a set of integer indices (row or column
// numbers), how many visible cells currently occupy each index, keeping
// enough order to answer "what's the largest occupied index" in O(log n).
// No library in the example corpus provides an ordered int->int map;
// stdlib sort over a maintained sorted key slice is the justified choice.
type orderedCounts struct {
	counts map[int]int
	keys   []int // sorted ascending, one entry per index with counts[k] > 0
}

func newOrderedCounts() orderedCounts {
	return orderedCounts{counts: make(map[int]int)}
}

// inc increments the count at k, inserting k into the sorted key set the
// first time it becomes nonzero.
func (o *orderedCounts) inc(k int) {
	if o.counts[k] == 0 {
		i := sort.SearchInts(o.keys, k)
		o.keys = append(o.keys, 0)
		copy(o.keys[i+1:], o.keys[i:])
		o.keys[i] = k
	}
	o.counts[k]++
}

// dec decrements the count at k, removing it from the sorted key set once
// it returns to zero.
func (o *orderedCounts) dec(k int) {
	o.counts[k]--
	if o.counts[k] <= 0 {
		delete(o.counts, k)
		i := sort.SearchInts(o.keys, k)
		if i < len(o.keys) && o.keys[i] == k {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
		}
	}
}

// max returns the largest index with a nonzero count, and false if there
// are none.
func (o *orderedCounts) max() (int, bool) {
	if len(o.keys) == 0 {
		return 0, false
	}
	return o.keys[len(o.keys)-1], true
}
