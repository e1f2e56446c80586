// Package history provides an append-only, time-indexed log of values with
// point-in-time reads.
package history

import (
	"fmt"
	"sort"
)

type entry[T any] struct {
	time  int
	value T
}

// History records the value of a field each time it changes. Writes must
// arrive in non-decreasing time order; a write at the latest recorded time
// replaces that entry.
type History[T any] struct {
	entries []entry[T]
}

// New creates a history whose first value is recorded at the given time.
func New[T any](time int, initial T) *History[T] {
	return &History[T]{entries: []entry[T]{{time: time, value: initial}}}
}

// Record stores value as of time. It panics if time precedes the latest entry.
func (h *History[T]) Record(time int, value T) {
	n := len(h.entries)
	if n > 0 {
		last := h.entries[n-1].time
		if time < last {
			panic(fmt.Sprintf("history: write at %d precedes latest entry at %d", time, last))
		}
		if time == last {
			h.entries[n-1].value = value
			return
		}
	}
	h.entries = append(h.entries, entry[T]{time: time, value: value})
}

// At returns the value recorded at the greatest time not after t. ok is
// false when t precedes the first entry.
func (h *History[T]) At(t int) (value T, ok bool) {
	i := sort.Search(len(h.entries), func(i int) bool { return h.entries[i].time > t })
	if i == 0 {
		return value, false
	}
	return h.entries[i-1].value, true
}

// Latest returns the most recently recorded value.
func (h *History[T]) Latest() (value T, ok bool) {
	if len(h.entries) == 0 {
		return value, false
	}
	return h.entries[len(h.entries)-1].value, true
}

// LatestTime returns the time of the most recent entry.
func (h *History[T]) LatestTime() (int, bool) {
	if len(h.entries) == 0 {
		return 0, false
	}
	return h.entries[len(h.entries)-1].time, true
}

// Len returns the number of recorded entries.
func (h *History[T]) Len() int {
	return len(h.entries)
}
