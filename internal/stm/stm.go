// Package stm implements short-term memory: a small, bounded, time-versioned
// list of recently recognised nodes for one modality.
package stm

import (
	"fmt"

	"github.com/normanking/chrest/internal/history"
	"github.com/normanking/chrest/internal/ltm"
	"github.com/normanking/chrest/internal/pattern"
)

// Stm holds up to Capacity nodes. Index 0 is the hypothesis, the most
// recently added node.
type Stm struct {
	modality pattern.Modality
	contents *history.History[[]*ltm.Node]
	capacity *history.History[int]
}

// New creates an empty short-term memory at time t.
func New(modality pattern.Modality, capacity, t int) *Stm {
	if capacity < 1 {
		panic(fmt.Sprintf("stm: capacity must be positive, got %d", capacity))
	}
	return &Stm{
		modality: modality,
		contents: history.New[[]*ltm.Node](t, nil),
		capacity: history.New(t, capacity),
	}
}

func (s *Stm) Modality() pattern.Modality { return s.modality }

// Capacity returns the capacity in force at time t (the initial capacity for
// times before creation).
func (s *Stm) Capacity(t int) int {
	if c, ok := s.capacity.At(t); ok {
		return c
	}
	c, _ := s.capacity.Latest()
	return c
}

// SetCapacity changes the capacity from time t on, evicting the oldest
// entries if the current contents no longer fit.
func (s *Stm) SetCapacity(capacity, t int) {
	if capacity < 1 {
		panic(fmt.Sprintf("stm: capacity must be positive, got %d", capacity))
	}
	s.capacity.Record(t, capacity)
	current, _ := s.contents.Latest()
	if len(current) > capacity {
		next := make([]*ltm.Node, capacity)
		copy(next, current[:capacity])
		s.contents.Record(t, next)
	}
}

// Contents returns the nodes held at time t, hypothesis first.
func (s *Stm) Contents(t int) []*ltm.Node {
	nodes, _ := s.contents.At(t)
	out := make([]*ltm.Node, len(nodes))
	copy(out, nodes)
	return out
}

// Count returns the number of nodes held at time t.
func (s *Stm) Count(t int) int {
	nodes, _ := s.contents.At(t)
	return len(nodes)
}

// Hypothesis returns the node at index 0 at time t, or nil when empty.
func (s *Stm) Hypothesis(t int) *ltm.Node {
	nodes, _ := s.contents.At(t)
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

// Contains reports whether the node was held at time t.
func (s *Stm) Contains(node *ltm.Node, t int) bool {
	nodes, _ := s.contents.At(t)
	for _, n := range nodes {
		if n == node {
			return true
		}
	}
	return false
}

// Add makes node the hypothesis at time t. A node already present is moved to
// the front rather than duplicated; the oldest entry is evicted when capacity
// is exceeded. Add returns the hypothesis that was displaced, or nil.
func (s *Stm) Add(node *ltm.Node, t int) (previous *ltm.Node) {
	if node.Modality() != s.modality {
		panic(fmt.Sprintf("stm: %s node added to %s stm", node.Modality(), s.modality))
	}
	current, _ := s.contents.Latest()
	if len(current) > 0 {
		previous = current[0]
	}

	capacity := s.Capacity(t)
	next := make([]*ltm.Node, 0, capacity)
	next = append(next, node)
	for _, n := range current {
		if n == node {
			continue
		}
		if len(next) == capacity {
			break
		}
		next = append(next, n)
	}
	s.contents.Record(t, next)
	return previous
}

// Clear empties the memory at time t.
func (s *Stm) Clear(t int) {
	s.contents.Record(t, nil)
}
