package chrest

import (
	"github.com/normanking/chrest/internal/clock"
	"github.com/normanking/chrest/internal/ltm"
	"github.com/normanking/chrest/internal/pattern"
)

// Recognise sorts p through its modality's network as it stood at time t.
//
// With chargeTime set the call is gated on cognition: it returns nil when
// cognition is busy at t. Otherwise every link traversal and comparison is
// charged, the cognition clock is advanced to the end of the search and a
// non-root result becomes the hypothesis of its STM.
//
// Without chargeTime the call has no side effects. The modality root is
// returned when nothing is recognised.
func (m *Model) Recognise(p *pattern.List, t int, chargeTime bool) *ltm.Node {
	if !m.ExistsAt(t) {
		return nil
	}
	if !chargeTime {
		node, _ := m.sort(p, t)
		return node
	}
	if !m.clocks.IsFree(clock.Cognition, t) {
		return nil
	}

	node, cost := m.sort(p, t)
	end := t + cost
	m.clocks.Advance(clock.Cognition, end)
	if !node.IsRoot() {
		m.addToStm(node, end)
	}

	m.log.Debug().
		Str("pattern", p.String()).
		Int("ref", node.Reference()).
		Int("time", t).
		Int("cognition", m.clocks.Value(clock.Cognition)).
		Msg("recognised")
	return node
}

// recognise is the uncharged form used inside learning.
func (m *Model) recognise(p *pattern.List, t int) *ltm.Node {
	node, _ := m.sort(p, t)
	return node
}

// sort descends the tree along the first passing link at each level, then
// searches semantic links from the node reached. It returns the node and the
// time the search costs.
func (m *Model) sort(p *pattern.List, t int) (*ltm.Node, int) {
	current, cost := m.descend(p, t)
	if current.IsRoot() {
		return current, cost
	}
	best := m.searchSemanticLinks(current, m.params.SemanticSearchDepth, t, &cost)
	return best, cost
}

// descend is the vertical part of sort.
func (m *Model) descend(p *pattern.List, t int) (*ltm.Node, int) {
	current := m.net.Root(p.Modality())
	remaining := p.Clone()
	cost := 0

	links := current.Children(t)
	for i := 0; i < len(links); {
		link := links[i]
		if !link.Passes(remaining) {
			i++
			continue
		}
		current = link.Child()
		remaining = remaining.Remove(link.Test())
		cost += m.params.LinkTraversalTime
		links = current.Children(t)
		i = 0
	}
	return current, cost
}

// searchSemanticLinks returns the node with the most information reachable
// within depth semantic hops. Only a strictly greater score replaces the
// current best, so earlier neighbours win ties.
func (m *Model) searchSemanticLinks(node *ltm.Node, depth, t int, cost *int) *ltm.Node {
	if depth <= 0 {
		return node
	}
	best := node
	for _, neighbour := range node.SemanticLinks(t) {
		*cost += m.params.LinkTraversalTime
		candidate := m.searchSemanticLinks(neighbour, depth-1, t, cost)
		*cost += m.params.ComparisonTime
		if candidate.Information(t) > best.Information(t) {
			best = candidate
		}
	}
	return best
}
