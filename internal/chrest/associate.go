package chrest

import (
	"github.com/normanking/chrest/internal/clock"
	"github.com/normanking/chrest/internal/ltm"
	"github.com/normanking/chrest/internal/pattern"
)

// addToStm makes node the hypothesis of its STM at time t and then tries to
// associate it with the hypothesis it displaced and, for verbal nodes, with
// the visual hypothesis. Association time is charged to cognition.
func (m *Model) addToStm(node *ltm.Node, t int) {
	previous := m.stms[node.Modality()].Add(node, t)
	end := m.createSemanticLinks(node, previous, t)
	if node.Modality() == pattern.Verbal {
		end = m.createNamingLink(node, end)
	}
	m.clocks.Advance(clock.Cognition, end)
}

// createSemanticLinks links two same-modality nodes in both directions when
// their images share at least SimilarityThreshold items. It returns the
// time at which the work is finished.
func (m *Model) createSemanticLinks(node, previous *ltm.Node, t int) int {
	if previous == nil || previous == node || node.IsRoot() || previous.IsRoot() {
		return t
	}
	if node.HasSemanticLink(previous, t) && previous.HasSemanticLink(node, t) {
		return t
	}

	t += m.params.ComparisonTime
	similarity := node.Image(t).SharedItems(previous.Image(t))
	if similarity < m.params.SimilarityThreshold {
		return t
	}

	if !node.HasSemanticLink(previous, t) {
		t += m.params.SemanticLinkCreationTime
		node.AddSemanticLink(previous, t)
	}
	if !previous.HasSemanticLink(node, t) {
		t += m.params.SemanticLinkCreationTime
		previous.AddSemanticLink(node, t)
	}
	m.log.Debug().
		Int("from", node.Reference()).
		Int("to", previous.Reference()).
		Int("similarity", similarity).
		Int("time", t).
		Msg("semantic link created")
	return t
}

// createNamingLink names the current visual hypothesis with a newly added
// verbal node, unless that visual node already has a name.
func (m *Model) createNamingLink(verbal *ltm.Node, t int) int {
	visual := m.stms[pattern.Visual].Hypothesis(t)
	if visual == nil || visual.IsRoot() || verbal.IsRoot() {
		return t
	}
	if visual.NamedBy(t) != nil {
		return t
	}
	t += m.params.NamingLinkCreationTime
	visual.SetNamedBy(verbal, t)
	m.log.Debug().
		Int("visual", visual.Reference()).
		Int("verbal", verbal.Reference()).
		Int("time", t).
		Msg("naming link created")
	return t
}
