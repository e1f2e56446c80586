package chrest

import (
	"math"

	"github.com/normanking/chrest/internal/clock"
	"github.com/normanking/chrest/internal/ltm"
	"github.com/normanking/chrest/internal/pattern"
)

// LearnProduction links a visual node to an action node, both of which must
// be in their short-term memories at time t. New productions start with zero
// strength.
func (m *Model) LearnProduction(vision, action *ltm.Node, t int) Status {
	if status, ok := m.productionPreconditions(vision, action, t); !ok {
		return status
	}
	if vision.IsRoot() || action.IsRoot() {
		return LearnProductionFailed
	}
	if _, exists := vision.ProductionStrength(action, t); exists {
		return ProductionAlreadyLearned
	}

	done := t + m.params.ProductionCreationTime
	if !vision.AddProduction(action, 0, done) {
		return LearnProductionFailed
	}
	m.clocks.Advance(clock.Cognition, done)
	m.log.Debug().
		Int("vision", vision.Reference()).
		Int("action", action.Reference()).
		Int("time", done).
		Msg("production learned")
	return LearnProductionSuccessful
}

// ReinforceProduction adds delta to the strength of an existing production.
// How delta is computed is up to the caller's reinforcement scheme.
func (m *Model) ReinforceProduction(vision, action *ltm.Node, delta float64, t int) Status {
	if status, ok := m.productionPreconditions(vision, action, t); !ok {
		return status
	}
	current, exists := vision.ProductionStrength(action, t)
	if !exists {
		return NoProductionIdentified
	}
	next := current + delta
	if math.IsNaN(next) || math.IsInf(next, 0) {
		return ProductionReinforcementFailed
	}

	done := t + m.params.ProductionReinforcementTime
	if !vision.SetProductionStrength(action, next, done) {
		return ProductionReinforcementFailed
	}
	m.clocks.Advance(clock.Cognition, done)
	return ProductionReinforcementSuccessful
}

func (m *Model) productionPreconditions(vision, action *ltm.Node, t int) (Status, bool) {
	if !m.ExistsAt(t) {
		return ModelDoesNotExistAtTime, false
	}
	if !m.clocks.IsFree(clock.Cognition, t) {
		return CognitionBusy, false
	}
	if vision.Modality() != pattern.Visual || !m.stms[pattern.Visual].Contains(vision, t) {
		return VisionNotInStm, false
	}
	if action.Modality() != pattern.Action || !m.stms[pattern.Action].Contains(action, t) {
		return ActionNotInStm, false
	}
	return 0, true
}
