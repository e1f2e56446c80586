package chrest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/chrest/internal/clock"
	"github.com/normanking/chrest/internal/pattern"
)

func action(symbols ...string) *pattern.List {
	return pattern.Symbols(pattern.Action, symbols...)
}

func TestProductions(t *testing.T) {
	m := newTestModel(t, 0)
	x := attach(t, m, visual("A"), visual("A"), 0)
	y := attach(t, m, visual("B"), visual("B"), 0)
	a := attach(t, m, action("push"), action("push"), 0)
	b := attach(t, m, action("pull"), action("pull"), 0)
	c := attach(t, m, action("wait"), action("wait"), 0)

	require.True(t, m.AddToStm(x, 0))
	require.True(t, m.AddToStm(a, 0))

	assert.Equal(t, LearnProductionSuccessful, m.LearnProduction(x, a, 0))
	assert.Equal(t, 4, m.Clock(clock.Cognition))
	strength, ok := x.ProductionStrength(a, 4)
	require.True(t, ok)
	assert.Zero(t, strength)
	_, ok = x.ProductionStrength(a, 3)
	assert.False(t, ok)

	assert.Equal(t, ProductionAlreadyLearned, m.LearnProduction(x, a, 4))
	assert.Equal(t, 4, m.Clock(clock.Cognition))

	assert.Equal(t, ProductionReinforcementSuccessful, m.ReinforceProduction(x, a, 1.5, 4))
	assert.Equal(t, 5, m.Clock(clock.Cognition))
	strength, _ = x.ProductionStrength(a, 5)
	assert.InDelta(t, 1.5, strength, 1e-9)
	assert.Equal(t, CognitionBusy, m.ReinforceProduction(x, a, 1, 4))

	assert.Equal(t, ProductionReinforcementFailed, m.ReinforceProduction(x, a, math.Inf(1), 5))
	assert.Equal(t, 5, m.Clock(clock.Cognition))

	// adding b compares it with a, which costs one tick
	require.True(t, m.AddToStm(b, 5))
	assert.Equal(t, 6, m.Clock(clock.Cognition))
	assert.Equal(t, NoProductionIdentified, m.ReinforceProduction(x, b, 1, 6))

	assert.Equal(t, VisionNotInStm, m.LearnProduction(y, b, 6))
	assert.Equal(t, VisionNotInStm, m.LearnProduction(a, b, 6), "vision must be visual")
	assert.Equal(t, ActionNotInStm, m.LearnProduction(x, c, 6))
	assert.Equal(t, ActionNotInStm, m.LearnProduction(x, x, 6))

	assert.Len(t, x.Productions(100), 1)
}

func TestProductions_ModelDoesNotExist(t *testing.T) {
	m := newTestModel(t, 10)
	x := attach(t, m, visual("A"), visual("A"), 10)
	a := attach(t, m, action("push"), action("push"), 10)

	assert.Equal(t, ModelDoesNotExistAtTime, m.LearnProduction(x, a, 5))
	assert.Equal(t, ModelDoesNotExistAtTime, m.ReinforceProduction(x, a, 1, 5))
}

// TestLearning_Invariants drives a seeded random workload and checks the
// structural guarantees that must hold whatever is presented.
func TestLearning_Invariants(t *testing.T) {
	m := newTestModel(t, 0, WithSeed(7))
	symbols := []string{"A", "B", "C", "D"}
	rng := newLCG(42)

	at := 0
	for step := 0; step < 300; step++ {
		n := 1 + rng.next()%4 // items may repeat
		p := pattern.New(pattern.Visual)
		for i := 0; i < n; i++ {
			p.Add(pattern.Symbol(symbols[rng.next()%len(symbols)]))
		}
		if rng.next()%3 == 0 {
			p.SetFinished()
		}
		before := m.Clock(clock.Cognition)
		m.RecogniseAndLearn(p, at)
		require.GreaterOrEqual(t, m.Clock(clock.Cognition), before, "clocks never move backward")
		at = m.Clock(clock.Cognition) + rng.next()%3
	}

	nodes := m.Network().Nodes(at)
	require.NotEmpty(t, nodes)
	seen := map[int]bool{}
	for i, node := range nodes {
		assert.False(t, seen[node.Reference()])
		seen[node.Reference()] = true
		if i > 0 {
			assert.Greater(t, node.Reference(), nodes[i-1].Reference())
		}
		assert.False(t, node.Contents().IsFinished(), "contents are never finished")

		// Images only ever grow, and a finished image stays finished.
		prev := node.Image(node.Created())
		for tt := node.Created(); tt <= at; tt++ {
			img := node.Image(tt)
			require.NotNil(t, img)
			assert.Zero(t, prev.Remove(img).Size(), "image at %d lost items", tt)
			assert.GreaterOrEqual(t, img.Size(), prev.Size(), "image at %d shrank", tt)
			if prev.IsFinished() {
				assert.True(t, img.IsFinished(), "image of %d unfinished again at %d", node.Reference(), tt)
			}
			prev = img
		}

		// Children tests are pairwise distinct.
		links := node.Children(at)
		for i := range links {
			for j := i + 1; j < len(links); j++ {
				assert.False(t, links[i].Test().Equal(links[j].Test()))
			}
		}
	}
	assert.LessOrEqual(t, m.Stm(pattern.Visual).Count(at), m.Stm(pattern.Visual).Capacity(at))
}

// lcg is a tiny deterministic generator so the workload does not depend on
// the model's own random source.
type lcg struct{ state uint32 }

func newLCG(seed uint32) *lcg { return &lcg{state: seed} }

func (g *lcg) next() int {
	g.state = g.state*1664525 + 1013904223
	return int(g.state >> 16)
}
