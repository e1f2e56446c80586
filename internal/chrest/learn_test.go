package chrest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/chrest/internal/clock"
	"github.com/normanking/chrest/internal/pattern"
)

func TestRecogniseAndLearn_RepeatedItems(t *testing.T) {
	m := newTestModel(t, 0)
	p, err := pattern.Parse(pattern.Visual, "<A A D $>")
	require.NoError(t, err)

	want := []Status{
		DiscriminationSuccessful,  // primitive A
		DiscriminationSuccessful,  // primitive D
		DiscriminationSuccessful,  // node <A D>
		FamiliarisationSuccessful, // image <A>
		FamiliarisationSuccessful, // image <A D>
		FamiliarisationSuccessful, // image <A D $>
		InputAlreadyLearned,
	}

	at := 0
	var last Result
	for i, w := range want {
		last = m.RecogniseAndLearn(p, at)
		require.Equal(t, w, last.Status, "step %d", i)
		at = last.Time
	}

	ad := last.Recognised
	assert.Equal(t, "<A D>", ad.Contents().String())
	assert.Equal(t, "<A D $>", ad.Image(at).String())
	assert.Empty(t, ad.Children(at), "no end-marker chain below the chunk")

	for i := 0; i < 20; i++ {
		last = m.RecogniseAndLearn(p, at)
		require.Equal(t, InputAlreadyLearned, last.Status)
		at = last.Time
	}
	assert.Equal(t, 3, m.Network().Count(pattern.Visual))
}

func TestRecogniseAndLearn_LearnsBelowTreeNode(t *testing.T) {
	m := newTestModel(t, 0)
	tree := attach(t, m, visual("D"), visual("D"), 0)
	neighbour := attach(t, m, visual("A"), visual("A", "B", "C"), 0)
	tree.AddSemanticLink(neighbour, 0)
	// Discriminating <D B> below the neighbour would add exactly this test.
	_, ok := m.net.Attach(neighbour, visual("D"), visual("A", "D"), pattern.New(pattern.Visual), 0)
	require.True(t, ok)

	p := visual("D", "B")
	want := []struct {
		status Status
		time   int
	}{
		{DiscriminationSuccessful, 13},  // primitive B, via familiarising <D>
		{FamiliarisationSuccessful, 21}, // image <D B>
		{InputAlreadyLearned, 24},
		{InputAlreadyLearned, 27},
	}

	at := 0
	for i, w := range want {
		r := m.RecogniseAndLearn(p, at)
		assert.Same(t, neighbour, r.Recognised, "step %d", i)
		require.Equal(t, w.status, r.Status, "step %d", i)
		assert.Equal(t, w.time, r.Time, "step %d", i)
		at = r.Time
	}

	assert.Equal(t, "<D B>", tree.Image(at).String())
	assert.Equal(t, "<A B C>", neighbour.Image(at).String(), "neighbour untouched")
	assert.Len(t, neighbour.Children(at), 1)
}

// TestRecogniseAndLearn_Converges presents random patterns, with repeated
// items and end markers, until each is known. Semantic links form along the
// way since images often share two items.
func TestRecogniseAndLearn_Converges(t *testing.T) {
	m := newTestModel(t, 0)
	symbols := []string{"A", "B", "C", "D", "E"}
	rng := newLCG(2024)

	at := 0
	links := 0
	for n := 0; n < 150; n++ {
		p := pattern.New(pattern.Visual)
		size := 1 + rng.next()%5
		for i := 0; i < size; i++ {
			p.Add(pattern.Symbol(symbols[rng.next()%len(symbols)]))
		}
		if rng.next()%2 == 0 {
			p.SetFinished()
		}

		known := false
		for step := 0; step < 100 && !known; step++ {
			r := m.RecogniseAndLearn(p, at)
			require.NotEqual(t, DiscriminationFailed, r.Status, "%s at step %d", p, step)
			require.NotEqual(t, FamiliarisationFailed, r.Status, "%s at step %d", p, step)
			known = r.Status == InputAlreadyLearned
			at = r.Time
		}
		require.True(t, known, "%s never became known", p)

		count := m.Network().Count(pattern.Visual)
		again := m.RecogniseAndLearn(p, at)
		assert.Equal(t, InputAlreadyLearned, again.Status, "%s presented twice", p)
		assert.Equal(t, count, m.Network().Count(pattern.Visual))
		at = again.Time
	}

	for _, node := range m.Network().Nodes(at) {
		links += len(node.SemanticLinks(at))
	}
	assert.Positive(t, links, "workload exercises semantic links")
	assert.Equal(t, at, m.Clock(clock.Cognition))
}
