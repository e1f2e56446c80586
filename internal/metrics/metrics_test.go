package metrics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/chrest/internal/chrest"
	"github.com/normanking/chrest/internal/pattern"
)

func learnAB(t *testing.T) (*chrest.Model, []chrest.Result) {
	t.Helper()
	m := chrest.New(chrest.DefaultParams(), 0)
	p := pattern.Symbols(pattern.Visual, "A", "B")

	var results []chrest.Result
	at := 0
	for i := 0; i < 3; i++ {
		r := m.RecogniseAndLearn(p, at)
		require.Equal(t, chrest.DiscriminationSuccessful, r.Status)
		results = append(results, r)
		at = r.Time
	}
	return m, results
}

func TestCollect(t *testing.T) {
	m, results := learnAB(t)
	at := results[2].Time

	s := Collect(m, at)
	assert.Equal(t, at, s.Time)
	assert.Equal(t, 3, s.TotalNodes)
	require.Len(t, s.Modalities, pattern.Count)

	visual := s.Modalities[pattern.Visual]
	assert.Equal(t, "visual", visual.Modality)
	assert.Equal(t, 3, visual.Nodes)
	assert.Equal(t, 2, visual.MaxDepth)
	assert.InDelta(t, 4.0/3.0, visual.AverageDepth, 1e-9)
	assert.Zero(t, s.Modalities[pattern.Verbal].Nodes)

	assert.Equal(t, []Bucket{{1, 2}, {2, 1}}, s.Histograms[ContentsSize])
	assert.Equal(t, []Bucket{{0, 1}, {1, 2}}, s.Histograms[ImageSize])
	assert.Equal(t, []Bucket{{0, 3}}, s.Histograms[SemanticLinks])

	assert.Equal(t, at, s.Clocks["cognition"])
	assert.Equal(t, -1, s.Clocks["attention"])
	assert.Equal(t, []int{results[0].Learned.Reference()}, s.Stm["visual"])
	assert.Empty(t, s.Stm["verbal"])
}

func TestCollect_EarlierTime(t *testing.T) {
	m, results := learnAB(t)

	s := Collect(m, results[0].Time)
	assert.Equal(t, 1, s.TotalNodes, "later nodes are invisible")
	assert.Equal(t, 1, s.Modalities[pattern.Visual].MaxDepth)
}

func TestCollector(t *testing.T) {
	c := NewCollector()
	_, results := learnAB(t)
	for i, r := range results {
		c.Record("<A B>", i, r)
	}
	c.Record("<A B>", 3, chrest.Result{Status: chrest.CognitionBusy})
	c.Record("<A B>", 4, chrest.Result{Status: chrest.InputAlreadyLearned})

	stats := c.GetSessionStats()
	assert.Equal(t, 5, stats.Presentations)
	assert.Equal(t, 3, stats.Discriminated)
	assert.Equal(t, 1, stats.Busy)
	assert.Equal(t, 1, stats.AlreadyKnown)
	assert.Equal(t, 3, stats.StatusCounts["discrimination_successful"])
	assert.InDelta(t, 60.0, stats.LearningRate(), 1e-9)
	assert.Equal(t, "input_already_learned", stats.LastStatus)

	stats.StatusCounts["x"] = 1
	assert.NotContains(t, c.GetSessionStats().StatusCounts, "x", "stats are copied")

	recent := c.GetRecentEpisodes(2)
	require.Len(t, recent, 2)
	assert.Equal(t, 3, recent[0].At)
	assert.Equal(t, 4, recent[1].At)
	assert.Len(t, c.GetRecentEpisodes(100), 5)
}

func TestCollector_KeepsLastEpisodes(t *testing.T) {
	c := NewCollector()
	for i := 0; i < 60; i++ {
		c.Record("<A>", i, chrest.Result{Status: chrest.InputAlreadyLearned})
	}
	recent := c.GetRecentEpisodes(100)
	require.Len(t, recent, 50)
	assert.Equal(t, 10, recent[0].At)
}

func TestDashboard(t *testing.T) {
	m, results := learnAB(t)
	d := NewDashboard()

	out := d.Render(Collect(m, results[2].Time))
	assert.Contains(t, out, "NETWORK")
	assert.Contains(t, out, "contents size")

	compact := d.RenderCompact(Collect(m, results[2].Time))
	assert.True(t, strings.HasPrefix(compact, "[Network] 3 nodes"))

	c := NewCollector()
	c.Record("<A B>", 0, results[0])
	assert.Contains(t, d.RenderSession(c.GetSessionStats()), "discrimination_successful")
}
