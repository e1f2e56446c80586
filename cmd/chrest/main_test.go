package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/chrest/internal/chrest"
	"github.com/normanking/chrest/internal/pattern"
	"github.com/normanking/chrest/internal/trace"
)

const abSession = `
passes: 3
patterns:
  - pattern: "<A B>"
probes:
  - pattern: "<A B C>"
  - modality: verbal
    items: [x]
`

func writeSession(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "config.yaml"), "--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestParseSession(t *testing.T) {
	s, err := parseSession([]byte(`
passes: 2
gap: 5
patterns:
  - pattern: "<A [P 1 2] $>"
  - modality: Verbal
    items: [b, c]
    finished: true
  - modality: action
    pattern: "push"
`))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Passes)
	assert.Equal(t, 5, s.Gap)
	require.Len(t, s.Patterns, 3)
	assert.Equal(t, "<A [P 1 2] $>", s.Patterns[0].String())
	assert.Equal(t, pattern.Verbal, s.Patterns[1].Modality())
	assert.True(t, s.Patterns[1].IsFinished())
	assert.Equal(t, pattern.Action, s.Patterns[2].Modality())
	assert.Empty(t, s.Probes)
}

func TestParseSession_Errors(t *testing.T) {
	tests := map[string]string{
		"no patterns":    "passes: 1\n",
		"bad modality":   "patterns:\n  - modality: smell\n    items: [a]\n",
		"both forms":     "patterns:\n  - pattern: \"<A>\"\n    items: [B]\n",
		"bad item":       "patterns:\n  - items: [\"[P 1]\"]\n",
		"negative gap":   "gap: -1\npatterns:\n  - pattern: \"<A>\"\n",
		"not yaml":       "patterns: [",
		"bad probe item": "patterns:\n  - pattern: \"<A>\"\nprobes:\n  - pattern: \"<A $ B>\"\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseSession([]byte(content))
			assert.Error(t, err)
		})
	}
}

func TestRunner_WaitsForCognition(t *testing.T) {
	s, err := parseSession([]byte(abSession))
	require.NoError(t, err)

	r := newRunner(chrest.New(chrest.DefaultParams(), 0), 0)
	require.NoError(t, r.learn(context.Background(), s))

	stats := r.collector.GetSessionStats()
	assert.Equal(t, 3, stats.Presentations)
	assert.Equal(t, 3, stats.Discriminated)
	assert.Zero(t, stats.Busy, "presentations wait until cognition is free")
	assert.Equal(t, 30020, r.now)

	node := r.model.Recognise(s.Patterns[0], r.now, false)
	assert.Equal(t, "<A B>", node.Contents().String())
}

func TestRunner_RecordsTrace(t *testing.T) {
	s, err := parseSession([]byte(abSession))
	require.NoError(t, err)
	store, err := trace.Open(trace.DriverModernc, trace.MemoryPath)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	r := newRunner(chrest.New(chrest.DefaultParams(), 0), 100)
	require.NoError(t, r.withTrace(ctx, store, "ab"))
	require.NoError(t, r.learn(ctx, s))

	counts, err := store.StatusCounts(ctx, r.runID)
	require.NoError(t, err)
	assert.Equal(t, 3, counts["discrimination_successful"])

	recent, err := store.Recent(ctx, r.runID, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, 20210, recent[0].PresentedAt, "gap is added after each outcome")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "chrest v"+version+"\n", out)
}

func TestLearnCommand(t *testing.T) {
	path := writeSession(t, abSession)
	out, err := execute(t, "--no-trace", "learn", path, "--details")
	require.NoError(t, err)
	assert.Contains(t, out, "SESSION")
	assert.Contains(t, out, "discrimination_successful")
	assert.Contains(t, out, "[Network] 3 nodes")
	assert.NotContains(t, out, "trace run:")
}

func TestLearnCommand_WithTrace(t *testing.T) {
	path := writeSession(t, abSession)
	db := filepath.Join(t.TempDir(), "trace.db")

	out, err := execute(t, "--db", db, "learn", path, "--passes", "4")
	require.NoError(t, err)
	require.Contains(t, out, "trace run: run_")

	runID := strings.TrimSpace(out[strings.Index(out, "run_"):])
	out, err = execute(t, "--db", db, "trace", "counts", runID)
	require.NoError(t, err)
	assert.Contains(t, out, "discrimination_successful")
	assert.Contains(t, out, "familiarisation_successful")

	out, err = execute(t, "--db", db, "trace", "runs")
	require.NoError(t, err)
	assert.Contains(t, out, runID)
}

func TestRecogniseCommand(t *testing.T) {
	path := writeSession(t, abSession)
	out, err := execute(t, "--no-trace", "recognise", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "contents <A B>")
	assert.Contains(t, lines[1], "nothing recognised")
}

func TestStatsCommand_JSON(t *testing.T) {
	path := writeSession(t, abSession)
	out, err := execute(t, "--no-trace", "stats", path, "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"total_nodes": 3`)
}

func TestConfigShow(t *testing.T) {
	out, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "discrimination_time: 10000")
}
