package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/normanking/chrest/internal/chrest"
	"github.com/normanking/chrest/internal/clock"
	"github.com/normanking/chrest/internal/metrics"
	"github.com/normanking/chrest/internal/pattern"
	"github.com/normanking/chrest/internal/trace"
)

// sessionFile is the YAML layout of a learning session:
//
//	passes: 5
//	gap: 0
//	patterns:
//	  - pattern: "<A B C>"
//	  - modality: verbal
//	    items: [b, c]
//	    finished: true
//	probes:
//	  - pattern: "<A B>"
type sessionFile struct {
	Passes   int           `yaml:"passes"`
	Gap      int           `yaml:"gap"`
	Patterns []patternSpec `yaml:"patterns"`
	Probes   []patternSpec `yaml:"probes"`
}

type patternSpec struct {
	Modality string   `yaml:"modality"`
	Pattern  string   `yaml:"pattern"`
	Items    []string `yaml:"items"`
	Finished bool     `yaml:"finished"`
}

// session is a parsed sessionFile.
type session struct {
	Passes   int
	Gap      int
	Patterns []*pattern.List
	Probes   []*pattern.List
}

func (s patternSpec) toList() (*pattern.List, error) {
	mod := pattern.Visual
	if s.Modality != "" {
		m, ok := pattern.ParseModality(s.Modality)
		if !ok {
			return nil, fmt.Errorf("unknown modality %q", s.Modality)
		}
		mod = m
	}

	if s.Pattern != "" {
		if len(s.Items) > 0 {
			return nil, fmt.Errorf("pattern %q: give either pattern or items, not both", s.Pattern)
		}
		l, err := pattern.Parse(mod, s.Pattern)
		if err != nil {
			return nil, err
		}
		if s.Finished {
			l.SetFinished()
		}
		return l, nil
	}

	l := pattern.New(mod)
	for _, raw := range s.Items {
		item, err := pattern.ParseItem(raw)
		if err != nil {
			return nil, err
		}
		l.Add(item)
	}
	if s.Finished {
		l.SetFinished()
	}
	return l, nil
}

func parseSession(data []byte) (*session, error) {
	var f sessionFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if len(f.Patterns) == 0 {
		return nil, fmt.Errorf("session has no patterns")
	}
	if f.Passes <= 0 {
		f.Passes = 1
	}
	if f.Gap < 0 {
		return nil, fmt.Errorf("gap cannot be negative")
	}

	s := &session{Passes: f.Passes, Gap: f.Gap}
	for i, ps := range f.Patterns {
		l, err := ps.toList()
		if err != nil {
			return nil, fmt.Errorf("patterns[%d]: %w", i, err)
		}
		s.Patterns = append(s.Patterns, l)
	}
	for i, ps := range f.Probes {
		l, err := ps.toList()
		if err != nil {
			return nil, fmt.Errorf("probes[%d]: %w", i, err)
		}
		s.Probes = append(s.Probes, l)
	}
	return s, nil
}

func loadSession(path string) (*session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	return parseSession(data)
}

// runner presents patterns to a model in virtual time, waiting for cognition
// to become free before each presentation.
type runner struct {
	model     *chrest.Model
	collector *metrics.Collector
	store     *trace.Store // nil disables tracing
	runID     string
	gap       int
	now       int
}

func newRunner(model *chrest.Model, gap int) *runner {
	return &runner{
		model:     model,
		collector: metrics.NewCollector(),
		gap:       gap,
		now:       model.Created(),
	}
}

// withTrace records every presentation under a new run.
func (r *runner) withTrace(ctx context.Context, store *trace.Store, label string) error {
	run, err := store.StartRun(ctx, label, r.model.Params())
	if err != nil {
		return err
	}
	r.store = store
	r.runID = run.ID
	log.Info().Str("run", run.ID).Str("label", label).Msg("trace run started")
	return nil
}

func (r *runner) present(ctx context.Context, p *pattern.List) (chrest.Result, error) {
	at := r.now
	if busy := r.model.Clock(clock.Cognition); busy > at {
		at = busy
	}

	res := r.model.RecogniseAndLearn(p, at)
	r.collector.Record(p.String(), at, res)
	if r.store != nil {
		if err := r.store.Record(ctx, trace.FromResult(r.runID, p, at, res)); err != nil {
			return res, err
		}
	}

	r.now = at + r.gap
	if res.Time > at {
		r.now = res.Time + r.gap
	}
	return res, nil
}

// learn presents every pattern of the session once per pass.
func (r *runner) learn(ctx context.Context, s *session) error {
	for pass := 0; pass < s.Passes; pass++ {
		for _, p := range s.Patterns {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := r.present(ctx, p); err != nil {
				return fmt.Errorf("pass %d, %s: %w", pass+1, p, err)
			}
		}
	}
	return nil
}
