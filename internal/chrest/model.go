// Package chrest ties long-term memory, short-term memory and the resource
// clocks into a learning model. All operations are synchronous; time is
// virtual and supplied by the caller.
package chrest

import (
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/normanking/chrest/internal/clock"
	"github.com/normanking/chrest/internal/ltm"
	"github.com/normanking/chrest/internal/pattern"
	"github.com/normanking/chrest/internal/stm"
)

// Model is a single learner. It is not safe for concurrent use; the clocks
// are the only model of parallel faculties.
type Model struct {
	params  Params
	created int
	net     *ltm.Network
	clocks  *clock.Clocks
	stms    [pattern.Count]*stm.Stm
	random  func() float64
	log     zerolog.Logger
}

// Option customises a Model.
type Option func(*Model)

// WithRandom sets the source used for stochastic learning refusal. It must
// return values in [0,1).
func WithRandom(source func() float64) Option {
	return func(m *Model) { m.random = source }
}

// WithSeed uses a deterministic pseudo-random source.
func WithSeed(seed int64) Option {
	return func(m *Model) { m.random = rand.New(rand.NewSource(seed)).Float64 }
}

// WithLogger replaces the global zerolog logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Model) { m.log = l }
}

// New creates an empty model that exists from time created on. It panics if
// params are invalid.
func New(params Params, created int, opts ...Option) *Model {
	if err := params.Validate(); err != nil {
		panic(fmt.Sprintf("chrest: invalid params: %v", err))
	}
	m := &Model{
		params: params,
		random: rand.Float64,
		log:    log.With().Str("component", "chrest").Logger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.net = ltm.NewNetwork(created)
	m.clocks = clock.New(created)
	m.resetStms(created)
	m.created = created
	return m
}

// Reset discards the whole network, empties short-term memory and returns
// every clock to baseline. The model exists again from time t on.
func (m *Model) Reset(t int) {
	m.net.Reset(t)
	m.clocks.Reset(t)
	m.resetStms(t)
	m.created = t
	m.log.Info().Int("time", t).Msg("model reset")
}

func (m *Model) resetStms(t int) {
	for _, mod := range pattern.Modalities() {
		m.stms[mod] = stm.New(mod, m.params.StmCapacity[mod], t)
	}
}

func (m *Model) Params() Params                      { return m.params }
func (m *Model) Created() int                        { return m.created }
func (m *Model) Network() *ltm.Network               { return m.net }
func (m *Model) ExistsAt(t int) bool                 { return t >= m.created }
func (m *Model) Root(mod pattern.Modality) *ltm.Node { return m.net.Root(mod) }

// Stm returns the short-term memory of a modality.
func (m *Model) Stm(mod pattern.Modality) *stm.Stm {
	return m.stms[mod]
}

// StmContents returns the nodes held in a modality's STM at time t.
func (m *Model) StmContents(mod pattern.Modality, t int) []*ltm.Node {
	return m.stms[mod].Contents(t)
}

// AddToStm places a node in its modality's STM at time t, creating any
// associations with the previous hypotheses. It returns false when
// cognition is busy at t.
func (m *Model) AddToStm(node *ltm.Node, t int) bool {
	if !m.ExistsAt(t) || !m.clocks.IsFree(clock.Cognition, t) {
		return false
	}
	m.clocks.Advance(clock.Cognition, t)
	m.addToStm(node, t)
	return true
}

// ClearStm empties a modality's STM at time t. Like AddToStm it returns
// false, changing nothing, when cognition is busy at t.
func (m *Model) ClearStm(mod pattern.Modality, t int) bool {
	if !m.ExistsAt(t) || !m.clocks.IsFree(clock.Cognition, t) {
		return false
	}
	m.clocks.Advance(clock.Cognition, t)
	m.stms[mod].Clear(t)
	return true
}

// Clock returns the current busy-until value of a resource.
func (m *Model) Clock(k clock.Kind) int { return m.clocks.Value(k) }

func (m *Model) IsAttentionFree(t int) bool { return m.clocks.IsFree(clock.Attention, t) }
func (m *Model) IsCognitionFree(t int) bool { return m.clocks.IsFree(clock.Cognition, t) }
func (m *Model) IsPerceiverFree(t int) bool { return m.clocks.IsFree(clock.Perceiver, t) }

// Consume lets a collaborator occupy a resource for duration starting at t.
// It returns false, with no side effects, when the resource is not free.
func (m *Model) Consume(k clock.Kind, t, duration int) bool {
	if duration < 0 {
		panic(fmt.Sprintf("chrest: negative duration %d for %s", duration, k))
	}
	if !m.ExistsAt(t) || !m.clocks.IsFree(k, t) {
		return false
	}
	m.clocks.Advance(k, t+duration)
	return true
}
