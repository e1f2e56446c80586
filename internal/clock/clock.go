// Package clock implements the virtual-time resource gate. Each cognitive
// resource is a scalar "busy until" value; an operation may start at time t
// only when its resource's clock is not after t.
package clock

import (
	"fmt"

	"github.com/normanking/chrest/internal/history"
)

// Kind identifies one of the gated resources.
type Kind int

const (
	Attention Kind = iota
	Cognition
	Perceiver
)

const kindCount = 3

// Kinds returns every clock kind in declaration order.
func Kinds() []Kind {
	return []Kind{Attention, Cognition, Perceiver}
}

func (k Kind) String() string {
	switch k {
	case Attention:
		return "attention"
	case Cognition:
		return "cognition"
	case Perceiver:
		return "perceiver"
	default:
		return fmt.Sprintf("clock(%d)", int(k))
	}
}

// Clocks holds the busy-until value of every resource.
type Clocks struct {
	values [kindCount]*history.History[int]
}

// New creates clocks for a model constructed at the given time. Every clock
// starts at created-1 so the first operation at created finds it free.
func New(created int) *Clocks {
	c := &Clocks{}
	c.Reset(created)
	return c
}

// Reset discards all clock history and returns every clock to baseline-1.
func (c *Clocks) Reset(baseline int) {
	for _, k := range Kinds() {
		c.values[k] = history.New(baseline-1, baseline-1)
	}
}

// Value returns the current busy-until value of a clock.
func (c *Clocks) Value(k Kind) int {
	v, _ := c.values[k].Latest()
	return v
}

// ValueAt returns the latest busy-until value that had elapsed by time t. ok
// is false if t precedes the clock's baseline.
func (c *Clocks) ValueAt(k Kind, t int) (int, bool) {
	return c.values[k].At(t)
}

// IsFree reports whether the resource is available at time t.
func (c *Clocks) IsFree(k Kind, t int) bool {
	return c.Value(k) <= t
}

// Advance marks the resource busy until the given time. Clocks never move
// backward; an attempt to do so is a caller contract breach and panics.
func (c *Clocks) Advance(k Kind, until int) {
	current := c.Value(k)
	if until < current {
		panic(fmt.Sprintf("clock: %s moving backward from %d to %d", k, current, until))
	}
	if until == current {
		return
	}
	c.values[k].Record(until, until)
}
