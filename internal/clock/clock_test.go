package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClocks_StartOneBeforeCreation(t *testing.T) {
	c := New(10)
	for _, k := range Kinds() {
		assert.Equal(t, 9, c.Value(k), k.String())
		assert.True(t, c.IsFree(k, 10))
		assert.True(t, c.IsFree(k, 9))
		assert.False(t, c.IsFree(k, 8))
	}
}

func TestClocks_AdvanceIsIndependent(t *testing.T) {
	c := New(0)
	c.Advance(Cognition, 50)

	assert.False(t, c.IsFree(Cognition, 49))
	assert.True(t, c.IsFree(Cognition, 50))
	assert.True(t, c.IsFree(Attention, 0))
	assert.True(t, c.IsFree(Perceiver, 0))

	v, ok := c.ValueAt(Cognition, 20)
	require.True(t, ok)
	assert.Equal(t, -1, v)
	v, _ = c.ValueAt(Cognition, 60)
	assert.Equal(t, 50, v)
}

func TestClocks_NeverMoveBackward(t *testing.T) {
	c := New(0)
	c.Advance(Attention, 100)
	assert.Panics(t, func() { c.Advance(Attention, 99) })
	assert.NotPanics(t, func() { c.Advance(Attention, 100) })
}

func TestClocks_Reset(t *testing.T) {
	c := New(0)
	c.Advance(Perceiver, 500)
	c.Reset(1000)
	assert.Equal(t, 999, c.Value(Perceiver))
	_, ok := c.ValueAt(Perceiver, 500)
	assert.False(t, ok, "history discarded on reset")
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "attention", Attention.String())
	assert.Equal(t, "cognition", Cognition.String())
	assert.Equal(t, "perceiver", Perceiver.String())
	assert.Equal(t, "clock(7)", Kind(7).String())
}
