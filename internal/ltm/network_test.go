package ltm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/chrest/internal/pattern"
)

func attachSymbol(t *testing.T, net *Network, parent *Node, symbol string, at int) *Node {
	t.Helper()
	test := pattern.Symbols(parent.Modality(), symbol)
	node, ok := net.Attach(parent, test, parent.Contents().Append(test), pattern.New(parent.Modality()), at)
	require.True(t, ok)
	return node
}

func TestNetwork_RootsPerModality(t *testing.T) {
	net := NewNetwork(0)
	seen := map[int]bool{}
	for _, m := range pattern.Modalities() {
		root := net.Root(m)
		require.NotNil(t, root)
		assert.True(t, root.IsRoot())
		assert.Equal(t, m, root.Modality())
		assert.True(t, root.Contents().IsEmpty())
		assert.True(t, root.Image(0).IsEmpty())
		assert.False(t, seen[root.Reference()])
		seen[root.Reference()] = true
		assert.Equal(t, 0, net.Count(m))
	}
}

func TestNetwork_AttachAssignsIncreasingReferences(t *testing.T) {
	net := NewNetwork(0)
	root := net.Root(pattern.Visual)

	a := attachSymbol(t, net, root, "A", 5)
	b := attachSymbol(t, net, root, "B", 6)
	ab := attachSymbol(t, net, a, "B", 7)

	assert.Less(t, a.Reference(), b.Reference())
	assert.Less(t, b.Reference(), ab.Reference())
	assert.Equal(t, 3, net.Count(pattern.Visual))
	assert.Equal(t, "<A B>", ab.Contents().String())

	got, ok := net.Node(ab.Reference())
	require.True(t, ok)
	assert.Same(t, ab, got)
}

func TestNetwork_AttachDuplicateRollsBack(t *testing.T) {
	net := NewNetwork(0)
	root := net.Root(pattern.Verbal)
	attachSymbol(t, net, root, "A", 1)

	before := net.NextReference()
	test := pattern.Symbols(pattern.Verbal, "A")
	node, ok := net.Attach(root, test, test, pattern.New(pattern.Verbal), 2)

	assert.False(t, ok)
	assert.Nil(t, node)
	assert.Equal(t, before, net.NextReference())
	assert.Equal(t, 1, net.Count(pattern.Verbal))
	assert.Len(t, root.Children(2), 1)

	// A finished test is distinct from its unfinished counterpart.
	_, ok = net.Attach(root, pattern.Finished(pattern.Verbal, pattern.Symbol("A")), test, test, 3)
	assert.True(t, ok)
}

func TestNode_ChildrenNewestFirstAndVersioned(t *testing.T) {
	net := NewNetwork(0)
	root := net.Root(pattern.Visual)
	a := attachSymbol(t, net, root, "A", 10)
	b := attachSymbol(t, net, root, "B", 20)

	assert.Empty(t, root.Children(9))
	assert.Len(t, root.Children(15), 1)

	links := root.Children(20)
	require.Len(t, links, 2)
	assert.Same(t, b, links[0].Child())
	assert.Same(t, a, links[1].Child())
	assert.Equal(t, 20, links[0].Created())

	assert.Equal(t, 3, root.Size(20))
	assert.Equal(t, 2, root.Size(10))
	assert.Equal(t, 0, b.Size(19))
}

func TestNode_ContentsNeverFinished(t *testing.T) {
	net := NewNetwork(0)
	root := net.Root(pattern.Visual)
	fin := pattern.Finished(pattern.Visual, pattern.Symbol("A"))
	node, ok := net.Attach(root, fin.CloneUnfinished(), fin, fin, 0)
	require.True(t, ok)

	assert.False(t, node.Contents().IsFinished())
	assert.True(t, node.Image(0).IsFinished())
}

func TestNode_ImageHistory(t *testing.T) {
	net := NewNetwork(0)
	x := attachSymbol(t, net, net.Root(pattern.Visual), "A", 0)

	x.ExtendImage(pattern.Symbols(pattern.Visual, "A"), 10)
	x.ExtendImage(pattern.Finished(pattern.Visual, pattern.Symbol("B")), 20)

	assert.Equal(t, "<>", x.Image(5).String())
	assert.Equal(t, "<A>", x.Image(10).String())
	assert.Equal(t, "<A B>", x.Image(25).String(), "appended items are stored unfinished")
	assert.Equal(t, 3, x.Information(25))

	require.True(t, x.FinishImage(30))
	assert.False(t, x.FinishImage(31))
	assert.True(t, x.Image(30).IsFinished())
	assert.False(t, x.Image(29).IsFinished())
	assert.Panics(t, func() { x.ExtendImage(pattern.Symbols(pattern.Visual, "C"), 40) })

	assert.Nil(t, attachSymbol(t, net, x, "B", 50).Image(49))
}

func TestNode_SemanticLinks(t *testing.T) {
	net := NewNetwork(0)
	root := net.Root(pattern.Visual)
	a := attachSymbol(t, net, root, "A", 0)
	b := attachSymbol(t, net, root, "B", 0)

	assert.True(t, a.AddSemanticLink(b, 5))
	assert.False(t, a.AddSemanticLink(b, 6), "no duplicate edge")
	assert.False(t, a.AddSemanticLink(root, 6), "roots never linked")
	assert.False(t, a.AddSemanticLink(a, 6))

	assert.Empty(t, a.SemanticLinks(4))
	links := a.SemanticLinks(5)
	require.Len(t, links, 1)
	assert.Same(t, b, links[0])
	assert.False(t, b.HasSemanticLink(a, 5), "links are one-way until the reverse is added")

	verbal := attachSymbol(t, net, net.Root(pattern.Verbal), "a", 0)
	assert.Panics(t, func() { a.AddSemanticLink(verbal, 7) })
}

func TestNode_NamingLink(t *testing.T) {
	net := NewNetwork(0)
	vis := attachSymbol(t, net, net.Root(pattern.Visual), "A", 0)
	word := attachSymbol(t, net, net.Root(pattern.Verbal), "a", 0)
	other := attachSymbol(t, net, net.Root(pattern.Verbal), "b", 0)

	assert.Nil(t, vis.NamedBy(10))
	assert.True(t, vis.SetNamedBy(word, 10))
	assert.False(t, vis.SetNamedBy(other, 11))
	assert.Same(t, word, vis.NamedBy(11))
	assert.Nil(t, vis.NamedBy(9))

	assert.Panics(t, func() { word.SetNamedBy(vis, 12) })
}

func TestNode_Productions(t *testing.T) {
	net := NewNetwork(0)
	vis := attachSymbol(t, net, net.Root(pattern.Visual), "A", 0)
	act := attachSymbol(t, net, net.Root(pattern.Action), "push", 0)

	assert.False(t, vis.SetProductionStrength(act, 2, 5))
	assert.True(t, vis.AddProduction(act, 1, 5))
	assert.False(t, vis.AddProduction(act, 1, 6))
	assert.True(t, vis.SetProductionStrength(act, 2.5, 7))

	s, ok := vis.ProductionStrength(act, 6)
	require.True(t, ok)
	assert.Equal(t, 1.0, s)
	assert.Equal(t, map[*Node]float64{act: 2.5}, vis.Productions(7))
	assert.Empty(t, vis.Productions(4))

	assert.Panics(t, func() { act.AddProduction(vis, 1, 8) })
}

func TestNetwork_ResetKeepsReferencesUnique(t *testing.T) {
	net := NewNetwork(0)
	a := attachSymbol(t, net, net.Root(pattern.Visual), "A", 0)

	net.Reset(100)
	assert.Equal(t, 0, net.Count(pattern.Visual))
	assert.Empty(t, net.Root(pattern.Visual).Children(200))
	_, ok := net.Node(a.Reference())
	assert.False(t, ok)
	for _, m := range pattern.Modalities() {
		assert.Greater(t, net.Root(m).Reference(), a.Reference())
	}
	assert.Len(t, net.Nodes(100), pattern.Count)
	assert.Empty(t, net.Nodes(99))
}
