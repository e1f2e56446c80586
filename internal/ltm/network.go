// Package ltm holds long-term memory: the per-modality discrimination trees
// and the arena that owns every node.
package ltm

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/normanking/chrest/internal/pattern"
)

// Network is the arena of all nodes, keyed by reference. Each modality has
// its own root; every other node hangs below exactly one root.
type Network struct {
	nodes   map[int]*Node
	roots   [pattern.Count]*Node
	nextRef int
	counts  [pattern.Count]int
}

// NewNetwork creates empty roots for every modality at time t.
func NewNetwork(t int) *Network {
	n := &Network{}
	n.Reset(t)
	return n
}

// Reset discards every node and recreates empty roots at time t. References
// keep increasing across resets so no two nodes ever share one.
func (n *Network) Reset(t int) {
	n.nodes = make(map[int]*Node)
	n.counts = [pattern.Count]int{}
	for _, m := range pattern.Modalities() {
		empty := pattern.New(m)
		root := newNode(n, n.nextRef, empty, empty, t, true)
		n.nextRef++
		n.nodes[root.reference] = root
		n.roots[m] = root
	}
}

// Root returns the root node of a modality.
func (n *Network) Root(m pattern.Modality) *Node {
	return n.roots[m]
}

// Node looks up a node by reference.
func (n *Network) Node(ref int) (*Node, bool) {
	node, ok := n.nodes[ref]
	return node, ok
}

// Count returns the number of non-root nodes learned in a modality since the
// last reset.
func (n *Network) Count(m pattern.Modality) int {
	return n.counts[m]
}

// NextReference is the reference the next constructed node will receive.
func (n *Network) NextReference() int {
	return n.nextRef
}

// Nodes returns every node that existed at time t, ordered by reference.
func (n *Network) Nodes(t int) []*Node {
	out := make([]*Node, 0, len(n.nodes))
	for _, node := range n.nodes {
		if node.ExistsAt(t) {
			out = append(out, node)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].reference < out[j].reference })
	return out
}

// Attach constructs a node and links it below parent with the given test.
// The reference and modality count are taken speculatively; if parent
// already has a link with an equal test, both are rolled back and Attach
// returns nil, false.
func (n *Network) Attach(parent *Node, test, contents, image *pattern.List, t int) (*Node, bool) {
	if contents.Modality() != parent.modality || test.Modality() != parent.modality {
		panic(fmt.Sprintf("ltm: attach %s pattern below %s node %d", contents.Modality(), parent.modality, parent.reference))
	}

	ref := n.nextRef
	n.nextRef++
	n.counts[parent.modality]++
	child := newNode(n, ref, contents, image, t, false)

	if !parent.addChild(test, child, t) {
		n.nextRef--
		n.counts[parent.modality]--
		log.Debug().
			Int("parent", parent.reference).
			Str("test", test.String()).
			Msg("duplicate test, attachment rolled back")
		return nil, false
	}

	n.nodes[ref] = child
	log.Debug().
		Int("ref", ref).
		Int("parent", parent.reference).
		Str("modality", parent.modality.String()).
		Str("test", test.String()).
		Int("time", t).
		Msg("node attached")
	return child, true
}

func (n *Network) resolve(refs []int) []*Node {
	out := make([]*Node, 0, len(refs))
	for _, ref := range refs {
		if node, ok := n.nodes[ref]; ok {
			out = append(out, node)
		}
	}
	return out
}
