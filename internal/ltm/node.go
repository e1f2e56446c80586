package ltm

import (
	"fmt"

	"github.com/normanking/chrest/internal/history"
	"github.com/normanking/chrest/internal/pattern"
)

// NoNode is the reference stored when a cross-link is unset.
const NoNode = -1

// Node is a chunk in long-term memory. Contents are fixed at construction;
// everything else is versioned so the node can be inspected as it stood at
// any past time.
//
// Children are owned by the node. Semantic links, the naming link and
// productions are non-owning references resolved through the Network.
type Node struct {
	net       *Network
	reference int
	modality  pattern.Modality
	contents  *pattern.List
	created   int
	root      bool

	image         *history.History[*pattern.List]
	children      *history.History[[]*Link]
	semanticLinks *history.History[[]int]
	namedBy       *history.History[int]
	productions   *history.History[map[int]float64]
}

func newNode(net *Network, reference int, contents, image *pattern.List, created int, root bool) *Node {
	return &Node{
		net:           net,
		reference:     reference,
		modality:      contents.Modality(),
		contents:      contents.CloneUnfinished(),
		created:       created,
		root:          root,
		image:         history.New(created, image.Clone()),
		children:      history.New[[]*Link](created, nil),
		semanticLinks: history.New[[]int](created, nil),
		namedBy:       history.New(created, NoNode),
		productions:   history.New[map[int]float64](created, nil),
	}
}

func (n *Node) Reference() int             { return n.reference }
func (n *Node) Modality() pattern.Modality { return n.modality }
func (n *Node) Created() int               { return n.created }
func (n *Node) IsRoot() bool               { return n.root }

// ExistsAt reports whether the node had been created by time t.
func (n *Node) ExistsAt(t int) bool { return n.created <= t }

// Contents returns a copy of the test path leading to this node. Contents are
// never finished.
func (n *Node) Contents() *pattern.List { return n.contents.Clone() }

// Image returns the node's image as of time t, or nil if the node did not
// exist yet.
func (n *Node) Image(t int) *pattern.List {
	img, ok := n.image.At(t)
	if !ok {
		return nil
	}
	return img.Clone()
}

// Children returns the node's links as of time t, newest first.
func (n *Node) Children(t int) []*Link {
	links, _ := n.children.At(t)
	out := make([]*Link, len(links))
	copy(out, links)
	return out
}

// SemanticLinks returns the nodes semantically linked from this node as of t,
// in creation order.
func (n *Node) SemanticLinks(t int) []*Node {
	refs, _ := n.semanticLinks.At(t)
	return n.net.resolve(refs)
}

// HasSemanticLink reports whether a semantic link to other existed at t.
func (n *Node) HasSemanticLink(other *Node, t int) bool {
	refs, _ := n.semanticLinks.At(t)
	for _, ref := range refs {
		if ref == other.reference {
			return true
		}
	}
	return false
}

// NamedBy returns the verbal node naming this visual node as of t, or nil.
func (n *Node) NamedBy(t int) *Node {
	ref, ok := n.namedBy.At(t)
	if !ok || ref == NoNode {
		return nil
	}
	node, _ := n.net.Node(ref)
	return node
}

// Productions returns the action nodes this node proposes and their
// strengths as of t.
func (n *Node) Productions(t int) map[*Node]float64 {
	prods, _ := n.productions.At(t)
	out := make(map[*Node]float64, len(prods))
	for ref, strength := range prods {
		if node, ok := n.net.Node(ref); ok {
			out[node] = strength
		}
	}
	return out
}

// ProductionStrength returns the strength of the production to action at t.
func (n *Node) ProductionStrength(action *Node, t int) (float64, bool) {
	prods, _ := n.productions.At(t)
	s, ok := prods[action.reference]
	return s, ok
}

// Information scores how much a node knows: contents plus image length.
func (n *Node) Information(t int) int {
	img := n.Image(t)
	if img == nil {
		return n.contents.Size()
	}
	return n.contents.Size() + img.Size()
}

// Size counts this node and every node below it as of t.
func (n *Node) Size(t int) int {
	if !n.ExistsAt(t) {
		return 0
	}
	count := 1
	for _, link := range n.Children(t) {
		count += link.child.Size(t)
	}
	return count
}

func (n *Node) String() string {
	img, _ := n.image.Latest()
	return fmt.Sprintf("node %d %s %s %s", n.reference, n.modality, n.contents, img)
}

// hasChildTest reports whether a link with an equal test already exists.
func (n *Node) hasChildTest(test *pattern.List) bool {
	links, _ := n.children.Latest()
	for _, link := range links {
		if link.test.Equal(test) {
			return true
		}
	}
	return false
}

// addChild prepends a link. It returns false, leaving the node untouched,
// when a link with an equal test is already present.
func (n *Node) addChild(test *pattern.List, child *Node, t int) bool {
	if n.hasChildTest(test) {
		return false
	}
	links, _ := n.children.Latest()
	next := make([]*Link, 0, len(links)+1)
	next = append(next, newLink(test, child, t))
	next = append(next, links...)
	n.children.Record(t, next)
	return true
}

// ExtendImage appends items to the image at time t. Extending a finished
// image is a contract breach.
func (n *Node) ExtendImage(items *pattern.List, t int) {
	if n.root {
		panic(fmt.Sprintf("ltm: extend image of %s root", n.modality))
	}
	img, _ := n.image.Latest()
	if img.IsFinished() {
		panic(fmt.Sprintf("ltm: extend finished image of node %d", n.reference))
	}
	n.image.Record(t, img.Append(items.CloneUnfinished()))
}

// FinishImage marks the image complete at time t. It reports false if the
// image was already finished.
func (n *Node) FinishImage(t int) bool {
	img, _ := n.image.Latest()
	if img.IsFinished() {
		return false
	}
	next := img.Clone()
	next.SetFinished()
	n.image.Record(t, next)
	return true
}

// AddSemanticLink records a one-way semantic link to other. It returns false
// if the link already exists or either node is a root.
func (n *Node) AddSemanticLink(other *Node, t int) bool {
	if n.root || other.root || n == other {
		return false
	}
	if n.modality != other.modality {
		panic(fmt.Sprintf("ltm: semantic link across modalities %s -> %s", n.modality, other.modality))
	}
	if n.HasSemanticLink(other, t) {
		return false
	}
	refs, _ := n.semanticLinks.Latest()
	next := make([]int, 0, len(refs)+1)
	next = append(next, refs...)
	next = append(next, other.reference)
	n.semanticLinks.Record(t, next)
	return true
}

// SetNamedBy records the verbal node naming this visual node. Only the first
// naming link is kept; it returns false if one already exists.
func (n *Node) SetNamedBy(verbal *Node, t int) bool {
	if n.modality != pattern.Visual || verbal.modality != pattern.Verbal {
		panic(fmt.Sprintf("ltm: naming link must run visual -> verbal, got %s -> %s", n.modality, verbal.modality))
	}
	if n.root || verbal.root {
		return false
	}
	if ref, _ := n.namedBy.Latest(); ref != NoNode {
		return false
	}
	n.namedBy.Record(t, verbal.reference)
	return true
}

// AddProduction records a production from this visual node to an action node.
// It returns false if the production already exists.
func (n *Node) AddProduction(action *Node, strength float64, t int) bool {
	if n.modality != pattern.Visual || action.modality != pattern.Action {
		panic(fmt.Sprintf("ltm: production must run visual -> action, got %s -> %s", n.modality, action.modality))
	}
	prods, _ := n.productions.Latest()
	if _, exists := prods[action.reference]; exists {
		return false
	}
	n.productions.Record(t, withStrength(prods, action.reference, strength))
	return true
}

// SetProductionStrength overwrites the strength of an existing production.
func (n *Node) SetProductionStrength(action *Node, strength float64, t int) bool {
	prods, _ := n.productions.Latest()
	if _, exists := prods[action.reference]; !exists {
		return false
	}
	n.productions.Record(t, withStrength(prods, action.reference, strength))
	return true
}

func withStrength(prods map[int]float64, ref int, strength float64) map[int]float64 {
	next := make(map[int]float64, len(prods)+1)
	for k, v := range prods {
		next[k] = v
	}
	next[ref] = strength
	return next
}
