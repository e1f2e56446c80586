package chrest

import (
	"fmt"

	"github.com/normanking/chrest/internal/clock"
	"github.com/normanking/chrest/internal/ltm"
	"github.com/normanking/chrest/internal/pattern"
)

// RecogniseAndLearn recognises p at time t and, unless p is already known or
// learning is refused by chance, learns one step more about it: either a new
// node (discrimination) or a longer image (familiarisation).
//
// p is known when either the recognised node or the node reached by tree
// sorting alone holds it. Learning always grows the tree node, since sorting
// p never reaches a semantic neighbour's children.
func (m *Model) RecogniseAndLearn(p *pattern.List, t int) Result {
	if !m.ExistsAt(t) {
		return Result{Status: ModelDoesNotExistAtTime, Time: m.clocks.Value(clock.Cognition)}
	}
	if !m.clocks.IsFree(clock.Cognition, t) {
		return Result{Status: CognitionBusy, Time: m.clocks.Value(clock.Cognition)}
	}

	node := m.Recognise(p, t, true)
	start := m.clocks.Value(clock.Cognition)
	tree, _ := m.descend(p, start)
	result := Result{Recognised: node}

	switch {
	case m.alreadyKnown(node, p, start) || m.alreadyKnown(tree, p, start):
		result.Status = InputAlreadyLearned
	case m.random() >= m.params.LearningProbability:
		result.Status = LearningRefused
	default:
		result.Status, result.Learned = m.learnFrom(tree, p, start)
	}
	result.Time = m.clocks.Value(clock.Cognition)

	m.log.Debug().
		Str("pattern", p.String()).
		Str("status", result.Status.String()).
		Int("recognised", node.Reference()).
		Int("tree", tree.Reference()).
		Int("time", t).
		Int("cognition", result.Time).
		Msg("recognise and learn")
	return result
}

func (m *Model) learnFrom(node *ltm.Node, p *pattern.List, t int) (Status, *ltm.Node) {
	if m.shouldDiscriminate(node, p, t) {
		return m.discriminate(node, p, t)
	}
	return m.familiarise(node, p, t)
}

// alreadyKnown is true when the recognised node's image holds every item of
// p, and is finished if p is.
func (m *Model) alreadyKnown(node *ltm.Node, p *pattern.List, t int) bool {
	if node.IsRoot() {
		return false
	}
	img := node.Image(t)
	if !p.Remove(img).IsEmpty() {
		return false
	}
	return !p.IsFinished() || img.IsFinished()
}

// shouldDiscriminate chooses between the two kinds of learning: discriminate
// from a root, from a finished image or from an image that disagrees with
// the input; otherwise familiarise. Images never repeat an item, so they are
// compared with p's distinct items.
func (m *Model) shouldDiscriminate(node *ltm.Node, p *pattern.List, t int) bool {
	if node.IsRoot() {
		return true
	}
	img := node.Image(t)
	return img.IsFinished() || !img.Matches(p.Distinct())
}

// LearnPrimitive ensures a one-item chunk for the finished single-item
// pattern p exists directly below its modality root. It returns nil when the
// model does not exist at t or cognition is busy. When the chunk is already
// known it is returned without charge.
func (m *Model) LearnPrimitive(p *pattern.List, t int) *ltm.Node {
	mustBePrimitive(p)
	if !m.ExistsAt(t) || !m.clocks.IsFree(clock.Cognition, t) {
		return nil
	}
	if node, ok := m.learnPrimitive(p, t); ok {
		return node
	}
	return m.primitiveChild(p, t)
}

func mustBePrimitive(p *pattern.List) {
	if p.Size() != 1 || !p.IsFinished() {
		panic(fmt.Sprintf("chrest: primitive must be a finished single item, got %s", p))
	}
}

// learnPrimitive attaches contents <x> with image <x $> below the root.
func (m *Model) learnPrimitive(p *pattern.List, t int) (*ltm.Node, bool) {
	mustBePrimitive(p)
	contents := p.CloneUnfinished()
	done := t + m.params.DiscriminationTime
	node, ok := m.net.Attach(m.net.Root(p.Modality()), contents, contents, p, done)
	if !ok {
		return nil, false
	}
	m.clocks.Advance(clock.Cognition, done)
	return node, true
}

func (m *Model) primitiveChild(p *pattern.List, t int) *ltm.Node {
	test := p.CloneUnfinished()
	root := m.net.Root(p.Modality())
	latest := t
	if lt := m.clocks.Value(clock.Cognition); lt > latest {
		latest = lt
	}
	for _, link := range root.Children(latest) {
		if link.Test().Equal(test) {
			return link.Child()
		}
	}
	return nil
}

// discriminate grows the network below node so that p can be told apart from
// what node already represents.
func (m *Model) discriminate(node *ltm.Node, p *pattern.List, t int) (Status, *ltm.Node) {
	mod := p.Modality()
	newInfo := p.Remove(node.Contents())
	if newInfo.IsEmpty() {
		newInfo.SetFinished()
	}
	retrieved := m.recognise(newInfo, t)
	done := t + m.params.DiscriminationTime

	var (
		learned *ltm.Node
		ok      bool
	)
	switch {
	case newInfo.IsEmpty() && !retrieved.IsRoot():
		// The end marker is known: node gains a terminal child.
		learned, ok = m.net.Attach(node, newInfo, node.Contents(), pattern.New(mod), done)
	case newInfo.IsEmpty():
		// Learn the end marker itself; the finished test must survive, so
		// this bypasses primitive learning.
		learned, ok = m.net.Attach(m.net.Root(mod), newInfo, newInfo, newInfo, done)
	case retrieved.IsRoot():
		return m.primitiveOutcome(m.learnPrimitive(newInfo.FirstItem(), t))
	case retrieved.Contents().Matches(newInfo):
		test := retrieved.Contents()
		learned, ok = m.net.Attach(node, test, node.Contents().Append(test), pattern.New(mod), done)
	default:
		test := newInfo.FirstItem().CloneUnfinished()
		learned, ok = m.net.Attach(node, test, node.Contents().Append(test), pattern.New(mod), done)
	}

	if !ok {
		return DiscriminationFailed, nil
	}
	m.clocks.Advance(clock.Cognition, done)
	return DiscriminationSuccessful, learned
}

func (m *Model) primitiveOutcome(node *ltm.Node, ok bool) (Status, *ltm.Node) {
	if !ok {
		return DiscriminationFailed, nil
	}
	return DiscriminationSuccessful, node
}

// familiarise adds the next item of p to node's image. An unknown item is
// learned as a primitive first.
func (m *Model) familiarise(node *ltm.Node, p *pattern.List, t int) (Status, *ltm.Node) {
	img := node.Image(t)
	if img.IsFinished() {
		panic(fmt.Sprintf("chrest: familiarise finished image of node %d", node.Reference()))
	}
	done := t + m.params.FamiliarisationTime

	newInfo := p.Remove(img)
	if newInfo.IsEmpty() {
		if !p.IsFinished() {
			return FamiliarisationFailed, nil
		}
		node.FinishImage(done)
		m.clocks.Advance(clock.Cognition, done)
		return FamiliarisationSuccessful, node
	}

	primitive := newInfo.FirstItem()
	retrieved := m.recognise(primitive, t)
	if retrieved.IsRoot() {
		return m.primitiveOutcome(m.learnPrimitive(primitive, t))
	}

	toAdd := primitive.CloneUnfinished()
	if retrievedImg := retrieved.Image(t); !retrievedImg.IsEmpty() &&
		(retrievedImg.SameItems(newInfo) || retrievedImg.Matches(newInfo)) {
		toAdd = retrievedImg.CloneUnfinished()
	}
	node.ExtendImage(toAdd, done)
	m.clocks.Advance(clock.Cognition, done)
	return FamiliarisationSuccessful, node
}
