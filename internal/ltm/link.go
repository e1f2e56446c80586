package ltm

import "github.com/normanking/chrest/internal/pattern"

// Link is an immutable labelled edge of the discrimination tree. Input that
// matches Test descends to Child.
type Link struct {
	test    *pattern.List
	child   *Node
	created int
}

func newLink(test *pattern.List, child *Node, created int) *Link {
	return &Link{test: test.Clone(), child: child, created: created}
}

// Test returns a copy of the link's test pattern.
func (l *Link) Test() *pattern.List { return l.test.Clone() }

// Child returns the node the link leads to.
func (l *Link) Child() *Node { return l.child }

// Created returns the time the link was added.
func (l *Link) Created() int { return l.created }

// Passes reports whether the remaining input satisfies the link's test.
func (l *Link) Passes(remaining *pattern.List) bool {
	return l.test.Matches(remaining)
}
