// Package pattern implements the ordered symbol sequences that are sorted
// through, and stored in, the discrimination network.
package pattern

import (
	"fmt"
	"strings"
)

// EndMarker is the textual form of the finished sentinel.
const EndMarker = "$"

// List is an ordered, modality-tagged sequence of items with an optional
// finished marker. A finished list represents a complete chunk; nothing may
// follow its last item.
type List struct {
	modality Modality
	items    []Item
	finished bool
}

// New creates an unfinished list holding the given items.
func New(modality Modality, items ...Item) *List {
	l := &List{modality: modality, items: make([]Item, 0, len(items))}
	l.items = append(l.items, items...)
	return l
}

// Symbols is a convenience constructor for lists of plain symbols.
func Symbols(modality Modality, symbols ...string) *List {
	l := &List{modality: modality, items: make([]Item, 0, len(symbols))}
	for _, s := range symbols {
		l.items = append(l.items, Symbol(s))
	}
	return l
}

// Finished returns a finished list holding the given items.
func Finished(modality Modality, items ...Item) *List {
	l := New(modality, items...)
	l.finished = true
	return l
}

func (l *List) Modality() Modality { return l.modality }
func (l *List) Size() int          { return len(l.items) }
func (l *List) IsEmpty() bool      { return len(l.items) == 0 }
func (l *List) IsFinished() bool   { return l.finished }
func (l *List) SetFinished()       { l.finished = true }
func (l *List) SetNotFinished()    { l.finished = false }

// Item returns the item at index i.
func (l *List) Item(i int) Item {
	return l.items[i]
}

// Items returns a copy of the items.
func (l *List) Items() []Item {
	out := make([]Item, len(l.items))
	copy(out, l.items)
	return out
}

// Add appends a single item. It panics on a finished list, since finished
// patterns never gain items.
func (l *List) Add(item Item) {
	if l.finished {
		panic(fmt.Sprintf("pattern: add %s to finished list %s", item, l))
	}
	l.items = append(l.items, item)
}

// Clone returns a deep copy, including the finished marker.
func (l *List) Clone() *List {
	c := &List{modality: l.modality, finished: l.finished, items: make([]Item, len(l.items))}
	copy(c.items, l.items)
	return c
}

// CloneUnfinished returns a deep copy with the finished marker cleared.
func (l *List) CloneUnfinished() *List {
	c := l.Clone()
	c.finished = false
	return c
}

// Contains reports whether the item occurs anywhere in the list.
func (l *List) Contains(item Item) bool {
	for _, it := range l.items {
		if it.Equal(item) {
			return true
		}
	}
	return false
}

// Equal reports whether both lists hold identical sequences, modality and
// finished marker.
func (l *List) Equal(other *List) bool {
	if other == nil || l.modality != other.modality || l.finished != other.finished {
		return false
	}
	return l.SameItems(other)
}

// SameItems compares the item sequences only.
func (l *List) SameItems(other *List) bool {
	if len(l.items) != len(other.items) {
		return false
	}
	for i := range l.items {
		if !l.items[i].Equal(other.items[i]) {
			return false
		}
	}
	return true
}

// Matches reports whether l, used as a test, matches the given pattern. An
// unfinished test matches when its items form a prefix of the pattern. A
// finished test additionally requires the pattern to be finished and of the
// same length.
func (l *List) Matches(other *List) bool {
	if other == nil || l.modality != other.modality {
		return false
	}
	if l.finished {
		if !other.finished || len(l.items) != len(other.items) {
			return false
		}
	} else if len(l.items) > len(other.items) {
		return false
	}
	for i := range l.items {
		if !l.items[i].Equal(other.items[i]) {
			return false
		}
	}
	return true
}

// Remove returns the items of l that do not occur in other, preserving
// order. The result is finished iff l is finished.
func (l *List) Remove(other *List) *List {
	result := &List{modality: l.modality, finished: l.finished}
	for _, it := range l.items {
		if !other.Contains(it) {
			result.items = append(result.items, it)
		}
	}
	return result
}

// Distinct returns l with repeated items dropped, keeping each first
// occurrence. Images are grown this way, so an image is compared against the
// distinct form of an input.
func (l *List) Distinct() *List {
	result := &List{modality: l.modality, finished: l.finished}
	for _, it := range l.items {
		if !result.Contains(it) {
			result.items = append(result.items, it)
		}
	}
	return result
}

// Append returns a new list holding l's items followed by other's. The
// result takes other's finished marker.
func (l *List) Append(other *List) *List {
	result := &List{
		modality: l.modality,
		finished: other.finished,
		items:    make([]Item, 0, len(l.items)+len(other.items)),
	}
	result.items = append(result.items, l.items...)
	result.items = append(result.items, other.items...)
	return result
}

// FirstItem returns a finished one-item list holding l's first item, or an
// empty unfinished list when l is empty.
func (l *List) FirstItem() *List {
	if len(l.items) == 0 {
		return &List{modality: l.modality}
	}
	return Finished(l.modality, l.items[0])
}

// SharedItems counts the items of l that also occur in other.
func (l *List) SharedItems(other *List) int {
	n := 0
	for _, it := range l.items {
		if other.Contains(it) {
			n++
		}
	}
	return n
}

func (l *List) String() string {
	var sb strings.Builder
	sb.WriteString("<")
	for i, it := range l.items {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(it.String())
	}
	if l.finished {
		if len(l.items) > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(EndMarker)
	}
	sb.WriteString(">")
	return sb.String()
}

// Parse reads a list written as "<A B [P 1 2] $>" (angle brackets optional).
// A trailing "$" marks the list finished.
func Parse(modality Modality, s string) (*List, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "<")
	s = strings.TrimSuffix(s, ">")

	tokens, err := tokenize(s)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", s, err)
	}

	l := New(modality)
	for i, tok := range tokens {
		if tok == EndMarker {
			if i != len(tokens)-1 {
				return nil, fmt.Errorf("parse %q: end marker must be last", s)
			}
			l.finished = true
			break
		}
		item, err := ParseItem(tok)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", s, err)
		}
		l.items = append(l.items, item)
	}
	return l, nil
}

// tokenize splits on whitespace while keeping bracketed items together.
func tokenize(s string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	depth := 0
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '[':
			if depth > 0 {
				return nil, fmt.Errorf("nested brackets")
			}
			flush()
			depth++
			cur.WriteRune(r)
		case r == ']':
			if depth == 0 {
				return nil, fmt.Errorf("unbalanced brackets")
			}
			depth--
			cur.WriteRune(r)
			flush()
		case (r == ' ' || r == '\t' || r == '\n' || r == ',') && depth == 0:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced brackets")
	}
	flush()
	return tokens, nil
}
