package pattern

import (
	"fmt"
	"strconv"
	"strings"
)

// Item is a single primitive symbol, optionally located on a 2-D grid.
type Item struct {
	Symbol    string
	Col       int
	Row       int
	HasSquare bool
}

// Symbol builds a plain symbolic item.
func Symbol(s string) Item {
	return Item{Symbol: s}
}

// ItemSquare builds an item located at the given column and row.
func ItemSquare(s string, col, row int) Item {
	return Item{Symbol: s, Col: col, Row: row, HasSquare: true}
}

// Equal reports whether two items carry the same symbol and location.
func (i Item) Equal(other Item) bool {
	if i.Symbol != other.Symbol || i.HasSquare != other.HasSquare {
		return false
	}
	if !i.HasSquare {
		return true
	}
	return i.Col == other.Col && i.Row == other.Row
}

func (i Item) String() string {
	if i.HasSquare {
		return fmt.Sprintf("[%s %d %d]", i.Symbol, i.Col, i.Row)
	}
	return i.Symbol
}

// ParseItem reads either a bare symbol ("A") or a located item ("[P 1 2]").
func ParseItem(s string) (Item, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Item{}, fmt.Errorf("empty item")
	}
	if !strings.HasPrefix(s, "[") {
		if strings.ContainsAny(s, " \t[]<>") {
			return Item{}, fmt.Errorf("invalid symbol %q", s)
		}
		return Symbol(s), nil
	}
	if !strings.HasSuffix(s, "]") {
		return Item{}, fmt.Errorf("unterminated item %q", s)
	}
	fields := strings.Fields(s[1 : len(s)-1])
	if len(fields) != 3 {
		return Item{}, fmt.Errorf("item %q: expected [symbol col row]", s)
	}
	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return Item{}, fmt.Errorf("item %q: column: %w", s, err)
	}
	row, err := strconv.Atoi(fields[2])
	if err != nil {
		return Item{}, fmt.Errorf("item %q: row: %w", s, err)
	}
	return ItemSquare(fields[0], col, row), nil
}
