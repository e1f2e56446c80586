package pattern

import (
	"fmt"
	"strings"
)

// Modality identifies one of the independent discrimination networks.
type Modality int

const (
	Visual Modality = iota
	Verbal
	Action
)

// Count is the number of modalities; arrays keyed by Modality use it as length.
const Count = 3

// Modalities returns all valid Modality values in declaration order.
func Modalities() []Modality {
	return []Modality{Visual, Verbal, Action}
}

// IsValid returns true if the modality is a recognized value.
func (m Modality) IsValid() bool {
	return m >= Visual && m <= Action
}

func (m Modality) String() string {
	switch m {
	case Visual:
		return "visual"
	case Verbal:
		return "verbal"
	case Action:
		return "action"
	default:
		return fmt.Sprintf("modality(%d)", int(m))
	}
}

// ParseModality converts a case-insensitive name into a Modality.
func ParseModality(value string) (Modality, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "visual":
		return Visual, true
	case "verbal":
		return Verbal, true
	case "action":
		return Action, true
	default:
		return Modality(0), false
	}
}

// MarshalText implements encoding.TextMarshaler so modalities read naturally
// in YAML and JSON.
func (m Modality) MarshalText() ([]byte, error) {
	if !m.IsValid() {
		return nil, fmt.Errorf("invalid modality %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Modality) UnmarshalText(data []byte) error {
	parsed, ok := ParseModality(string(data))
	if !ok {
		return fmt.Errorf("unknown modality %q", string(data))
	}
	*m = parsed
	return nil
}
