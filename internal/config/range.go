package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Range is an inclusive account-number interval, written "1310-1317" or "1318".
type Range struct {
	Low  int
	High int
}

// ParseRange parses "low-high" or a single number.
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	lo, hi, found := strings.Cut(s, "-")
	low, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return Range{}, fmt.Errorf("parsing range %q: %w", s, err)
	}
	if !found {
		return Range{Low: low, High: low}, nil
	}
	high, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return Range{}, fmt.Errorf("parsing range %q: %w", s, err)
	}
	if high < low {
		return Range{}, fmt.Errorf("range %q: high end below low end", s)
	}
	return Range{Low: low, High: high}, nil
}

func (r Range) String() string {
	if r.Low == r.High {
		return strconv.Itoa(r.Low)
	}
	return fmt.Sprintf("%d-%d", r.Low, r.High)
}

// Contains reports whether n lies within the range.
func (r Range) Contains(n int) bool {
	return n >= r.Low && n <= r.High
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *Range) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: account range must be a scalar", value.Line)
	}
	parsed, err := ParseRange(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*r = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (r Range) MarshalYAML() (interface{}, error) {
	return r.String(), nil
}

// Ranges is a list of account intervals.
type Ranges []Range

// Contains reports whether any range holds n.
func (rs Ranges) Contains(n int) bool {
	for _, r := range rs {
		if r.Contains(n) {
			return true
		}
	}
	return false
}
