package sie

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	plainNumber = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)$`)
	groupHead   = regexp.MustCompile(`^[+-]?\d{1,3}$`)
	groupTail   = regexp.MustCompile(`^\d{3}(?:[.,]\d+)?$`)
)

// ParseAmount parses a ledger amount. Space, non-breaking space and narrow
// no-break space are accepted as digit grouping; either ',' or '.' may be the
// decimal mark. When both appear the last one is the decimal mark.
func ParseAmount(s string) (decimal.Decimal, error) {
	raw := s
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f', '\'':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0:
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case dot >= 0:
		if strings.Count(s, ".") > 1 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	if !plainNumber.MatchString(s) {
		return decimal.Zero, fmt.Errorf("invalid amount %q", raw)
	}
	d, err := decimal.NewFromString(strings.TrimPrefix(s, "+"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	return d, nil
}

// takeAmount joins a leading amount that was split on grouping spaces and
// returns it together with the number of fields consumed. A single trailing
// group without a decimal tail is not joined: "500 100" is an amount followed
// by a quantity, while "200 000,00" and "1 000 000" are one amount.
func takeAmount(fields []field) (string, int) {
	if len(fields) == 0 {
		return "", 0
	}
	first := fields[0]
	if first.quoted || first.object || !groupHead.MatchString(first.text) {
		return first.text, 1
	}
	n := 1
	decimalTail := false
	for n < len(fields) {
		next := fields[n]
		if next.quoted || next.object || !groupTail.MatchString(next.text) {
			break
		}
		n++
		if strings.ContainsAny(next.text, ".,") {
			decimalTail = true
			break
		}
	}
	if n == 2 && !decimalTail {
		return first.text, 1
	}
	var b strings.Builder
	for _, f := range fields[:n] {
		b.WriteString(f.text)
	}
	return b.String(), n
}
