package sie

import (
	"strings"
	"unicode"
)

// field is one whitespace-delimited item of a record line.
type field struct {
	text   string
	quoted bool // was "..."
	object bool // was {...}; text holds the content without braces
}

// splitFields tokenizes a record line. Quoted fields may contain spaces and
// backslash escapes; brace-delimited object lists are kept as a single field.
func splitFields(line string) []field {
	var fields []field
	rs := []rune(line)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case isSpace(r):
			i++

		case r == '"':
			var b strings.Builder
			i++
			for i < len(rs) {
				c := rs[i]
				if c == '\\' && i+1 < len(rs) {
					b.WriteRune(rs[i+1])
					i += 2
					continue
				}
				if c == '"' {
					i++
					break
				}
				b.WriteRune(c)
				i++
			}
			fields = append(fields, field{text: b.String(), quoted: true})

		case r == '{':
			start := i + 1
			i++
			inQuote := false
			for i < len(rs) {
				c := rs[i]
				if c == '"' {
					inQuote = !inQuote
				}
				if c == '}' && !inQuote {
					break
				}
				i++
			}
			text := string(rs[start:min(i, len(rs))])
			if i < len(rs) {
				i++ // closing brace
			}
			fields = append(fields, field{text: strings.TrimSpace(text), object: true})

		default:
			start := i
			for i < len(rs) && !isSpace(rs[i]) {
				i++
			}
			fields = append(fields, field{text: string(rs[start:i])})
		}
	}
	return fields
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r)
}
