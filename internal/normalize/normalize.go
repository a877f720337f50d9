// Package normalize folds account names and company names into comparable
// forms and builds the alias patterns used to recognise companies in free text.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Replacement is one entry of the encoding-repair table.
type Replacement struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Options configures a Normalizer.
type Options struct {
	// Mojibake is applied before case folding. Longer keys must come first.
	Mojibake      []Replacement
	LegalSuffixes []string
	StopWords     []string
}

// Normalizer is immutable once built and safe for concurrent use.
type Normalizer struct {
	repair   *strings.Replacer
	suffixes map[string]bool
	stop     map[string]bool
}

var parenthesized = regexp.MustCompile(`\([^)]*\)`)

// New builds a Normalizer.
func New(opts Options) *Normalizer {
	pairs := make([]string, 0, 2*len(opts.Mojibake))
	for _, r := range opts.Mojibake {
		if r.From == "" {
			continue
		}
		pairs = append(pairs, r.From, r.To)
	}
	n := &Normalizer{
		repair:   strings.NewReplacer(pairs...),
		suffixes: make(map[string]bool, len(opts.LegalSuffixes)),
		stop:     make(map[string]bool, 2*len(opts.StopWords)),
	}
	for _, s := range opts.LegalSuffixes {
		n.suffixes[strings.ToLower(strings.TrimSpace(s))] = true
	}
	for _, w := range opts.StopWords {
		w = strings.ToLower(strings.TrimSpace(w))
		n.stop[w] = true
		n.stop[stripMarks(w)] = true
	}
	return n
}

// Repair applies NFKC, the mojibake table and whitespace collapsing. Case is kept.
func (n *Normalizer) Repair(s string) string {
	s = norm.NFKC.String(s)
	s = n.repair.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// Soft returns the repaired, lower-cased form with surrounding quotes removed.
func (n *Normalizer) Soft(s string) string {
	s = strings.ToLower(n.Repair(s))
	s = strings.Trim(s, `"' `)
	return strings.Join(strings.Fields(s), " ")
}

// Fold returns the soft form with diacritics removed.
func (n *Normalizer) Fold(s string) string {
	return stripMarks(n.Soft(s))
}

// Haystack joins the soft and folded forms so a single pattern can match either.
func (n *Normalizer) Haystack(s string) string {
	soft := n.Soft(s)
	return soft + " || " + stripMarks(soft)
}

// IsStopWord reports whether tok carries no identifying value in a company name.
func (n *Normalizer) IsStopWord(tok string) bool {
	return n.stop[tok]
}

// StripSuffixes removes legal-form tokens and parenthesized text from a soft name.
func (n *Normalizer) StripSuffixes(soft string) string {
	soft = parenthesized.ReplaceAllString(soft, " ")
	var kept []string
	for _, tok := range strings.Fields(soft) {
		if n.suffixes[strings.TrimRight(tok, ".,")] {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

// Tokens splits s on whitespace and name punctuation.
func Tokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(",&./-()", r)
	})
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
