package normalize

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinAliasLength is the shortest alias kept. Shorter forms match too much.
const MinAliasLength = 3

// AliasPack is the set of name variants derived from one company name.
type AliasPack struct {
	Full    string   // soft full name
	Base    string   // soft name without legal suffixes
	Tokens  []string // up to three significant tokens
	Short   string   // first two significant tokens
	Acronym string
}

// Pack derives the alias pack for a company name.
func (n *Normalizer) Pack(name string) AliasPack {
	full := n.Soft(name)
	base := n.StripSuffixes(full)
	if base == "" {
		base = full
	}

	toks := Tokens(base)
	var sig []string
	for _, t := range toks {
		if utf8.RuneCountInString(t) >= MinAliasLength && !n.IsStopWord(t) && !n.IsStopWord(stripMarks(t)) {
			sig = append(sig, t)
		}
	}

	p := AliasPack{Full: full, Base: base}
	if len(sig) > 3 {
		p.Tokens = sig[:3]
	} else {
		p.Tokens = sig
	}
	if len(sig) >= 2 {
		p.Short = sig[0] + " " + sig[1]
	}

	var acro strings.Builder
	for _, t := range toks {
		r, _ := utf8.DecodeRuneInString(t)
		if unicode.IsLetter(r) {
			acro.WriteRune(r)
		}
	}
	if utf8.RuneCountInString(acro.String()) >= 2 {
		p.Acronym = acro.String()
	}
	return p
}

// Variants returns every usable form of the pack, soft and folded, sorted.
// Weak forms (short, numeric or stop words) are dropped.
func (n *Normalizer) Variants(p AliasPack) []string {
	candidates := []string{p.Full, p.Base, p.Short, p.Acronym}
	candidates = append(candidates, p.Tokens...)

	seen := make(map[string]bool)
	var out []string
	for _, c := range candidates {
		for _, v := range []string{c, stripMarks(c)} {
			if seen[v] || !n.strong(v) {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func (n *Normalizer) strong(v string) bool {
	if utf8.RuneCountInString(v) < MinAliasLength {
		return false
	}
	if n.IsStopWord(v) {
		return false
	}
	return strings.IndexFunc(v, func(r rune) bool { return !unicode.IsDigit(r) && !unicode.IsSpace(r) }) >= 0
}

const (
	boundaryStart = `(?:^|[^\p{L}\p{N}])`
	boundaryEnd   = `(?:$|[^\p{L}\p{N}])`
	separator     = `[^\p{L}\p{N}]+`
)

// Compile merges variants into one case-insensitive alternation. Longer variants
// are tried first. Returns nil when there is nothing to match.
func Compile(variants []string) *regexp.Regexp {
	if len(variants) == 0 {
		return nil
	}
	sorted := make([]string, len(variants))
	copy(sorted, variants)
	sort.Slice(sorted, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(sorted[i]), utf8.RuneCountInString(sorted[j])
		if li != lj {
			return li > lj
		}
		return sorted[i] < sorted[j]
	})

	alts := make([]string, 0, len(sorted))
	for _, v := range sorted {
		words := strings.Fields(v)
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		alts = append(alts, strings.Join(words, separator))
	}
	return regexp.MustCompile(`(?i)` + boundaryStart + `(?:` + strings.Join(alts, "|") + `)` + boundaryEnd)
}

// AliasSet is the merged alias pattern for one semantic group.
type AliasSet struct {
	Names    []string // soft full names, sorted
	Variants []string // sorted
	re       *regexp.Regexp
}

// NewAliasSet unions packs into one set.
func (n *Normalizer) NewAliasSet(packs []AliasPack) *AliasSet {
	names := make(map[string]bool)
	vars := make(map[string]bool)
	for _, p := range packs {
		if p.Full != "" {
			names[p.Full] = true
		}
		for _, v := range n.Variants(p) {
			vars[v] = true
		}
	}
	s := &AliasSet{Names: sortedKeys(names), Variants: sortedKeys(vars)}
	s.re = Compile(s.Variants)
	return s
}

// Empty reports whether the set can never match.
func (s *AliasSet) Empty() bool {
	return s == nil || s.re == nil
}

// Match reports whether haystack contains any alias, returning the matched text.
func (s *AliasSet) Match(haystack string) (string, bool) {
	if s.Empty() {
		return "", false
	}
	m := s.re.FindString(haystack)
	if m == "" {
		return "", false
	}
	return strings.TrimFunc(m, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsNumber(r) }), true
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
