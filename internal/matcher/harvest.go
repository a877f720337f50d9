package matcher

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cleared-dev/sienote/internal/config"
	"github.com/cleared-dev/sienote/internal/model"
	"github.com/cleared-dev/sienote/internal/normalize"
)

var (
	// "… Name AB", "… Name KB (publ)" and similar.
	suffixSpan = regexp.MustCompile(`([A-ZÅÄÖ][\p{L}0-9&.,\- ]{1,80}?\s+(?:AB(?:\s*\(publ\))?|HB|KB|Kommanditbolag|Handelsbolag))(?:[^\p{L}\p{N}]|$)`)
	// Two to six capitalized words.
	capitalRun = regexp.MustCompile(`(?:[A-ZÅÄÖ][\p{L}0-9\-]{2,}\s+){1,5}[A-ZÅÄÖ][\p{L}0-9\-]{2,}`)
)

// Aliases holds one merged alias set per share family.
type Aliases struct {
	sets map[model.Family]*normalize.AliasSet
}

// Set returns the alias set for f, or nil.
func (a *Aliases) Set(f model.Family) *normalize.AliasSet {
	if a == nil {
		return nil
	}
	return a.sets[f]
}

// Match tests haystack against the alias set of f.
func (a *Aliases) Match(f model.Family, haystack string) (string, bool) {
	return a.Set(f).Match(haystack)
}

// Any reports whether haystack matches any family's aliases.
func (a *Aliases) Any(haystack string) bool {
	for _, f := range shareFamilies {
		if _, ok := a.Match(f, haystack); ok {
			return true
		}
	}
	return false
}

var shareFamilies = []model.Family{model.FamilyGroup, model.FamilyAssociate, model.FamilyOther}

// CompanySpans extracts company-name-shaped substrings from an account name.
func CompanySpans(rs *config.Ruleset, name string) []string {
	n := rs.Normalizer
	t := n.Repair(name)
	for _, re := range rs.LeadingPhrases {
		t = strings.TrimSpace(re.ReplaceAllString(t, ""))
	}

	var out []string
	for _, m := range suffixSpan.FindAllStringSubmatch(t, -1) {
		out = append(out, strings.TrimSpace(m[1]))
	}
	if len(out) == 0 {
		for _, cand := range capitalRun.FindAllString(t, -1) {
			for _, tok := range normalize.Tokens(n.Fold(cand)) {
				if !n.IsStopWord(tok) {
					out = append(out, cand)
					break
				}
			}
		}
	}

	seen := make(map[string]bool, len(out))
	uniq := out[:0]
	for _, nm := range out {
		key := n.Soft(nm)
		if seen[key] {
			continue
		}
		seen[key] = true
		uniq = append(uniq, nm)
	}
	return uniq
}

// BuildAliases harvests company names from the ledger's used share accounts
// and merges them with externally supplied names.
func BuildAliases(rs *config.Ruleset, accounts []model.Account, external model.AliasInput) (*Aliases, []model.Warning) {
	n := rs.Normalizer
	packs := make(map[model.Family][]normalize.AliasPack)

	for _, acct := range accounts {
		f, ok := rs.HarvestFamily(acct.Number)
		if !ok || !acct.Used || acct.Name == model.PlaceholderName(acct.Number) {
			continue
		}
		for _, nm := range CompanySpans(rs, acct.Name) {
			packs[f] = append(packs[f], n.Pack(nm))
		}
	}

	var warnings []model.Warning
	for _, f := range shareFamilies {
		for _, nm := range external.ByFamily(f) {
			p := n.Pack(nm)
			if len(n.Variants(p)) == 0 {
				warnings = append(warnings, model.Warning{
					Code:    model.WarnDroppedAlias,
					Message: fmt.Sprintf("%s name %q yields no usable alias", f, nm),
				})
				continue
			}
			packs[f] = append(packs[f], p)
		}
	}

	a := &Aliases{sets: make(map[model.Family]*normalize.AliasSet, len(shareFamilies))}
	for _, f := range shareFamilies {
		a.sets[f] = n.NewAliasSet(packs[f])
	}
	return a, warnings
}
