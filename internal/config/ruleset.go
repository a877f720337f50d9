package config

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/sienote/internal/model"
	"github.com/cleared-dev/sienote/internal/normalize"
)

// Ruleset is the compiled, read-only form of Rules. One Ruleset may be shared
// by any number of concurrent classification runs.
type Ruleset struct {
	Rules      *Rules
	Normalizer *normalize.Normalizer

	UsedEpsilon       decimal.Decimal
	IdentityTolerance decimal.Decimal
	SettlementSlack   decimal.Decimal

	Receivable       *regexp.Regexp
	Payable          *regexp.Regexp
	Impairment       *regexp.Regexp
	Depreciation     *regexp.Regexp
	Contribution     *regexp.Regexp
	Intercompany     *regexp.Regexp
	AssociateLiteral *regexp.Regexp
	ShareNoun        *regexp.Regexp
	Merger           *regexp.Regexp
	Sale             *regexp.Regexp
	Settlement       *regexp.Regexp
	ShareKeywords    []FamilyPattern
	LeadingPhrases   []*regexp.Regexp

	families map[model.Family]*FamilyRules
	aux      map[int]model.Family
	digits   map[int]model.Role
}

// FamilyPattern is a compiled FamilyKeywords entry.
type FamilyPattern struct {
	Family model.Family
	Re     *regexp.Regexp
}

// Compile validates r and compiles its patterns.
func (r *Rules) Compile() (*Ruleset, error) {
	rs := &Ruleset{
		Rules: r,
		Normalizer: normalize.New(normalize.Options{
			Mojibake:      r.Normalize.Mojibake,
			LegalSuffixes: r.Normalize.LegalSuffixes,
			StopWords:     r.Normalize.StopWords,
		}),
		UsedEpsilon:       decimal.NewFromFloat(r.Tolerances.Used),
		IdentityTolerance: decimal.NewFromFloat(r.Tolerances.Identity),
		SettlementSlack:   decimal.NewFromFloat(r.Settlement.AmountTolerance),
		families:          make(map[model.Family]*FamilyRules, len(r.Families)),
		aux:               make(map[int]model.Family, len(r.AuxCodes)),
		digits:            make(map[int]model.Role, len(r.DigitRoles)),
	}

	for _, cr := range r.Ranges {
		if !cr.Category.Valid() {
			return nil, fmt.Errorf("ranges: unknown category %q", cr.Category)
		}
	}
	for _, a := range r.AuxCodes {
		if err := checkFamily(a.Family); err != nil {
			return nil, fmt.Errorf("aux_codes %d: %w", a.Code, err)
		}
		rs.aux[a.Code] = a.Family
	}
	for _, d := range r.DigitRoles {
		if d.Digit < 0 || d.Digit > 9 {
			return nil, fmt.Errorf("digit_roles: digit %d out of range", d.Digit)
		}
		switch d.Role {
		case model.RoleAsset, model.RoleDepreciation, model.RoleImpairment:
		default:
			return nil, fmt.Errorf("digit_roles: unknown role %q", d.Role)
		}
		rs.digits[d.Digit] = d.Role
	}
	for _, h := range r.Harvest {
		if err := checkFamily(h.Family); err != nil {
			return nil, fmt.Errorf("harvest: %w", err)
		}
	}
	for i := range r.Families {
		f := &r.Families[i]
		if err := checkFamily(f.Family); err != nil {
			return nil, fmt.Errorf("families: %w", err)
		}
		if _, dup := rs.families[f.Family]; dup {
			return nil, fmt.Errorf("families: %q listed twice", f.Family)
		}
		rs.families[f.Family] = f
	}

	k := r.Keywords
	patterns := []struct {
		name string
		src  string
		dst  **regexp.Regexp
	}{
		{"receivable", k.Receivable, &rs.Receivable},
		{"payable", k.Payable, &rs.Payable},
		{"impairment", k.Impairment, &rs.Impairment},
		{"depreciation", k.Depreciation, &rs.Depreciation},
		{"contribution", k.Contribution, &rs.Contribution},
		{"intercompany", k.Intercompany, &rs.Intercompany},
		{"associate_literal", k.AssociateLiteral, &rs.AssociateLiteral},
		{"share_noun", k.ShareNoun, &rs.ShareNoun},
		{"merger", k.Merger, &rs.Merger},
		{"sale", k.Sale, &rs.Sale},
		{"settlement", k.Settlement, &rs.Settlement},
	}
	for _, p := range patterns {
		re, err := compilePattern(p.src)
		if err != nil {
			return nil, fmt.Errorf("keywords.%s: %w", p.name, err)
		}
		*p.dst = re
	}
	for _, sk := range k.Shares {
		if err := checkFamily(sk.Family); err != nil {
			return nil, fmt.Errorf("keywords.shares: %w", err)
		}
		re, err := compilePattern(sk.Pattern)
		if err != nil {
			return nil, fmt.Errorf("keywords.shares %s: %w", sk.Family, err)
		}
		rs.ShareKeywords = append(rs.ShareKeywords, FamilyPattern{Family: sk.Family, Re: re})
	}
	for _, lp := range r.Normalize.LeadingPhrases {
		re, err := compilePattern(lp)
		if err != nil {
			return nil, fmt.Errorf("normalize.leading_phrases: %w", err)
		}
		if re != nil {
			rs.LeadingPhrases = append(rs.LeadingPhrases, re)
		}
	}
	return rs, nil
}

func compilePattern(src string) (*regexp.Regexp, error) {
	if src == "" {
		return nil, nil
	}
	return regexp.Compile("(?i)" + src)
}

func checkFamily(f model.Family) error {
	for _, known := range model.Families() {
		if f == known {
			return nil
		}
	}
	return fmt.Errorf("unknown family %q", f)
}

var defaultRuleset = sync.OnceValue(func() *Ruleset {
	rs, err := Default().Compile()
	if err != nil {
		panic("compiling default rules: " + err.Error())
	}
	return rs
})

// DefaultRuleset returns the compiled built-in rules. It is built once per process.
func DefaultRuleset() *Ruleset {
	return defaultRuleset()
}

// Match reports whether re is set and matches s.
func Match(re *regexp.Regexp, s string) bool {
	return re != nil && re.MatchString(s)
}

// RangeCategory returns the category whose range table holds n. Tables are
// consulted in file order.
func (rs *Ruleset) RangeCategory(n int) (model.Category, bool) {
	for _, cr := range rs.Rules.Ranges {
		if cr.Accounts.Contains(n) {
			return cr.Category, true
		}
	}
	return "", false
}

// AuxFamily returns the family designated by an auxiliary code.
func (rs *Ruleset) AuxFamily(code int) (model.Family, bool) {
	f, ok := rs.aux[code]
	return f, ok
}

// DigitRole returns the sub-role implied by the last digit of n.
func (rs *Ruleset) DigitRole(n int) model.Role {
	if r, ok := rs.digits[n%10]; ok {
		return r
	}
	return model.RoleAsset
}

// Family returns the signal accounts configured for f.
func (rs *Ruleset) Family(f model.Family) (*FamilyRules, bool) {
	fr, ok := rs.families[f]
	return fr, ok
}

// HarvestFamily returns the alias group fed by company names found in account n.
func (rs *Ruleset) HarvestFamily(n int) (model.Family, bool) {
	for _, h := range rs.Rules.Harvest {
		if h.Accounts.Contains(n) {
			return h.Family, true
		}
	}
	return model.FamilyNone, false
}

// IsSignal reports whether n is any signal account of any family.
func (rs *Ruleset) IsSignal(n int) bool {
	for _, f := range rs.Rules.Families {
		for _, set := range []Ranges{f.ResultShare, f.RevaluationReserve, f.DisposalPnL,
			f.DepreciationExpense, f.ImpairmentExpense, f.ImpairmentReversal} {
			if set.Contains(n) {
				return true
			}
		}
	}
	return false
}
