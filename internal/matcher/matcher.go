// Package matcher assigns every used ledger account to a category.
//
// Rules are tried in order: explicit override, account range, auxiliary
// code, name keyword, company alias. The first rule that yields a category
// wins. A final conflict check moves accounts labeled as associate holdings
// into the group family when their name carries a known group company.
package matcher

import (
	"fmt"
	"sort"

	"github.com/cleared-dev/sienote/internal/config"
	"github.com/cleared-dev/sienote/internal/model"
)

// Decision is the outcome for a single account.
type Decision struct {
	Category model.Category
	Rule     model.MatchRule
	Reason   string
}

// Matcher applies the rule set to account names and numbers.
type Matcher struct {
	rs      *config.Ruleset
	aliases *Aliases
}

// New returns a Matcher. aliases may be nil.
func New(rs *config.Ruleset, aliases *Aliases) *Matcher {
	return &Matcher{rs: rs, aliases: aliases}
}

// Annotate classifies every used account of doc in place and returns the
// warnings raised along the way. Unused accounts stay unclassified.
func (m *Matcher) Annotate(doc *model.Document, overrides map[int]model.Category) []model.Warning {
	var warnings []model.Warning

	for _, num := range sortedOverrideKeys(overrides) {
		c := overrides[num]
		switch {
		case !c.Valid():
			warnings = append(warnings, model.Warning{
				Code:     model.WarnUnknownOverride,
				Account:  num,
				Category: c,
				Message:  fmt.Sprintf("override for %d names unknown category %q", num, c),
			})
		default:
			if _, ok := doc.Account(num); !ok {
				warnings = append(warnings, model.Warning{
					Code:     model.WarnUnknownOverride,
					Account:  num,
					Category: c,
					Message:  fmt.Sprintf("override for account %d not in ledger", num),
				})
			}
		}
	}

	for i := range doc.Accounts {
		acct := &doc.Accounts[i]
		if !acct.Used {
			acct.Category = model.CategoryUnclassified
			acct.Rule = model.RuleNone
			acct.Reason = "unused"
			continue
		}

		var d Decision
		if c, ok := overrides[acct.Number]; ok && c.Valid() {
			d = Decision{Category: c, Rule: model.RuleOverride, Reason: "override"}
		} else {
			d = m.Classify(*acct)
		}
		acct.Category = d.Category
		acct.Rule = d.Rule
		acct.Reason = d.Reason
		r := d.Category.Role()
		acct.Impairment = r == model.RoleImpairment || r == model.RoleDepreciation

		if d.Category == model.CategoryUnclassified && m.rs.Rules.Scopes.Unmapped.Contains(acct.Number) {
			warnings = append(warnings, model.Warning{
				Code:    model.WarnUnmappedAccount,
				Account: acct.Number,
				Message: fmt.Sprintf("account %d %q has balances but no category", acct.Number, acct.Name),
			})
		}
	}
	return warnings
}

// Classify runs the automatic rules for one account. Overrides are not consulted.
func (m *Matcher) Classify(acct model.Account) Decision {
	n := m.rs.Normalizer
	fold := n.Fold(acct.Name)
	hay := n.Haystack(acct.Name)
	receivable := config.Match(m.rs.Receivable, fold)

	if c, ok := m.rs.RangeCategory(acct.Number); ok && !(c.IsShare() && receivable) {
		reason := fmt.Sprintf("account range for %s", c)
		if refined := m.refineRole(c, fold); refined != c {
			reason += fmt.Sprintf(", name marks %s", refined.Role())
			c = refined
		}
		return m.resolveConflict(Decision{Category: c, Rule: model.RuleRange, Reason: reason}, fold, hay)
	}

	if acct.AuxCode != 0 {
		if f, ok := m.rs.AuxFamily(acct.AuxCode); ok && !(isShareFamily(f) && receivable) {
			role := m.rs.DigitRole(acct.Number)
			c := familyCategory(f, role)
			if role == model.RoleAsset {
				c = m.refineRole(c, fold)
			}
			d := Decision{
				Category: c,
				Rule:     model.RuleAuxCode,
				Reason:   fmt.Sprintf("aux code %d (%s), last digit %d", acct.AuxCode, f, acct.Number%10),
			}
			return m.resolveConflict(d, fold, hay)
		}
	}

	if d, ok := m.keyword(acct, fold, hay, receivable); ok {
		return m.resolveConflict(d, fold, hay)
	}

	if !receivable && m.rs.Rules.Scopes.Shares.Contains(acct.Number) {
		for _, f := range shareFamilies {
			hit, ok := m.aliases.Match(f, hay)
			if !ok {
				continue
			}
			c := m.refineRole(familyCategory(f, model.RoleAsset), fold)
			d := Decision{Category: c, Rule: model.RuleAlias, Reason: fmt.Sprintf("%s alias %q", f, hit)}
			return m.resolveConflict(d, fold, hay)
		}
	}

	return Decision{Category: model.CategoryUnclassified, Rule: model.RuleNone, Reason: "no rule matched"}
}

func (m *Matcher) keyword(acct model.Account, fold, hay string, receivable bool) (Decision, bool) {
	sc := m.rs.Rules.Scopes
	inShares := sc.Shares.Contains(acct.Number)

	if sc.Intercompany.Contains(acct.Number) && (receivable || config.Match(m.rs.Payable, fold)) {
		related := inShares || config.Match(m.rs.Intercompany, fold) || m.aliases.Any(hay)
		if related {
			c := model.CategoryReceivable
			if acct.Number >= 2000 {
				c = model.CategoryPayable
			}
			return Decision{Category: c, Rule: model.RuleKeyword, Reason: "intercompany claim"}, true
		}
	}

	if !inShares || receivable || !config.Match(m.rs.ShareNoun, fold) {
		return Decision{}, false
	}
	for _, sk := range m.rs.ShareKeywords {
		if !config.Match(sk.Re, fold) {
			continue
		}
		c := m.refineRole(familyCategory(sk.Family, model.RoleAsset), fold)
		return Decision{
			Category: c,
			Rule:     model.RuleKeyword,
			Reason:   fmt.Sprintf("share keyword (%s)", sk.Family),
		}, true
	}
	return Decision{}, false
}

// refineRole moves an asset category to its write-down sub-category when the
// name says so.
func (m *Matcher) refineRole(c model.Category, fold string) model.Category {
	if c.Role() != model.RoleAsset {
		return c
	}
	f := c.Family()
	dep, hasDep := model.FamilyCategory(f, model.RoleDepreciation)
	imp, hasImp := model.FamilyCategory(f, model.RoleImpairment)

	depKw := config.Match(m.rs.Depreciation, fold)
	impKw := config.Match(m.rs.Impairment, fold)
	switch {
	case hasDep && depKw:
		return dep
	case hasImp && (impKw || depKw):
		return imp
	case hasDep && impKw:
		return dep
	}
	return c
}

func (m *Matcher) resolveConflict(d Decision, fold, hay string) Decision {
	if d.Category.Family() != model.FamilyAssociate || !config.Match(m.rs.AssociateLiteral, fold) {
		return d
	}
	hit, ok := m.aliases.Match(model.FamilyGroup, hay)
	if !ok {
		return d
	}
	c, ok := model.FamilyCategory(model.FamilyGroup, d.Category.Role())
	if !ok {
		c = model.CategoryGroupShares
	}
	d.Category = c
	d.Reason += fmt.Sprintf("; group alias %q overrides associate label", hit)
	return d
}

// familyCategory returns the category for f and role, falling back to a
// sibling write-down role and finally to the asset itself.
func familyCategory(f model.Family, role model.Role) model.Category {
	if c, ok := model.FamilyCategory(f, role); ok {
		return c
	}
	switch role {
	case model.RoleDepreciation:
		if c, ok := model.FamilyCategory(f, model.RoleImpairment); ok {
			return c
		}
	case model.RoleImpairment:
		if c, ok := model.FamilyCategory(f, model.RoleDepreciation); ok {
			return c
		}
	}
	c, _ := model.FamilyCategory(f, model.RoleAsset)
	return c
}

func isShareFamily(f model.Family) bool {
	for _, sf := range shareFamilies {
		if f == sf {
			return true
		}
	}
	return false
}

func sortedOverrideKeys(m map[int]model.Category) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
