package rollforward

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/sienote/internal/config"
	"github.com/cleared-dev/sienote/internal/model"
)

// Family sums one asset family's cost and write-down categories into its
// carrying amount.
type Family struct {
	Family model.Family `json:"family"`

	OpeningCost         decimal.Decimal `json:"opening_cost"`
	ClosingCost         decimal.Decimal `json:"closing_cost"`
	OpeningDepreciation decimal.Decimal `json:"opening_depreciation"`
	ClosingDepreciation decimal.Decimal `json:"closing_depreciation"`
	OpeningImpairment   decimal.Decimal `json:"opening_impairment"`
	ClosingImpairment   decimal.Decimal `json:"closing_impairment"`

	OpeningCarrying decimal.Decimal `json:"opening_carrying"`
	ClosingCarrying decimal.Decimal `json:"closing_carrying"`

	// Revaluation reserve as a positive magnitude, families with a reserve only.
	OpeningReserve decimal.Decimal `json:"opening_reserve,omitzero"`
	ClosingReserve decimal.Decimal `json:"closing_reserve,omitzero"`
}

// Families summarizes every family that has at least one roll-forward.
func Families(rs *config.Ruleset, rolls []RollForward, accounts []model.Account) []Family {
	byCat := make(map[model.Category]RollForward, len(rolls))
	for _, r := range rolls {
		byCat[r.Category] = r
	}
	negative := rs.Rules.Report.ImpairmentStoredNegative

	var out []Family
	for _, f := range model.Families() {
		var (
			fam   = Family{Family: f}
			found bool
		)
		for _, role := range []model.Role{model.RoleAsset, model.RoleDepreciation, model.RoleImpairment} {
			c, ok := model.FamilyCategory(f, role)
			if !ok {
				continue
			}
			r, ok := byCat[c]
			if !ok {
				continue
			}
			found = true
			switch role {
			case model.RoleAsset:
				fam.OpeningCost, fam.ClosingCost = r.Opening, r.Closing
			case model.RoleDepreciation:
				fam.OpeningDepreciation, fam.ClosingDepreciation = r.Opening, r.Closing
			case model.RoleImpairment:
				fam.OpeningImpairment, fam.ClosingImpairment = r.Opening, r.Closing
			}
		}
		if !found {
			continue
		}

		fam.OpeningCarrying = carrying(fam.OpeningCost, fam.OpeningDepreciation, fam.OpeningImpairment, negative)
		fam.ClosingCarrying = carrying(fam.ClosingCost, fam.ClosingDepreciation, fam.ClosingImpairment, negative)

		if fr, ok := rs.Family(f); ok && len(fr.RevaluationReserve) > 0 {
			for _, a := range accounts {
				if a.Used && fr.RevaluationReserve.Contains(a.Number) {
					fam.OpeningReserve = fam.OpeningReserve.Sub(a.Current.Opening)
					fam.ClosingReserve = fam.ClosingReserve.Sub(a.Current.Closing)
				}
			}
		}
		out = append(out, fam)
	}
	return out
}

// carrying is cost less write-downs. Write-downs stored as negative balances
// are added, positive magnitudes are subtracted.
func carrying(cost, dep, imp decimal.Decimal, storedNegative bool) decimal.Decimal {
	if storedNegative {
		return cost.Add(dep).Add(imp)
	}
	return cost.Sub(dep).Sub(imp)
}
