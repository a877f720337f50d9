// Package rollforward reconciles each category's opening balance, its
// classified movements and its closing balance.
package rollforward

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/sienote/internal/config"
	"github.com/cleared-dev/sienote/internal/model"
	"github.com/cleared-dev/sienote/internal/movement"
)

// Movement is one bucket total.
type Movement struct {
	Kind   model.MovementKind `json:"kind"`
	Amount decimal.Decimal    `json:"amount"`
}

// RollForward is the reconciliation for one category. Balances are the sums
// of the category's used accounts; Delta is opening + movements - closing.
type RollForward struct {
	Category     model.Category  `json:"category"`
	Accounts     []int           `json:"accounts"`
	Opening      decimal.Decimal `json:"opening"`
	Closing      decimal.Decimal `json:"closing"`
	PriorOpening decimal.Decimal `json:"prior_opening"`
	PriorClosing decimal.Decimal `json:"prior_closing"`
	Movements    []Movement      `json:"movements"`
	Net          decimal.Decimal `json:"net"`
	Delta        decimal.Decimal `json:"delta"`
	Balanced     bool            `json:"balanced"`
}

// Movement returns the total for kind, zero when nothing was booked.
func (r RollForward) Movement(kind model.MovementKind) decimal.Decimal {
	for _, m := range r.Movements {
		if m.Kind == kind {
			return m.Amount
		}
	}
	return decimal.Zero
}

// Aggregate builds one RollForward per category that has used accounts or
// movements, in category order. Identity violations are returned as warnings;
// the figures are never adjusted.
func Aggregate(rs *config.Ruleset, accounts []model.Account, ledger *movement.Ledger) ([]RollForward, []model.Warning) {
	byCat := make(map[model.Category][]model.Account)
	for _, a := range accounts {
		if !a.Used || a.Category == model.CategoryUnclassified {
			continue
		}
		byCat[a.Category] = append(byCat[a.Category], a)
	}

	var (
		out      []RollForward
		warnings []model.Warning
	)
	for _, c := range model.Categories() {
		if c == model.CategoryUnclassified {
			continue
		}
		accts := byCat[c]
		if len(accts) == 0 && !ledger.Has(c) {
			continue
		}

		r := RollForward{Category: c, Accounts: []int{}}
		for _, a := range accts {
			r.Accounts = append(r.Accounts, a.Number)
			r.Opening = r.Opening.Add(a.Current.Opening)
			r.Closing = r.Closing.Add(a.Current.Closing)
			r.PriorOpening = r.PriorOpening.Add(a.Prior.Opening)
			r.PriorClosing = r.PriorClosing.Add(a.Prior.Closing)
		}

		moves := ledger.Movements(c)
		r.Movements = []Movement{}
		for _, k := range model.MovementKinds() {
			amt, ok := moves[k]
			if !ok {
				continue
			}
			r.Movements = append(r.Movements, Movement{Kind: k, Amount: amt})
			r.Net = r.Net.Add(amt)
		}

		r.Delta = r.Opening.Add(r.Net).Sub(r.Closing)
		r.Balanced = r.Delta.Abs().LessThanOrEqual(rs.IdentityTolerance)
		if !r.Balanced {
			delta := r.Delta
			warnings = append(warnings, model.Warning{
				Code:     model.WarnIdentityViolation,
				Category: c,
				Delta:    &delta,
				Message: fmt.Sprintf("%s: opening %s + movements %s != closing %s",
					c, r.Opening.StringFixed(2), r.Net.StringFixed(2), r.Closing.StringFixed(2)),
			})
		}
		out = append(out, r)
	}
	return out, warnings
}
