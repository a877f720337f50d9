// Package engine runs one ledger through parsing, account classification,
// voucher movement classification and roll-forward aggregation.
package engine

import (
	"errors"

	"github.com/cleared-dev/sienote/internal/config"
	"github.com/cleared-dev/sienote/internal/journal"
	"github.com/cleared-dev/sienote/internal/matcher"
	"github.com/cleared-dev/sienote/internal/model"
	"github.com/cleared-dev/sienote/internal/movement"
	"github.com/cleared-dev/sienote/internal/rollforward"
	"github.com/cleared-dev/sienote/internal/sie"
)

// ErrNoLedgerData is returned when the input declares no accounts at all.
var ErrNoLedgerData = errors.New("no ledger data")

// Input carries everything a run needs besides the ledger text. The zero
// value classifies with the built-in rules and no external knowledge.
type Input struct {
	Rules     *config.Ruleset // nil means config.DefaultRuleset()
	Aliases   *model.AliasInput
	Overrides map[int]model.Category
}

// Result is the outcome of one classification run.
type Result struct {
	Company      model.CompanyInfo         `json:"company"`
	Accounts     []model.Account           `json:"accounts"`
	RollForwards []rollforward.RollForward `json:"roll_forwards"`
	Families     []rollforward.Family      `json:"families"`
	Trace        []journal.Entry           `json:"trace"`
	Warnings     []model.Warning           `json:"warnings"`

	// Vouchers are kept for explaining individual allocations.
	Vouchers []model.Voucher `json:"-"`
}

// RollForward returns the record for c.
func (r *Result) RollForward(c model.Category) (rollforward.RollForward, bool) {
	for _, rf := range r.RollForwards {
		if rf.Category == c {
			return rf, true
		}
	}
	return rollforward.RollForward{}, false
}

// Account returns the classified account with the given number.
func (r *Result) Account(number int) (model.Account, bool) {
	for _, a := range r.Accounts {
		if a.Number == number {
			return a, true
		}
	}
	return model.Account{}, false
}

// Categories returns the category of every used account, in a form that can
// be fed back as Input.Overrides.
func (r *Result) Categories() map[int]model.Category {
	out := make(map[int]model.Category)
	for _, a := range r.Accounts {
		if a.Used {
			out[a.Number] = a.Category
		}
	}
	return out
}

// Classify parses text and classifies it. Bad input lines become warnings;
// the only error is ErrNoLedgerData. Classify holds no state between calls
// and may run concurrently with itself.
func Classify(text string, in Input) (*Result, error) {
	rs := in.Rules
	if rs == nil {
		rs = config.DefaultRuleset()
	}

	doc := sie.Parse(text, sie.Options{UsedEpsilon: rs.UsedEpsilon})
	if len(doc.Accounts) == 0 {
		return nil, ErrNoLedgerData
	}

	var external model.AliasInput
	if in.Aliases != nil {
		external = in.Aliases.Validate()
	}
	aliases, aliasWarnings := matcher.BuildAliases(rs, doc.Accounts, external)
	matchWarnings := matcher.New(rs, aliases).Annotate(doc, in.Overrides)

	ledger := movement.Classify(rs, doc)
	rolls, identityWarnings := rollforward.Aggregate(rs, doc.Accounts, ledger)

	res := &Result{
		Company:      doc.Company,
		Accounts:     doc.Accounts,
		RollForwards: rolls,
		Families:     rollforward.Families(rs, rolls, doc.Accounts),
		Trace:        ledger.Entries,
		Vouchers:     doc.Vouchers,
	}
	res.Warnings = append(res.Warnings, doc.Warnings...)
	res.Warnings = append(res.Warnings, aliasWarnings...)
	res.Warnings = append(res.Warnings, matchWarnings...)
	res.Warnings = append(res.Warnings, identityWarnings...)
	if res.Trace == nil {
		res.Trace = []journal.Entry{}
	}
	if res.Warnings == nil {
		res.Warnings = []model.Warning{}
	}
	return res, nil
}
