// Package movement splits each voucher's postings into roll-forward buckets.
//
// Every family (group, associate and other shares, buildings, machinery) is
// evaluated on its own. Within a voucher the steps run in a fixed order and
// each consumes what it allocates: result share, revaluation and purchase,
// depreciation, disposal or settlement, impairment. A voucher that only
// moves amounts between a family's asset accounts is a reclassification.
// Amounts are signed, debit positive, so a family's movements always sum to
// the net change of its accounts.
package movement

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/sienote/internal/config"
	"github.com/cleared-dev/sienote/internal/journal"
	"github.com/cleared-dev/sienote/internal/model"
)

// side accumulates debits and credits; both are positive magnitudes.
type side struct {
	d, k decimal.Decimal
}

func (s *side) add(amt decimal.Decimal) {
	if amt.IsPositive() {
		s.d = s.d.Add(amt)
	} else {
		s.k = s.k.Sub(amt)
	}
}

func (s side) zero() bool { return s.d.IsZero() && s.k.IsZero() }

func (s side) both() bool { return s.d.IsPositive() && s.k.IsPositive() }

// tally is one family's view of one voucher.
type tally struct {
	touched bool

	asset   side // asset accounts
	contrib side // shareholder-contribution accounts
	dep     side // accumulated depreciation
	imp     side // accumulated impairment

	res side // result-share accounts
	rev side // revaluation reserve

	pnl, depX, impX, impR bool

	bankDebit decimal.Decimal
	nonBank   bool
}

func (t *tally) external() bool {
	return !t.res.zero() || !t.rev.zero() || t.pnl || t.depX || t.impX || t.impR
}

type classifier struct {
	rs       *config.Ruleset
	accounts map[int]*model.Account
	contrib  map[int]bool
	ledger   *Ledger
}

// Classify books every voucher of doc. Accounts must already carry their
// categories; unused and unclassified accounts are ignored.
func Classify(rs *config.Ruleset, doc *model.Document) *Ledger {
	c := &classifier{
		rs:       rs,
		accounts: make(map[int]*model.Account),
		contrib:  make(map[int]bool),
		ledger:   newLedger(),
	}
	for i := range doc.Accounts {
		a := &doc.Accounts[i]
		if !a.Used || a.Category == model.CategoryUnclassified {
			continue
		}
		c.accounts[a.Number] = a
		if a.Category.IsShare() && a.Category.Role() == model.RoleAsset &&
			config.Match(rs.Contribution, rs.Normalizer.Fold(a.Name)) {
			c.contrib[a.Number] = true
		}
	}

	for _, v := range doc.Vouchers {
		c.voucher(v)
	}
	return c.ledger
}

func (c *classifier) voucher(v model.Voucher) {
	posts := v.Effective()
	if len(posts) == 0 {
		return
	}
	text := c.rs.Normalizer.Fold(v.Text)

	for _, f := range model.Families() {
		c.family(v, text, f, posts)
	}

	for _, p := range posts {
		a := c.accounts[p.Account]
		if a == nil {
			continue
		}
		switch a.Category {
		case model.CategoryReceivable, model.CategoryPayable:
			c.emit(v, a.Category, model.MoveNetChange, p.Amount)
		}
	}
}

func (c *classifier) collect(f model.Family, fr *config.FamilyRules, posts []model.Posting) tally {
	bank := c.rs.Rules.Settlement.BankAccounts
	var t tally
	for _, p := range posts {
		n, amt := p.Account, p.Amount

		if a := c.accounts[n]; a != nil && a.Category.Family() == f {
			t.touched = true
			switch a.Category.Role() {
			case model.RoleAsset:
				if fr.Contribution && c.contrib[n] {
					t.contrib.add(amt)
				} else {
					t.asset.add(amt)
				}
			case model.RoleDepreciation:
				t.dep.add(amt)
			case model.RoleImpairment:
				t.imp.add(amt)
			}
			continue
		}

		switch {
		case fr.ResultShare.Contains(n):
			t.res.add(amt)
		case fr.RevaluationReserve.Contains(n):
			t.rev.add(amt)
		case fr.DisposalPnL.Contains(n):
			t.pnl = true
		case fr.DepreciationExpense.Contains(n):
			t.depX = true
		case fr.ImpairmentExpense.Contains(n):
			t.impX = true
		case fr.ImpairmentReversal.Contains(n):
			t.impR = true
		case bank.Contains(n):
			if amt.IsPositive() {
				t.bankDebit = t.bankDebit.Add(amt)
			}
		default:
			t.nonBank = true
		}
	}
	return t
}

func (c *classifier) family(v model.Voucher, text string, f model.Family, posts []model.Posting) {
	fr, ok := c.rs.Family(f)
	if !ok {
		fr = &config.FamilyRules{Family: f}
	}
	t := c.collect(f, fr, posts)
	if !t.touched {
		return
	}

	asset, _ := model.FamilyCategory(f, model.RoleAsset)
	dep, hasDep := model.FamilyCategory(f, model.RoleDepreciation)
	imp, hasImp := model.FamilyCategory(f, model.RoleImpairment)

	dA, kA := t.asset.d, t.asset.k
	dC, kC := t.contrib.d, t.contrib.k
	dTot, kTot := dA.Add(dC), kA.Add(kC)

	signals := t.external() || !t.dep.zero() || !t.imp.zero()
	if dTot.IsPositive() && kTot.IsPositive() && !signals {
		c.emit(v, asset, model.MoveReclassification, dTot.Sub(kTot))
		return
	}
	if dTot.IsZero() && kTot.IsZero() && !t.external() {
		switch {
		case hasDep && t.dep.both() && t.imp.zero():
			c.emit(v, dep, model.MoveReclassification, t.dep.d.Sub(t.dep.k))
			return
		case hasImp && t.imp.both() && t.dep.zero():
			c.emit(v, imp, model.MoveReclassification, t.imp.d.Sub(t.imp.k))
			return
		}
	}

	// Result share, shares before contributions.
	plus := decimal.Min(dTot, t.res.k)
	c.emit(v, asset, model.MoveResultShare, plus)
	dA, dC = consume(dA, dC, plus)
	minus := decimal.Min(kTot, t.res.d)
	c.emit(v, asset, model.MoveResultShare, minus.Neg())
	kA, kC = consume(kA, kC, minus)

	// Revaluation, then purchase.
	reval := decimal.Min(dA, t.rev.k)
	c.emit(v, asset, model.MoveRevaluation, reval)
	dA = dA.Sub(reval)
	c.emit(v, asset, model.MoveContribution, dC)
	if dA.IsPositive() {
		kind := model.MovePurchase
		switch {
		case config.Match(c.rs.Merger, text):
			kind = model.MoveMerger
		case fr.Contribution && config.Match(c.rs.Contribution, text):
			kind = model.MoveContribution
		}
		c.emit(v, asset, kind, dA)
	}

	// Depreciation. A reserve debit next to the charge marks depreciation
	// of the revalued amount.
	dRev := t.rev.d
	if hasDep {
		revDep := decimal.Min(t.dep.k, dRev)
		c.emit(v, dep, model.MoveRevaluationDepreciation, revDep.Neg())
		dRev = dRev.Sub(revDep)
		c.emit(v, dep, model.MoveDepreciation, t.dep.k.Sub(revDep).Neg())
	}

	// Credits left on the asset.
	c.emit(v, asset, model.MoveContributionRepaid, kC.Neg())
	dP, dI := t.dep.d, t.imp.d
	if kA.IsPositive() {
		disposal := dP.IsPositive() || t.pnl || dRev.IsPositive() || (!hasDep && dI.IsPositive())
		kind := model.MoveDisposal
		if !disposal && c.settles(fr, t, kA, text) {
			kind = model.MoveResultShareSettlement
		}
		c.emit(v, asset, kind, kA.Neg())
		if kind == model.MoveDisposal {
			if hasDep {
				c.emit(v, dep, model.MoveDisposalDepreciationRev, dP)
				dP = decimal.Zero
			}
			if hasImp {
				c.emit(v, imp, model.MoveDisposalImpairmentReversal, dI)
				dI = decimal.Zero
			}
		}
	}

	if hasImp {
		if dI.IsPositive() {
			kind := model.MoveImpairmentReversal
			if config.Match(c.rs.Merger, text) {
				kind = model.MoveMergerImpairmentReversal
			}
			c.emit(v, imp, kind, dI)
		}
		c.emit(v, imp, model.MoveImpairment, t.imp.k.Neg())
	}
	if hasDep {
		// Depreciation written back outside a disposal.
		c.emit(v, dep, model.MoveDepreciation, dP)
	}
}

// settles reports whether an asset credit without any disposal signal is a
// payout of earlier result shares rather than a sale.
func (c *classifier) settles(fr *config.FamilyRules, t tally, amount decimal.Decimal, text string) bool {
	st := c.rs.Rules.Settlement
	if !st.Enabled || !fr.Settlement {
		return false
	}
	if config.Match(c.rs.Sale, text) && !config.Match(c.rs.Settlement, text) {
		return false
	}
	if st.RequireBankOnly {
		if t.nonBank || !t.bankDebit.IsPositive() {
			return false
		}
		if t.bankDebit.Sub(amount).Abs().GreaterThan(c.rs.SettlementSlack) {
			return false
		}
	}
	return true
}

func (c *classifier) emit(v model.Voucher, cat model.Category, kind model.MovementKind, amt decimal.Decimal) {
	if amt.IsZero() && kind != model.MoveReclassification {
		return
	}
	c.ledger.add(journal.Entry{
		Voucher:  v.ID(),
		Date:     v.Date,
		Category: cat,
		Kind:     kind,
		Amount:   amt,
		Text:     v.Text,
	})
}

// consume takes amt from first, then from second.
func consume(first, second, amt decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	take := decimal.Min(first, amt)
	return first.Sub(take), second.Sub(amt.Sub(take))
}
