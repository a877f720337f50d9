package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/sienote/internal/id"
)

// PostingVariant distinguishes the three posting tags.
type PostingVariant string

const (
	PostingNormal  PostingVariant = "trans"
	PostingAdded   PostingVariant = "rtrans"
	PostingRemoved PostingVariant = "btrans"
)

// Posting is a single signed amount against one account. Debit is positive.
type Posting struct {
	Account int             `json:"account"`
	Amount  decimal.Decimal `json:"amount"`
	Variant PostingVariant  `json:"variant"`
	Line    int             `json:"line"`
}

// IsDebit reports whether the posting debits its account.
func (p Posting) IsDebit() bool { return p.Amount.IsPositive() }

// Voucher is one bracketed block of postings.
type Voucher struct {
	Series   string    `json:"series"`
	Number   int       `json:"number"`
	Date     time.Time `json:"date"`
	Text     string    `json:"text"`
	Postings []Posting `json:"postings"`
	Line     int       `json:"line"`
}

// ID returns the voucher identity, e.g. "A-12".
func (v Voucher) ID() string {
	return id.FormatVoucherID(v.Series, v.Number)
}

// Effective returns the postings that count towards balances: removed rows are
// dropped, and an added row directly followed by an identical normal row is
// treated as a single posting.
func (v Voucher) Effective() []Posting {
	out := make([]Posting, 0, len(v.Postings))
	for i, p := range v.Postings {
		switch p.Variant {
		case PostingRemoved:
			continue
		case PostingAdded:
			if i+1 < len(v.Postings) {
				next := v.Postings[i+1]
				if next.Variant == PostingNormal && next.Account == p.Account && next.Amount.Equal(p.Amount) {
					continue
				}
			}
		}
		out = append(out, p)
	}
	return out
}

// CompanyInfo carries the identification tags. The engine only passes them through.
type CompanyInfo struct {
	Name      string    `json:"name,omitempty"`
	OrgNumber string    `json:"org_number,omitempty"`
	ChartType string    `json:"chart_type,omitempty"`
	YearStart time.Time `json:"year_start,omitzero"`
	YearEnd   time.Time `json:"year_end,omitzero"`
}

// Document is a parsed ledger.
type Document struct {
	Company  CompanyInfo `json:"company"`
	Accounts []Account   `json:"accounts"` // sorted by number
	Vouchers []Voucher   `json:"vouchers"` // source order
	Warnings []Warning   `json:"warnings"`
}

// Account returns a pointer to the account with the given number.
func (d *Document) Account(number int) (*Account, bool) {
	lo, hi := 0, len(d.Accounts)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case d.Accounts[mid].Number == number:
			return &d.Accounts[mid], true
		case d.Accounts[mid].Number < number:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return nil, false
}
