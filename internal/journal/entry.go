// Package journal holds the movement trace: one row for every amount the
// classifier allocated to a roll-forward bucket.
package journal

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/sienote/internal/model"
)

// Entry is one allocated movement. Amount is signed, debit positive.
type Entry struct {
	Voucher  string             `json:"voucher"`
	Date     time.Time          `json:"date"`
	Category model.Category     `json:"category"`
	Kind     model.MovementKind `json:"kind"`
	Amount   decimal.Decimal    `json:"amount"`
	Text     string             `json:"text,omitempty"`
}

// ForVoucher returns the entries booked from voucher id, in trace order.
func ForVoucher(entries []Entry, id string) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Voucher == id {
			out = append(out, e)
		}
	}
	return out
}
