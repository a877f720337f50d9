package movement

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/sienote/internal/journal"
	"github.com/cleared-dev/sienote/internal/model"
)

// Ledger is the classified movement trace of one document together with its
// running totals.
type Ledger struct {
	Entries []journal.Entry

	totals map[model.Category]map[model.MovementKind]decimal.Decimal
}

func newLedger() *Ledger {
	return &Ledger{totals: make(map[model.Category]map[model.MovementKind]decimal.Decimal)}
}

func (l *Ledger) add(e journal.Entry) {
	l.Entries = append(l.Entries, e)
	m, ok := l.totals[e.Category]
	if !ok {
		m = make(map[model.MovementKind]decimal.Decimal)
		l.totals[e.Category] = m
	}
	m[e.Kind] = m[e.Kind].Add(e.Amount)
}

// Total returns the running sum for one category and kind.
func (l *Ledger) Total(c model.Category, k model.MovementKind) decimal.Decimal {
	return l.totals[c][k]
}

// Movements returns a copy of all totals booked to c.
func (l *Ledger) Movements(c model.Category) map[model.MovementKind]decimal.Decimal {
	src := l.totals[c]
	out := make(map[model.MovementKind]decimal.Decimal, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// Net is the sum of every movement booked to c.
func (l *Ledger) Net(c model.Category) decimal.Decimal {
	sum := decimal.Zero
	for _, v := range l.totals[c] {
		sum = sum.Add(v)
	}
	return sum
}

// Has reports whether anything was booked to c.
func (l *Ledger) Has(c model.Category) bool {
	return len(l.totals[c]) > 0
}
