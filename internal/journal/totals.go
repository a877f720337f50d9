package journal

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/sienote/internal/model"
)

// Total is the sum of all entries for one category and movement kind.
type Total struct {
	Category model.Category
	Kind     model.MovementKind
	Amount   decimal.Decimal
	Count    int
}

// Summarize sums entries per category and kind. The result is ordered by
// category, then by movement kind, in report order.
func Summarize(entries []Entry) []Total {
	type key struct {
		c model.Category
		k model.MovementKind
	}
	sums := make(map[key]*Total)
	var order []key
	for _, e := range entries {
		k := key{e.Category, e.Kind}
		t, ok := sums[k]
		if !ok {
			t = &Total{Category: e.Category, Kind: e.Kind}
			sums[k] = t
			order = append(order, k)
		}
		t.Amount = t.Amount.Add(e.Amount)
		t.Count++
	}

	sort.SliceStable(order, func(i, j int) bool {
		ci, cj := order[i].c.Index(), order[j].c.Index()
		if ci != cj {
			return ci < cj
		}
		return order[i].k.Index() < order[j].k.Index()
	})

	out := make([]Total, len(order))
	for i, k := range order {
		out[i] = *sums[k]
	}
	return out
}
