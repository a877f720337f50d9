package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/sienote/internal/accounts"
	"github.com/cleared-dev/sienote/internal/engine"
	"github.com/cleared-dev/sienote/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#81C784"})
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B26A00", Dark: "#FFB74D"})
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#E57373"})
)

// table collects rows and prints them with columns padded to their display
// width. Swedish account names and company names are common, so widths are
// measured in cells, not bytes.
type table struct {
	header []string
	right  []bool
	rows   [][]string
}

func newTable(header ...string) *table {
	return &table{header: header, right: make([]bool, len(header))}
}

// alignRight right-aligns the given columns. Used for amounts.
func (t *table) alignRight(cols ...int) *table {
	for _, c := range cols {
		t.right[c] = true
	}
	return t
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) write(w io.Writer) {
	widths := make([]int, len(t.header))
	for _, row := range append([][]string{t.header}, t.rows...) {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	line := func(row []string) {
		cells := make([]string, len(row))
		for i, cell := range row {
			if t.right[i] {
				cells[i] = runewidth.FillLeft(cell, widths[i])
			} else {
				cells[i] = runewidth.FillRight(cell, widths[i])
			}
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
	}

	line(t.header)
	rule := make([]string, len(widths))
	for i, n := range widths {
		rule[i] = strings.Repeat("-", n)
	}
	fmt.Fprintln(w, strings.Join(rule, "  "))
	for _, row := range t.rows {
		line(row)
	}
}

func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func writeResult(w io.Writer, res *engine.Result) {
	if res.Company.Name != "" {
		title := res.Company.Name
		if res.Company.OrgNumber != "" {
			title += " (" + res.Company.OrgNumber + ")"
		}
		fmt.Fprintln(w, titleStyle.Render(title))
		fmt.Fprintln(w)
	}

	rolls := newTable("category", "accounts", "opening", "net", "closing", "status").alignRight(2, 3, 4)
	for _, rf := range res.RollForwards {
		status := okStyle.Render("ok")
		if !rf.Balanced {
			status = errStyle.Render("delta " + amount(rf.Delta))
		}
		rolls.add(string(rf.Category), joinInts(rf.Accounts), amount(rf.Opening), amount(rf.Net), amount(rf.Closing), status)
	}
	rolls.write(w)
	fmt.Fprintln(w)

	writeAccounts(w, accounts.NewService(res.Accounts))

	moves := newTable("category", "movement", "amount").alignRight(2)
	for _, rf := range res.RollForwards {
		for _, m := range rf.Movements {
			moves.add(string(rf.Category), string(m.Kind), amount(m.Amount))
		}
	}
	if len(moves.rows) > 0 {
		moves.write(w)
		fmt.Fprintln(w)
	}

	if len(res.Families) > 0 {
		fams := newTable("family", "cost", "depreciation", "impairment", "carrying", "reserve").alignRight(1, 2, 3, 4, 5)
		for _, f := range res.Families {
			reserve := ""
			if !f.ClosingReserve.IsZero() {
				reserve = amount(f.ClosingReserve)
			}
			fams.add(string(f.Family), amount(f.ClosingCost), amount(f.ClosingDepreciation),
				amount(f.ClosingImpairment), amount(f.ClosingCarrying), reserve)
		}
		fams.write(w)
		fmt.Fprintln(w)
	}

	writeWarnings(w, res.Warnings)
}

// writeAccounts lists the used accounts of each category with the rule that
// placed them there.
func writeAccounts(w io.Writer, svc *accounts.Service) {
	t := newTable("category", "account", "name", "rule")
	for _, c := range svc.Categories() {
		for _, a := range svc.ByCategory(c) {
			t.add(string(c), fmt.Sprint(a.Number), a.Name, string(a.Rule))
		}
	}
	if len(t.rows) == 0 {
		return
	}
	t.write(w)
	fmt.Fprintln(w)
}

func writeWarnings(w io.Writer, warnings []model.Warning) {
	for _, warn := range warnings {
		fmt.Fprintln(w, warnStyle.Render("warning: ")+warn.String())
	}
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ",")
}
