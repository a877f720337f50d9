package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/sienote/internal/accounts"
	"github.com/cleared-dev/sienote/internal/id"
	"github.com/cleared-dev/sienote/internal/journal"
	"github.com/cleared-dev/sienote/internal/model"
)

func newExplainCommand() *cobra.Command {
	var input inputFlags

	cmd := &cobra.Command{
		Use:   "explain <file> <voucher>",
		Short: "Show how one voucher was allocated to movements",
		Long: "Show the postings of one voucher, the category of each account and the " +
			"movements the voucher produced. Vouchers are named like A-12.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(cmd.OutOrStdout(), args[0], args[1], input)
		},
	}

	input.register(cmd, true)

	return cmd
}

func runExplain(out io.Writer, path, voucherID string, input inputFlags) error {
	series, number, err := id.ParseVoucherID(voucherID)
	if err != nil {
		return err
	}

	in, err := input.load()
	if err != nil {
		return err
	}
	res, err := classifyFile(path, in)
	if err != nil {
		return err
	}

	var found []model.Voucher
	for _, v := range res.Vouchers {
		if v.Series == series && v.Number == number {
			found = append(found, v)
		}
	}
	if len(found) == 0 {
		return fmt.Errorf("voucher %s not found in %s", id.FormatVoucherID(series, number), path)
	}

	// Duplicate vouchers share an ID, so their allocations are listed once.
	svc := accounts.NewService(res.Accounts)
	for i, v := range found {
		if i > 0 {
			fmt.Fprintln(out)
		}
		writeVoucher(out, svc, v)
	}
	fmt.Fprintln(out)
	writeAllocations(out, journal.ForVoucher(res.Trace, found[0].ID()))
	return nil
}

func writeVoucher(w io.Writer, svc *accounts.Service, v model.Voucher) {
	title := v.ID()
	if !v.Date.IsZero() {
		title += " " + v.Date.Format("2006-01-02")
	}
	if v.Text != "" {
		title += " " + v.Text
	}
	fmt.Fprintln(w, titleStyle.Render(title))

	t := newTable("account", "name", "category", "amount", "").alignRight(3)
	for _, p := range v.Postings {
		name, category := "", ""
		if a, ok := svc.Get(p.Account); ok {
			name, category = a.Name, string(a.Category)
		}
		var note string
		switch p.Variant {
		case model.PostingAdded:
			note = "added"
		case model.PostingRemoved:
			note = "removed"
		}
		t.add(fmt.Sprint(p.Account), name, category, amount(p.Amount), note)
	}
	t.write(w)
}

func writeAllocations(w io.Writer, entries []journal.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, warnStyle.Render("no movements allocated"))
		return
	}
	t := newTable("category", "movement", "amount", "entries").alignRight(2, 3)
	for _, total := range journal.Summarize(entries) {
		t.add(string(total.Category), string(total.Kind), amount(total.Amount), fmt.Sprint(total.Count))
	}
	t.write(w)
}
