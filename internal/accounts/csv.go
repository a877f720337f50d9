package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/sienote/internal/model"
)

// Header is the CSV header of the classified account table.
var Header = []string{
	"account", "name", "category", "rule", "used",
	"opening", "closing", "result", "prior_opening", "prior_closing",
	"aux_code", "reason",
}

const (
	numFields       = 12
	colNumber       = 0
	colName         = 1
	colCategory     = 2
	colRule         = 3
	colUsed         = 4
	colOpening      = 5
	colClosing      = 6
	colResult       = 7
	colPriorOpening = 8
	colPriorClosing = 9
	colAuxCode      = 10
	colReason       = 11
)

// ReadAccounts reads a classified account table.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes a classified account table, header first.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colNumber] = strconv.Itoa(acct.Number)
	row[colName] = acct.Name
	row[colCategory] = string(acct.Category)
	row[colRule] = string(acct.Rule)
	row[colUsed] = strconv.FormatBool(acct.Used)
	row[colOpening] = acct.Current.Opening.StringFixed(2)
	row[colClosing] = acct.Current.Closing.StringFixed(2)
	row[colResult] = acct.Current.Result.StringFixed(2)
	row[colPriorOpening] = acct.Prior.Opening.StringFixed(2)
	row[colPriorClosing] = acct.Prior.Closing.StringFixed(2)
	if acct.AuxCode != 0 {
		row[colAuxCode] = strconv.Itoa(acct.AuxCode)
	}
	row[colReason] = acct.Reason
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	number, err := strconv.Atoi(record[colNumber])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing account %q: %w", record[colNumber], err)
	}

	category, err := model.ParseCategory(record[colCategory])
	if err != nil {
		return model.Account{}, err
	}

	used, err := strconv.ParseBool(record[colUsed])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing used %q: %w", record[colUsed], err)
	}

	var aux int
	if record[colAuxCode] != "" {
		aux, err = strconv.Atoi(record[colAuxCode])
		if err != nil {
			return model.Account{}, fmt.Errorf("parsing aux_code %q: %w", record[colAuxCode], err)
		}
	}

	amounts := make([]decimal.Decimal, 5)
	for i, col := range []int{colOpening, colClosing, colResult, colPriorOpening, colPriorClosing} {
		amounts[i], err = decimal.NewFromString(record[col])
		if err != nil {
			return model.Account{}, fmt.Errorf("parsing %s %q: %w", Header[col], record[col], err)
		}
	}

	return model.Account{
		Number:   number,
		Name:     record[colName],
		AuxCode:  aux,
		Category: category,
		Rule:     model.MatchRule(record[colRule]),
		Reason:   record[colReason],
		Used:     used,
		Current:  model.BalanceSet{Opening: amounts[0], Closing: amounts[1], Result: amounts[2]},
		Prior:    model.BalanceSet{Opening: amounts[3], Closing: amounts[4]},
	}, nil
}
