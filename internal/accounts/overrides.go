package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cleared-dev/sienote/internal/model"
)

// ReadOverrides reads category overrides. Any CSV with "account" and
// "category" columns works, so an account table written by a previous run
// can be edited and fed back. Rows with an empty category are skipped.
func ReadOverrides(r io.Reader) (map[int]model.Category, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading overrides CSV: %w", err)
	}
	if len(records) == 0 {
		return map[int]model.Category{}, nil
	}

	colAcct, colCat := -1, -1
	for i, name := range records[0] {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "account":
			colAcct = i
		case "category":
			colCat = i
		}
	}
	if colAcct < 0 || colCat < 0 {
		return nil, fmt.Errorf("overrides CSV needs account and category columns")
	}

	out := make(map[int]model.Category, len(records)-1)
	for i, rec := range records[1:] {
		if colAcct >= len(rec) || colCat >= len(rec) {
			return nil, fmt.Errorf("row %d: expected at least %d fields, got %d", i+2, max(colAcct, colCat)+1, len(rec))
		}
		if strings.TrimSpace(rec[colCat]) == "" {
			continue
		}
		number, err := strconv.Atoi(strings.TrimSpace(rec[colAcct]))
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing account %q: %w", i+2, rec[colAcct], err)
		}
		c, err := model.ParseCategory(rec[colCat])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out[number] = c
	}
	return out, nil
}

// LoadOverrides reads category overrides from path.
func LoadOverrides(path string) (map[int]model.Category, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening overrides: %w", err)
	}
	defer f.Close()

	out, err := ReadOverrides(f)
	if err != nil {
		return nil, fmt.Errorf("reading overrides %s: %w", path, err)
	}
	return out, nil
}
