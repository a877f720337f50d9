package journal

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/sienote/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func sampleEntries() []Entry {
	return []Entry{
		{
			Voucher:  "A-6",
			Date:     date(2024, 3, 1),
			Category: model.CategoryGroupShares,
			Kind:     model.MovePurchase,
			Amount:   dec("20000"),
			Text:     "Förvärv aktier, Dotter AB",
		},
		{
			Voucher:  "A-3",
			Date:     date(2024, 12, 31),
			Category: model.CategoryBuildingDepreciation,
			Kind:     model.MoveDepreciation,
			Amount:   dec("-40000"),
		},
	}
}

func TestRoundTrip(t *testing.T) {
	entries := sampleEntries()

	var buf bytes.Buffer
	require.NoError(t, WriteEntries(&buf, entries))
	assert.True(t, strings.HasPrefix(buf.String(), Header+"\n"))
	assert.Contains(t, buf.String(), `"Förvärv aktier, Dotter AB"`)

	got, err := ReadEntries(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range entries {
		assert.Equal(t, entries[i].Voucher, got[i].Voucher)
		assert.True(t, entries[i].Date.Equal(got[i].Date))
		assert.Equal(t, entries[i].Category, got[i].Category)
		assert.Equal(t, entries[i].Kind, got[i].Kind)
		assert.True(t, entries[i].Amount.Equal(got[i].Amount), "amount mismatch row %d", i)
		assert.Equal(t, entries[i].Text, got[i].Text)
	}
}

func TestMarshalEntry(t *testing.T) {
	row := MarshalEntry(Entry{Voucher: "B-1", Category: model.CategoryReceivable, Kind: model.MoveNetChange, Amount: dec("5000")})
	assert.Equal(t, []string{"B-1", "", "receivable", "net_change", "5000.00", ""}, row)
}

func TestUnmarshalEntryErrors(t *testing.T) {
	tests := []struct {
		name   string
		record []string
		want   string
	}{
		{"short", []string{"A-1"}, "expected 6 fields"},
		{"date", []string{"A-1", "2024-13-01", "buildings", "purchase", "1", ""}, "parsing date"},
		{"category", []string{"A-1", "", "cash", "purchase", "1", ""}, "unknown category"},
		{"kind", []string{"A-1", "", "buildings", "gift", "1", ""}, "unknown movement kind"},
		{"amount", []string{"A-1", "", "buildings", "purchase", "x", ""}, "parsing amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalEntry(tt.record)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadEntriesReportsRow(t *testing.T) {
	in := Header + "\nA-1,,buildings,purchase,1,\nA-2,,buildings,purchase,oops,\n"
	_, err := ReadEntries(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
}

func TestReadEntriesEmpty(t *testing.T) {
	got, err := ReadEntries(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.csv")
	require.NoError(t, WriteFile(path, sampleEntries()))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestForVoucher(t *testing.T) {
	entries := sampleEntries()
	assert.Len(t, ForVoucher(entries, "A-3"), 1)
	assert.Empty(t, ForVoucher(entries, "A-99"))
}

func TestSummarize(t *testing.T) {
	entries := []Entry{
		{Category: model.CategoryMachinery, Kind: model.MoveDisposal, Amount: dec("-100")},
		{Category: model.CategoryGroupShares, Kind: model.MovePurchase, Amount: dec("20")},
		{Category: model.CategoryMachinery, Kind: model.MovePurchase, Amount: dec("5")},
		{Category: model.CategoryGroupShares, Kind: model.MovePurchase, Amount: dec("30")},
	}
	got := Summarize(entries)
	require.Len(t, got, 3)

	assert.Equal(t, model.CategoryGroupShares, got[0].Category)
	assert.True(t, dec("50").Equal(got[0].Amount))
	assert.Equal(t, 2, got[0].Count)

	assert.Equal(t, model.CategoryMachinery, got[1].Category)
	assert.Equal(t, model.MovePurchase, got[1].Kind)
	assert.Equal(t, model.MoveDisposal, got[2].Kind)
}
