package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatVoucherID(t *testing.T) {
	assert.Equal(t, "A-1", FormatVoucherID("A", 1))
	assert.Equal(t, "LON-104", FormatVoucherID("LON", 104))
	assert.Equal(t, "7", FormatVoucherID("", 7))
}

func TestParseVoucherID(t *testing.T) {
	tests := []struct {
		input  string
		series string
		number int
	}{
		{"A-12", "A", 12},
		{"LON-104", "LON", 104},
		{"B-2-7", "B-2", 7},
		{"42", "", 42},
		{" A-3 ", "A", 3},
	}
	for _, tt := range tests {
		series, number, err := ParseVoucherID(tt.input)
		require.NoError(t, err, "ParseVoucherID(%q)", tt.input)
		assert.Equal(t, tt.series, series)
		assert.Equal(t, tt.number, number)
	}
}

func TestParseVoucherID_Invalid(t *testing.T) {
	for _, input := range []string{"", "A-", "-12", "A-x"} {
		_, _, err := ParseVoucherID(input)
		assert.Error(t, err, "expected error for %q", input)
	}
}

func TestRoundTrip(t *testing.T) {
	series, number, err := ParseVoucherID(FormatVoucherID("V", 99))
	require.NoError(t, err)
	assert.Equal(t, "V", series)
	assert.Equal(t, 99, number)
}
