package id

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatVoucherID returns a voucher ID like "A-12". Vouchers without a series
// are formatted as the bare number.
func FormatVoucherID(series string, number int) string {
	if series == "" {
		return strconv.Itoa(number)
	}
	return fmt.Sprintf("%s-%d", series, number)
}

// ParseVoucherID parses "A-12" into series and number.
func ParseVoucherID(id string) (series string, number int, err error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", 0, fmt.Errorf("empty voucher ID")
	}

	// Series may itself contain dashes; the number follows the last one.
	i := strings.LastIndex(id, "-")
	numPart := id
	if i >= 0 {
		series, numPart = id[:i], id[i+1:]
		if series == "" {
			return "", 0, fmt.Errorf("invalid voucher ID format: %q", id)
		}
	}

	number, err = strconv.Atoi(numPart)
	if err != nil {
		return "", 0, fmt.Errorf("invalid number in voucher ID %q: %w", id, err)
	}
	return series, number, nil
}
