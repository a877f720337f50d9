package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// WarningCode identifies the kind of data-quality problem.
type WarningCode string

const (
	WarnMalformedLine     WarningCode = "malformed_line"
	WarnStrayPosting      WarningCode = "stray_posting"
	WarnNestedBlock       WarningCode = "nested_block"
	WarnOrphanBlock       WarningCode = "orphan_block"
	WarnUnterminatedBlock WarningCode = "unterminated_block"
	WarnDuplicateVoucher  WarningCode = "duplicate_voucher"
	WarnUnmappedAccount   WarningCode = "unmapped_account"
	WarnIdentityViolation WarningCode = "identity_violation"
	WarnUnknownOverride   WarningCode = "unknown_override"
	WarnDroppedAlias      WarningCode = "dropped_alias"
)

// Warning is a non-fatal problem found during a classification run.
type Warning struct {
	Code     WarningCode      `json:"code"`
	Line     int              `json:"line,omitempty"`
	Account  int              `json:"account,omitempty"`
	Category Category         `json:"category,omitempty"`
	Voucher  string           `json:"voucher,omitempty"`
	Delta    *decimal.Decimal `json:"delta,omitempty"`
	Raw      string           `json:"raw,omitempty"`
	Message  string           `json:"message"`
}

func (w Warning) String() string {
	var b strings.Builder
	b.WriteString(string(w.Code))
	if w.Line > 0 {
		fmt.Fprintf(&b, " line %d", w.Line)
	}
	if w.Account > 0 {
		fmt.Fprintf(&b, " account %d", w.Account)
	}
	if w.Category != "" {
		fmt.Fprintf(&b, " [%s]", w.Category)
	}
	if w.Voucher != "" {
		fmt.Fprintf(&b, " voucher %s", w.Voucher)
	}
	b.WriteString(": ")
	b.WriteString(w.Message)
	return b.String()
}
