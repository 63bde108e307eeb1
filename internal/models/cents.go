package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/shopspring/decimal"
)

// Cents is a USD amount counted in cents.
type Cents int64

// ParseCents parses a dollar amount such as "19.99", "$19.99" or "-0.5".
// More than two fractional digits are rejected rather than rounded.
func ParseCents(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	s = strings.TrimPrefix(s, "$")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid amount %q", common.ErrorValidation, s)
	}
	if neg {
		d = d.Neg()
	}

	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("%w: amount %s has fractional cents", common.ErrorValidation, d)
	}
	n := cents.BigInt()
	if !n.IsInt64() {
		return 0, fmt.Errorf("%w: amount %s out of range", common.ErrorValidation, d)
	}
	return Cents(n.Int64()), nil
}

// Decimal returns the amount in dollars.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

func (c Cents) String() string {
	d := c.Decimal()
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}
