package domain

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	dErrors "dsledger/pkg/domain-errors"
)

// Amounts are integer counts of a token's smallest unit, carried as
// decimal.Decimal so 18-decimal supplies never overflow.

// MaxAmountDigits is the number of decimal digits in 2^256-1.
const MaxAmountDigits = 78

// MaxAmount is the largest representable amount, 2^256-1 base units.
var MaxAmount = decimal.NewFromBigInt(
	new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1)), 0)

// ParseAmount parses a base-unit amount written as plain decimal digits.
// Signs, fractions and exponents are rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		return decimal.Zero, dErrors.New(dErrors.CodeInvalidInput, "amount must not be negative")
	}
	if !isDigits(s) {
		return decimal.Zero, dErrors.New(dErrors.CodeInvalidInput, "amount must be a whole number of base units in decimal digits")
	}
	if len(strings.TrimLeft(s, "0")) > MaxAmountDigits {
		return decimal.Zero, dErrors.New(dErrors.CodeInvalidInput, "amount out of range")
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return decimal.Zero, dErrors.New(dErrors.CodeInvalidInput, "invalid amount")
	}
	d := decimal.NewFromBigInt(n, 0)
	if err := ValidateAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// ValidateAmount rejects negative, fractional and out-of-range base-unit
// amounts. The magnitude is checked from the coefficient and exponent before
// any comparison, so oversized exponents are never expanded.
func ValidateAmount(d decimal.Decimal) error {
	if d.IsNegative() {
		return dErrors.New(dErrors.CodeInvalidInput, "amount must not be negative")
	}
	if d.IsZero() {
		return nil
	}
	exp := int64(d.Exponent())
	if exp < -MaxAmountDigits || exp > MaxAmountDigits || int64(d.NumDigits())+exp > MaxAmountDigits {
		return dErrors.New(dErrors.CodeInvalidInput, "amount out of range")
	}
	if !d.Equal(d.Truncate(0)) {
		return dErrors.New(dErrors.CodeInvalidInput, "amount must be a whole number of base units")
	}
	if d.GreaterThan(MaxAmount) {
		return dErrors.New(dErrors.CodeInvalidInput, "amount out of range")
	}
	return nil
}

// ToBaseUnits converts a display amount ("1000.5") to base units for a token
// with the given decimals.
func ToBaseUnits(display string, decimals int32) (decimal.Decimal, error) {
	display = strings.TrimSpace(display)
	whole, frac, _ := strings.Cut(display, ".")
	if !isDigits(whole) || (frac != "" && !isDigits(frac)) || strings.HasSuffix(display, ".") {
		return decimal.Zero, dErrors.New(dErrors.CodeInvalidInput, "invalid amount")
	}
	if len(whole)+len(frac) > MaxAmountDigits+int(decimals) {
		return decimal.Zero, dErrors.New(dErrors.CodeInvalidInput, "amount out of range")
	}
	d, err := decimal.NewFromString(display)
	if err != nil {
		return decimal.Zero, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid amount")
	}
	units := d.Shift(decimals)
	if err := ValidateAmount(units); err != nil {
		return decimal.Zero, err
	}
	return units, nil
}

// FromBaseUnits renders base units as a display amount.
func FromBaseUnits(units decimal.Decimal, decimals int32) string {
	return units.Shift(-decimals).String()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
