package ledger

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Amounts are stored in minor units with this scale
const minorUnitsScale = 2

var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// Bounds of a parsed amount, checked before any rescaling
const (
	maxAmountExponent = 18
	minAmountExponent = -18
	maxAmountDigits   = 38
)

func checkMagnitude(amount decimal.Decimal) error {
	exp := amount.Exponent()
	if exp > maxAmountExponent || exp < minAmountExponent || amount.NumDigits() > maxAmountDigits {
		return newError(KindInvalidInput, "Amount is out of range")
	}
	return nil
}

// ParseAmount parses a decimal string like "10.50"
func ParseAmount(raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, newError(KindInvalidInput, "Amount %q is not a number", raw)
	}
	if err := checkMagnitude(value); err != nil {
		return decimal.Zero, err
	}
	return value, nil
}

func toMinorUnits(amount decimal.Decimal, allowZero bool) (int64, error) {
	if err := checkMagnitude(amount); err != nil {
		return 0, err
	}
	if amount.IsNegative() || (!allowZero && amount.IsZero()) {
		return 0, newError(KindInvalidInput, "Amount must be positive, got %v", amount)
	}
	shifted := amount.Shift(minorUnitsScale)
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, newError(KindInvalidInput, "Amount %v has more than %v decimal places", amount, minorUnitsScale)
	}
	if shifted.GreaterThan(maxMinorUnits) {
		return 0, newError(KindInvalidInput, "Amount %v is too large", amount)
	}
	return shifted.IntPart(), nil
}

func fromMinorUnits(value int64) decimal.Decimal {
	return decimal.New(value, -minorUnitsScale)
}
