package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var (
	// ErrAmountOverflow is returned when adding amounts leaves the int64 range.
	ErrAmountOverflow = errors.New("amount overflow")
	// ErrInvalidAmount is returned when an amount string can't be represented
	// exactly in base units.
	ErrInvalidAmount = errors.New("invalid amount")
)

// MaxDecimals is the largest number of fractional digits an amount string may
// be scaled by.
const MaxDecimals = 18

// Amount is a value expressed in indivisible base units.
type Amount int64

// SafeAdd returns a+b, or ErrAmountOverflow.
func SafeAdd(a, b Amount) (Amount, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, ErrAmountOverflow
	}
	return a + b, nil
}

// SumAmounts adds up all given amounts with overflow checking.
func SumAmounts(amounts ...Amount) (Amount, error) {
	var total Amount
	var err error
	for _, a := range amounts {
		if total, err = SafeAdd(total, a); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// ParseAmount converts a decimal string like "12.5" into base units, given
// how many fractional digits one unit has. The conversion must be exact.
func ParseAmount(s string, decimals int32) (Amount, error) {
	if decimals < 0 || decimals > MaxDecimals {
		return 0, fmt.Errorf("%w: decimals must be in [0, %d]", ErrInvalidAmount, MaxDecimals)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidAmount, err)
	}
	units := d.Shift(decimals)
	if !units.Equal(units.Truncate(0)) {
		return 0, fmt.Errorf("%w: %s has more than %d decimals", ErrInvalidAmount, s, decimals)
	}
	if units.GreaterThan(decimal.NewFromInt(math.MaxInt64)) ||
		units.LessThan(decimal.NewFromInt(math.MinInt64)) {
		return 0, fmt.Errorf("%w: %s", ErrAmountOverflow, s)
	}
	return Amount(units.IntPart()), nil
}
