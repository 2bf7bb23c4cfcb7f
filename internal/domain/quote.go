package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConversionQuote is a spot conversion factor between two currencies.
// Ephemeral: consumed within the same unit of work that fetched it.
type ConversionQuote struct {
	Base      string
	Target    string
	Factor    decimal.Decimal
	FetchedAt time.Time
}

// Convert applies a conversion factor to an amount.
func Convert(amount, factor decimal.Decimal) (decimal.Decimal, error) {
	if factor.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, ErrInvalidFactor
	}

	return amount.Mul(factor), nil
}

// RoundToMinorUnit rounds an amount to the currency's minor-unit precision,
// half away from zero. Applied once, at the point a debit is recorded.
func RoundToMinorUnit(amount decimal.Decimal, exponent int32) decimal.Decimal {
	return amount.Round(exponent)
}
