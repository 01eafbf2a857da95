// Package occ encodes option contracts into OCC-style exchange symbols, the
// fixed-width identifiers the brokerage order API expects
// (e.g. SPY250315C00400000).
package occ

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/types"
)

// Encode builds the exchange symbol: underlying, two-digit year suffix,
// zero-padded month and day, kind letter, then the strike in thousandths
// zero-padded to 8 digits. The strike-to-thousandths conversion rounds half
// up (half away from zero; strikes are positive).
func Encode(underlying string, strike decimal.Decimal, kind types.OptionKind, month, day int, yearSuffix string) (string, error) {
	if underlying == "" {
		return "", fmt.Errorf("%w: empty underlying", types.ErrInvalidQuote)
	}
	if !strike.IsPositive() {
		return "", fmt.Errorf("%w: strike %s not positive", types.ErrInvalidQuote, strike)
	}
	if month < 1 || month > 12 {
		return "", fmt.Errorf("%w: month %d out of range", types.ErrInvalidQuote, month)
	}
	if day < 1 || day > 31 {
		return "", fmt.Errorf("%w: day %d out of range", types.ErrInvalidQuote, day)
	}
	if len(yearSuffix) != 2 || !isDigit(yearSuffix[0]) || !isDigit(yearSuffix[1]) {
		return "", fmt.Errorf("%w: year suffix %q must be two digits", types.ErrInvalidQuote, yearSuffix)
	}

	var kindLetter string
	switch kind {
	case types.Call:
		kindLetter = "C"
	case types.Put:
		kindLetter = "P"
	default:
		return "", fmt.Errorf("%w: unknown kind %q", types.ErrInvalidQuote, kind)
	}

	// Strike field is strike*1000 as an integer. decimal.Round rounds half
	// away from zero, which for positive strikes is the pinned half-up rule.
	thousandths := strike.Shift(3).Round(0).IntPart()
	if thousandths <= 0 || thousandths > 99999999 {
		return "", fmt.Errorf("%w: strike %s does not fit the 8-digit field", types.ErrInvalidQuote, strike)
	}

	return fmt.Sprintf("%s%s%02d%02d%s%08d", underlying, yearSuffix, month, day, kindLetter, thousandths), nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// EncodeQuote encodes a validated quote for the given contract year suffix.
func EncodeQuote(q *types.OptionQuote, yearSuffix string) (string, error) {
	if err := q.Validate(); err != nil {
		return "", err
	}
	return Encode(q.Underlying, q.Strike, q.Kind, q.Month, q.Day, yearSuffix)
}
