// Package money formats and parses whole-peso amounts.
//
// MiChauchera tracks Chilean pesos, which have no minor units in practice.
// Amounts are carried as int64 pesos everywhere, avoiding floating-point
// drift in aggregation.
package money

import (
	"strconv"
	"strings"
	"unicode"

	apperrors "michauchera/internal/errors"
)

// FormatCLP renders an amount the way the app shows it: "$1.234.567".
// Negative amounts keep the sign ahead of the currency symbol.
func FormatCLP(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')

	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	b.WriteString(digits[:head])
	for i := head; i < len(digits); i += 3 {
		b.WriteByte('.')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// ParseAmount converts a user-entered amount string to whole pesos.
// Thousand separators (dots) and surrounding whitespace are tolerated;
// negative or zero values are rejected.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ".", "")
	if s == "" {
		return 0, apperrors.ErrNonPositiveAmount
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid amount: "+s)
		}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, err)
	}
	if v <= 0 {
		return 0, apperrors.ErrNonPositiveAmount
	}
	return v, nil
}
