// Package currencyutils cleans and formats the Brazilian-style amounts found in
// fiscal-credit exports ("1.234,56").
package currencyutils

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ErrEmptyAmount is returned for a field that is blank once cleaned.
var ErrEmptyAmount = errors.New("empty amount")

// ParseAmount cleans amountStr with StandardizeAmount and parses it as a decimal.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized := StandardizeAmount(amountStr)
	if standardized == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}

	return amount, nil
}

// StandardizeAmount strips whitespace and quote characters and rewrites the
// decimal separator so that decimal.NewFromString can read the result.
//
//	"1.234,56" -> "1234.56"
//	"500,00"   -> "500.00"
//	"1.000.000" -> "1000000"
//	"12.5"     -> "12.5"
func StandardizeAmount(amountStr string) string {
	amountStr = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '"' {
			return -1
		}
		return r
	}, amountStr)

	switch {
	case strings.Contains(amountStr, ","):
		amountStr = strings.ReplaceAll(amountStr, ".", "")
		amountStr = strings.ReplaceAll(amountStr, ",", ".")
	case strings.Count(amountStr, ".") > 1:
		amountStr = strings.ReplaceAll(amountStr, ".", "")
	}

	return amountStr
}

// FormatBRL renders amount with two decimals, "." as thousands separator and
// "," as decimal separator: 1234567.891 -> "1.234.567,89".
func FormatBRL(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(intPart[i : i+3])
	}

	return sign + b.String() + "," + fracPart
}
