package priceConverter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrEmptyPrice = errors.New("price has no digits")

// NormalizePrice keeps the digits of the integer part, e.g. "5'990.00 руб." -> "5990".
// The fraction is truncated, not rounded.
func NormalizePrice(price string) string {
	intPart, _, _ := strings.Cut(price, ".")

	sb := strings.Builder{}
	sb.Grow(len(intPart))
	for _, r := range intPart {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}

	return sb.String()
}

// PriceValue is NormalizePrice as a number for APIs expecting a numeric price.
func PriceValue(price string) (decimal.Decimal, error) {
	normalized := NormalizePrice(price)
	if normalized == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrEmptyPrice, price)
	}

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse price %q: %w", price, err)
	}

	return d, nil
}
