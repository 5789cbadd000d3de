package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// categoryDiscounts is the one discount table for doctor categories (percent)
var categoryDiscounts = map[Category]decimal.Decimal{
	CategoryRegular: decimal.Zero,
	CategoryVIP:     decimal.NewFromInt(15),
	CategoryPremium: decimal.NewFromInt(20),
}

// DiscountFor returns the discount percentage of a category
func DiscountFor(c Category) (decimal.Decimal, error) {
	rate, ok := categoryDiscounts[c]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q (expected %s, %s or %s)",
			ErrInvalidCategory, c, CategoryRegular, CategoryVIP, CategoryPremium)
	}
	return rate, nil
}

// ValidDiscount reports whether rate is a percentage in [0,100]
func ValidDiscount(rate decimal.Decimal) bool {
	return !rate.IsNegative() && rate.LessThanOrEqual(hundred)
}

// NetPrice applies a percentage discount to a base price and rounds down
// to the whole currency unit: floor(base * (1 - discount/100)).
func NetPrice(base int64, discount decimal.Decimal) int64 {
	factor := hundred.Sub(discount).Div(hundred)
	return decimal.NewFromInt(base).Mul(factor).Floor().IntPart()
}
