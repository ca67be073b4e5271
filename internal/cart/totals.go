package cart

import (
	"github.com/shopspring/decimal"

	"github.com/govindsingh74/amztwo/pkg/db/models"
)

// TotalCount sums line-item quantities. Pure over its input; an empty or nil
// slice yields zero.
func TotalCount(items []models.CartItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

// TotalPrice sums quantity times captured unit price across line items using
// exact decimal arithmetic.
func TotalPrice(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		line := item.PriceAtTime.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	return total
}
