package item

import (
	"github.com/shopspring/decimal"

	"github.com/stocklog/inventory-service/internal/model"
)

// Summary is the read-side aggregation over an owner's items. It is
// recomputed from the stored rows on every read; nothing is cached.
type Summary struct {
	TotalProducts       int             `json:"total_products"`
	TotalStock          int64           `json:"total_stock"`
	TotalInventoryValue decimal.Decimal `json:"total_inventory_value"`
	TotalSales          decimal.Decimal `json:"total_sales"`
}

// ComputeSummary derives the summary as a pure function of the item
// collection. Sales are valued at each item's current unit price.
func ComputeSummary(items []model.Item) Summary {
	s := Summary{
		TotalProducts:       len(items),
		TotalInventoryValue: decimal.Zero,
		TotalSales:          decimal.Zero,
	}
	for _, it := range items {
		s.TotalStock += it.Quantity
		s.TotalInventoryValue = s.TotalInventoryValue.Add(it.Price.Mul(decimal.NewFromInt(it.Quantity)))
		s.TotalSales = s.TotalSales.Add(it.Price.Mul(decimal.NewFromInt(it.Sold)))
	}
	return s
}
