package dto

import "github.com/shopspring/decimal"

type CreateItemInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
}

// UpdateItemInput patches individual fields: nil leaves a field
// unchanged, a non-nil pointer sets it, including to zero or "".
// Sold and sold price are deliberately absent; only the mutation
// engine writes them.
type UpdateItemInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Quantity    *int64           `json:"quantity"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
}
