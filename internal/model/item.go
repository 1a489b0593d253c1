package model

import "github.com/shopspring/decimal"

type Item struct {
	BaseModel
	OwnerID     string          `db:"owner_id" json:"owner_id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	Quantity    int64           `db:"quantity" json:"quantity"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Sold        int64           `db:"sold" json:"sold"`
	SoldPrice   decimal.Decimal `db:"sold_price" json:"sold_price"`
	Category    string          `db:"category" json:"category"`
	Version     int64           `db:"version" json:"-"` // optimistic locking
}
