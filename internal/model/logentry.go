package model

import "time"

// Action is the closed set of quantity-changing operations an audit
// entry can record.
type Action string

const (
	ActionIncrease Action = "increase"
	ActionDecrease Action = "decrease"
)

func (a Action) Valid() bool {
	return a == ActionIncrease || a == ActionDecrease
}

// LogEntry is an immutable audit record of one quantity change. Quantity
// holds the magnitude the caller requested, which for a capped decrease
// may exceed the amount actually removed from stock.
type LogEntry struct {
	ID          string    `db:"id" json:"id"`
	OwnerID     string    `db:"owner_id" json:"owner_id"`
	ItemID      string    `db:"item_id" json:"item_id"`
	Action      Action    `db:"action" json:"action"`
	Quantity    int64     `db:"quantity" json:"quantity"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
