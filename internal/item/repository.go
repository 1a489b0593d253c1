package item

import (
	"context"

	"github.com/stocklog/inventory-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, item *model.Item) error
	FindByID(ctx context.Context, id string) (*model.Item, error)
	// FindByOwner lists an owner's items, optionally restricted to one
	// category ("" means all).
	FindByOwner(ctx context.Context, ownerID, category string) ([]model.Item, error)
	Update(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, id string) error
}

// UserDirectory is the identity-store collaboration the guard needs.
type UserDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}
