package user

import (
	"context"

	"github.com/stocklog/inventory-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id string) error

	// Exists is the identity check other features use to authorize
	// mutations against a caller id.
	Exists(ctx context.Context, id string) (bool, error)
}
