package item

import (
	"context"

	"github.com/stocklog/inventory-service/internal/item/dto"
	"github.com/stocklog/inventory-service/internal/model"
)

type UseCase interface {
	CreateItem(ctx context.Context, ownerID string, input *dto.CreateItemInput) (*model.Item, error)
	GetItem(ctx context.Context, ownerID, itemID string) (*model.Item, error)
	ListItems(ctx context.Context, ownerID, category string) ([]model.Item, error)
	UpdateItem(ctx context.Context, ownerID, itemID string, input *dto.UpdateItemInput) (*model.Item, error)
	DeleteItem(ctx context.Context, ownerID, itemID string) error
	Summarize(ctx context.Context, ownerID string) (*Summary, error)
}
