package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/stocklog/inventory-service/internal/apperr"
	"github.com/stocklog/inventory-service/internal/item"
	"github.com/stocklog/inventory-service/internal/item/dto"
	"github.com/stocklog/inventory-service/internal/model"
	"github.com/stocklog/inventory-service/pkg/logger"
)

type itemUseCase struct {
	repo   item.Repository
	users  item.UserDirectory
	logger logger.Logger
}

func NewItemUseCase(repo item.Repository, users item.UserDirectory, log logger.Logger) item.UseCase {
	return &itemUseCase{
		repo:   repo,
		users:  users,
		logger: log,
	}
}

// requireUser is the identity half of the ownership guard.
func (uc *itemUseCase) requireUser(ctx context.Context, ownerID string) error {
	exists, err := uc.users.Exists(ctx, ownerID)
	if err != nil {
		return apperr.Storage(err)
	}
	if !exists {
		return apperr.NotFound("user does not exist")
	}
	return nil
}

// getOwned loads the item and enforces the full ownership guard.
func (uc *itemUseCase) getOwned(ctx context.Context, ownerID, itemID string) (*model.Item, error) {
	if err := uc.requireUser(ctx, ownerID); err != nil {
		return nil, err
	}

	it, err := uc.repo.FindByID(ctx, itemID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if it == nil {
		return nil, apperr.NotFound("item does not exist")
	}
	if it.OwnerID != ownerID {
		return nil, apperr.Forbidden("item belongs to another user")
	}
	return it, nil
}

func (uc *itemUseCase) CreateItem(ctx context.Context, ownerID string, input *dto.CreateItemInput) (*model.Item, error) {
	if err := uc.requireUser(ctx, ownerID); err != nil {
		return nil, err
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Category = strings.TrimSpace(input.Category)

	if input.Name == "" {
		return nil, apperr.Validationf("name is required")
	}
	if input.Category == "" {
		return nil, apperr.Validationf("category is required")
	}
	if input.Quantity < 0 {
		return nil, apperr.Validationf("quantity cannot be negative")
	}
	if !input.Price.IsPositive() {
		return nil, apperr.Validationf("price must be positive")
	}

	now := time.Now()
	it := &model.Item{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		OwnerID:     ownerID,
		Name:        input.Name,
		Description: input.Description,
		Quantity:    input.Quantity,
		Price:       input.Price,
		Sold:        0,
		SoldPrice:   decimal.Zero,
		Category:    input.Category,
		Version:     1,
	}

	if err := uc.repo.Create(ctx, it); err != nil {
		return nil, apperr.Storage(err)
	}

	uc.logger.Info("item created",
		zap.String("item_id", it.ID),
		zap.String("owner_id", ownerID),
	)
	return it, nil
}

func (uc *itemUseCase) GetItem(ctx context.Context, ownerID, itemID string) (*model.Item, error) {
	return uc.getOwned(ctx, ownerID, itemID)
}

func (uc *itemUseCase) ListItems(ctx context.Context, ownerID, category string) ([]model.Item, error) {
	if err := uc.requireUser(ctx, ownerID); err != nil {
		return nil, err
	}

	items, err := uc.repo.FindByOwner(ctx, ownerID, category)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return items, nil
}

func (uc *itemUseCase) UpdateItem(ctx context.Context, ownerID, itemID string, input *dto.UpdateItemInput) (*model.Item, error) {
	it, err := uc.getOwned(ctx, ownerID, itemID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apperr.Validationf("name cannot be empty")
		}
		it.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		it.Description = *input.Description
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			return nil, apperr.Validationf("quantity cannot be negative")
		}
		it.Quantity = *input.Quantity
	}
	if input.Price != nil {
		if !input.Price.IsPositive() {
			return nil, apperr.Validationf("price must be positive")
		}
		it.Price = *input.Price
	}
	if input.Category != nil {
		if strings.TrimSpace(*input.Category) == "" {
			return nil, apperr.Validationf("category cannot be empty")
		}
		it.Category = strings.TrimSpace(*input.Category)
	}

	it.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, it); err != nil {
		return nil, apperr.Storage(err)
	}
	return it, nil
}

func (uc *itemUseCase) DeleteItem(ctx context.Context, ownerID, itemID string) error {
	it, err := uc.getOwned(ctx, ownerID, itemID)
	if err != nil {
		return err
	}

	if err := uc.repo.Delete(ctx, it.ID); err != nil {
		return apperr.Storage(err)
	}

	uc.logger.Info("item deleted",
		zap.String("item_id", it.ID),
		zap.String("owner_id", ownerID),
	)
	return nil
}

func (uc *itemUseCase) Summarize(ctx context.Context, ownerID string) (*item.Summary, error) {
	if err := uc.requireUser(ctx, ownerID); err != nil {
		return nil, err
	}

	items, err := uc.repo.FindByOwner(ctx, ownerID, "")
	if err != nil {
		return nil, apperr.Storage(err)
	}

	s := item.ComputeSummary(items)
	return &s, nil
}
