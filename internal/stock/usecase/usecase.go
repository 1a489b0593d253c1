package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/stocklog/inventory-service/internal/apperr"
	"github.com/stocklog/inventory-service/internal/model"
	"github.com/stocklog/inventory-service/internal/stock"
	"github.com/stocklog/inventory-service/internal/stock/dto"
	"github.com/stocklog/inventory-service/pkg/logger"
)

const (
	lockTTL      = 5 * time.Second
	lockAttempts = 3
	lockBackoff  = 100 * time.Millisecond
)

type stockUseCase struct {
	repo   stock.Repository
	users  stock.UserDirectory
	locker stock.Locker
	logger logger.Logger
}

func NewStockUseCase(repo stock.Repository, users stock.UserDirectory, locker stock.Locker, log logger.Logger) stock.UseCase {
	return &stockUseCase{
		repo:   repo,
		users:  users,
		locker: locker,
		logger: log,
	}
}

func (uc *stockUseCase) Increase(ctx context.Context, ownerID, itemID string, input *dto.AdjustInput) (*model.LogEntry, error) {
	return uc.mutate(ctx, ownerID, itemID, model.ActionIncrease, input)
}

func (uc *stockUseCase) Decrease(ctx context.Context, ownerID, itemID string, input *dto.AdjustInput) (*model.LogEntry, error) {
	return uc.mutate(ctx, ownerID, itemID, model.ActionDecrease, input)
}

func (uc *stockUseCase) mutate(ctx context.Context, ownerID, itemID string, action model.Action, input *dto.AdjustInput) (*model.LogEntry, error) {
	if input.Quantity <= 0 {
		return nil, apperr.Validationf("quantity must be a positive integer")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, apperr.Validationf("description is required")
	}

	if err := uc.requireUser(ctx, ownerID); err != nil {
		return nil, err
	}

	release, err := uc.lockItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	defer release()

	item, err := uc.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if item == nil {
		return nil, apperr.NotFound("item does not exist")
	}
	if item.OwnerID != ownerID {
		return nil, apperr.Forbidden("item belongs to another user")
	}

	now := time.Now()
	switch action {
	case model.ActionIncrease:
		item.Quantity += input.Quantity
	case model.ActionDecrease:
		// A request larger than on-hand stock removes only what is
		// available; sold grows by the applied amount while the log
		// below records the requested amount.
		applied := input.Quantity
		if applied > item.Quantity {
			applied = item.Quantity
		}
		item.Sold += applied
		item.SoldPrice = item.Price.Mul(decimal.NewFromInt(item.Sold))
		item.Quantity -= applied
	}
	item.UpdatedAt = now

	entry := &model.LogEntry{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		ItemID:      itemID,
		Action:      action,
		Quantity:    input.Quantity,
		Description: input.Description,
		CreatedAt:   now,
	}

	if err := uc.repo.ApplyWithLog(ctx, item, entry); err != nil {
		return nil, apperr.Storage(err)
	}

	uc.logger.Info("stock mutated",
		zap.String("item_id", itemID),
		zap.String("action", string(action)),
		zap.Int64("requested", input.Quantity),
		zap.Int64("quantity_after", item.Quantity),
	)
	return entry, nil
}

func (uc *stockUseCase) ListLogs(ctx context.Context, ownerID, itemID string) ([]model.LogEntry, error) {
	if err := uc.requireUser(ctx, ownerID); err != nil {
		return nil, err
	}

	item, err := uc.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if item == nil {
		return nil, apperr.NotFound("item does not exist")
	}
	if item.OwnerID != ownerID {
		return nil, apperr.Forbidden("item belongs to another user")
	}

	entries, err := uc.repo.ListLogs(ctx, ownerID, itemID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return entries, nil
}

func (uc *stockUseCase) requireUser(ctx context.Context, ownerID string) error {
	exists, err := uc.users.Exists(ctx, ownerID)
	if err != nil {
		return apperr.Storage(err)
	}
	if !exists {
		return apperr.NotFound("user does not exist")
	}
	return nil
}

// lockItem serializes mutations on one item. Acquisition is retried a
// few times before giving up.
func (uc *stockUseCase) lockItem(ctx context.Context, itemID string) (func(), error) {
	lockKey := "lock:item:" + itemID
	lockValue := uuid.New().String()

	for i := 0; i < lockAttempts; i++ {
		ok, err := uc.locker.AcquireLock(ctx, lockKey, lockValue, lockTTL)
		if err != nil {
			uc.logger.Error("failed to acquire item lock", zap.String("item_id", itemID), zap.Error(err))
		}
		if ok {
			return func() {
				if err := uc.locker.ReleaseLock(ctx, lockKey, lockValue); err != nil {
					uc.logger.Error("failed to release item lock", zap.String("item_id", itemID), zap.Error(err))
				}
			}, nil
		}
		time.Sleep(lockBackoff)
	}

	return nil, apperr.New(apperr.KindStorage, "item is busy, please try again later")
}
