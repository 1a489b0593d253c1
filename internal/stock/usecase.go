package stock

import (
	"context"

	"github.com/stocklog/inventory-service/internal/model"
	"github.com/stocklog/inventory-service/internal/stock/dto"
)

// UseCase is the inventory mutation engine: every quantity change goes
// through here and produces exactly one audit log entry.
type UseCase interface {
	Increase(ctx context.Context, ownerID, itemID string, input *dto.AdjustInput) (*model.LogEntry, error)
	Decrease(ctx context.Context, ownerID, itemID string, input *dto.AdjustInput) (*model.LogEntry, error)
	ListLogs(ctx context.Context, ownerID, itemID string) ([]model.LogEntry, error)
}
