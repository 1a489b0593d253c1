package stock

import (
	"context"
	"errors"
	"time"

	"github.com/stocklog/inventory-service/internal/model"
)

// ErrVersionConflict reports that the item row changed between read and
// write; the version-guarded UPDATE matched no row.
var ErrVersionConflict = errors.New("item version conflict")

type Repository interface {
	GetItem(ctx context.Context, id string) (*model.Item, error)

	// ApplyWithLog persists the mutated item and appends its log entry in
	// one transaction. The item write is guarded on item.Version and
	// fails with ErrVersionConflict when the row moved underneath us.
	ApplyWithLog(ctx context.Context, item *model.Item, entry *model.LogEntry) error

	ListLogs(ctx context.Context, ownerID, itemID string) ([]model.LogEntry, error)
}

// UserDirectory is the identity-store collaboration the guard needs.
type UserDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Locker serializes mutations per item across processes.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}
