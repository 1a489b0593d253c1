package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stocklog/inventory-service/internal/apperr"
	"github.com/stocklog/inventory-service/internal/item"
	"github.com/stocklog/inventory-service/internal/model"
	"github.com/stocklog/inventory-service/internal/stock"
	"github.com/stocklog/inventory-service/internal/stock/dto"
	"github.com/stocklog/inventory-service/pkg/logger"
)

// In-memory stock repository with the same version-guard contract as
// the Postgres implementation.
type memStore struct {
	mu    sync.Mutex
	items map[string]model.Item
	logs  []model.LogEntry
}

func newMemStore() *memStore {
	return &memStore{items: make(map[string]model.Item)}
}

func (m *memStore) put(it model.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[it.ID] = it
}

func (m *memStore) get(id string) model.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[id]
}

func (m *memStore) allItems() []model.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Item, 0, len(m.items))
	for _, it := range m.items {
		out = append(out, it)
	}
	return out
}

func (m *memStore) GetItem(ctx context.Context, id string) (*model.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	cp := it
	return &cp, nil
}

func (m *memStore) ApplyWithLog(ctx context.Context, it *model.Item, entry *model.LogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.items[it.ID]
	if !ok || stored.Version != it.Version {
		return stock.ErrVersionConflict
	}
	next := *it
	next.Version++
	m.items[it.ID] = next
	m.logs = append(m.logs, *entry)
	return nil
}

func (m *memStore) ListLogs(ctx context.Context, ownerID, itemID string) ([]model.LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.LogEntry
	for i := len(m.logs) - 1; i >= 0; i-- {
		if m.logs[i].OwnerID == ownerID && m.logs[i].ItemID == itemID {
			out = append(out, m.logs[i])
		}
	}
	return out, nil
}

type memUsers struct {
	ids map[string]bool
}

func (m *memUsers) Exists(ctx context.Context, id string) (bool, error) {
	return m.ids[id], nil
}

// memLocker blocks until the per-key lock is free, which serializes
// mutations the way the Redis lock does in production.
type memLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newMemLocker() *memLocker {
	return &memLocker{locks: make(map[string]*sync.Mutex)}
}

func (m *memLocker) AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		l = &sync.Mutex{}
		m.locks[key] = l
	}
	m.mu.Unlock()
	l.Lock()
	return true, nil
}

func (m *memLocker) ReleaseLock(ctx context.Context, key, value string) error {
	m.mu.Lock()
	l := m.locks[key]
	m.mu.Unlock()
	l.Unlock()
	return nil
}

func seedItem(store *memStore, id, owner string, quantity int64, price string) {
	now := time.Now()
	store.put(model.Item{
		BaseModel: model.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now},
		OwnerID:   owner,
		Name:      "Widget",
		Quantity:  quantity,
		Price:     decimal.RequireFromString(price),
		SoldPrice: decimal.Zero,
		Category:  "tools",
		Version:   1,
	})
}

func newTestUseCase(store *memStore, userIDs ...string) stock.UseCase {
	users := &memUsers{ids: make(map[string]bool)}
	for _, id := range userIDs {
		users.ids[id] = true
	}
	return NewStockUseCase(store, users, newMemLocker(), logger.NewNop())
}

func TestIncrease_Exact(t *testing.T) {
	store := newMemStore()
	seedItem(store, "item-1", "user-1", 10, "2.00")
	uc := newTestUseCase(store, "user-1")

	entry, err := uc.Increase(context.Background(), "user-1", "item-1", &dto.AdjustInput{Quantity: 5, Description: "restock"})
	if err != nil {
		t.Fatalf("increase failed: %v", err)
	}

	it := store.get("item-1")
	if it.Quantity != 15 {
		t.Errorf("expected quantity 15, got %d", it.Quantity)
	}
	if it.Sold != 0 {
		t.Errorf("expected sold unchanged, got %d", it.Sold)
	}
	if entry.Action != model.ActionIncrease || entry.Quantity != 5 {
		t.Errorf("unexpected log entry: %+v", entry)
	}
}

func TestDecrease_WithinStock(t *testing.T) {
	store := newMemStore()
	seedItem(store, "item-1", "user-1", 10, "2.50")
	uc := newTestUseCase(store, "user-1")

	_, err := uc.Decrease(context.Background(), "user-1", "item-1", &dto.AdjustInput{Quantity: 4, Description: "sale"})
	if err != nil {
		t.Fatalf("decrease failed: %v", err)
	}

	it := store.get("item-1")
	if it.Quantity != 6 {
		t.Errorf("expected quantity 6, got %d", it.Quantity)
	}
	if it.Sold != 4 {
		t.Errorf("expected sold 4, got %d", it.Sold)
	}
	if want := decimal.RequireFromString("10.00"); !it.SoldPrice.Equal(want) {
		t.Errorf("expected sold_price %s, got %s", want, it.SoldPrice)
	}
}

func TestDecrease_SaturatesAtZeroAndLogsRequested(t *testing.T) {
	store := newMemStore()
	seedItem(store, "item-1", "user-1", 5, "2.00")
	uc := newTestUseCase(store, "user-1")

	entry, err := uc.Decrease(context.Background(), "user-1", "item-1", &dto.AdjustInput{Quantity: 100, Description: "sale"})
	if err != nil {
		t.Fatalf("decrease failed: %v", err)
	}

	it := store.get("item-1")
	if it.Quantity != 0 {
		t.Errorf("expected quantity 0, got %d", it.Quantity)
	}
	if it.Sold != 5 {
		t.Errorf("expected sold 5 (applied amount), got %d", it.Sold)
	}
	// The log records intent, not effect.
	if entry.Quantity != 100 {
		t.Errorf("expected logged quantity 100 (requested), got %d", entry.Quantity)
	}
}

func TestDecrease_EmptyItem(t *testing.T) {
	store := newMemStore()
	seedItem(store, "item-1", "user-1", 0, "2.00")
	uc := newTestUseCase(store, "user-1")

	entry, err := uc.Decrease(context.Background(), "user-1", "item-1", &dto.AdjustInput{Quantity: 3, Description: "sale"})
	if err != nil {
		t.Fatalf("decrease failed: %v", err)
	}

	it := store.get("item-1")
	if it.Quantity != 0 || it.Sold != 0 {
		t.Errorf("expected no effect on empty item, got quantity=%d sold=%d", it.Quantity, it.Sold)
	}
	if entry.Quantity != 3 {
		t.Errorf("expected logged quantity 3, got %d", entry.Quantity)
	}
}

func TestDecrease_SoldPriceUsesCurrentPrice(t *testing.T) {
	store := newMemStore()
	seedItem(store, "item-1", "user-1", 10, "2.00")
	uc := newTestUseCase(store, "user-1")

	if _, err := uc.Decrease(context.Background(), "user-1", "item-1", &dto.AdjustInput{Quantity: 2, Description: "sale"}); err != nil {
		t.Fatalf("decrease failed: %v", err)
	}

	// Reprice and sell again: sold_price is recomputed from scratch at
	// the price in effect at the mutation.
	it := store.get("item-1")
	it.Price = decimal.RequireFromString("3.00")
	store.put(it)

	if _, err := uc.Decrease(context.Background(), "user-1", "item-1", &dto.AdjustInput{Quantity: 3, Description: "sale"}); err != nil {
		t.Fatalf("decrease failed: %v", err)
	}

	it = store.get("item-1")
	if want := decimal.RequireFromString("15.00"); !it.SoldPrice.Equal(want) {
		t.Errorf("expected sold_price %s (5 sold at current price 3.00), got %s", want, it.SoldPrice)
	}
}

func TestMutate_Validation(t *testing.T) {
	store := newMemStore()
	seedItem(store, "item-1", "user-1", 10, "2.00")
	uc := newTestUseCase(store, "user-1")

	cases := []struct {
		name  string
		input dto.AdjustInput
	}{
		{"zero quantity", dto.AdjustInput{Quantity: 0, Description: "x"}},
		{"negative quantity", dto.AdjustInput{Quantity: -5, Description: "x"}},
		{"empty description", dto.AdjustInput{Quantity: 1, Description: "  "}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Increase(context.Background(), "user-1", "item-1", &tc.input)
			if !apperr.IsKind(err, apperr.KindValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
			_, err = uc.Decrease(context.Background(), "user-1", "item-1", &tc.input)
			if !apperr.IsKind(err, apperr.KindValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}

	if it := store.get("item-1"); it.Quantity != 10 || len(store.logs) != 0 {
		t.Errorf("rejected mutations must not change state: %+v logs=%d", it, len(store.logs))
	}
}

func TestMutate_Guard(t *testing.T) {
	store := newMemStore()
	seedItem(store, "item-1", "user-1", 10, "2.00")
	uc := newTestUseCase(store, "user-1", "user-2")
	input := &dto.AdjustInput{Quantity: 1, Description: "x"}

	if _, err := uc.Increase(context.Background(), "ghost", "item-1", input); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("expected not found for unknown user, got %v", err)
	}
	if _, err := uc.Increase(context.Background(), "user-1", "missing", input); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("expected not found for missing item, got %v", err)
	}
	if _, err := uc.Decrease(context.Background(), "user-2", "item-1", input); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("expected forbidden for foreign item, got %v", err)
	}

	if it := store.get("item-1"); it.Quantity != 10 {
		t.Errorf("guard failures must not mutate, got quantity %d", it.Quantity)
	}
}

func TestListLogs(t *testing.T) {
	store := newMemStore()
	seedItem(store, "item-1", "user-1", 10, "2.00")
	seedItem(store, "item-2", "user-2", 10, "2.00")
	uc := newTestUseCase(store, "user-1", "user-2")

	if _, err := uc.Increase(context.Background(), "user-1", "item-1", &dto.AdjustInput{Quantity: 1, Description: "a"}); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.Decrease(context.Background(), "user-1", "item-1", &dto.AdjustInput{Quantity: 2, Description: "b"}); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.Increase(context.Background(), "user-2", "item-2", &dto.AdjustInput{Quantity: 9, Description: "c"}); err != nil {
		t.Fatal(err)
	}

	logs, err := uc.ListLogs(context.Background(), "user-1", "item-1")
	if err != nil {
		t.Fatalf("list logs failed: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 logs, got %d", len(logs))
	}

	if _, err := uc.ListLogs(context.Background(), "user-2", "item-1"); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("expected forbidden listing another user's logs, got %v", err)
	}
}

// End-to-end scenario: Widget with quantity 10 at 2.00, restock 5, then
// a big sale of 20.
func TestWidgetScenario(t *testing.T) {
	store := newMemStore()
	seedItem(store, "widget", "user-1", 10, "2.00")
	uc := newTestUseCase(store, "user-1")

	if _, err := uc.Increase(context.Background(), "user-1", "widget", &dto.AdjustInput{Quantity: 5, Description: "restock"}); err != nil {
		t.Fatalf("increase failed: %v", err)
	}
	if it := store.get("widget"); it.Quantity != 15 {
		t.Fatalf("expected quantity 15 after restock, got %d", it.Quantity)
	}

	if _, err := uc.Decrease(context.Background(), "user-1", "widget", &dto.AdjustInput{Quantity: 20, Description: "big sale"}); err != nil {
		t.Fatalf("decrease failed: %v", err)
	}

	it := store.get("widget")
	if it.Quantity != 0 {
		t.Errorf("expected quantity 0, got %d", it.Quantity)
	}
	if it.Sold != 15 {
		t.Errorf("expected sold 15, got %d", it.Sold)
	}
	if want := decimal.RequireFromString("30.00"); !it.SoldPrice.Equal(want) {
		t.Errorf("expected sold_price %s, got %s", want, it.SoldPrice)
	}

	logs, err := uc.ListLogs(context.Background(), "user-1", "widget")
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(logs))
	}
	quantities := map[int64]bool{}
	for _, l := range logs {
		quantities[l.Quantity] = true
	}
	if !quantities[5] || !quantities[20] {
		t.Errorf("expected log quantities 5 and 20, got %v", quantities)
	}

	summary := item.ComputeSummary(store.allItems())
	if want := decimal.RequireFromString("30.00"); !summary.TotalSales.Equal(want) {
		t.Errorf("expected total sales %s, got %s", want, summary.TotalSales)
	}
	if !summary.TotalInventoryValue.Equal(decimal.Zero) {
		t.Errorf("expected zero inventory value, got %s", summary.TotalInventoryValue)
	}
}

func TestMutate_Concurrent(t *testing.T) {
	store := newMemStore()
	seedItem(store, "item-1", "user-1", 100, "1.00")
	uc := newTestUseCase(store, "user-1")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := uc.Decrease(context.Background(), "user-1", "item-1", &dto.AdjustInput{Quantity: 1, Description: "sale"}); err != nil {
				t.Errorf("concurrent decrease failed: %v", err)
			}
		}()
	}
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := uc.Increase(context.Background(), "user-1", "item-1", &dto.AdjustInput{Quantity: 1, Description: "restock"}); err != nil {
				t.Errorf("concurrent increase failed: %v", err)
			}
		}()
	}
	wg.Wait()

	it := store.get("item-1")
	if it.Quantity != 80 {
		t.Errorf("expected quantity 80 after 50 decreases and 30 increases, got %d", it.Quantity)
	}
	if it.Quantity < 0 {
		t.Errorf("quantity must never go negative, got %d", it.Quantity)
	}
	if it.Sold != 50 {
		t.Errorf("expected sold 50, got %d", it.Sold)
	}
	if len(store.logs) != 80 {
		t.Errorf("expected 80 log entries, got %d", len(store.logs))
	}
}
