package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/stocklog/inventory-service/internal/model"
	"github.com/stocklog/inventory-service/internal/stock"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetItem(ctx context.Context, id string) (*model.Item, error) {
	var item model.Item
	err := r.DB.GetContext(ctx, &item, `SELECT * FROM items WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *PGRepository) ApplyWithLog(ctx context.Context, item *model.Item, entry *model.LogEntry) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	updateQuery := `
        UPDATE items SET
            quantity = :quantity,
            sold = :sold,
            sold_price = :sold_price,
            version = version + 1,
            updated_at = :updated_at
        WHERE id = :id AND version = :version
    `
	res, err := tx.NamedExecContext(ctx, updateQuery, item)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return stock.ErrVersionConflict
	}

	insertQuery := `
        INSERT INTO log_entries (
            id, owner_id, item_id, action, quantity, description, created_at
        )
        VALUES (
            :id, :owner_id, :item_id, :action, :quantity, :description, :created_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, insertQuery, entry); err != nil {
		return fmt.Errorf("append log entry: %w", err)
	}

	return tx.Commit()
}

func (r *PGRepository) ListLogs(ctx context.Context, ownerID, itemID string) ([]model.LogEntry, error) {
	entries := []model.LogEntry{}
	query := `
        SELECT * FROM log_entries
        WHERE owner_id = $1 AND item_id = $2
        ORDER BY created_at DESC
    `
	err := r.DB.SelectContext(ctx, &entries, query, ownerID, itemID)
	return entries, err
}
