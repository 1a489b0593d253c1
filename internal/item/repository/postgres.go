package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/stocklog/inventory-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, item *model.Item) error {
	query := `
        INSERT INTO items (
            id, owner_id, name, description, quantity, price,
            sold, sold_price, category, version, created_at, updated_at
        )
        VALUES (
            :id, :owner_id, :name, :description, :quantity, :price,
            :sold, :sold_price, :category, :version, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, item)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Item, error) {
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

func (r *PGRepository) FindByOwner(ctx context.Context, ownerID, category string) ([]model.Item, error) {
	items := []model.Item{}

	query := `SELECT * FROM items WHERE owner_id = $1`
	args := []interface{}{ownerID}
	if category != "" {
		query += ` AND category = $2`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC`

	err := r.DB.SelectContext(ctx, &items, query, args...)
	return items, err
}

func (r *PGRepository) Update(ctx context.Context, item *model.Item) error {
	query := `
        UPDATE items SET
            name = :name,
            description = :description,
            quantity = :quantity,
            price = :price,
            category = :category,
            version = version + 1,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, item)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	// Log entries are retained on purpose; the audit trail outlives the item.
	_, err := r.DB.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	return err
}
