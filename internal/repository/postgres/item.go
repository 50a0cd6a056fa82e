package postgres

import (
	"context"
	"fmt"

	"gudangsewa-backend/internal/domain"
)

type itemRepository struct {
	q DBTX
}

const itemColumns = `id, name, total_quantity, available_quantity, unit, base_rental_price, photo_path`

func (r *itemRepository) GetByID(ctx context.Context, id int32) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

func (r *itemRepository) GetForUpdate(ctx context.Context, id int32) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

func (r *itemRepository) UpdateAvailable(ctx context.Context, id, available int32) error {
	query := `UPDATE items SET available_quantity = $1 WHERE id = $2`
	res, err := r.q.ExecContext(ctx, query, available, id)
	if err != nil {
		return fmt.Errorf("update item %d stock: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *itemRepository) List(ctx context.Context) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY name ASC`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.TotalQuantity, &it.AvailableQuantity, &it.Unit, &it.BaseRentalPrice, &it.PhotoPath); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *itemRepository) scanOne(row interface{ Scan(dest ...any) error }) (*domain.Item, error) {
	it := &domain.Item{}
	err := row.Scan(&it.ID, &it.Name, &it.TotalQuantity, &it.AvailableQuantity, &it.Unit, &it.BaseRentalPrice, &it.PhotoPath)
	if err != nil {
		return nil, asDomainErr(err)
	}
	return it, nil
}
