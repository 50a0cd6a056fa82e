package postgres

import (
	"context"

	"gudangsewa-backend/internal/domain"
)

type orderLineRepository struct {
	q DBTX
}

const lineColumns = `id, order_id, item_id, quantity_rented, quantity_returned_good, unit_price, line_total`

func (r *orderLineRepository) Create(ctx context.Context, l *domain.OrderLine) error {
	query := `INSERT INTO order_lines (order_id, item_id, quantity_rented, quantity_returned_good, unit_price, line_total)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := r.q.QueryRowContext(ctx, query, l.OrderID, l.ItemID, l.QuantityRented, l.QuantityReturnedGood, l.UnitPrice, l.LineTotal).Scan(&l.ID); err != nil {
		return asDomainErr(err)
	}
	return nil
}

func (r *orderLineRepository) GetByID(ctx context.Context, id int32) (*domain.OrderLine, error) {
	query := `SELECT ` + lineColumns + ` FROM order_lines WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

func (r *orderLineRepository) FindByOrderAndItem(ctx context.Context, orderID, itemID int32) (*domain.OrderLine, error) {
	query := `SELECT ` + lineColumns + ` FROM order_lines WHERE order_id = $1 AND item_id = $2`
	return r.scanOne(r.q.QueryRowContext(ctx, query, orderID, itemID))
}

func (r *orderLineRepository) ListByOrder(ctx context.Context, orderID int32) ([]domain.OrderLine, error) {
	query := `SELECT ` + lineColumns + ` FROM order_lines WHERE order_id = $1 ORDER BY id ASC`
	rows, err := r.q.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ItemID, &l.QuantityRented, &l.QuantityReturnedGood, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *orderLineRepository) Update(ctx context.Context, l *domain.OrderLine) error {
	query := `UPDATE order_lines SET quantity_rented=$1, quantity_returned_good=$2, unit_price=$3, line_total=$4 WHERE id=$5`
	res, err := r.q.ExecContext(ctx, query, l.QuantityRented, l.QuantityReturnedGood, l.UnitPrice, l.LineTotal, l.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *orderLineRepository) Delete(ctx context.Context, id int32) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM order_lines WHERE id = $1`, id)
	return err
}

func (r *orderLineRepository) scanOne(row interface{ Scan(dest ...any) error }) (*domain.OrderLine, error) {
	l := &domain.OrderLine{}
	err := row.Scan(&l.ID, &l.OrderID, &l.ItemID, &l.QuantityRented, &l.QuantityReturnedGood, &l.UnitPrice, &l.LineTotal)
	if err != nil {
		return nil, asDomainErr(err)
	}
	return l, nil
}
