package postgres

import (
	"context"

	"gudangsewa-backend/internal/domain"
)

type orderRepository struct {
	q DBTX
}

// Date columns are cast to text so they scan as plain "2006-01-02" strings.
const orderColumns = `id, username, rental_date::text, expected_return_date::text, status, total_rental_cost, total_down_payment`

func (r *orderRepository) Create(ctx context.Context, o *domain.Order) error {
	query := `INSERT INTO orders (username, rental_date, expected_return_date, status, total_rental_cost, total_down_payment)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := r.q.QueryRowContext(ctx, query, o.Username, o.RentalDate, o.ExpectedReturnDate, o.Status, o.TotalRentalCost, o.TotalDownPayment).Scan(&o.ID); err != nil {
		return asDomainErr(err)
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int32) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

func (r *orderRepository) GetForUpdate(ctx context.Context, id int32) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

func (r *orderRepository) FindDraftByUsername(ctx context.Context, username string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE username = $1 AND status = $2 ORDER BY id DESC LIMIT 1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, username, domain.OrderStatusDraft))
}

func (r *orderRepository) Update(ctx context.Context, o *domain.Order) error {
	query := `UPDATE orders SET rental_date=$1, expected_return_date=$2, status=$3, total_rental_cost=$4, total_down_payment=$5 WHERE id=$6`
	res, err := r.q.ExecContext(ctx, query, o.RentalDate, o.ExpectedReturnDate, o.Status, o.TotalRentalCost, o.TotalDownPayment, o.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *orderRepository) ListByUsername(ctx context.Context, username string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE username = $1 AND status <> $2 ORDER BY id DESC`
	rows, err := r.q.QueryContext(ctx, query, username, domain.OrderStatusDraft)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.Username, &o.RentalDate, &o.ExpectedReturnDate, &o.Status, &o.TotalRentalCost, &o.TotalDownPayment); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *orderRepository) scanOne(row interface{ Scan(dest ...any) error }) (*domain.Order, error) {
	o := &domain.Order{}
	err := row.Scan(&o.ID, &o.Username, &o.RentalDate, &o.ExpectedReturnDate, &o.Status, &o.TotalRentalCost, &o.TotalDownPayment)
	if err != nil {
		return nil, asDomainErr(err)
	}
	return o, nil
}
