package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gudangsewa-backend/internal/domain"
	"gudangsewa-backend/internal/repository/postgres"
)

// Checkout without an explicit order id locates the draft with a plain read.
// The status precondition must then run against a locked re-read of the
// order row, or two concurrent checkouts of the same cart could both see
// "draft" and reserve the lines twice. This scripts the exact SQL sequence
// and fails if no lock is taken on the order before the line queries.
func TestCheckoutDraftPathLocksOrderRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := postgres.NewStore(db)
	svc := NewRentalService(store, NewStockLedger())

	orderCols := []string{"id", "username", "rental_date", "expected_return_date", "status", "total_rental_cost", "total_down_payment"}
	due := futureDate(3)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM orders WHERE username = \$1 AND status = \$2 ORDER BY id DESC LIMIT 1`).
		WithArgs(member.Username, domain.OrderStatusDraft).
		WillReturnRows(sqlmock.NewRows(orderCols).AddRow(7, member.Username, "2026-08-28", nil, "draft", 0, 0))
	mock.ExpectQuery(`SELECT .+ FROM orders WHERE id = \$1 FOR UPDATE`).
		WithArgs(int32(7)).
		WillReturnRows(sqlmock.NewRows(orderCols).AddRow(7, member.Username, "2026-08-28", nil, "draft", 0, 0))
	mock.ExpectQuery(`SELECT .+ FROM order_lines WHERE order_id = \$1 ORDER BY id ASC`).
		WithArgs(int32(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "item_id", "quantity_rented", "quantity_returned_good", "unit_price", "line_total"}).
			AddRow(1, 7, 1, 2, 0, 100, 200))
	mock.ExpectQuery(`SELECT .+ FROM items WHERE id = \$1 FOR UPDATE`).
		WithArgs(int32(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "total_quantity", "available_quantity", "unit", "base_rental_price", "photo_path"}).
			AddRow(1, "Tenda Dome", 10, 5, "unit", 100, ""))
	mock.ExpectExec(`UPDATE items SET available_quantity`).
		WithArgs(int32(3), int32(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE orders SET`).
		WithArgs(sqlmock.AnyArg(), due, domain.OrderStatusActive, int32(200), int32(0), int32(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	order, err := svc.Checkout(context.Background(), member, CheckoutRequest{ExpectedReturnDate: due})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusActive, order.Status)
	assert.Equal(t, int32(200), order.TotalRentalCost)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A draft flipped to aktif by a competing checkout between the find and the
// lock must fail the status check once the locked re-read sees it.
func TestCheckoutDraftPathRejectsConcurrentlyCommittedDraft(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := postgres.NewStore(db)
	svc := NewRentalService(store, NewStockLedger())

	orderCols := []string{"id", "username", "rental_date", "expected_return_date", "status", "total_rental_cost", "total_down_payment"}
	due := futureDate(3)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM orders WHERE username = \$1 AND status = \$2 ORDER BY id DESC LIMIT 1`).
		WithArgs(member.Username, domain.OrderStatusDraft).
		WillReturnRows(sqlmock.NewRows(orderCols).AddRow(7, member.Username, "2026-08-28", nil, "draft", 0, 0))
	mock.ExpectQuery(`SELECT .+ FROM orders WHERE id = \$1 FOR UPDATE`).
		WithArgs(int32(7)).
		WillReturnRows(sqlmock.NewRows(orderCols).AddRow(7, member.Username, "2026-08-28", due, "aktif", 200, 0))
	mock.ExpectRollback()

	_, err = svc.Checkout(context.Background(), member, CheckoutRequest{ExpectedReturnDate: due})
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}
