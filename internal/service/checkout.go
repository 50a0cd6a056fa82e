package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gudangsewa-backend/internal/domain"
	"gudangsewa-backend/internal/logger"
	"gudangsewa-backend/internal/repository"
)

// Checkout atomically converts the caller's draft into an active,
// stock-reserving order. Every precondition is re-checked inside one
// transaction with the order and all referenced items locked; a failed
// stock check on any line rolls back the whole reservation.
func (s *rentalService) Checkout(ctx context.Context, actor domain.Actor, req CheckoutRequest) (*domain.Order, error) {
	if req.ExpectedReturnDate == "" {
		return nil, fmt.Errorf("expected return date is required: %w", domain.ErrInvalidReturnDate)
	}
	due, err := time.Parse(domain.DateLayout, req.ExpectedReturnDate)
	if err != nil {
		return nil, fmt.Errorf("expected return date %q: %w", req.ExpectedReturnDate, domain.ErrInvalidReturnDate)
	}
	now, _ := time.Parse(domain.DateLayout, today())
	if due.Before(now) {
		return nil, fmt.Errorf("expected return date %q is in the past: %w", req.ExpectedReturnDate, domain.ErrInvalidReturnDate)
	}
	if req.DownPayment < 0 {
		return nil, fmt.Errorf("down payment %d: %w", req.DownPayment, domain.ErrInvalidQuantity)
	}

	var out *domain.Order
	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		var o *domain.Order
		var err error
		if req.OrderID > 0 {
			o, err = tx.Orders().GetForUpdate(ctx, req.OrderID)
			if err != nil {
				return fmt.Errorf("order %d: %w", req.OrderID, err)
			}
			if o.Username != actor.Username {
				return fmt.Errorf("order %d belongs to another borrower: %w", o.ID, domain.ErrForbidden)
			}
		} else {
			draft, err2 := tx.Orders().FindDraftByUsername(ctx, actor.Username)
			if err2 != nil {
				return fmt.Errorf("draft order: %w", err2)
			}
			// The find is a plain read; the status precondition only counts
			// once the row is locked.
			o, err = tx.Orders().GetForUpdate(ctx, draft.ID)
			if err != nil {
				return fmt.Errorf("order %d: %w", draft.ID, err)
			}
		}

		if !o.Status.CanTransitionTo(domain.OrderStatusActive) {
			return fmt.Errorf("checkout of %s order %d: %w", o.Status, o.ID, domain.ErrInvalidStateTransition)
		}

		lines, err := tx.OrderLines().ListByOrder(ctx, o.ID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return fmt.Errorf("order %d: %w", o.ID, domain.ErrEmptyCart)
		}

		ids := make([]int32, len(lines))
		for i, ln := range lines {
			ids[i] = ln.ItemID
		}
		locked, err := lockItems(ctx, tx.Items(), ids)
		if err != nil {
			return err
		}

		// Reserve in ascending item id order, the same order the locks were
		// taken in. Cart-time availability was only advisory; this is the
		// authoritative check.
		sort.Slice(lines, func(i, j int) bool { return lines[i].ItemID < lines[j].ItemID })
		var grandTotal int32
		for _, ln := range lines {
			if _, err := s.stock.Reserve(ctx, tx.Items(), locked[ln.ItemID], ln.QuantityRented); err != nil {
				return fmt.Errorf("checkout order %d: %w", o.ID, err)
			}
			grandTotal += ln.LineTotal
		}

		if req.DownPayment > grandTotal {
			return fmt.Errorf("down payment %d exceeds total %d: %w", req.DownPayment, grandTotal, domain.ErrInvalidQuantity)
		}

		due := req.ExpectedReturnDate
		o.TotalRentalCost = grandTotal
		o.TotalDownPayment = req.DownPayment
		o.RentalDate = today()
		o.ExpectedReturnDate = &due
		o.Status = domain.OrderStatusActive
		if err := tx.Orders().Update(ctx, o); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Order checked out",
		"order_id", out.ID,
		"username", out.Username,
		"total", out.TotalRentalCost,
		"due", req.ExpectedReturnDate)
	return out, nil
}
