package service

import (
	"context"
	"fmt"
	"sort"

	"gudangsewa-backend/internal/domain"
	"gudangsewa-backend/internal/logger"
	"gudangsewa-backend/internal/repository"
)

// StockLedger owns the stock invariant 0 <= available <= total. Both methods
// mutate an item the caller has already locked via lockItems inside an open
// transaction, so concurrent reservations against the same item serialize on
// the row lock and the losing transaction re-validates and fails fast.
type StockLedger struct{}

func NewStockLedger() *StockLedger {
	return &StockLedger{}
}

// Reserve decrements the item's available stock by qty and returns the
// post-decrement value. Fails with domain.ErrInsufficientStock when fewer
// than qty units are available; nothing is written in that case.
func (sl *StockLedger) Reserve(ctx context.Context, items repository.ItemRepository, it *domain.Item, qty int32) (int32, error) {
	if qty <= 0 {
		return 0, fmt.Errorf("reserve %d of item %d: %w", qty, it.ID, domain.ErrInvalidQuantity)
	}
	if it.AvailableQuantity < qty {
		return 0, fmt.Errorf("item %q has %d of %d requested: %w", it.Name, it.AvailableQuantity, qty, domain.ErrInsufficientStock)
	}
	next := it.AvailableQuantity - qty
	if err := items.UpdateAvailable(ctx, it.ID, next); err != nil {
		return 0, err
	}
	it.AvailableQuantity = next
	return next, nil
}

// Release returns qty units of the item to available stock, clamped so it
// never exceeds total_quantity. A release past the total means a caller bug
// (qty_rented is the authoritative cap, enforced upstream); it is logged as
// a data-integrity fault and clamped rather than propagated.
func (sl *StockLedger) Release(ctx context.Context, items repository.ItemRepository, it *domain.Item, qty int32) (int32, error) {
	if qty <= 0 {
		return 0, fmt.Errorf("release %d of item %d: %w", qty, it.ID, domain.ErrInvalidQuantity)
	}
	next := it.AvailableQuantity + qty
	if next > it.TotalQuantity {
		logger.Error("Stock release exceeds total quantity, clamping",
			"item_id", it.ID,
			"available", it.AvailableQuantity,
			"release", qty,
			"total", it.TotalQuantity,
			"fault", domain.ErrDataIntegrity)
		next = it.TotalQuantity
	}
	if err := items.UpdateAvailable(ctx, it.ID, next); err != nil {
		return 0, err
	}
	it.AvailableQuantity = next
	return next, nil
}

// lockItems takes exclusive row locks on the given items in ascending id
// order, the fixed discipline that keeps overlapping multi-item operations
// from deadlocking. Duplicate ids are locked once. The returned map holds
// the locked rows for the rest of the transaction.
func lockItems(ctx context.Context, items repository.ItemRepository, ids []int32) (map[int32]*domain.Item, error) {
	sorted := make([]int32, 0, len(ids))
	seen := make(map[int32]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			sorted = append(sorted, id)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	locked := make(map[int32]*domain.Item, len(sorted))
	for _, id := range sorted {
		it, err := items.GetForUpdate(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("lock item %d: %w", id, err)
		}
		locked[id] = it
	}
	return locked, nil
}
