package service

import (
	"context"
	"fmt"
	"time"

	"gudangsewa-backend/internal/domain"
	"gudangsewa-backend/internal/logger"
	"gudangsewa-backend/internal/repository"
)

type settlementService struct {
	store repository.Store
	stock *StockLedger
}

func NewSettlementService(store repository.Store, stock *StockLedger) SettlementService {
	return &settlementService{store: store, stock: stock}
}

// ProcessReturn settles a partial or full return against an active or
// overdue order. Good units go back to available stock; damaged or lost
// units leave the pool permanently and accrue a penalty record per line.
// Everything, including the resulting status transition, commits in one
// transaction with the order and all referenced items locked.
func (s *settlementService) ProcessReturn(ctx context.Context, actor domain.Actor, req ReturnRequest) (*domain.Order, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("return processing requires admin role: %w", domain.ErrForbidden)
	}
	for _, r := range req.Returns {
		if r.QuantityGood < 0 {
			return nil, fmt.Errorf("returned quantity %d for item %d: %w", r.QuantityGood, r.ItemID, domain.ErrInvalidQuantity)
		}
	}
	for _, e := range req.DamageLoss {
		if e.QuantityDamaged < 0 || e.QuantityLost < 0 {
			return nil, fmt.Errorf("damage/loss quantities for line %d: %w", e.LineID, domain.ErrInvalidQuantity)
		}
		if e.PenaltyPerUnit < 0 {
			return nil, fmt.Errorf("penalty per unit %d for line %d: %w", e.PenaltyPerUnit, e.LineID, domain.ErrInvalidQuantity)
		}
	}

	var out *domain.Order
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		o, err := tx.Orders().GetForUpdate(ctx, req.OrderID)
		if err != nil {
			return fmt.Errorf("order %d: %w", req.OrderID, err)
		}
		if !o.Status.IsReturnable() {
			return fmt.Errorf("return against %s order %d: %w", o.Status, o.ID, domain.ErrInvalidStateTransition)
		}

		lines, err := tx.OrderLines().ListByOrder(ctx, o.ID)
		if err != nil {
			return err
		}
		byItem := make(map[int32]*domain.OrderLine, len(lines))
		byLine := make(map[int32]*domain.OrderLine, len(lines))
		ids := make([]int32, len(lines))
		for i := range lines {
			byItem[lines[i].ItemID] = &lines[i]
			byLine[lines[i].ID] = &lines[i]
			ids[i] = lines[i].ItemID
		}

		// Same lock-ordering discipline as checkout.
		locked, err := lockItems(ctx, tx.Items(), ids)
		if err != nil {
			return err
		}

		for _, r := range req.Returns {
			if r.QuantityGood == 0 {
				continue
			}
			ln, ok := byItem[r.ItemID]
			if !ok {
				return fmt.Errorf("order %d has no line for item %d: %w", o.ID, r.ItemID, domain.ErrNotFound)
			}
			outstanding := ln.QuantityRented - ln.QuantityReturnedGood
			if r.QuantityGood > outstanding {
				return fmt.Errorf("returning %d of item %d with %d outstanding: %w", r.QuantityGood, r.ItemID, outstanding, domain.ErrInvalidQuantity)
			}
			ln.QuantityReturnedGood += r.QuantityGood
			if err := tx.OrderLines().Update(ctx, ln); err != nil {
				return err
			}
			if _, err := s.stock.Release(ctx, tx.Items(), locked[ln.ItemID], r.QuantityGood); err != nil {
				return err
			}
		}

		for _, e := range req.DamageLoss {
			ln, ok := byLine[e.LineID]
			if !ok {
				return fmt.Errorf("order %d has no line %d: %w", o.ID, e.LineID, domain.ErrNotFound)
			}
			total := e.QuantityDamaged + e.QuantityLost
			if total == 0 {
				if err := tx.DamageLoss().DeleteByLineID(ctx, e.LineID); err != nil {
					return err
				}
				continue
			}
			if ln.QuantityReturnedGood+total > ln.QuantityRented {
				return fmt.Errorf("damage/loss of %d plus %d returned exceeds %d rented on line %d: %w",
					total, ln.QuantityReturnedGood, ln.QuantityRented, ln.ID, domain.ErrInvalidQuantity)
			}

			penalty := e.PenaltyPerUnit
			if penalty <= 0 {
				penalty, err = s.resolvePenalty(ctx, tx, locked[ln.ItemID])
				if err != nil {
					return err
				}
			}
			rec := &domain.DamageLossRecord{
				LineID:          e.LineID,
				QuantityDamaged: e.QuantityDamaged,
				QuantityLost:    e.QuantityLost,
				PenaltyPerUnit:  penalty,
				PenaltySubtotal: total * penalty,
			}
			if err := tx.DamageLoss().Upsert(ctx, rec); err != nil {
				return err
			}
		}

		next, err := s.nextStatus(ctx, tx, o, lines)
		if err != nil {
			return err
		}
		if next != o.Status {
			if !o.Status.CanTransitionTo(next) {
				return fmt.Errorf("order %d %s -> %s: %w", o.ID, o.Status, next, domain.ErrInvalidStateTransition)
			}
			o.Status = next
			if err := tx.Orders().Update(ctx, o); err != nil {
				return err
			}
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Return processed", "order_id", out.ID, "status", out.Status)
	return out, nil
}

// resolvePenalty picks the per-unit penalty when none was supplied: the
// item's replacement cost if one is recorded, otherwise its base price.
func (s *settlementService) resolvePenalty(ctx context.Context, tx repository.Store, it *domain.Item) (int32, error) {
	rc, err := tx.ReplacementCosts().LatestByItemID(ctx, it.ID)
	switch err {
	case nil:
		return rc.Price, nil
	case domain.ErrNotFound:
		return it.BaseRentalPrice, nil
	default:
		return 0, err
	}
}

// nextStatus recomputes the order status after a settlement pass. An order
// completes once every unit of every line is returned good, damaged, or
// lost; completion after the due date, or any outstanding unit past the due
// date, makes it overdue instead.
func (s *settlementService) nextStatus(ctx context.Context, tx repository.Store, o *domain.Order, lines []domain.OrderLine) (domain.OrderStatus, error) {
	recs, err := tx.DamageLoss().ListByOrder(ctx, o.ID)
	if err != nil {
		return o.Status, err
	}
	recByLine := make(map[int32]domain.DamageLossRecord, len(recs))
	for _, r := range recs {
		recByLine[r.LineID] = r
	}

	resolved := true
	for _, ln := range lines {
		rec := recByLine[ln.ID]
		if ln.QuantityReturnedGood+rec.QuantityDamaged+rec.QuantityLost < ln.QuantityRented {
			resolved = false
			break
		}
	}

	late := false
	if o.ExpectedReturnDate != nil {
		due, err := time.Parse(domain.DateLayout, *o.ExpectedReturnDate)
		if err != nil {
			return o.Status, fmt.Errorf("order %d due date %q: %w", o.ID, *o.ExpectedReturnDate, err)
		}
		now, _ := time.Parse(domain.DateLayout, today())
		late = now.After(due)
	}

	switch {
	case resolved && !late:
		return domain.OrderStatusCompleted, nil
	case resolved && late:
		// Fully settled but after the due date. An already-overdue order that
		// just got its last unit back still completes.
		if o.Status == domain.OrderStatusOverdue {
			return domain.OrderStatusCompleted, nil
		}
		return domain.OrderStatusOverdue, nil
	case late:
		return domain.OrderStatusOverdue, nil
	default:
		return domain.OrderStatusActive, nil
	}
}

func (s *settlementService) ListPenalties(ctx context.Context, actor domain.Actor, orderID int32) ([]PenaltyDetail, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("penalty listing requires admin role: %w", domain.ErrForbidden)
	}
	if _, err := s.store.Orders().GetByID(ctx, orderID); err != nil {
		return nil, fmt.Errorf("order %d: %w", orderID, err)
	}

	recs, err := s.store.DamageLoss().ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	lines, err := s.store.OrderLines().ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	lineByID := make(map[int32]domain.OrderLine, len(lines))
	for _, ln := range lines {
		lineByID[ln.ID] = ln
	}

	details := make([]PenaltyDetail, 0, len(recs))
	for _, rec := range recs {
		ln := lineByID[rec.LineID]
		it, err := s.store.Items().GetByID(ctx, ln.ItemID)
		if err != nil {
			return nil, fmt.Errorf("item %d for line %d: %w", ln.ItemID, ln.ID, err)
		}
		details = append(details, PenaltyDetail{
			DamageLossRecord: rec,
			OrderID:          orderID,
			ItemID:           ln.ItemID,
			ItemName:         it.Name,
		})
	}
	return details, nil
}
