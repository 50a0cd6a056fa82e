package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gudangsewa-backend/internal/domain"
	"gudangsewa-backend/internal/repository"
)

type rentalService struct {
	store repository.Store
	stock *StockLedger
}

func NewRentalService(store repository.Store, stock *StockLedger) RentalService {
	return &rentalService{store: store, stock: stock}
}

func today() string {
	return time.Now().Format(domain.DateLayout)
}

// withConflictRetry reruns fn in a fresh transaction after a unique-constraint
// loss. Two first adds racing to create the same draft (or the same cart line)
// abort the loser's transaction; on the rerun the find sees the winner's row.
func (s *rentalService) withConflictRetry(ctx context.Context, fn func(tx repository.Store) error) error {
	err := s.store.WithinTx(ctx, fn)
	if errors.Is(err, domain.ErrDuplicate) {
		err = s.store.WithinTx(ctx, fn)
	}
	return err
}

// getOrCreateDraft returns the caller's open cart, creating an empty one on
// first use. Must run inside a transaction so two concurrent first adds
// cannot both create a draft.
func (s *rentalService) getOrCreateDraft(ctx context.Context, tx repository.Store, actor domain.Actor) (*domain.Order, error) {
	draft, err := tx.Orders().FindDraftByUsername(ctx, actor.Username)
	if err == nil {
		return draft, nil
	}
	if err != domain.ErrNotFound {
		return nil, err
	}

	draft = &domain.Order{
		Username:   actor.Username,
		RentalDate: today(),
		Status:     domain.OrderStatusDraft,
	}
	if err := tx.Orders().Create(ctx, draft); err != nil {
		return nil, fmt.Errorf("create draft order: %w", err)
	}
	return draft, nil
}

func (s *rentalService) GetOrCreateDraft(ctx context.Context, actor domain.Actor) (*OrderDetail, error) {
	var detail *OrderDetail
	err := s.withConflictRetry(ctx, func(tx repository.Store) error {
		draft, err := s.getOrCreateDraft(ctx, tx, actor)
		if err != nil {
			return err
		}
		d, err := s.loadDetail(ctx, tx, draft)
		if err != nil {
			return err
		}
		detail = d
		return nil
	})
	return detail, err
}

func (s *rentalService) AddItem(ctx context.Context, actor domain.Actor, req AddItemRequest) (*domain.OrderLine, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("quantity %d: %w", req.Quantity, domain.ErrInvalidQuantity)
	}

	var line *domain.OrderLine
	err := s.withConflictRetry(ctx, func(tx repository.Store) error {
		draft, err := s.getOrCreateDraft(ctx, tx, actor)
		if err != nil {
			return err
		}

		it, err := tx.Items().GetForUpdate(ctx, req.ItemID)
		if err != nil {
			return fmt.Errorf("item %d: %w", req.ItemID, err)
		}
		// Advisory check only: the cart reserves nothing, checkout re-validates
		// under the same lock before decrementing.
		if it.AvailableQuantity < req.Quantity {
			return fmt.Errorf("item %q has %d available: %w", it.Name, it.AvailableQuantity, domain.ErrInsufficientStock)
		}

		existing, err := tx.OrderLines().FindByOrderAndItem(ctx, draft.ID, req.ItemID)
		switch err {
		case nil:
			// The stored unit price wins so one cart never mixes prices for
			// the same item.
			existing.QuantityRented += req.Quantity
			existing.LineTotal = existing.QuantityRented * existing.UnitPrice
			if err := tx.OrderLines().Update(ctx, existing); err != nil {
				return err
			}
			line = existing
			return nil
		case domain.ErrNotFound:
			unitPrice := it.BaseRentalPrice
			if actor.Role == domain.RoleNonMember {
				unitPrice *= 2
			}
			line = &domain.OrderLine{
				OrderID:        draft.ID,
				ItemID:         req.ItemID,
				QuantityRented: req.Quantity,
				UnitPrice:      unitPrice,
				LineTotal:      req.Quantity * unitPrice,
			}
			return tx.OrderLines().Create(ctx, line)
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

func (s *rentalService) UpdateItem(ctx context.Context, actor domain.Actor, req UpdateItemRequest) error {
	if req.Quantity < 0 {
		return fmt.Errorf("quantity %d: %w", req.Quantity, domain.ErrInvalidQuantity)
	}
	return s.store.WithinTx(ctx, func(tx repository.Store) error {
		draft, err := tx.Orders().FindDraftByUsername(ctx, actor.Username)
		if err != nil {
			return fmt.Errorf("draft order: %w", err)
		}
		line, err := tx.OrderLines().FindByOrderAndItem(ctx, draft.ID, req.ItemID)
		if err != nil {
			return fmt.Errorf("cart line for item %d: %w", req.ItemID, err)
		}

		if req.Quantity == 0 {
			return tx.OrderLines().Delete(ctx, line.ID)
		}

		it, err := tx.Items().GetForUpdate(ctx, req.ItemID)
		if err != nil {
			return fmt.Errorf("item %d: %w", req.ItemID, err)
		}
		if it.AvailableQuantity < req.Quantity {
			return fmt.Errorf("item %q has %d available: %w", it.Name, it.AvailableQuantity, domain.ErrInsufficientStock)
		}

		line.QuantityRented = req.Quantity
		line.LineTotal = req.Quantity * line.UnitPrice
		return tx.OrderLines().Update(ctx, line)
	})
}

func (s *rentalService) RemoveItem(ctx context.Context, actor domain.Actor, itemID int32) error {
	return s.store.WithinTx(ctx, func(tx repository.Store) error {
		draft, err := tx.Orders().FindDraftByUsername(ctx, actor.Username)
		if err != nil {
			return fmt.Errorf("draft order: %w", err)
		}
		line, err := tx.OrderLines().FindByOrderAndItem(ctx, draft.ID, itemID)
		if err != nil {
			return fmt.Errorf("cart line for item %d: %w", itemID, err)
		}
		return tx.OrderLines().Delete(ctx, line.ID)
	})
}

func (s *rentalService) ListMyOrders(ctx context.Context, actor domain.Actor) ([]domain.Order, error) {
	return s.store.Orders().ListByUsername(ctx, actor.Username)
}

func (s *rentalService) GetOrderDetail(ctx context.Context, actor domain.Actor, orderID int32) (*OrderDetail, error) {
	o, err := s.store.Orders().GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", orderID, err)
	}
	if o.Username != actor.Username && !actor.IsAdmin() {
		return nil, fmt.Errorf("order %d belongs to another borrower: %w", orderID, domain.ErrForbidden)
	}
	return s.loadDetail(ctx, s.store, o)
}

func (s *rentalService) loadDetail(ctx context.Context, tx repository.Store, o *domain.Order) (*OrderDetail, error) {
	lines, err := tx.OrderLines().ListByOrder(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	recs, err := tx.DamageLoss().ListByOrder(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	recByLine := make(map[int32]*domain.DamageLossRecord, len(recs))
	for i := range recs {
		recByLine[recs[i].LineID] = &recs[i]
	}

	detail := &OrderDetail{Order: o, Lines: make([]OrderLineDetail, 0, len(lines))}
	for _, ln := range lines {
		it, err := tx.Items().GetByID(ctx, ln.ItemID)
		if err != nil {
			return nil, fmt.Errorf("item %d for line %d: %w", ln.ItemID, ln.ID, err)
		}
		detail.Lines = append(detail.Lines, OrderLineDetail{
			OrderLine:  ln,
			ItemName:   it.Name,
			DamageLoss: recByLine[ln.ID],
		})
	}
	return detail, nil
}
