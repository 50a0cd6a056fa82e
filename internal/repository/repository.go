package repository

import (
	"context"

	"gudangsewa-backend/internal/domain"
)

// Store bundles all repositories plus transaction scoping. WithinTx runs fn
// against a Store whose repositories share one database transaction; any
// error from fn rolls the whole transaction back. Nested calls join the
// enclosing transaction.
type Store interface {
	Items() ItemRepository
	Orders() OrderRepository
	OrderLines() OrderLineRepository
	DamageLoss() DamageLossRepository
	ReplacementCosts() ReplacementCostRepository
	Borrowers() BorrowerRepository
	WithinTx(ctx context.Context, fn func(Store) error) error
}

type ItemRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Item, error)
	// GetForUpdate loads the item under an exclusive row lock held until the
	// enclosing transaction ends. Callers needing several items must lock
	// them in ascending id order.
	GetForUpdate(ctx context.Context, id int32) (*domain.Item, error)
	UpdateAvailable(ctx context.Context, id, available int32) error
	List(ctx context.Context) ([]domain.Item, error)
}

type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id int32) (*domain.Order, error)
	GetForUpdate(ctx context.Context, id int32) (*domain.Order, error)
	FindDraftByUsername(ctx context.Context, username string) (*domain.Order, error)
	Update(ctx context.Context, o *domain.Order) error
	// ListByUsername returns the borrower's committed orders, newest first.
	// Draft orders are excluded; the draft is the cart, not history.
	ListByUsername(ctx context.Context, username string) ([]domain.Order, error)
}

type OrderLineRepository interface {
	Create(ctx context.Context, l *domain.OrderLine) error
	GetByID(ctx context.Context, id int32) (*domain.OrderLine, error)
	FindByOrderAndItem(ctx context.Context, orderID, itemID int32) (*domain.OrderLine, error)
	ListByOrder(ctx context.Context, orderID int32) ([]domain.OrderLine, error)
	Update(ctx context.Context, l *domain.OrderLine) error
	Delete(ctx context.Context, id int32) error
}

type DamageLossRepository interface {
	GetByLineID(ctx context.Context, lineID int32) (*domain.DamageLossRecord, error)
	// Upsert inserts or replaces the single record attached to rec.LineID.
	Upsert(ctx context.Context, rec *domain.DamageLossRecord) error
	DeleteByLineID(ctx context.Context, lineID int32) error
	ListByOrder(ctx context.Context, orderID int32) ([]domain.DamageLossRecord, error)
}

type ReplacementCostRepository interface {
	// LatestByItemID returns the newest replacement cost for an item, or
	// domain.ErrNotFound when none is recorded.
	LatestByItemID(ctx context.Context, itemID int32) (*domain.ReplacementCost, error)
}

type BorrowerRepository interface {
	GetByUsername(ctx context.Context, username string) (*domain.Borrower, error)
}
