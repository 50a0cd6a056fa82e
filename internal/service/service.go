package service

import (
	"context"

	"gudangsewa-backend/internal/domain"
)

// AddItemRequest adds qty units of an item to the caller's draft order.
type AddItemRequest struct {
	ItemID   int32 `json:"item_id"`
	Quantity int32 `json:"quantity"`
}

// UpdateItemRequest sets the quantity of an existing draft line. Quantity 0
// removes the line.
type UpdateItemRequest struct {
	ItemID   int32 `json:"item_id"`
	Quantity int32 `json:"quantity"`
}

// CheckoutRequest commits a draft order. OrderID 0 means "the caller's
// current draft".
type CheckoutRequest struct {
	OrderID            int32  `json:"order_id,omitempty"`
	ExpectedReturnDate string `json:"expected_return_date"`
	DownPayment        int32  `json:"down_payment,omitempty"`
}

// LineReturn reports good units coming back for one item of the order.
type LineReturn struct {
	ItemID       int32 `json:"item_id"`
	QuantityGood int32 `json:"quantity_good"`
}

// DamageLossEntry records damaged/lost units against an order line.
// PenaltyPerUnit 0 lets the settlement resolve the penalty from the item's
// replacement cost, falling back to its base rental price.
type DamageLossEntry struct {
	LineID          int32 `json:"line_id"`
	QuantityDamaged int32 `json:"quantity_damaged"`
	QuantityLost    int32 `json:"quantity_lost"`
	PenaltyPerUnit  int32 `json:"penalty_per_unit,omitempty"`
}

// ReturnRequest settles a (possibly partial) return for an order.
type ReturnRequest struct {
	OrderID    int32             `json:"order_id"`
	Returns    []LineReturn      `json:"returns"`
	DamageLoss []DamageLossEntry `json:"damage_loss"`
}

// OrderDetail is an order with its lines, for presentation layers.
type OrderDetail struct {
	Order *domain.Order     `json:"order"`
	Lines []OrderLineDetail `json:"lines"`
}

// OrderLineDetail joins a line with its item name and any penalty record.
type OrderLineDetail struct {
	domain.OrderLine
	ItemName   string                   `json:"item_name"`
	DamageLoss *domain.DamageLossRecord `json:"damage_loss,omitempty"`
}

// PenaltyDetail is a damage/loss record enriched for the admin screens.
type PenaltyDetail struct {
	domain.DamageLossRecord
	OrderID  int32  `json:"order_id"`
	ItemID   int32  `json:"item_id"`
	ItemName string `json:"item_name"`
}

type RentalService interface {
	GetOrCreateDraft(ctx context.Context, actor domain.Actor) (*OrderDetail, error)
	AddItem(ctx context.Context, actor domain.Actor, req AddItemRequest) (*domain.OrderLine, error)
	UpdateItem(ctx context.Context, actor domain.Actor, req UpdateItemRequest) error
	RemoveItem(ctx context.Context, actor domain.Actor, itemID int32) error
	Checkout(ctx context.Context, actor domain.Actor, req CheckoutRequest) (*domain.Order, error)
	ListMyOrders(ctx context.Context, actor domain.Actor) ([]domain.Order, error)
	GetOrderDetail(ctx context.Context, actor domain.Actor, orderID int32) (*OrderDetail, error)
}

type SettlementService interface {
	ProcessReturn(ctx context.Context, actor domain.Actor, req ReturnRequest) (*domain.Order, error)
	ListPenalties(ctx context.Context, actor domain.Actor, orderID int32) ([]PenaltyDetail, error)
}

type CatalogService interface {
	ListItems(ctx context.Context) ([]domain.Item, error)
	GetItem(ctx context.Context, id int32) (*domain.Item, error)
}

type AuthService interface {
	// Login verifies credentials and returns a signed access token plus the
	// borrower profile.
	Login(ctx context.Context, username, password string) (string, *domain.Borrower, error)
}
