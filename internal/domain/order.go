package domain

// DateLayout is the date-only format used for all rental dates.
const DateLayout = "2006-01-02"

type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "draft"
	OrderStatusActive    OrderStatus = "aktif"
	OrderStatusOverdue   OrderStatus = "terlambat"
	OrderStatusCompleted OrderStatus = "selesai"
)

// Order is a rental transaction. While status is draft it acts as the
// owner's cart; at most one draft exists per borrower. Lines become
// immutable once the order leaves draft.
type Order struct {
	ID                 int32       `json:"id"`
	Username           string      `json:"username"`
	RentalDate         string      `json:"rental_date"`
	ExpectedReturnDate *string     `json:"expected_return_date,omitempty"`
	Status             OrderStatus `json:"status"`
	TotalRentalCost    int32       `json:"total_rental_cost"`
	TotalDownPayment   int32       `json:"total_down_payment"`
}

// OrderLine is one item position within an order. UnitPrice is a snapshot
// taken when the line is first created and is never recomputed.
type OrderLine struct {
	ID                   int32 `json:"id"`
	OrderID              int32 `json:"order_id"`
	ItemID               int32 `json:"item_id"`
	QuantityRented       int32 `json:"quantity_rented"`
	QuantityReturnedGood int32 `json:"quantity_returned_good"`
	UnitPrice            int32 `json:"unit_price"`
	LineTotal            int32 `json:"line_total"`
}

// DamageLossRecord holds the penalty for a line's damaged or lost units.
// At most one record exists per line; damaged/lost units never return to
// available stock.
type DamageLossRecord struct {
	ID              int32 `json:"id"`
	LineID          int32 `json:"line_id"`
	QuantityDamaged int32 `json:"quantity_damaged"`
	QuantityLost    int32 `json:"quantity_lost"`
	PenaltyPerUnit  int32 `json:"penalty_per_unit"`
	PenaltySubtotal int32 `json:"penalty_subtotal"`
}
