package domain

// Item is a rentable good in the shared inventory. AvailableQuantity is
// mutated only by checkout (reserve) and return settlement (release);
// everything else treats it as read-only master data.
type Item struct {
	ID                int32  `json:"id"`
	Name              string `json:"name"`
	TotalQuantity     int32  `json:"total_quantity"`
	AvailableQuantity int32  `json:"available_quantity"`
	Unit              string `json:"unit,omitempty"`
	BaseRentalPrice   int32  `json:"base_rental_price"`
	PhotoPath         string `json:"photo_path,omitempty"`
}

// ReplacementCost is the per-item fallback price used when computing
// damage/loss penalties. The latest row for an item wins.
type ReplacementCost struct {
	ID     int32 `json:"id"`
	ItemID int32 `json:"item_id"`
	Price  int32 `json:"price"`
}
