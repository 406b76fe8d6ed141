package dto

// AdjustDownInput carries a manual stock decrease. Magnitude is negative by
// convention; non-negative values are rejected before any ledger call.
type AdjustDownInput struct {
	StoreID    string
	ProductSKU string
	Magnitude  int
	Notes      string
	Actor      string
}
