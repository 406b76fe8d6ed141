package dto

// FulfilledOrderInput is the normalized "case order fulfilled" event from
// the commerce-platform webhook layer (already signature-verified
// upstream).
type FulfilledOrderInput struct {
	OrderID string
	StoreID string
	Items   []FulfilledItemInput
}

type FulfilledItemInput struct {
	CaseSKU      string
	CaseQuantity int
}

// VerifyReceiptInput carries the per-item physical counts supplied by store
// staff. Items absent from ReceivedQuantities are assumed received in full.
type VerifyReceiptInput struct {
	ReceivedQuantities map[string]int
	Notes              string
}
