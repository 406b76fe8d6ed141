package dto

import (
	"time"

	"github.com/sampleloop/inventory-service/internal/model"
)

// ApplyDeltaInput carries one atomic ledger mutation. The three deltas move
// together or not at all; PendingOrderID and ClearPendingOrder adjust the
// single in-flight wholesale order slot inside the same unit.
type ApplyDeltaInput struct {
	StoreID           string
	ProductSKU        string
	Type              model.TransactionType
	OnHandDelta       int
	ReservedDelta     int
	IncomingDelta     int
	CustomerID        *string
	ExpiresAt         *time.Time
	Notes             string
	PendingOrderID    *string
	ClearPendingOrder bool
}

// PrimaryDelta is the signed quantity recorded on the audit row: the
// on-hand movement when there is one, otherwise the reserved movement,
// otherwise the incoming movement.
func (in *ApplyDeltaInput) PrimaryDelta() int {
	if in.OnHandDelta != 0 {
		return in.OnHandDelta
	}
	if in.ReservedDelta != 0 {
		return in.ReservedDelta
	}
	return in.IncomingDelta
}
