package model

import (
	"fmt"
	"time"

	"github.com/sampleloop/inventory-service/pkg/errs"
)

// TransactionType enumerates every mutation kind the ledger records.
type TransactionType string

const (
	TxnManualDecrease    TransactionType = "manual_decrease"
	TxnHoldCreated       TransactionType = "hold_created"
	TxnHoldReleased      TransactionType = "hold_released"
	TxnHoldExpired       TransactionType = "hold_expired"
	TxnPromoSale         TransactionType = "promo_sale"
	TxnWholesaleIncoming TransactionType = "wholesale_incoming"
	TxnWholesaleReceived TransactionType = "wholesale_received"
	TxnRestock           TransactionType = "restock"
	TxnInitialStock      TransactionType = "initial_stock"
	TxnTrialKit          TransactionType = "trial_kit"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TxnManualDecrease, TxnHoldCreated, TxnHoldReleased, TxnHoldExpired,
		TxnPromoSale, TxnWholesaleIncoming, TxnWholesaleReceived,
		TxnRestock, TxnInitialStock, TxnTrialKit:
		return true
	}
	return false
}

// InventoryRecord is the authoritative stock aggregate for one
// (store, SKU) pair. quantity_available is derived and only ever set by
// ApplyDelta; rows are created lazily and never deleted.
type InventoryRecord struct {
	ID                string    `db:"id" json:"id"`
	StoreID           string    `db:"store_id" json:"storeId"`
	ProductSKU        string    `db:"product_sku" json:"productSku"`
	QuantityOnHand    int       `db:"quantity_on_hand" json:"quantityOnHand"`
	QuantityReserved  int       `db:"quantity_reserved" json:"quantityReserved"`
	QuantityAvailable int       `db:"quantity_available" json:"quantityAvailable"`
	QuantityIncoming  int       `db:"quantity_incoming" json:"quantityIncoming"`
	// PendingOrderID tracks a single in-flight wholesale order; a second
	// order for the same SKU overwrites the first.
	PendingOrderID *string   `db:"pending_order_id" json:"pendingOrderId"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// ApplyDelta applies the three counter deltas after guard checks. On any
// violation the record is left untouched. Available is recomputed here and
// nowhere else.
func (r *InventoryRecord) ApplyDelta(onHandDelta, reservedDelta, incomingDelta int, now time.Time) error {
	newOnHand := r.QuantityOnHand + onHandDelta
	newReserved := r.QuantityReserved + reservedDelta
	newIncoming := r.QuantityIncoming + incomingDelta

	if newOnHand < 0 {
		return errs.NewInsufficientInventory(r.QuantityOnHand, -onHandDelta)
	}
	if newReserved > newOnHand {
		if reservedDelta > 0 {
			return errs.NewInsufficientInventory(r.QuantityOnHand-r.QuantityReserved, reservedDelta)
		}
		return errs.NewInvariantViolation(fmt.Sprintf(
			"reserved %d would exceed on-hand %d for %s/%s",
			newReserved, newOnHand, r.StoreID, r.ProductSKU))
	}
	if newReserved < 0 {
		return errs.NewInvariantViolation(fmt.Sprintf(
			"reserved would go negative (%d) for %s/%s", newReserved, r.StoreID, r.ProductSKU))
	}
	if newIncoming < 0 {
		return errs.NewInvariantViolation(fmt.Sprintf(
			"incoming would go negative (%d) for %s/%s", newIncoming, r.StoreID, r.ProductSKU))
	}

	r.QuantityOnHand = newOnHand
	r.QuantityReserved = newReserved
	r.QuantityIncoming = newIncoming
	r.QuantityAvailable = newOnHand - newReserved
	r.UpdatedAt = now
	return nil
}

// InventoryTransaction is an append-only audit row; immutable once written.
type InventoryTransaction struct {
	ID           string          `db:"id" json:"id"`
	StoreID      string          `db:"store_id" json:"storeId"`
	ProductSKU   string          `db:"product_sku" json:"productSku"`
	Type         TransactionType `db:"type" json:"type"`
	Quantity     int             `db:"quantity" json:"quantity"`
	BalanceAfter int             `db:"balance_after" json:"balanceAfter"`
	CustomerID   *string         `db:"customer_id" json:"customerId,omitempty"`
	ExpiresAt    *time.Time      `db:"expires_at" json:"expiresAt,omitempty"`
	Notes        string          `db:"notes" json:"notes"`
	CreatedAt    time.Time       `db:"created_at" json:"createdAt"`
}
