package model

import "time"

// WholesaleOrderStatus progresses placed -> fulfilled -> delivered ->
// received. Only fulfilled -> received and its inventory side effects are
// owned by this service.
type WholesaleOrderStatus string

const (
	OrderStatusPlaced    WholesaleOrderStatus = "placed"
	OrderStatusFulfilled WholesaleOrderStatus = "fulfilled"
	OrderStatusDelivered WholesaleOrderStatus = "delivered"
	OrderStatusReceived  WholesaleOrderStatus = "received"
)

func (s WholesaleOrderStatus) Valid() bool {
	switch s {
	case OrderStatusPlaced, OrderStatusFulfilled, OrderStatusDelivered, OrderStatusReceived:
		return true
	}
	return false
}

// WholesaleOrder is the receiving-side view of an upstream case order. The
// received status is the idempotency guard for receipt verification.
type WholesaleOrder struct {
	ID          string               `db:"id" json:"id"`
	StoreID     string               `db:"store_id" json:"storeId"`
	Status      WholesaleOrderStatus `db:"status" json:"status"`
	VerifyToken string               `db:"verify_token" json:"verifyToken"`
	FulfilledAt *time.Time           `db:"fulfilled_at" json:"fulfilledAt,omitempty"`
	ReceivedAt  *time.Time           `db:"received_at" json:"receivedAt,omitempty"`
	Notes       string               `db:"notes" json:"notes"`
	CreatedAt   time.Time            `db:"created_at" json:"createdAt"`
}

// WholesaleOrderItem carries one case line resolved to retail units.
type WholesaleOrderItem struct {
	ID            string `db:"id" json:"id"`
	OrderID       string `db:"order_id" json:"orderId"`
	CaseSKU       string `db:"case_sku" json:"caseSku"`
	CaseQuantity  int    `db:"case_quantity" json:"caseQuantity"`
	RetailSKU     string `db:"retail_sku" json:"retailSku"`
	ExpectedUnits int    `db:"expected_units" json:"expectedUnits"`
	ReceivedUnits *int   `db:"received_units" json:"receivedUnits,omitempty"`
}
