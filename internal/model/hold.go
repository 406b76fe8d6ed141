package model

import "time"

// HoldStatus is the state machine of a reservation:
// active -> picked_up | cancelled | expired, all terminal.
type HoldStatus string

const (
	HoldStatusActive    HoldStatus = "active"
	HoldStatusPickedUp  HoldStatus = "picked_up"
	HoldStatusCancelled HoldStatus = "cancelled"
	HoldStatusExpired   HoldStatus = "expired"
)

func (s HoldStatus) Valid() bool {
	switch s {
	case HoldStatusActive, HoldStatusPickedUp, HoldStatusCancelled, HoldStatusExpired:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed.
func (s HoldStatus) Terminal() bool {
	return s.Valid() && s != HoldStatusActive
}

// ProductHold reserves quantity units of one SKU for one customer until
// ExpiresAt. Reserved counters on the inventory record are derived from the
// set of active holds and only move together with a hold row inside one
// transaction.
type ProductHold struct {
	ID         string     `db:"id" json:"id"`
	StoreID    string     `db:"store_id" json:"storeId"`
	CustomerID string     `db:"customer_id" json:"customerId"`
	ProductSKU string     `db:"product_sku" json:"productSku"`
	Quantity   int        `db:"quantity" json:"quantity"`
	Status     HoldStatus `db:"status" json:"status"`
	ExpiresAt  time.Time  `db:"expires_at" json:"expiresAt"`
	NotifiedAt *time.Time `db:"notified_at" json:"notifiedAt,omitempty"`
	PickedUpAt *time.Time `db:"picked_up_at" json:"pickedUpAt,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updatedAt"`
}

// Overdue reports whether an active hold has passed its expiry window.
func (h *ProductHold) Overdue(now time.Time) bool {
	return h.Status == HoldStatusActive && now.After(h.ExpiresAt)
}
