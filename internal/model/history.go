package model

import "time"

// PurchaseHistory is an immutable ledger row. ItemID may reference an item
// that has since been deleted, in which case Item is nil.
type PurchaseHistory struct {
	ID          string    `db:"id" json:"id"`
	UserID      *string   `db:"user_id" json:"userId,omitempty"`
	ItemID      string    `db:"item_id" json:"itemId"`
	Quantity    int       `db:"quantity" json:"quantity"`
	Price       *float64  `db:"price" json:"price,omitempty"`
	TotalAmount *float64  `db:"total_amount" json:"totalAmount,omitempty"`
	Notes       *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`

	Item *Item `db:"-" json:"item,omitempty"`
}

// PurchaseStat aggregates the ledger for one item.
type PurchaseStat struct {
	Item
	TotalQuantity int `db:"total_quantity" json:"totalQuantity"`
	PurchaseCount int `db:"purchase_count" json:"purchaseCount"`
}
