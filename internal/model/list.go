package model

import "time"

// PurchaseList is a shopping list. By convention exactly one list is active.
type PurchaseList struct {
	ID        string    `db:"id" json:"id"`
	Name      *string   `db:"name" json:"name,omitempty"`
	UserID    *string   `db:"user_id" json:"userId,omitempty"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	Items []PurchaseItem `db:"-" json:"items"`
}

// PurchaseItem is one entry on a shopping list. An item appears at most once per list.
type PurchaseItem struct {
	ID             string    `db:"id" json:"id"`
	PurchaseListID string    `db:"purchase_list_id" json:"purchaseListId"`
	ItemID         string    `db:"item_id" json:"itemId"`
	Quantity       int       `db:"quantity" json:"quantity"`
	Notes          *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`

	Item *Item `db:"item" json:"item,omitempty"`
}
