package model

import "time"

type Template struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	UserID      *string   `db:"user_id" json:"userId,omitempty"`
	IsDefault   bool      `db:"is_default" json:"isDefault"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`

	Items []TemplateItem `db:"-" json:"items"`
}

type TemplateItem struct {
	ID         string  `db:"id" json:"id"`
	TemplateID string  `db:"template_id" json:"templateId"`
	ItemID     string  `db:"item_id" json:"itemId"`
	Quantity   int     `db:"quantity" json:"quantity"`
	Notes      *string `db:"notes" json:"notes,omitempty"`
	Position   int     `db:"position" json:"position"`

	Item *Item `db:"item" json:"item,omitempty"`
}
