package model

import "time"

type Category struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	Color       *string   `db:"color" json:"color,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

type Item struct {
	ID              string    `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Description     *string   `db:"description" json:"description,omitempty"`
	ImageURL        *string   `db:"image_url" json:"imageUrl,omitempty"`
	DefaultQuantity int       `db:"default_quantity" json:"defaultQuantity"`
	Price           *float64  `db:"price" json:"price,omitempty"`
	Notes           *string   `db:"notes" json:"notes,omitempty"`
	Available       bool      `db:"available" json:"available"`
	CategoryID      string    `db:"category_id" json:"categoryId"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`

	Category *Category `db:"category" json:"category,omitempty"`
}
