package grocery

// CategoryInput is the body of category create and update requests.
type CategoryInput struct {
	Name        string  `json:"name" validate:"notblank,max=100"`
	Description *string `json:"description"`
	Color       *string `json:"color" validate:"omitempty,max=32"`
}

// ItemInput is the body of item create and update requests. Update is a full
// replacement, so omitted optional fields are cleared.
type ItemInput struct {
	Name            string   `json:"name" validate:"notblank,max=200"`
	Description     *string  `json:"description"`
	ImageURL        *string  `json:"imageUrl" validate:"omitempty,url"`
	DefaultQuantity int      `json:"defaultQuantity" validate:"min=1"`
	Price           *float64 `json:"price" validate:"omitempty,gte=0"`
	Notes           *string  `json:"notes"`
	Available       *bool    `json:"available"`
	CategoryID      string   `json:"categoryId" validate:"notblank"`
}

type PurchaseListInput struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"isActive"`
}

// EntryInput adds an item to a purchase list.
type EntryInput struct {
	ItemID   string  `json:"itemId" validate:"notblank"`
	Quantity int     `json:"quantity" validate:"min=1"`
	Notes    *string `json:"notes"`
}

type EntryUpdate struct {
	Quantity int     `json:"quantity" validate:"min=1"`
	Notes    *string `json:"notes"`
}

// HistoryInput appends a row to the purchase ledger.
type HistoryInput struct {
	ItemID      string   `json:"itemId" validate:"notblank"`
	Quantity    int      `json:"quantity" validate:"min=1"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	TotalAmount *float64 `json:"totalAmount" validate:"omitempty,gte=0"`
	Notes       *string  `json:"notes"`
}

// CompleteInput overrides the values copied from a list entry when it is
// completed. Nil fields fall back to the entry.
type CompleteInput struct {
	Quantity    *int     `json:"quantity" validate:"omitempty,min=1"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	TotalAmount *float64 `json:"totalAmount" validate:"omitempty,gte=0"`
	Notes       *string  `json:"notes"`
}

type TemplateItemInput struct {
	ItemID   string  `json:"itemId" validate:"notblank"`
	Quantity int     `json:"quantity" validate:"min=1"`
	Notes    *string `json:"notes"`
}

type TemplateInput struct {
	Name        string              `json:"name" validate:"notblank,max=100"`
	Description *string             `json:"description"`
	IsDefault   bool                `json:"isDefault"`
	Items       []TemplateItemInput `json:"items" validate:"dive"`
}
