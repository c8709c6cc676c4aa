package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dukerupert/grocer/internal/model"
)

// HistoryFields describes a new ledger row.
type HistoryFields struct {
	ItemID      string
	Quantity    int
	Price       *float64
	TotalAmount *float64
	Notes       *string
}

// ItemTotals is the ledger aggregated for one item id.
type ItemTotals struct {
	ItemID        string `db:"item_id"`
	TotalQuantity int    `db:"total_quantity"`
	PurchaseCount int    `db:"purchase_count"`
}

type HistoryStore struct {
	db Queryer
}

func NewHistoryStore(db Queryer) *HistoryStore {
	return &HistoryStore{db: db}
}

// WithTx returns a copy of the store bound to tx.
func (s *HistoryStore) WithTx(tx *sqlx.Tx) *HistoryStore {
	return &HistoryStore{db: tx}
}

const historyCols = `id, user_id, item_id, quantity, price, total_amount, notes, created_at`

// List returns a page of the ledger, newest first.
func (s *HistoryStore) List(ctx context.Context, limit, offset int) ([]model.PurchaseHistory, error) {
	history := []model.PurchaseHistory{}
	err := sqlx.SelectContext(ctx, s.db, &history,
		`SELECT `+historyCols+` FROM purchase_history ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return history, nil
}

func (s *HistoryStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, s.db, &count, `SELECT COUNT(*) FROM purchase_history`); err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return count, nil
}

func (s *HistoryStore) Create(ctx context.Context, f HistoryFields) (*model.PurchaseHistory, error) {
	h := model.PurchaseHistory{
		ID:          newID(),
		ItemID:      f.ItemID,
		Quantity:    f.Quantity,
		Price:       f.Price,
		TotalAmount: f.TotalAmount,
		Notes:       nullIfEmpty(f.Notes),
		CreatedAt:   now(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO purchase_history (id, item_id, quantity, price, total_amount, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.ItemID, h.Quantity, h.Price, h.TotalAmount, h.Notes, h.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert history: %w", err)
	}
	return &h, nil
}

// DeleteAll empties the ledger and returns the number of rows removed.
func (s *HistoryStore) DeleteAll(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM purchase_history`)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// TopItems aggregates the ledger by item, largest summed quantity first.
// Ties fall back to purchase count and then item id so ordering is stable.
// Rows whose item no longer exists are not counted.
func (s *HistoryStore) TopItems(ctx context.Context, n int) ([]ItemTotals, error) {
	totals := []ItemTotals{}
	err := sqlx.SelectContext(ctx, s.db, &totals,
		`SELECT ph.item_id, SUM(ph.quantity) AS total_quantity, COUNT(*) AS purchase_count
		 FROM purchase_history ph
		 JOIN items i ON i.id = ph.item_id
		 GROUP BY ph.item_id
		 ORDER BY total_quantity DESC, purchase_count DESC, ph.item_id ASC
		 LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("top items: %w", err)
	}
	return totals, nil
}
