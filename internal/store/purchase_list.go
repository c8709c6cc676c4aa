package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dukerupert/grocer/internal/model"
)

type PurchaseListStore struct {
	db Queryer
}

func NewPurchaseListStore(db Queryer) *PurchaseListStore {
	return &PurchaseListStore{db: db}
}

// WithTx returns a copy of the store bound to tx.
func (s *PurchaseListStore) WithTx(tx *sqlx.Tx) *PurchaseListStore {
	return &PurchaseListStore{db: tx}
}

// --- List methods ---

const listCols = `id, name, user_id, is_active, created_at, updated_at`

// List returns lists newest first, optionally filtered by is_active, with
// their entries loaded.
func (s *PurchaseListStore) List(ctx context.Context, isActive *bool) ([]model.PurchaseList, error) {
	query := `SELECT ` + listCols + ` FROM purchase_lists`
	var args []any
	if isActive != nil {
		query += ` WHERE is_active = ?`
		args = append(args, *isActive)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	var lists []model.PurchaseList
	if err := sqlx.SelectContext(ctx, s.db, &lists, query, args...); err != nil {
		return nil, fmt.Errorf("list purchase lists: %w", err)
	}
	for i := range lists {
		entries, err := s.ListEntries(ctx, lists[i].ID)
		if err != nil {
			return nil, err
		}
		lists[i].Items = entries
	}
	return lists, nil
}

// GetByID returns the list with its entries, or nil when absent.
func (s *PurchaseListStore) GetByID(ctx context.Context, id string) (*model.PurchaseList, error) {
	var l model.PurchaseList
	err := sqlx.GetContext(ctx, s.db, &l, `SELECT `+listCols+` FROM purchase_lists WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get purchase list: %w", err)
	}
	entries, err := s.ListEntries(ctx, id)
	if err != nil {
		return nil, err
	}
	l.Items = entries
	return &l, nil
}

// GetFirstActive returns the oldest active list, or nil when none is active.
func (s *PurchaseListStore) GetFirstActive(ctx context.Context) (*model.PurchaseList, error) {
	var id string
	err := sqlx.GetContext(ctx, s.db, &id,
		`SELECT id FROM purchase_lists WHERE is_active = 1 ORDER BY created_at ASC, id ASC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active list: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *PurchaseListStore) Create(ctx context.Context, name *string, isActive bool) (*model.PurchaseList, error) {
	id := newID()
	ts := now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO purchase_lists (id, name, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, nullIfEmpty(name), isActive, ts, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("insert purchase list: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *PurchaseListStore) Update(ctx context.Context, id string, name *string, isActive bool) (*model.PurchaseList, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE purchase_lists SET name = ?, is_active = ?, updated_at = ? WHERE id = ?`,
		nullIfEmpty(name), isActive, now(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update purchase list: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Delete removes the list and its entries; it reports whether a row existed.
func (s *PurchaseListStore) Delete(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM purchase_lists WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete purchase list: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// --- Entry methods ---

var entrySelect = `SELECT pi.id, pi.purchase_list_id, pi.item_id, pi.quantity, pi.notes, pi.created_at, pi.updated_at, ` +
	itemCols("item.") + `
	FROM purchase_items pi
	JOIN items i ON i.id = pi.item_id
	JOIN categories c ON c.id = i.category_id`

// ListEntries returns a list's entries, newest first.
func (s *PurchaseListStore) ListEntries(ctx context.Context, listID string) ([]model.PurchaseItem, error) {
	entries := []model.PurchaseItem{}
	err := sqlx.SelectContext(ctx, s.db, &entries,
		entrySelect+` WHERE pi.purchase_list_id = ? ORDER BY pi.created_at DESC, pi.id DESC`, listID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

func (s *PurchaseListStore) GetEntry(ctx context.Context, id string) (*model.PurchaseItem, error) {
	var e model.PurchaseItem
	err := sqlx.GetContext(ctx, s.db, &e, entrySelect+` WHERE pi.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return &e, nil
}

// HasItem reports whether the item already has an entry on the list.
func (s *PurchaseListStore) HasItem(ctx context.Context, listID, itemID string) (bool, error) {
	var count int
	err := sqlx.GetContext(ctx, s.db, &count,
		`SELECT COUNT(*) FROM purchase_items WHERE purchase_list_id = ? AND item_id = ?`, listID, itemID)
	if err != nil {
		return false, fmt.Errorf("check entry: %w", err)
	}
	return count > 0, nil
}

// CreateEntry inserts an entry. It returns ErrDuplicate (wrapped) when the
// item is already on the list.
func (s *PurchaseListStore) CreateEntry(ctx context.Context, listID, itemID string, quantity int, notes *string) (*model.PurchaseItem, error) {
	id := newID()
	ts := now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO purchase_items (id, purchase_list_id, item_id, quantity, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, listID, itemID, quantity, nullIfEmpty(notes), ts, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("insert entry: %w", classify(err))
	}
	return s.GetEntry(ctx, id)
}

func (s *PurchaseListStore) UpdateEntry(ctx context.Context, id string, quantity int, notes *string) (*model.PurchaseItem, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE purchase_items SET quantity = ?, notes = ?, updated_at = ? WHERE id = ?`,
		quantity, nullIfEmpty(notes), now(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}
	return s.GetEntry(ctx, id)
}

// DeleteEntry removes an entry and reports whether a row existed.
func (s *PurchaseListStore) DeleteEntry(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM purchase_items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete entry: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *PurchaseListStore) CountEntries(ctx context.Context, listID string) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, s.db, &count,
		`SELECT COUNT(*) FROM purchase_items WHERE purchase_list_id = ?`, listID)
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return count, nil
}
