package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/dukerupert/grocer/internal/model"
)

// ItemFilter narrows List. Nil or empty fields are ignored; the rest are ANDed.
type ItemFilter struct {
	Search     string
	CategoryID string
	Available  *bool
}

// ItemFields are the mutable columns of an item.
type ItemFields struct {
	Name            string
	Description     *string
	ImageURL        *string
	DefaultQuantity int
	Price           *float64
	Notes           *string
	Available       bool
	CategoryID      string
}

type ItemStore struct {
	db Queryer
}

func NewItemStore(db Queryer) *ItemStore {
	return &ItemStore{db: db}
}

// WithTx returns a copy of the store bound to tx.
func (s *ItemStore) WithTx(tx *sqlx.Tx) *ItemStore {
	return &ItemStore{db: tx}
}

var itemSelect = `SELECT ` + itemCols("") + ` FROM items i JOIN categories c ON c.id = i.category_id`

func (s *ItemStore) List(ctx context.Context, f ItemFilter) ([]model.Item, error) {
	var where []string
	var args []any

	if search := strings.TrimSpace(f.Search); search != "" {
		where = append(where, `unicode_lower(i.name) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(strings.ToLower(search))+"%")
	}
	if f.CategoryID != "" {
		where = append(where, `i.category_id = ?`)
		args = append(args, f.CategoryID)
	}
	if f.Available != nil {
		where = append(where, `i.available = ?`)
		args = append(args, *f.Available)
	}

	query := itemSelect
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY i.name COLLATE NOCASE ASC, i.id ASC`

	var items []model.Item
	if err := sqlx.SelectContext(ctx, s.db, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (s *ItemStore) GetByID(ctx context.Context, id string) (*model.Item, error) {
	var item model.Item
	err := sqlx.GetContext(ctx, s.db, &item, itemSelect+` WHERE i.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &item, nil
}

// GetByIDs returns the items that still exist, keyed by id.
func (s *ItemStore) GetByIDs(ctx context.Context, ids []string) (map[string]*model.Item, error) {
	out := make(map[string]*model.Item, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(itemSelect+` WHERE i.id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("build item query: %w", err)
	}
	var items []model.Item
	if err := sqlx.SelectContext(ctx, s.db, &items, query, args...); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	for i := range items {
		out[items[i].ID] = &items[i]
	}
	return out, nil
}

func (s *ItemStore) Create(ctx context.Context, f ItemFields) (*model.Item, error) {
	id := newID()
	ts := now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO items (id, name, description, image_url, default_quantity, price, notes, available, category_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, f.Name, nullIfEmpty(f.Description), nullIfEmpty(f.ImageURL), f.DefaultQuantity,
		f.Price, nullIfEmpty(f.Notes), f.Available, f.CategoryID, ts, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", classify(err))
	}
	return s.GetByID(ctx, id)
}

func (s *ItemStore) Update(ctx context.Context, id string, f ItemFields) (*model.Item, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE items SET name = ?, description = ?, image_url = ?, default_quantity = ?, price = ?,
		 notes = ?, available = ?, category_id = ?, updated_at = ? WHERE id = ?`,
		f.Name, nullIfEmpty(f.Description), nullIfEmpty(f.ImageURL), f.DefaultQuantity, f.Price,
		nullIfEmpty(f.Notes), f.Available, f.CategoryID, now(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", classify(err))
	}
	return s.GetByID(ctx, id)
}

// Delete removes the item and reports whether a row existed. Template and
// list entries referencing it cascade; ledger rows are kept.
func (s *ItemStore) Delete(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", classify(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// CountOnActiveLists counts entries for the item on lists flagged active.
func (s *ItemStore) CountOnActiveLists(ctx context.Context, id string) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, s.db, &count,
		`SELECT COUNT(*) FROM purchase_items pi
		 JOIN purchase_lists pl ON pl.id = pi.purchase_list_id
		 WHERE pi.item_id = ? AND pl.is_active = 1`, id)
	if err != nil {
		return 0, fmt.Errorf("count active entries: %w", err)
	}
	return count, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
