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

type CategoryStore struct {
	db Queryer
}

func NewCategoryStore(db Queryer) *CategoryStore {
	return &CategoryStore{db: db}
}

// WithTx returns a copy of the store bound to tx.
func (s *CategoryStore) WithTx(tx *sqlx.Tx) *CategoryStore {
	return &CategoryStore{db: tx}
}

const categoryCols = `id, name, description, color, created_at, updated_at`

func (s *CategoryStore) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := sqlx.SelectContext(ctx, s.db, &categories,
		`SELECT `+categoryCols+` FROM categories ORDER BY name COLLATE NOCASE ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryStore) GetByID(ctx context.Context, id string) (*model.Category, error) {
	var c model.Category
	err := sqlx.GetContext(ctx, s.db, &c, `SELECT `+categoryCols+` FROM categories WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// GetByName matches case-insensitively and returns the oldest match.
func (s *CategoryStore) GetByName(ctx context.Context, name string) (*model.Category, error) {
	var c model.Category
	err := sqlx.GetContext(ctx, s.db, &c,
		`SELECT `+categoryCols+` FROM categories WHERE unicode_lower(name) = ? ORDER BY created_at ASC LIMIT 1`,
		strings.ToLower(name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category by name: %w", err)
	}
	return &c, nil
}

func (s *CategoryStore) Create(ctx context.Context, name string, description, color *string) (*model.Category, error) {
	id := newID()
	ts := now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, description, color, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, name, nullIfEmpty(description), nullIfEmpty(color), ts, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", classify(err))
	}
	return s.GetByID(ctx, id)
}

func (s *CategoryStore) Update(ctx context.Context, id, name string, description, color *string) (*model.Category, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, description = ?, color = ?, updated_at = ? WHERE id = ?`,
		name, nullIfEmpty(description), nullIfEmpty(color), now(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Delete removes the category and reports whether a row existed.
func (s *CategoryStore) Delete(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete category: %w", classify(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *CategoryStore) CountItems(ctx context.Context, id string) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, s.db, &count, `SELECT COUNT(*) FROM items WHERE category_id = ?`, id); err != nil {
		return 0, fmt.Errorf("count category items: %w", err)
	}
	return count, nil
}
