package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dukerupert/grocer/internal/model"
)

// TemplateItemFields describes one line of a template.
type TemplateItemFields struct {
	ItemID   string
	Quantity int
	Notes    *string
}

type TemplateStore struct {
	db Queryer
}

func NewTemplateStore(db Queryer) *TemplateStore {
	return &TemplateStore{db: db}
}

// WithTx returns a copy of the store bound to tx.
func (s *TemplateStore) WithTx(tx *sqlx.Tx) *TemplateStore {
	return &TemplateStore{db: tx}
}

const templateCols = `id, name, description, user_id, is_default, created_at, updated_at`

// List returns templates (defaults first, then by name) with their items.
func (s *TemplateStore) List(ctx context.Context) ([]model.Template, error) {
	var templates []model.Template
	err := sqlx.SelectContext(ctx, s.db, &templates,
		`SELECT `+templateCols+` FROM templates ORDER BY is_default DESC, name COLLATE NOCASE ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	for i := range templates {
		items, err := s.ListItems(ctx, templates[i].ID)
		if err != nil {
			return nil, err
		}
		templates[i].Items = items
	}
	return templates, nil
}

func (s *TemplateStore) GetByID(ctx context.Context, id string) (*model.Template, error) {
	var t model.Template
	err := sqlx.GetContext(ctx, s.db, &t, `SELECT `+templateCols+` FROM templates WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	items, err := s.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Items = items
	return &t, nil
}

func (s *TemplateStore) Create(ctx context.Context, name string, description *string, isDefault bool) (*model.Template, error) {
	id := newID()
	ts := now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO templates (id, name, description, is_default, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, name, nullIfEmpty(description), isDefault, ts, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("insert template: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *TemplateStore) Update(ctx context.Context, id, name string, description *string, isDefault bool) (*model.Template, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE templates SET name = ?, description = ?, is_default = ?, updated_at = ? WHERE id = ?`,
		name, nullIfEmpty(description), isDefault, now(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Delete removes the template and its items; it reports whether a row existed.
func (s *TemplateStore) Delete(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete template: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// --- Template item methods ---

var templateItemSelect = `SELECT ti.id, ti.template_id, ti.item_id, ti.quantity, ti.notes, ti.position, ` +
	itemCols("item.") + `
	FROM template_items ti
	JOIN items i ON i.id = ti.item_id
	JOIN categories c ON c.id = i.category_id`

// ListItems returns a template's items in insertion order.
func (s *TemplateStore) ListItems(ctx context.Context, templateID string) ([]model.TemplateItem, error) {
	items := []model.TemplateItem{}
	err := sqlx.SelectContext(ctx, s.db, &items,
		templateItemSelect+` WHERE ti.template_id = ? ORDER BY ti.position ASC, ti.id ASC`, templateID)
	if err != nil {
		return nil, fmt.Errorf("list template items: %w", err)
	}
	return items, nil
}

// ReplaceItems swaps the template's item set. Callers run it inside a
// transaction so readers never see a half-written template.
func (s *TemplateStore) ReplaceItems(ctx context.Context, templateID string, items []TemplateItemFields) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM template_items WHERE template_id = ?`, templateID); err != nil {
		return fmt.Errorf("clear template items: %w", err)
	}
	for i, it := range items {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO template_items (id, template_id, item_id, quantity, notes, position) VALUES (?, ?, ?, ?, ?, ?)`,
			newID(), templateID, it.ItemID, it.Quantity, nullIfEmpty(it.Notes), i,
		)
		if err != nil {
			return fmt.Errorf("insert template item: %w", classify(err))
		}
	}
	return nil
}
