package store

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/dukerupert/grocer/internal/database"
	"github.com/dukerupert/grocer/internal/model"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func strPtr(s string) *string { return &s }

func createCategory(t *testing.T, db *sqlx.DB, name string) *model.Category {
	t.Helper()
	c, err := NewCategoryStore(db).Create(context.Background(), name, nil, nil)
	if err != nil {
		t.Fatalf("create category %q: %v", name, err)
	}
	return c
}

func createItem(t *testing.T, db *sqlx.DB, name, categoryID string) *model.Item {
	t.Helper()
	item, err := NewItemStore(db).Create(context.Background(), ItemFields{
		Name:            name,
		DefaultQuantity: 1,
		Available:       true,
		CategoryID:      categoryID,
	})
	if err != nil {
		t.Fatalf("create item %q: %v", name, err)
	}
	return item
}
