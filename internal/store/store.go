package store

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrDuplicate is returned when an insert violates a UNIQUE constraint.
var ErrDuplicate = errors.New("duplicate row")

// ErrReferenced is returned when a delete is blocked by a foreign key.
var ErrReferenced = errors.New("row is referenced")

// Queryer is satisfied by both *sqlx.DB and *sqlx.Tx, so every store can be
// rebound to a transaction with WithTx.
type Queryer interface {
	sqlx.ExtContext
}

func newID() string {
	return uuid.NewString()
}

func now() time.Time {
	return time.Now().UTC()
}

func classify(err error) error {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return err
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return errors.Join(ErrDuplicate, err)
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return errors.Join(ErrReferenced, err)
	case sqlite3.SQLITE_CONSTRAINT_TRIGGER:
		// ON DELETE RESTRICT is enforced as a trigger-class constraint.
		if strings.Contains(se.Error(), "FOREIGN KEY") {
			return errors.Join(ErrReferenced, err)
		}
	}
	return err
}

// itemCols selects an item and its category from aliases "i" and "c". Column
// names are prefixed so sqlx can fill nested structs (e.g. "item.category.id").
func itemCols(prefix string) string {
	cols := []string{
		`i.id AS "` + prefix + `id"`,
		`i.name AS "` + prefix + `name"`,
		`i.description AS "` + prefix + `description"`,
		`i.image_url AS "` + prefix + `image_url"`,
		`i.default_quantity AS "` + prefix + `default_quantity"`,
		`i.price AS "` + prefix + `price"`,
		`i.notes AS "` + prefix + `notes"`,
		`i.available AS "` + prefix + `available"`,
		`i.category_id AS "` + prefix + `category_id"`,
		`i.created_at AS "` + prefix + `created_at"`,
		`i.updated_at AS "` + prefix + `updated_at"`,
		`c.id AS "` + prefix + `category.id"`,
		`c.name AS "` + prefix + `category.name"`,
		`c.description AS "` + prefix + `category.description"`,
		`c.color AS "` + prefix + `category.color"`,
		`c.created_at AS "` + prefix + `category.created_at"`,
		`c.updated_at AS "` + prefix + `category.updated_at"`,
	}
	return strings.Join(cols, ", ")
}

func nullIfEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
