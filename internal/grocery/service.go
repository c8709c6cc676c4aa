package grocery

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/dukerupert/grocer/internal/database"
	"github.com/dukerupert/grocer/internal/store"
)

// Service implements the grocery workflows on top of the stores. A Service
// built by New owns no transaction; inTx hands callbacks a copy whose stores
// are bound to one.
type Service struct {
	db     *sqlx.DB
	tx     *sqlx.Tx
	logger *slog.Logger

	categories *store.CategoryStore
	items      *store.ItemStore
	lists      *store.PurchaseListStore
	templates  *store.TemplateStore
	history    *store.HistoryStore
}

func New(db *sqlx.DB, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		db:         db,
		logger:     logger.With("component", "grocery"),
		categories: store.NewCategoryStore(db),
		items:      store.NewItemStore(db),
		lists:      store.NewPurchaseListStore(db),
		templates:  store.NewTemplateStore(db),
		history:    store.NewHistoryStore(db),
	}
}

// inTx runs fn in a single transaction. Calls made on an already
// transactional Service join the outer transaction.
func (s *Service) inTx(ctx context.Context, fn func(*Service) error) error {
	if s.tx != nil {
		return fn(s)
	}
	return database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		return fn(&Service{
			tx:         tx,
			logger:     s.logger,
			categories: s.categories.WithTx(tx),
			items:      s.items.WithTx(tx),
			lists:      s.lists.WithTx(tx),
			templates:  s.templates.WithTx(tx),
			history:    s.history.WithTx(tx),
		})
	})
}

// Atomically runs fn against a Service whose writes commit or roll back
// together.
func (s *Service) Atomically(ctx context.Context, fn func(*Service) error) error {
	return s.inTx(ctx, fn)
}

// Ping reports whether the database is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
