package grocery

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/grocer/internal/model"
	"github.com/dukerupert/grocer/internal/store"
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
	DefaultTopItems     = 10
)

// HistoryPage is one window of the ledger plus the total row count.
type HistoryPage struct {
	History []model.PurchaseHistory
	Total   int
}

// RecordHistory appends a ledger row. When only a unit price is given the
// total is derived from it.
func (s *Service) RecordHistory(ctx context.Context, in HistoryInput) (*model.PurchaseHistory, error) {
	if err := check(&in); err != nil {
		return nil, err
	}
	it, err := s.items.GetByID(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, invalid("itemId", "does not reference an existing item")
	}
	h, err := s.history.Create(ctx, store.HistoryFields{
		ItemID:      in.ItemID,
		Quantity:    in.Quantity,
		Price:       in.Price,
		TotalAmount: totalAmount(in.Price, in.TotalAmount, in.Quantity),
		Notes:       in.Notes,
	})
	if err != nil {
		return nil, err
	}
	h.Item = it
	return h, nil
}

// CompletePurchase moves a list entry into the ledger. The history insert and
// the entry delete commit together.
func (s *Service) CompletePurchase(ctx context.Context, entryID string, in CompleteInput) (*model.PurchaseHistory, error) {
	if err := check(&in); err != nil {
		return nil, err
	}
	var h *model.PurchaseHistory
	err := s.inTx(ctx, func(tx *Service) error {
		e, err := tx.lists.GetEntry(ctx, entryID)
		if err != nil {
			return err
		}
		if e == nil {
			return notFound("purchase item", entryID)
		}

		qty := e.Quantity
		if in.Quantity != nil {
			qty = *in.Quantity
		}
		notes := e.Notes
		if in.Notes != nil {
			notes = in.Notes
		}
		h, err = tx.history.Create(ctx, store.HistoryFields{
			ItemID:      e.ItemID,
			Quantity:    qty,
			Price:       in.Price,
			TotalAmount: totalAmount(in.Price, in.TotalAmount, qty),
			Notes:       notes,
		})
		if err != nil {
			return err
		}
		if _, err := tx.lists.DeleteEntry(ctx, entryID); err != nil {
			return err
		}
		h.Item = e.Item
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("purchase completed", "entry", entryID, "item", h.ItemID, "quantity", h.Quantity)
	return h, nil
}

// ListHistory returns ledger rows newest first. Rows whose item has since
// been deleted come back without an item.
func (s *Service) ListHistory(ctx context.Context, limit, offset int) (*HistoryPage, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	limit = min(limit, MaxHistoryLimit)
	offset = max(offset, 0)

	rows, err := s.history.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.history.Count(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ItemID)
	}
	items, err := s.items.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Item = items[rows[i].ItemID]
	}
	return &HistoryPage{History: rows, Total: total}, nil
}

// MostPurchased ranks items by total quantity bought, then by number of
// purchases. Ledger rows for deleted items are left out.
func (s *Service) MostPurchased(ctx context.Context, n int) ([]model.PurchaseStat, error) {
	if n <= 0 {
		n = DefaultTopItems
	}
	stats := make([]model.PurchaseStat, 0, n)
	err := s.inTx(ctx, func(tx *Service) error {
		totals, err := tx.history.TopItems(ctx, n)
		if err != nil {
			return err
		}
		ids := make([]string, len(totals))
		for i, t := range totals {
			ids[i] = t.ItemID
		}
		items, err := tx.items.GetByIDs(ctx, ids)
		if err != nil {
			return err
		}
		for _, t := range totals {
			stats = append(stats, model.PurchaseStat{
				Item:          *items[t.ItemID],
				TotalQuantity: t.TotalQuantity,
				PurchaseCount: t.PurchaseCount,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// ClearHistory deletes every ledger row and returns how many were removed.
func (s *Service) ClearHistory(ctx context.Context) (int64, error) {
	n, err := s.history.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Info("purchase history cleared", "deleted", n)
	return n, nil
}

// totalAmount keeps an explicit total, else derives price × quantity rounded
// to cents.
func totalAmount(price, total *float64, quantity int) *float64 {
	if total != nil || price == nil {
		return total
	}
	v := decimal.NewFromFloat(*price).Mul(decimal.NewFromInt(int64(quantity))).Round(2).InexactFloat64()
	return &v
}
