package grocery

import (
	"context"
	"errors"
	"fmt"

	"github.com/dukerupert/grocer/internal/model"
	"github.com/dukerupert/grocer/internal/store"
)

// DefaultListName names the list created when no active list exists.
const DefaultListName = "My Shopping List"

// ApplyResult reports what ApplyTemplate did.
type ApplyResult struct {
	TemplateName string
	Added        []model.PurchaseItem
	Skipped      int
}

// GetOrCreateActiveList returns the oldest active list, creating one when
// there is none.
func (s *Service) GetOrCreateActiveList(ctx context.Context) (*model.PurchaseList, error) {
	var list *model.PurchaseList
	err := s.inTx(ctx, func(tx *Service) error {
		l, err := tx.lists.GetFirstActive(ctx)
		if err != nil {
			return err
		}
		if l == nil {
			name := DefaultListName
			l, err = tx.lists.Create(ctx, &name, true)
			if err != nil {
				return err
			}
			tx.logger.Info("created active purchase list", "id", l.ID)
		}
		list = l
		return nil
	})
	return list, err
}

func (s *Service) ListPurchaseLists(ctx context.Context, isActive *bool) ([]model.PurchaseList, error) {
	return s.lists.List(ctx, isActive)
}

func (s *Service) GetPurchaseList(ctx context.Context, id string) (*model.PurchaseList, error) {
	l, err := s.lists.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, notFound("purchase list", id)
	}
	return l, nil
}

func (s *Service) CreatePurchaseList(ctx context.Context, in PurchaseListInput) (*model.PurchaseList, error) {
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return s.lists.Create(ctx, in.Name, active)
}

// UpdatePurchaseList replaces the list's name and, when given, its active flag.
func (s *Service) UpdatePurchaseList(ctx context.Context, id string, in PurchaseListInput) (*model.PurchaseList, error) {
	var list *model.PurchaseList
	err := s.inTx(ctx, func(tx *Service) error {
		cur, err := tx.lists.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return notFound("purchase list", id)
		}
		active := cur.IsActive
		if in.IsActive != nil {
			active = *in.IsActive
		}
		list, err = tx.lists.Update(ctx, id, in.Name, active)
		return err
	})
	return list, err
}

func (s *Service) DeletePurchaseList(ctx context.Context, id string) error {
	ok, err := s.lists.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound("purchase list", id)
	}
	return nil
}

func (s *Service) ListEntries(ctx context.Context, listID string) ([]model.PurchaseItem, error) {
	if _, err := s.GetPurchaseList(ctx, listID); err != nil {
		return nil, err
	}
	return s.lists.ListEntries(ctx, listID)
}

// AddItemToList puts an item on a list. An item can appear on a list only
// once; a second add fails with ErrConflict.
func (s *Service) AddItemToList(ctx context.Context, listID string, in EntryInput) (*model.PurchaseItem, error) {
	if err := check(&in); err != nil {
		return nil, err
	}
	var entry *model.PurchaseItem
	err := s.inTx(ctx, func(tx *Service) error {
		l, err := tx.lists.GetByID(ctx, listID)
		if err != nil {
			return err
		}
		if l == nil {
			return notFound("purchase list", listID)
		}
		it, err := tx.items.GetByID(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if it == nil {
			return invalid("itemId", "does not reference an existing item")
		}
		entry, err = tx.lists.CreateEntry(ctx, listID, in.ItemID, in.Quantity, in.Notes)
		if errors.Is(err, store.ErrDuplicate) {
			return fmt.Errorf("item %q: %w", it.Name, ErrConflict)
		}
		return err
	})
	return entry, err
}

func (s *Service) GetEntry(ctx context.Context, id string) (*model.PurchaseItem, error) {
	e, err := s.lists.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, notFound("purchase item", id)
	}
	return e, nil
}

func (s *Service) UpdateEntry(ctx context.Context, id string, in EntryUpdate) (*model.PurchaseItem, error) {
	if err := check(&in); err != nil {
		return nil, err
	}
	e, err := s.lists.UpdateEntry(ctx, id, in.Quantity, in.Notes)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, notFound("purchase item", id)
	}
	return e, nil
}

// RemoveEntry drops an entry without recording a purchase.
func (s *Service) RemoveEntry(ctx context.Context, id string) error {
	ok, err := s.lists.DeleteEntry(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound("purchase item", id)
	}
	return nil
}

// ApplyTemplate adds every template item not already on the list. Existing
// entries are left untouched and counted as skipped.
func (s *Service) ApplyTemplate(ctx context.Context, listID, templateID string) (*ApplyResult, error) {
	var res *ApplyResult
	err := s.inTx(ctx, func(tx *Service) error {
		t, err := tx.templates.GetByID(ctx, templateID)
		if err != nil {
			return err
		}
		if t == nil {
			return notFound("template", templateID)
		}
		l, err := tx.lists.GetByID(ctx, listID)
		if err != nil {
			return err
		}
		if l == nil {
			return notFound("purchase list", listID)
		}

		res = &ApplyResult{TemplateName: t.Name, Added: []model.PurchaseItem{}}
		for _, ti := range t.Items {
			exists, err := tx.lists.HasItem(ctx, listID, ti.ItemID)
			if err != nil {
				return err
			}
			if exists {
				res.Skipped++
				continue
			}
			e, err := tx.lists.CreateEntry(ctx, listID, ti.ItemID, ti.Quantity, ti.Notes)
			if err != nil {
				return err
			}
			res.Added = append(res.Added, *e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("applied template", "template", res.TemplateName, "list", listID,
		"added", len(res.Added), "skipped", res.Skipped)
	return res, nil
}
