package grocery

import (
	"context"
	"fmt"
	"strings"

	"github.com/dukerupert/grocer/internal/model"
	"github.com/dukerupert/grocer/internal/store"
)

func (s *Service) ListItems(ctx context.Context, f store.ItemFilter) ([]model.Item, error) {
	f.Search = strings.TrimSpace(f.Search)
	return s.items.List(ctx, f)
}

func (s *Service) GetItem(ctx context.Context, id string) (*model.Item, error) {
	it, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, notFound("item", id)
	}
	return it, nil
}

func (s *Service) CreateItem(ctx context.Context, in ItemInput) (*model.Item, error) {
	f, err := s.itemFields(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.items.Create(ctx, f)
}

func (s *Service) UpdateItem(ctx context.Context, id string, in ItemInput) (*model.Item, error) {
	f, err := s.itemFields(ctx, in)
	if err != nil {
		return nil, err
	}
	it, err := s.items.Update(ctx, id, f)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, notFound("item", id)
	}
	return it, nil
}

// DeleteItem removes an item from the catalog. Items still on an active list
// are refused; template lines and inactive list entries go with the item while
// ledger rows stay.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *Service) error {
		it, err := tx.items.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if it == nil {
			return notFound("item", id)
		}
		n, err := tx.items.CountOnActiveLists(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("item %q is on an active list: %w", it.Name, ErrInUse)
		}
		_, err = tx.items.Delete(ctx, id)
		return err
	})
}

func (s *Service) itemFields(ctx context.Context, in ItemInput) (store.ItemFields, error) {
	// An empty imageUrl means no image.
	if in.ImageURL != nil && strings.TrimSpace(*in.ImageURL) == "" {
		in.ImageURL = nil
	}
	if err := check(&in); err != nil {
		return store.ItemFields{}, err
	}
	c, err := s.categories.GetByID(ctx, in.CategoryID)
	if err != nil {
		return store.ItemFields{}, err
	}
	if c == nil {
		return store.ItemFields{}, invalid("categoryId", "does not reference an existing category")
	}
	available := true
	if in.Available != nil {
		available = *in.Available
	}
	return store.ItemFields{
		Name:            strings.TrimSpace(in.Name),
		Description:     in.Description,
		ImageURL:        in.ImageURL,
		DefaultQuantity: in.DefaultQuantity,
		Price:           in.Price,
		Notes:           in.Notes,
		Available:       available,
		CategoryID:      in.CategoryID,
	}, nil
}
