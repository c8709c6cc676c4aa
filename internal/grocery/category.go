package grocery

import (
	"context"
	"fmt"
	"strings"

	"github.com/dukerupert/grocer/internal/model"
)

func (s *Service) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.categories.List(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*model.Category, error) {
	if err := check(&in); err != nil {
		return nil, err
	}
	return s.categories.Create(ctx, strings.TrimSpace(in.Name), in.Description, in.Color)
}

func (s *Service) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*model.Category, error) {
	if err := check(&in); err != nil {
		return nil, err
	}
	c, err := s.categories.Update(ctx, id, strings.TrimSpace(in.Name), in.Description, in.Color)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFound("category", id)
	}
	return c, nil
}

// DeleteCategory refuses to delete a category that still has items.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *Service) error {
		c, err := tx.categories.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return notFound("category", id)
		}
		n, err := tx.categories.CountItems(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("category %q has %d items: %w", c.Name, n, ErrInUse)
		}
		_, err = tx.categories.Delete(ctx, id)
		return err
	})
}

// SuggestCategory classifies an item name and returns the existing category
// with the matching name.
func (s *Service) SuggestCategory(ctx context.Context, itemName string) (*model.Category, error) {
	if strings.TrimSpace(itemName) == "" {
		return nil, invalid("name", "is required")
	}
	name := Categorize(itemName)
	c, err := s.categories.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFound("category", name)
	}
	return c, nil
}
