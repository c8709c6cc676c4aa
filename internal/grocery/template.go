package grocery

import (
	"context"
	"fmt"
	"strings"

	"github.com/dukerupert/grocer/internal/model"
	"github.com/dukerupert/grocer/internal/store"
)

func (s *Service) ListTemplates(ctx context.Context) ([]model.Template, error) {
	return s.templates.List(ctx)
}

func (s *Service) GetTemplate(ctx context.Context, id string) (*model.Template, error) {
	t, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, notFound("template", id)
	}
	return t, nil
}

func (s *Service) CreateTemplate(ctx context.Context, in TemplateInput) (*model.Template, error) {
	if err := check(&in); err != nil {
		return nil, err
	}
	var t *model.Template
	err := s.inTx(ctx, func(tx *Service) error {
		fields, err := tx.templateItems(ctx, in.Items)
		if err != nil {
			return err
		}
		created, err := tx.templates.Create(ctx, strings.TrimSpace(in.Name), in.Description, in.IsDefault)
		if err != nil {
			return err
		}
		if err := tx.templates.ReplaceItems(ctx, created.ID, fields); err != nil {
			return err
		}
		t, err = tx.templates.GetByID(ctx, created.ID)
		return err
	})
	return t, err
}

// UpdateTemplate replaces the template and its whole item set.
func (s *Service) UpdateTemplate(ctx context.Context, id string, in TemplateInput) (*model.Template, error) {
	if err := check(&in); err != nil {
		return nil, err
	}
	var t *model.Template
	err := s.inTx(ctx, func(tx *Service) error {
		fields, err := tx.templateItems(ctx, in.Items)
		if err != nil {
			return err
		}
		updated, err := tx.templates.Update(ctx, id, strings.TrimSpace(in.Name), in.Description, in.IsDefault)
		if err != nil {
			return err
		}
		if updated == nil {
			return notFound("template", id)
		}
		if err := tx.templates.ReplaceItems(ctx, id, fields); err != nil {
			return err
		}
		t, err = tx.templates.GetByID(ctx, id)
		return err
	})
	return t, err
}

func (s *Service) DeleteTemplate(ctx context.Context, id string) error {
	ok, err := s.templates.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound("template", id)
	}
	return nil
}

// templateItems checks that every line references a distinct existing item.
func (s *Service) templateItems(ctx context.Context, in []TemplateItemInput) ([]store.TemplateItemFields, error) {
	ids := make([]string, len(in))
	for i, ti := range in {
		ids[i] = ti.ItemID
	}
	items, err := s.items.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	var verr ValidationError
	seen := make(map[string]bool, len(in))
	fields := make([]store.TemplateItemFields, 0, len(in))
	for i, ti := range in {
		field := fmt.Sprintf("items[%d].itemId", i)
		switch {
		case items[ti.ItemID] == nil:
			verr.Details = append(verr.Details, FieldError{Field: field, Message: "does not reference an existing item"})
		case seen[ti.ItemID]:
			verr.Details = append(verr.Details, FieldError{Field: field, Message: "must not contain duplicates"})
		}
		seen[ti.ItemID] = true
		fields = append(fields, store.TemplateItemFields{ItemID: ti.ItemID, Quantity: ti.Quantity, Notes: ti.Notes})
	}
	if len(verr.Details) > 0 {
		return nil, &verr
	}
	return fields, nil
}
