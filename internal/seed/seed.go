// Package seed loads a starter catalog of categories, items and templates.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dukerupert/grocer/internal/grocery"
)

//go:embed default.yaml
var defaultData []byte

type Category struct {
	Name        string  `yaml:"name"`
	Description *string `yaml:"description"`
	Color       *string `yaml:"color"`
}

// Item names its category by name. An empty category is filled in with
// grocery.Categorize.
type Item struct {
	Name            string   `yaml:"name"`
	Description     *string  `yaml:"description"`
	ImageURL        *string  `yaml:"imageUrl"`
	DefaultQuantity int      `yaml:"defaultQuantity"`
	Price           *float64 `yaml:"price"`
	Notes           *string  `yaml:"notes"`
	Category        string   `yaml:"category"`
}

type TemplateItem struct {
	Item     string  `yaml:"item"`
	Quantity int     `yaml:"quantity"`
	Notes    *string `yaml:"notes"`
}

type Template struct {
	Name        string         `yaml:"name"`
	Description *string        `yaml:"description"`
	IsDefault   bool           `yaml:"isDefault"`
	Items       []TemplateItem `yaml:"items"`
}

// Data is the seed document.
type Data struct {
	Categories []Category `yaml:"categories"`
	Items      []Item     `yaml:"items"`
	Templates  []Template `yaml:"templates"`
}

// Summary counts what Load created.
type Summary struct {
	Skipped    bool
	Categories int
	Items      int
	Templates  int
}

// Default returns the embedded starter catalog.
func Default() (*Data, error) {
	return Parse(defaultData)
}

// ReadFile parses a seed document from path.
func ReadFile(path string) (*Data, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(b)
}

func Parse(b []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return &d, nil
}

// Load writes d in one transaction. Unless force is set, it does nothing
// when any category already exists.
func Load(ctx context.Context, svc *grocery.Service, d *Data, force bool, logger *slog.Logger) (Summary, error) {
	var sum Summary
	err := svc.Atomically(ctx, func(tx *grocery.Service) error {
		existing, err := tx.ListCategories(ctx)
		if err != nil {
			return err
		}
		if len(existing) > 0 && !force {
			sum.Skipped = true
			return nil
		}

		categories := make(map[string]string, len(existing))
		for _, c := range existing {
			categories[strings.ToLower(c.Name)] = c.ID
		}
		categoryID := func(name string, in *grocery.CategoryInput) (string, error) {
			if id, ok := categories[strings.ToLower(name)]; ok {
				return id, nil
			}
			if in == nil {
				in = &grocery.CategoryInput{Name: name}
			}
			c, err := tx.CreateCategory(ctx, *in)
			if err != nil {
				return "", fmt.Errorf("category %q: %w", name, err)
			}
			categories[strings.ToLower(name)] = c.ID
			sum.Categories++
			return c.ID, nil
		}

		for _, c := range d.Categories {
			in := grocery.CategoryInput{Name: c.Name, Description: c.Description, Color: c.Color}
			if _, err := categoryID(c.Name, &in); err != nil {
				return err
			}
		}

		items := make(map[string]string, len(d.Items))
		for _, it := range d.Items {
			catName := it.Category
			if catName == "" {
				catName = grocery.Categorize(it.Name)
			}
			catID, err := categoryID(catName, nil)
			if err != nil {
				return err
			}
			qty := it.DefaultQuantity
			if qty == 0 {
				qty = 1
			}
			created, err := tx.CreateItem(ctx, grocery.ItemInput{
				Name:            it.Name,
				Description:     it.Description,
				ImageURL:        it.ImageURL,
				DefaultQuantity: qty,
				Price:           it.Price,
				Notes:           it.Notes,
				CategoryID:      catID,
			})
			if err != nil {
				return fmt.Errorf("item %q: %w", it.Name, err)
			}
			items[strings.ToLower(it.Name)] = created.ID
			sum.Items++
		}

		for _, t := range d.Templates {
			in := grocery.TemplateInput{Name: t.Name, Description: t.Description, IsDefault: t.IsDefault}
			for _, ti := range t.Items {
				id, ok := items[strings.ToLower(ti.Item)]
				if !ok {
					return fmt.Errorf("template %q: unknown item %q", t.Name, ti.Item)
				}
				in.Items = append(in.Items, grocery.TemplateItemInput{ItemID: id, Quantity: ti.Quantity, Notes: ti.Notes})
			}
			if _, err := tx.CreateTemplate(ctx, in); err != nil {
				return fmt.Errorf("template %q: %w", t.Name, err)
			}
			sum.Templates++
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	if sum.Skipped {
		logger.Info("seed skipped, catalog not empty")
	} else {
		logger.Info("seed loaded", "categories", sum.Categories, "items", sum.Items, "templates", sum.Templates)
	}
	return sum, nil
}
