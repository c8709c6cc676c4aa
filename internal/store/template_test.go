package store

import (
	"context"
	"testing"
)

func TestTemplateItemsReplace(t *testing.T) {
	db := setupTestDB(t)
	c := createCategory(t, db, "Produce")
	apples := createItem(t, db, "Apples", c.ID)
	pears := createItem(t, db, "Pears", c.ID)
	ts := NewTemplateStore(db)
	ctx := context.Background()

	tpl, err := ts.Create(ctx, "Fruit", nil, false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	err = ts.ReplaceItems(ctx, tpl.ID, []TemplateItemFields{
		{ItemID: pears.ID, Quantity: 2},
		{ItemID: apples.ID, Quantity: 4, Notes: strPtr("crisp")},
	})
	if err != nil {
		t.Fatalf("replace items: %v", err)
	}

	got, err := ts.GetByID(ctx, tpl.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(got.Items))
	}
	if got.Items[0].ItemID != pears.ID || got.Items[1].ItemID != apples.ID {
		t.Error("items not kept in insertion order")
	}
	if got.Items[1].Item == nil || got.Items[1].Item.Name != "Apples" {
		t.Errorf("item not joined: %+v", got.Items[1].Item)
	}

	if err := ts.ReplaceItems(ctx, tpl.ID, []TemplateItemFields{{ItemID: apples.ID, Quantity: 1}}); err != nil {
		t.Fatalf("replace again: %v", err)
	}
	items, _ := ts.ListItems(ctx, tpl.ID)
	if len(items) != 1 || items[0].Quantity != 1 {
		t.Errorf("items after replace = %+v", items)
	}
}

func TestTemplateListDefaultsFirst(t *testing.T) {
	db := setupTestDB(t)
	ts := NewTemplateStore(db)
	ctx := context.Background()

	if _, err := ts.Create(ctx, "Alpha", nil, false); err != nil {
		t.Fatal(err)
	}
	if _, err := ts.Create(ctx, "Zulu", nil, true); err != nil {
		t.Fatal(err)
	}

	list, err := ts.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Zulu" {
		t.Errorf("list order = %+v", list)
	}
	if list[1].Items == nil {
		t.Error("Items should be an empty slice, not nil")
	}
}

func TestTemplateItemCascadeOnItemDelete(t *testing.T) {
	db := setupTestDB(t)
	c := createCategory(t, db, "Pantry")
	rice := createItem(t, db, "Rice", c.ID)
	ts := NewTemplateStore(db)
	ctx := context.Background()

	tpl, _ := ts.Create(ctx, "Staples", nil, false)
	if err := ts.ReplaceItems(ctx, tpl.ID, []TemplateItemFields{{ItemID: rice.ID, Quantity: 1}}); err != nil {
		t.Fatal(err)
	}
	if _, err := NewItemStore(db).Delete(ctx, rice.ID); err != nil {
		t.Fatalf("delete item: %v", err)
	}

	items, _ := ts.ListItems(ctx, tpl.ID)
	if len(items) != 0 {
		t.Errorf("template items after item delete = %d", len(items))
	}
	ok, err := ts.Delete(ctx, tpl.ID)
	if err != nil || !ok {
		t.Errorf("delete template = %v, %v", ok, err)
	}
}
