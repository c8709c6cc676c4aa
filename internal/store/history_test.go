package store

import (
	"context"
	"testing"
)

func TestHistoryLedger(t *testing.T) {
	db := setupTestDB(t)
	c := createCategory(t, db, "Pantry")
	a := createItem(t, db, "Rice", c.ID)
	b := createItem(t, db, "Pasta", c.ID)
	d := createItem(t, db, "Flour", c.ID)
	hs := NewHistoryStore(db)
	ctx := context.Background()

	price, total := 1.5, 3.0
	rows := []HistoryFields{
		{ItemID: a.ID, Quantity: 2, Price: &price, TotalAmount: &total},
		{ItemID: b.ID, Quantity: 5},
		{ItemID: a.ID, Quantity: 3, Notes: strPtr("sale")},
		{ItemID: d.ID, Quantity: 5},
	}
	for _, f := range rows {
		if _, err := hs.Create(ctx, f); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	n, err := hs.Count(ctx)
	if err != nil || n != 4 {
		t.Fatalf("Count = %d, %v", n, err)
	}

	page, err := hs.List(ctx, 2, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("page len = %d, want 2", len(page))
	}

	top, err := hs.TopItems(ctx, 10)
	if err != nil {
		t.Fatalf("top items: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("top len = %d, want 3", len(top))
	}
	// Rice: 5 over 2 purchases; Pasta and Flour: 5 over 1, tie broken by id.
	if top[0].ItemID != a.ID {
		t.Errorf("top[0] = %q, want Rice", top[0].ItemID)
	}
	if top[1].ItemID > top[2].ItemID {
		t.Errorf("tie not ordered by id: %q before %q", top[1].ItemID, top[2].ItemID)
	}
	if top[0].TotalQuantity != 5 || top[0].PurchaseCount != 2 {
		t.Errorf("top[0] = %+v", top[0])
	}

	deleted, err := hs.DeleteAll(ctx)
	if err != nil || deleted != 4 {
		t.Errorf("DeleteAll = %d, %v", deleted, err)
	}
}

func TestHistoryOutlivesItem(t *testing.T) {
	db := setupTestDB(t)
	c := createCategory(t, db, "Dairy")
	milk := createItem(t, db, "Milk", c.ID)
	hs := NewHistoryStore(db)
	ctx := context.Background()

	if _, err := hs.Create(ctx, HistoryFields{ItemID: milk.ID, Quantity: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := NewItemStore(db).Delete(ctx, milk.ID); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	rows, _ := hs.List(ctx, 10, 0)
	if len(rows) != 1 || rows[0].ItemID != milk.ID {
		t.Errorf("ledger rows = %+v", rows)
	}
}

func TestTopItemsSkipsDeletedItems(t *testing.T) {
	db := setupTestDB(t)
	c := createCategory(t, db, "Pantry")
	live := createItem(t, db, "Rice", c.ID)
	hs := NewHistoryStore(db)
	is := NewItemStore(db)
	ctx := context.Background()

	for _, name := range []string{"Lentils", "Quinoa"} {
		gone := createItem(t, db, name, c.ID)
		if _, err := hs.Create(ctx, HistoryFields{ItemID: gone.ID, Quantity: 10}); err != nil {
			t.Fatal(err)
		}
		if _, err := is.Delete(ctx, gone.ID); err != nil {
			t.Fatalf("delete item: %v", err)
		}
	}
	if _, err := hs.Create(ctx, HistoryFields{ItemID: live.ID, Quantity: 1}); err != nil {
		t.Fatal(err)
	}

	top, err := hs.TopItems(ctx, 1)
	if err != nil {
		t.Fatalf("top items: %v", err)
	}
	if len(top) != 1 || top[0].ItemID != live.ID {
		t.Errorf("top = %+v, want only Rice", top)
	}

	n, _ := hs.Count(ctx)
	if n != 3 {
		t.Errorf("ledger count = %d, want 3", n)
	}
}
