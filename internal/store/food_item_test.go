package store

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/larder/internal/model"
)

func sampleFields(name string) model.FoodItemFields {
	return model.FoodItemFields{
		Name:       name,
		Category:   "Dairy",
		Quantity:   "1",
		InDate:     "2026-05-01",
		ExpireDate: "2026-05-10",
	}
}

func setupFoodItemTestDB(t *testing.T) (*FoodItemStore, string, string) {
	t.Helper()
	db := setupTestDB(t)
	us := NewUserStore(db)
	us.cost = bcrypt.MinCost
	alice, err := us.Create("alice", "secret1")
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}
	bob, err := us.Create("bob", "secret1")
	if err != nil {
		t.Fatalf("create bob: %v", err)
	}
	return NewFoodItemStore(db), alice.ID, bob.ID
}

func TestFoodItemCreate(t *testing.T) {
	fs, alice, _ := setupFoodItemTestDB(t)

	it, err := fs.Create(alice, sampleFields("Milk"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if it.Name != "Milk" || it.Category != "Dairy" || it.Quantity != "1" {
		t.Errorf("item = %+v", it)
	}
	if it.InDate != "2026-05-01" || it.ExpireDate != "2026-05-10" {
		t.Errorf("dates = %q, %q", it.InDate, it.ExpireDate)
	}
	if it.ID == "" {
		t.Error("expected id")
	}
}

func TestFoodItemListNewestFirst(t *testing.T) {
	fs, alice, bob := setupFoodItemTestDB(t)

	for _, name := range []string{"Milk", "Eggs", "Bread"} {
		if _, err := fs.Create(alice, sampleFields(name)); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	if _, err := fs.Create(bob, sampleFields("Cheese")); err != nil {
		t.Fatalf("create: %v", err)
	}

	items, err := fs.List(alice)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
	want := []string{"Bread", "Eggs", "Milk"}
	for i, it := range items {
		if it.Name != want[i] {
			t.Errorf("items[%d] = %q, want %q", i, it.Name, want[i])
		}
	}
}

func TestFoodItemScopedToUser(t *testing.T) {
	fs, alice, bob := setupFoodItemTestDB(t)
	it, _ := fs.Create(alice, sampleFields("Milk"))

	got, err := fs.GetByID(bob, it.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Error("bob should not see alice's item")
	}

	name := "Stolen"
	updated, err := fs.Update(bob, it.ID, model.FoodItemPatch{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated != nil {
		t.Error("bob should not update alice's item")
	}

	ok, err := fs.Delete(bob, it.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if ok {
		t.Error("bob should not delete alice's item")
	}
}

func TestFoodItemPartialUpdate(t *testing.T) {
	fs, alice, _ := setupFoodItemTestDB(t)
	it, _ := fs.Create(alice, sampleFields("Milk"))

	cat := "Drinks"
	updated, err := fs.Update(alice, it.ID, model.FoodItemPatch{Category: &cat})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Category != "Drinks" {
		t.Errorf("category = %q, want %q", updated.Category, "Drinks")
	}
	if updated.Name != "Milk" || updated.ExpireDate != "2026-05-10" {
		t.Errorf("untouched fields changed: %+v", updated)
	}
}

func TestFoodItemDelete(t *testing.T) {
	fs, alice, _ := setupFoodItemTestDB(t)
	it, _ := fs.Create(alice, sampleFields("Milk"))

	ok, err := fs.Delete(alice, it.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !ok {
		t.Error("expected delete to report true")
	}
	got, _ := fs.GetByID(alice, it.ID)
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestFoodItemListStockedSince(t *testing.T) {
	fs, alice, _ := setupFoodItemTestDB(t)

	old := sampleFields("Old")
	old.InDate = "2026-01-01"
	fs.Create(alice, old)
	fs.Create(alice, sampleFields("Recent"))

	items, err := fs.ListStockedSince(alice, "2026-04-20")
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Recent" {
		t.Errorf("items = %+v", items)
	}
}
