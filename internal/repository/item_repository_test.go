package repository

import (
	"context"
	"testing"
	"time"

	"inventory-api/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func newTestItem(name string) *domain.Item {
	return &domain.Item{
		ID:           uuid.New(),
		Name:         name,
		Quantity:     1,
		Category:     "test-category",
		Manufacturer: "test-manufacturer",
		Machine:      "test-machine",
		Description:  "test description",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// Feature: inventory-api, Property 14: Item creation preserves attributes
// Validates: Requirements 5.1
func TestProperty_ItemCreationPreservesAttributes(t *testing.T) {
	repo := NewItemRepository(testDB)

	properties := gopter.NewProperties(nil)

	properties.Property("creating and retrieving an item preserves all attributes", prop.ForAll(
		func(name string, quantity int, price float64, category string, manufacturer string, machine string, description string) bool {
			ctx := context.Background()

			item := &domain.Item{
				ID:           uuid.New(),
				Name:         name + "-" + uuid.New().String(),
				Quantity:     quantity,
				Price:        &price,
				Category:     category,
				Manufacturer: manufacturer,
				Machine:      machine,
				Description:  description,
				CreatedAt:    time.Now(),
				UpdatedAt:    time.Now(),
			}

			if err := repo.Create(ctx, item); err != nil {
				t.Logf("FAIL: Failed to create item: %v", err)
				return false
			}
			defer testDB.Exec("DELETE FROM items WHERE id = $1", item.ID.String())

			retrieved, err := repo.FindByID(ctx, item.ID)
			if err != nil {
				t.Logf("FAIL: Failed to retrieve item: %v", err)
				return false
			}

			if retrieved.Name != item.Name {
				t.Logf("FAIL: Name mismatch. Expected %s, got %s", item.Name, retrieved.Name)
				return false
			}

			if retrieved.Quantity != item.Quantity {
				t.Logf("FAIL: Quantity mismatch. Expected %d, got %d", item.Quantity, retrieved.Quantity)
				return false
			}

			// Compare prices with small tolerance for floating point
			if retrieved.Price == nil {
				t.Logf("FAIL: Price lost on round trip")
				return false
			}
			if *retrieved.Price < price-0.01 || *retrieved.Price > price+0.01 {
				t.Logf("FAIL: Price mismatch. Expected %f, got %f", price, *retrieved.Price)
				return false
			}

			if retrieved.Category != item.Category ||
				retrieved.Manufacturer != item.Manufacturer ||
				retrieved.Machine != item.Machine ||
				retrieved.Description != item.Description {
				t.Logf("FAIL: Attribute mismatch on round trip")
				return false
			}

			// Fresh items carry an empty photo list, not null
			if retrieved.Photos == nil || len(retrieved.Photos) != 0 {
				t.Logf("FAIL: Expected empty photo list, got %v", retrieved.Photos)
				return false
			}

			return true
		},
		gen.RegexMatch(`[A-Za-z][A-Za-z0-9 ]{2,30}`),
		gen.IntRange(0, 10000),
		gen.Float64Range(0.01, 99999.99),
		gen.RegexMatch(`[a-z]{3,20}`),
		gen.RegexMatch(`[A-Z][a-z]{2,20}`),
		gen.RegexMatch(`[a-z]{3,20}-[0-9]{1,3}`),
		gen.RegexMatch(`[A-Za-z0-9 ]{0,100}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestItemRepository_NilPriceRoundTrip(t *testing.T) {
	repo := NewItemRepository(testDB)
	ctx := context.Background()

	item := newTestItem("nil-price-" + uuid.New().String())
	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	defer testDB.Exec("DELETE FROM items WHERE id = $1", item.ID.String())

	retrieved, err := repo.FindByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if retrieved.Price != nil {
		t.Fatalf("expected nil price, got %v", *retrieved.Price)
	}
}

func TestItemRepository_DuplicateName(t *testing.T) {
	repo := NewItemRepository(testDB)
	ctx := context.Background()

	name := "duplicate-item-" + uuid.New().String()
	first := newTestItem(name)
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	defer testDB.Exec("DELETE FROM items WHERE id = $1", first.ID.String())

	second := newTestItem(name)
	if err := repo.Create(ctx, second); err != ErrItemAlreadyExists {
		t.Fatalf("expected ErrItemAlreadyExists, got: %v", err)
	}
}

func TestItemRepository_UpdateReplacesFields(t *testing.T) {
	repo := NewItemRepository(testDB)
	ctx := context.Background()

	item := newTestItem("update-me-" + uuid.New().String())
	price := 10.50
	item.Price = &price
	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	defer testDB.Exec("DELETE FROM items WHERE id = $1", item.ID.String())

	updated := newTestItem("updated-" + uuid.New().String())
	updated.ID = item.ID
	updated.Quantity = 42
	// Price deliberately nil: the update clears the stored one
	if err := repo.Update(ctx, updated); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	retrieved, err := repo.FindByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if retrieved.Name != updated.Name {
		t.Fatalf("expected name %q, got %q", updated.Name, retrieved.Name)
	}
	if retrieved.Quantity != 42 {
		t.Fatalf("expected quantity 42, got %d", retrieved.Quantity)
	}
	if retrieved.Price != nil {
		t.Fatalf("expected price cleared, got %v", *retrieved.Price)
	}
}

func TestItemRepository_UpdateUnknown(t *testing.T) {
	repo := NewItemRepository(testDB)

	item := newTestItem("ghost-" + uuid.New().String())
	if err := repo.Update(context.Background(), item); err != ErrItemNotFound {
		t.Fatalf("expected ErrItemNotFound, got: %v", err)
	}
}

func TestItemRepository_DeleteCascadesPhotoRecords(t *testing.T) {
	itemRepo := NewItemRepository(testDB)
	photoRepo := NewPhotoRepository(testDB)
	ctx := context.Background()

	item := newTestItem("cascade-" + uuid.New().String())
	if err := itemRepo.Create(ctx, item); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	photo := &domain.Photo{
		ID:        uuid.New(),
		ItemID:    item.ID,
		FilePath:  "/uploads/cascade.jpg",
		CreatedAt: time.Now(),
	}
	if err := photoRepo.CreateBatch(ctx, []*domain.Photo{photo}); err != nil {
		t.Fatalf("photo create failed: %v", err)
	}

	if err := itemRepo.Delete(ctx, item.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := itemRepo.FindByID(ctx, item.ID); err != ErrItemNotFound {
		t.Fatalf("expected ErrItemNotFound, got: %v", err)
	}
	if _, err := photoRepo.FindByID(ctx, photo.ID); err != ErrPhotoNotFound {
		t.Fatalf("expected photo to be cascaded away, got: %v", err)
	}
}

func TestItemRepository_DeleteUnknown(t *testing.T) {
	repo := NewItemRepository(testDB)

	if err := repo.Delete(context.Background(), uuid.New()); err != ErrItemNotFound {
		t.Fatalf("expected ErrItemNotFound, got: %v", err)
	}
}

func TestItemRepository_ListResolvesPhotos(t *testing.T) {
	itemRepo := NewItemRepository(testDB)
	photoRepo := NewPhotoRepository(testDB)
	ctx := context.Background()

	item := newTestItem("list-photos-" + uuid.New().String())
	if err := itemRepo.Create(ctx, item); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	defer testDB.Exec("DELETE FROM items WHERE id = $1", item.ID.String())

	photos := []*domain.Photo{
		{ID: uuid.New(), ItemID: item.ID, FilePath: "/uploads/one.jpg", CreatedAt: time.Now()},
		{ID: uuid.New(), ItemID: item.ID, FilePath: "/uploads/two.jpg", CreatedAt: time.Now()},
	}
	if err := photoRepo.CreateBatch(ctx, photos); err != nil {
		t.Fatalf("photo create failed: %v", err)
	}

	items, err := itemRepo.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	var found *domain.Item
	for _, listed := range items {
		if listed.ID == item.ID {
			found = listed
			break
		}
	}
	if found == nil {
		t.Fatal("created item missing from list")
	}
	if len(found.Photos) != 2 {
		t.Fatalf("expected 2 photos resolved, got %d", len(found.Photos))
	}
	if found.Photos[0].FilePath != "/uploads/one.jpg" || found.Photos[1].FilePath != "/uploads/two.jpg" {
		t.Fatalf("photos out of order: %+v", found.Photos)
	}
}
