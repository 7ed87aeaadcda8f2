package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/salvadalba/nodaysidle-fabricloop/internal/domain"
	"github.com/salvadalba/nodaysidle-fabricloop/internal/testutil"
)

func TestMaterialRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewMaterialRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	t.Run("create and get round-trip", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		now := time.Now().UTC().Truncate(time.Microsecond)
		material := domain.Material{
			ID:           uuid.NewString(),
			SellerID:     uuid.NewString(),
			Title:        "Organic hemp rolls",
			MaterialType: "hemp",
			Quantity:     dec("75.250"),
			Unit:         "m",
			PricePerUnit: dec("3.10"),
			Currency:     "EUR",
			CreatedAt:    now,
		}
		if err := repo.CreateMaterial(ctx, material); err != nil {
			t.Fatalf("create material: %v", err)
		}

		got, err := repo.GetMaterial(ctx, material.ID)
		if err != nil {
			t.Fatalf("get material: %v", err)
		}
		if got.Title != material.Title || got.MaterialType != "hemp" || got.Unit != "m" {
			t.Fatalf("unexpected material: %+v", got)
		}
		if !got.Quantity.Equal(dec("75.25")) {
			t.Fatalf("expected quantity 75.25, got %s", got.Quantity)
		}
		if !got.PricePerUnit.Equal(dec("3.10")) {
			t.Fatalf("expected price 3.10, got %s", got.PricePerUnit)
		}
	})

	t.Run("get missing material", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		_, err := repo.GetMaterial(ctx, "00000000-0000-0000-0000-000000000001")
		if err != domain.ErrMaterialNotFound {
			t.Fatalf("expected ErrMaterialNotFound, got %v", err)
		}
		if _, err := repo.GetMaterial(ctx, "not-a-uuid"); err != domain.ErrInvalidID {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})

	t.Run("list newest first", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		base := time.Now().UTC().Truncate(time.Microsecond)
		for i, title := range []string{"First", "Second", "Third"} {
			material := domain.Material{
				ID:        uuid.NewString(),
				SellerID:  uuid.NewString(),
				Title:     title,
				Quantity:  dec("1"),
				Unit:      "kg",
				Currency:  "EUR",
				CreatedAt: base.Add(time.Duration(i) * time.Second),
			}
			if err := repo.CreateMaterial(ctx, material); err != nil {
				t.Fatalf("create %s: %v", title, err)
			}
		}

		materials, err := repo.ListMaterials(ctx)
		if err != nil {
			t.Fatalf("list materials: %v", err)
		}
		if len(materials) != 3 {
			t.Fatalf("expected 3 materials, got %d", len(materials))
		}
		if materials[0].Title != "Third" {
			t.Fatalf("expected newest first, got %s", materials[0].Title)
		}
	})
}
