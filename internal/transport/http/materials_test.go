package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/salvadalba/nodaysidle-fabricloop/internal/app"
	"github.com/salvadalba/nodaysidle-fabricloop/internal/domain"
)

func TestHandleMaterials(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	listing := domain.Material{
		ID:           "mat-1",
		SellerID:     "seller-1",
		Title:        "Recycled denim offcuts",
		MaterialType: "denim",
		Quantity:     mustDec("120.5"),
		Unit:         "kg",
		PricePerUnit: mustDec("2.80"),
		Currency:     "EUR",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	t.Run("create listing", func(t *testing.T) {
		t.Parallel()
		svc := &stubMaterialCatalog{material: listing}
		handler := HandleMaterials(svc)

		body := `{"title":"Recycled denim offcuts","material_type":"denim","quantity":120.5,"unit":"kg","price_per_unit":2.80,"currency":"EUR"}`
		req := httptest.NewRequest(http.MethodPost, "/materials", bytes.NewBufferString(body))
		req.Header.Set(userHeader, "seller-1")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), `"id":"mat-1"`) {
			t.Fatalf("expected material in body, got %s", rec.Body.String())
		}
		if svc.createIn.SellerID != "seller-1" {
			t.Fatalf("expected seller taken from header, got %q", svc.createIn.SellerID)
		}
	})

	t.Run("create without user header", func(t *testing.T) {
		t.Parallel()
		handler := HandleMaterials(&stubMaterialCatalog{})

		req := httptest.NewRequest(http.MethodPost, "/materials", bytes.NewBufferString(`{"title":"x"}`))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("create with validation error", func(t *testing.T) {
		t.Parallel()
		handler := HandleMaterials(&stubMaterialCatalog{err: domain.ErrTitleRequired})

		req := httptest.NewRequest(http.MethodPost, "/materials", bytes.NewBufferString(`{"unit":"kg"}`))
		req.Header.Set(userHeader, "seller-1")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("list listings", func(t *testing.T) {
		t.Parallel()
		handler := HandleMaterials(&stubMaterialCatalog{list: []domain.Material{listing}})

		req := httptest.NewRequest(http.MethodGet, "/materials", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"quantity":"120.5"`) {
			t.Fatalf("expected decimal quantity string, got %s", rec.Body.String())
		}
	})
}

func TestHandleMaterialByID(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		handler := HandleMaterialByID(&stubMaterialCatalog{material: domain.Material{ID: "mat-1", Title: "Linen", Quantity: mustDec("5"), PricePerUnit: mustDec("1")}})

		req := httptest.NewRequest(http.MethodGet, "/materials/mat-1", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		handler := HandleMaterialByID(&stubMaterialCatalog{err: domain.ErrMaterialNotFound})

		req := httptest.NewRequest(http.MethodGet, "/materials/missing", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("bad path", func(t *testing.T) {
		t.Parallel()
		handler := HandleMaterialByID(&stubMaterialCatalog{})

		req := httptest.NewRequest(http.MethodGet, "/materials/mat-1/extra", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

type stubMaterialCatalog struct {
	material domain.Material
	list     []domain.Material
	err      error
	createIn app.CreateMaterialInput
}

func (s *stubMaterialCatalog) CreateMaterial(_ context.Context, in app.CreateMaterialInput) (domain.Material, error) {
	s.createIn = in
	if s.err != nil {
		return domain.Material{}, s.err
	}
	return s.material, nil
}

func (s *stubMaterialCatalog) GetMaterial(_ context.Context, _ string) (domain.Material, error) {
	if s.err != nil {
		return domain.Material{}, s.err
	}
	return s.material, nil
}

func (s *stubMaterialCatalog) ListMaterials(_ context.Context) ([]domain.Material, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.list, nil
}
