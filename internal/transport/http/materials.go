package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/salvadalba/nodaysidle-fabricloop/internal/app"
	"github.com/salvadalba/nodaysidle-fabricloop/internal/domain"
)

// MaterialCatalog is the surface of the material service the HTTP layer needs.
type MaterialCatalog interface {
	CreateMaterial(ctx context.Context, in app.CreateMaterialInput) (domain.Material, error)
	GetMaterial(ctx context.Context, materialID string) (domain.Material, error)
	ListMaterials(ctx context.Context) ([]domain.Material, error)
}

// HandleMaterials serves POST /materials (create listing) and GET /materials.
func HandleMaterials(svc MaterialCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			handleCreateMaterial(svc, w, r)
		case http.MethodGet:
			handleListMaterials(svc, w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleMaterialByID serves GET /materials/{id}.
func HandleMaterialByID(svc MaterialCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		materialID, ok := parseMaterialPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		material, err := svc.GetMaterial(r.Context(), materialID)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(toMaterialResponse(material))
	}
}

func handleCreateMaterial(svc MaterialCatalog, w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(userHeader)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, codeUserRequired, "missing "+userHeader+" header")
		return
	}

	var req createMaterialRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	material, err := svc.CreateMaterial(r.Context(), app.CreateMaterialInput{
		SellerID:     userID,
		Title:        req.Title,
		MaterialType: req.MaterialType,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		PricePerUnit: req.PricePerUnit,
		Currency:     req.Currency,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toMaterialResponse(material))
}

func handleListMaterials(svc MaterialCatalog, w http.ResponseWriter, r *http.Request) {
	materials, err := svc.ListMaterials(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]materialResponse, 0, len(materials))
	for _, m := range materials {
		resp = append(resp, toMaterialResponse(m))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

func parseMaterialPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 || parts[0] != "materials" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

type createMaterialRequest struct {
	Title        string          `json:"title"`
	MaterialType string          `json:"material_type"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Currency     string          `json:"currency"`
}

type materialResponse struct {
	ID           string    `json:"id"`
	SellerID     string    `json:"seller_id"`
	Title        string    `json:"title"`
	MaterialType string    `json:"material_type"`
	Quantity     string    `json:"quantity"`
	Unit         string    `json:"unit"`
	PricePerUnit string    `json:"price_per_unit"`
	Currency     string    `json:"currency"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toMaterialResponse(m domain.Material) materialResponse {
	return materialResponse{
		ID:           m.ID,
		SellerID:     m.SellerID,
		Title:        m.Title,
		MaterialType: m.MaterialType,
		Quantity:     m.Quantity.String(),
		Unit:         m.Unit,
		PricePerUnit: m.PricePerUnit.String(),
		Currency:     m.Currency,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
