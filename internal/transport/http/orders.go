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

// userHeader carries the already-authenticated user id, set by the
// fronting auth layer. The engine trusts it as-is.
const userHeader = "X-User-ID"

// OrderEngine is the surface of the order engine the HTTP layer needs.
type OrderEngine interface {
	CreateOrder(ctx context.Context, in app.CreateOrderInput) (domain.Order, error)
	ListUserOrders(ctx context.Context, userID string, role domain.Role) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, in app.UpdateStatusInput) (domain.Order, error)
}

// HandleOrders serves POST /orders (create) and GET /orders (list by role).
func HandleOrders(svc OrderEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			handleCreateOrder(svc, w, r)
		case http.MethodGet:
			handleListOrders(svc, w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

func handleCreateOrder(svc OrderEngine, w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(userHeader)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, codeUserRequired, "missing "+userHeader+" header")
		return
	}

	var req createOrderRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	order, err := svc.CreateOrder(r.Context(), app.CreateOrderInput{
		MaterialID:  req.MaterialID,
		BuyerID:     userID,
		Quantity:    req.Quantity,
		TotalAmount: req.TotalAmount,
		Currency:    req.Currency,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toOrderResponse(order))
}

func handleListOrders(svc OrderEngine, w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(userHeader)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, codeUserRequired, "missing "+userHeader+" header")
		return
	}

	role, err := domain.ParseRole(r.URL.Query().Get("role"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	orders, err := svc.ListUserOrders(r.Context(), userID, role)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		resp = append(resp, toOrderResponse(order))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// HandleOrderStatus serves POST /orders/{id}/status.
func HandleOrderStatus(svc OrderEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		orderID, ok := parseOrderStatusPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		userID := r.Header.Get(userHeader)
		if userID == "" {
			writeError(w, http.StatusUnauthorized, codeUserRequired, "missing "+userHeader+" header")
			return
		}

		var req updateStatusRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		order, err := svc.UpdateStatus(r.Context(), app.UpdateStatusInput{
			OrderID:          orderID,
			Status:           domain.OrderStatus(req.Status),
			RequestingUserID: userID,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(toOrderResponse(order))
	}
}

func parseOrderStatusPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 {
		return "", false
	}
	if parts[0] != "orders" || parts[2] != "status" {
		return "", false
	}
	if parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

type createOrderRequest struct {
	MaterialID  string          `json:"material_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Currency    string          `json:"currency"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type orderResponse struct {
	ID          string    `json:"id"`
	MaterialID  string    `json:"material_id"`
	BuyerID     string    `json:"buyer_id"`
	SellerID    string    `json:"seller_id"`
	Quantity    string    `json:"quantity"`
	TotalAmount string    `json:"total_amount"`
	Currency    string    `json:"currency"`
	Unit        string    `json:"unit"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toOrderResponse(order domain.Order) orderResponse {
	return orderResponse{
		ID:          order.ID,
		MaterialID:  order.MaterialID,
		BuyerID:     order.BuyerID,
		SellerID:    order.SellerID,
		Quantity:    order.Quantity.String(),
		TotalAmount: order.TotalAmount.String(),
		Currency:    order.Currency,
		Unit:        order.Unit,
		Status:      string(order.Status),
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
}
