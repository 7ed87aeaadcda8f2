package http

import (
	"encoding/json"
	"net/http"

	"github.com/salvadalba/nodaysidle-fabricloop/internal/domain"
)

const (
	codeMethodNotAllowed     = "method_not_allowed"
	codeNotFound             = "not_found"
	codeInvalidRequestBody   = "invalid_request_body"
	codeUserRequired         = "user_required"
	codeInvalidID            = "invalid_id"
	codeInvalidQuantity      = "invalid_quantity"
	codeInvalidAmount        = "invalid_amount"
	codeInvalidCurrency      = "invalid_currency"
	codeInvalidStatus        = "invalid_status"
	codeInvalidTransition    = "invalid_transition"
	codeInvalidRole          = "invalid_role"
	codeTitleRequired        = "title_required"
	codeUnitRequired         = "unit_required"
	codeMaterialNotFound     = "material_not_found"
	codeOrderNotFound        = "order_not_found"
	codeInsufficientQuantity = "insufficient_quantity"
	codeForbidden            = "forbidden"
	codeConflict             = "conflict"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps the engine's error taxonomy onto stable HTTP
// responses. Unknown errors become opaque 500s.
func writeDomainError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrMaterialNotFound:
		writeError(w, http.StatusNotFound, codeMaterialNotFound, err.Error())
	case domain.ErrOrderNotFound:
		writeError(w, http.StatusNotFound, codeOrderNotFound, err.Error())
	case domain.ErrForbidden:
		writeError(w, http.StatusForbidden, codeForbidden, err.Error())
	case domain.ErrInsufficientQuantity:
		writeError(w, http.StatusConflict, codeInsufficientQuantity, err.Error())
	case domain.ErrInvalidTransition:
		writeError(w, http.StatusConflict, codeInvalidTransition, err.Error())
	case domain.ErrConflict:
		writeError(w, http.StatusConflict, codeConflict, err.Error())
	case domain.ErrInvalidQuantity:
		writeError(w, http.StatusBadRequest, codeInvalidQuantity, err.Error())
	case domain.ErrInvalidAmount:
		writeError(w, http.StatusBadRequest, codeInvalidAmount, err.Error())
	case domain.ErrInvalidCurrency:
		writeError(w, http.StatusBadRequest, codeInvalidCurrency, err.Error())
	case domain.ErrInvalidStatus:
		writeError(w, http.StatusBadRequest, codeInvalidStatus, err.Error())
	case domain.ErrInvalidRole:
		writeError(w, http.StatusBadRequest, codeInvalidRole, err.Error())
	case domain.ErrInvalidID:
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case domain.ErrTitleRequired:
		writeError(w, http.StatusBadRequest, codeTitleRequired, err.Error())
	case domain.ErrUnitRequired:
		writeError(w, http.StatusBadRequest, codeUnitRequired, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
