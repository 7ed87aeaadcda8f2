package domain

import "errors"

var (
	ErrMaterialNotFound     = errors.New("material not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrInsufficientQuantity = errors.New("insufficient material quantity")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrInvalidAmount        = errors.New("invalid total amount")
	ErrInvalidCurrency      = errors.New("invalid currency code")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrInvalidRole          = errors.New("invalid role")
	ErrForbidden            = errors.New("user is not a party to this order")
	ErrTitleRequired        = errors.New("material title required")
	ErrUnitRequired         = errors.New("material unit required")
	ErrInvalidID            = errors.New("invalid id")
	ErrConflict             = errors.New("concurrent write conflict")
)
