package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ParseOrderStatus validates a client-supplied status value. Pending is a
// valid stored status but is set only at creation, never via an update.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// CanTransition reports whether an order currently in status s may move to
// next. Delivered and cancelled are terminal.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusConfirmed || next == OrderStatusCancelled
	case OrderStatusConfirmed:
		return next == OrderStatusShipped || next == OrderStatusCancelled
	case OrderStatusShipped:
		return next == OrderStatusDelivered
	default:
		return false
	}
}

// Terminal reports whether no further transition is permitted from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Order is an immutable purchase record. Only Status and UpdatedAt change
// after creation; everything else is write-once. Orders are never deleted —
// cancellation is a status, not a removal.
type Order struct {
	ID          string
	MaterialID  string
	BuyerID     string
	SellerID    string
	Quantity    decimal.Decimal
	TotalAmount decimal.Decimal
	Currency    string
	Unit        string
	Status      OrderStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsParty reports whether userID is the buyer or the seller of the order.
func (o Order) IsParty(userID string) bool {
	return userID == o.BuyerID || userID == o.SellerID
}

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAll    Role = "all"
)

// ParseRole maps a query value to a Role; empty defaults to RoleAll.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleBuyer, RoleSeller, RoleAll:
		return Role(s), nil
	case "":
		return RoleAll, nil
	default:
		return "", ErrInvalidRole
	}
}
