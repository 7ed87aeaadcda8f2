package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material is a sellable textile listing. Quantity is the remaining
// sellable amount in Unit; it is decremented by order reservations and
// must never go negative.
type Material struct {
	ID           string
	SellerID     string
	Title        string
	MaterialType string
	Quantity     decimal.Decimal
	Unit         string
	PricePerUnit decimal.Decimal
	Currency     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
