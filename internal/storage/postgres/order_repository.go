package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/salvadalba/nodaysidle-fabricloop/internal/domain"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	err := withTx(ctx, r.pool, fn)
	if err != nil && isSerializationFailure(err) {
		return domain.ErrConflict
	}
	return err
}

// GetMaterialForUpdate locks the material row for the duration of the
// surrounding transaction. Two reservations against the same material
// serialize here; reservations against different materials do not block
// each other.
func (r *OrderRepository) GetMaterialForUpdate(ctx context.Context, materialID string) (domain.Material, error) {
	const query = `
SELECT id, seller_id, quantity::text, unit
FROM materials
WHERE id = $1
FOR UPDATE`

	var m domain.Material
	var qty string
	err := r.queryRow(ctx, query, materialID).Scan(&m.ID, &m.SellerID, &qty, &m.Unit)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Material{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Material{}, domain.ErrMaterialNotFound
		}
		return domain.Material{}, fmt.Errorf("get material for update: %w", err)
	}
	m.Quantity, err = decimal.NewFromString(qty)
	if err != nil {
		return domain.Material{}, fmt.Errorf("parse material quantity: %w", err)
	}
	return m, nil
}

// DecrementMaterialQuantity reserves amount from the material's remaining
// quantity. Callers must hold the row lock and have verified availability.
func (r *OrderRepository) DecrementMaterialQuantity(ctx context.Context, materialID string, amount decimal.Decimal) error {
	const stmt = `
UPDATE materials
SET quantity = quantity - $2, updated_at = NOW()
WHERE id = $1`

	tag, err := r.exec(ctx, stmt, materialID, amount)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientQuantity
		}
		return fmt.Errorf("decrement material quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMaterialNotFound
	}
	return nil
}

// RestoreMaterialQuantity adds a cancelled order's quantity back to the
// material. A missing material is not an error: the listing may have been
// removed after the order was placed.
func (r *OrderRepository) RestoreMaterialQuantity(ctx context.Context, materialID string, amount decimal.Decimal) error {
	const stmt = `
UPDATE materials
SET quantity = quantity + $2, updated_at = NOW()
WHERE id = $1`

	if _, err := r.exec(ctx, stmt, materialID, amount); err != nil {
		return fmt.Errorf("restore material quantity: %w", err)
	}
	return nil
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order domain.Order) error {
	const stmt = `
INSERT INTO orders (id, material_id, buyer_id, seller_id, quantity, total_amount, currency, unit, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`

	_, err := r.exec(ctx, stmt,
		order.ID,
		order.MaterialID,
		order.BuyerID,
		order.SellerID,
		order.Quantity,
		order.TotalAmount,
		order.Currency,
		order.Unit,
		order.Status,
		order.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// GetOrderForUpdate locks the order row so the state-machine guard is
// checked against the current status, not a stale read.
func (r *OrderRepository) GetOrderForUpdate(ctx context.Context, orderID string) (domain.Order, error) {
	const query = `
SELECT id, material_id, buyer_id, seller_id, quantity::text, total_amount::text, currency, unit, status, created_at, updated_at
FROM orders
WHERE id = $1
FOR UPDATE`

	return r.scanOrder(r.queryRow(ctx, query, orderID))
}

func (r *OrderRepository) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	const query = `
SELECT id, material_id, buyer_id, seller_id, quantity::text, total_amount::text, currency, unit, status, created_at, updated_at
FROM orders
WHERE id = $1`

	return r.scanOrder(r.queryRow(ctx, query, orderID))
}

func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus, updatedAt time.Time) error {
	const stmt = `UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, orderID, status, updatedAt)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// ListOrdersByUser returns the user's orders in the requested role,
// newest first.
func (r *OrderRepository) ListOrdersByUser(ctx context.Context, userID string, role domain.Role) ([]domain.Order, error) {
	query := `
SELECT id, material_id, buyer_id, seller_id, quantity::text, total_amount::text, currency, unit, status, created_at, updated_at
FROM orders
`
	switch role {
	case domain.RoleBuyer:
		query += `WHERE buyer_id = $1`
	case domain.RoleSeller:
		query += `WHERE seller_id = $1`
	default:
		query += `WHERE buyer_id = $1 OR seller_id = $1`
	}
	query += `
ORDER BY created_at DESC`

	rows, err := r.query(ctx, query, userID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if rows.Err() != nil {
		if isInvalidUUID(rows.Err()) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("iterate orders: %w", rows.Err())
	}
	return orders, nil
}

func (r *OrderRepository) scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	var qty, total, status string
	err := row.Scan(
		&o.ID,
		&o.MaterialID,
		&o.BuyerID,
		&o.SellerID,
		&qty,
		&total,
		&o.Currency,
		&o.Unit,
		&status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Order{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("scan order: %w", err)
	}
	if o.Quantity, err = decimal.NewFromString(qty); err != nil {
		return domain.Order{}, fmt.Errorf("parse order quantity: %w", err)
	}
	if o.TotalAmount, err = decimal.NewFromString(total); err != nil {
		return domain.Order{}, fmt.Errorf("parse order total: %w", err)
	}
	o.Status = domain.OrderStatus(status)
	return o, nil
}

func (r *OrderRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *OrderRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *OrderRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
