package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/salvadalba/nodaysidle-fabricloop/internal/domain"
)

type MaterialRepository struct {
	pool *pgxpool.Pool
}

func NewMaterialRepository(pool *pgxpool.Pool) *MaterialRepository {
	return &MaterialRepository{pool: pool}
}

func (r *MaterialRepository) CreateMaterial(ctx context.Context, m domain.Material) error {
	const stmt = `
INSERT INTO materials (id, seller_id, title, material_type, quantity, unit, price_per_unit, currency, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`

	_, err := r.pool.Exec(ctx, stmt,
		m.ID,
		m.SellerID,
		m.Title,
		m.MaterialType,
		m.Quantity,
		m.Unit,
		m.PricePerUnit,
		m.Currency,
		m.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create material: %w", err)
	}
	return nil
}

func (r *MaterialRepository) GetMaterial(ctx context.Context, materialID string) (domain.Material, error) {
	const query = `
SELECT id, seller_id, title, material_type, quantity::text, unit, price_per_unit::text, currency, created_at, updated_at
FROM materials
WHERE id = $1`

	m, err := scanMaterial(r.pool.QueryRow(ctx, query, materialID))
	if err != nil {
		return domain.Material{}, err
	}
	return m, nil
}

// ListMaterials returns all listings, newest first. Catalog reads are
// informational and take no locks.
func (r *MaterialRepository) ListMaterials(ctx context.Context) ([]domain.Material, error) {
	const query = `
SELECT id, seller_id, title, material_type, quantity::text, unit, price_per_unit::text, currency, created_at, updated_at
FROM materials
ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	var materials []domain.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		materials = append(materials, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate materials: %w", rows.Err())
	}
	return materials, nil
}

func scanMaterial(row pgx.Row) (domain.Material, error) {
	var m domain.Material
	var qty, price string
	err := row.Scan(
		&m.ID,
		&m.SellerID,
		&m.Title,
		&m.MaterialType,
		&qty,
		&m.Unit,
		&price,
		&m.Currency,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Material{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Material{}, domain.ErrMaterialNotFound
		}
		return domain.Material{}, fmt.Errorf("scan material: %w", err)
	}
	if m.Quantity, err = decimal.NewFromString(qty); err != nil {
		return domain.Material{}, fmt.Errorf("parse material quantity: %w", err)
	}
	if m.PricePerUnit, err = decimal.NewFromString(price); err != nil {
		return domain.Material{}, fmt.Errorf("parse material price: %w", err)
	}
	return m, nil
}
