package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/salvadalba/nodaysidle-fabricloop/internal/clock"
	"github.com/salvadalba/nodaysidle-fabricloop/internal/domain"
)

type MaterialRepository interface {
	CreateMaterial(ctx context.Context, m domain.Material) error
	GetMaterial(ctx context.Context, materialID string) (domain.Material, error)
	ListMaterials(ctx context.Context) ([]domain.Material, error)
}

type MaterialService struct {
	repo  MaterialRepository
	clock clock.Clock
}

func NewMaterialService(repo MaterialRepository, clk clock.Clock) *MaterialService {
	return &MaterialService{
		repo:  repo,
		clock: clk,
	}
}

type CreateMaterialInput struct {
	SellerID     string
	Title        string
	MaterialType string
	Quantity     decimal.Decimal
	Unit         string
	PricePerUnit decimal.Decimal
	Currency     string
}

func (s *MaterialService) CreateMaterial(ctx context.Context, in CreateMaterialInput) (domain.Material, error) {
	if in.SellerID == "" {
		return domain.Material{}, domain.ErrInvalidID
	}
	if in.Title == "" {
		return domain.Material{}, domain.ErrTitleRequired
	}
	if in.Unit == "" {
		return domain.Material{}, domain.ErrUnitRequired
	}
	if in.Quantity.IsNegative() {
		return domain.Material{}, domain.ErrInvalidQuantity
	}
	if in.PricePerUnit.IsNegative() {
		return domain.Material{}, domain.ErrInvalidAmount
	}
	currency, err := normalizeCurrency(in.Currency)
	if err != nil {
		return domain.Material{}, err
	}

	now := s.clock.Now()
	material := domain.Material{
		ID:           newID(),
		SellerID:     in.SellerID,
		Title:        in.Title,
		MaterialType: in.MaterialType,
		Quantity:     in.Quantity,
		Unit:         in.Unit,
		PricePerUnit: in.PricePerUnit,
		Currency:     currency,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateMaterial(ctx, material); err != nil {
		return domain.Material{}, err
	}
	return material, nil
}

func (s *MaterialService) GetMaterial(ctx context.Context, materialID string) (domain.Material, error) {
	if materialID == "" {
		return domain.Material{}, domain.ErrInvalidID
	}
	return s.repo.GetMaterial(ctx, materialID)
}

func (s *MaterialService) ListMaterials(ctx context.Context) ([]domain.Material, error) {
	return s.repo.ListMaterials(ctx)
}
