package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/salvadalba/nodaysidle-fabricloop/internal/clock"
	"github.com/salvadalba/nodaysidle-fabricloop/internal/domain"
)

type OrderRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetMaterialForUpdate(ctx context.Context, materialID string) (domain.Material, error)
	DecrementMaterialQuantity(ctx context.Context, materialID string, amount decimal.Decimal) error
	RestoreMaterialQuantity(ctx context.Context, materialID string, amount decimal.Decimal) error
	CreateOrder(ctx context.Context, order domain.Order) error
	GetOrderForUpdate(ctx context.Context, orderID string) (domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus, updatedAt time.Time) error
	ListOrdersByUser(ctx context.Context, userID string, role domain.Role) ([]domain.Order, error)
}

// Notifier is informed of committed order changes. Implementations must be
// safe for concurrent use; delivery is best-effort and never affects the
// outcome of the operation that triggered it.
type Notifier interface {
	OrderCreated(ctx context.Context, order domain.Order) error
	OrderUpdated(ctx context.Context, order domain.Order) error
}

const notifyTimeout = 5 * time.Second

type OrderService struct {
	repo     OrderRepository
	notifier Notifier
	clock    clock.Clock
	logger   *zap.Logger
}

func NewOrderService(repo OrderRepository, notifier Notifier, clk clock.Clock, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		repo:     repo,
		notifier: notifier,
		clock:    clk,
		logger:   logger,
	}
}

type CreateOrderInput struct {
	MaterialID  string
	BuyerID     string
	Quantity    decimal.Decimal
	TotalAmount decimal.Decimal
	Currency    string
}

// CreateOrder reserves inventory and records the order in one unit of work.
// The material row is locked for the duration, so concurrent orders against
// the same material serialize and the availability check cannot act on a
// stale read. The notifier runs only after a successful commit.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (domain.Order, error) {
	if in.MaterialID == "" || in.BuyerID == "" {
		return domain.Order{}, domain.ErrInvalidID
	}
	if !in.Quantity.IsPositive() {
		return domain.Order{}, domain.ErrInvalidQuantity
	}
	if !in.TotalAmount.IsPositive() {
		return domain.Order{}, domain.ErrInvalidAmount
	}
	currency, err := normalizeCurrency(in.Currency)
	if err != nil {
		return domain.Order{}, err
	}

	now := s.clock.Now()
	var result domain.Order

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		material, err := s.repo.GetMaterialForUpdate(txCtx, in.MaterialID)
		if err != nil {
			return err
		}
		if in.Quantity.GreaterThan(material.Quantity) {
			return domain.ErrInsufficientQuantity
		}
		if err := s.repo.DecrementMaterialQuantity(txCtx, in.MaterialID, in.Quantity); err != nil {
			return err
		}

		order := domain.Order{
			ID:          newID(),
			MaterialID:  in.MaterialID,
			BuyerID:     in.BuyerID,
			SellerID:    material.SellerID,
			Quantity:    in.Quantity,
			TotalAmount: in.TotalAmount,
			Currency:    currency,
			Unit:        material.Unit,
			Status:      domain.OrderStatusPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.repo.CreateOrder(txCtx, order); err != nil {
			return err
		}

		result = order
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.dispatchNotify(result, false)
	return result, nil
}

// ListUserOrders returns the orders where the user holds the requested
// role, newest first.
func (s *OrderService) ListUserOrders(ctx context.Context, userID string, role domain.Role) ([]domain.Order, error) {
	if userID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListOrdersByUser(ctx, userID, role)
}

type UpdateStatusInput struct {
	OrderID          string
	Status           domain.OrderStatus
	RequestingUserID string
}

// UpdateStatus transitions an order through the delivery state machine.
// The guard is evaluated against the freshly locked row inside the same
// unit of work as the write, so racing updates cannot both pass it.
// Cancelling an order returns its quantity to the material.
func (s *OrderService) UpdateStatus(ctx context.Context, in UpdateStatusInput) (domain.Order, error) {
	if in.OrderID == "" || in.RequestingUserID == "" {
		return domain.Order{}, domain.ErrInvalidID
	}
	status, err := domain.ParseOrderStatus(string(in.Status))
	if err != nil {
		return domain.Order{}, err
	}

	now := s.clock.Now()
	var result domain.Order

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.repo.GetOrderForUpdate(txCtx, in.OrderID)
		if err != nil {
			return err
		}
		if !order.IsParty(in.RequestingUserID) {
			return domain.ErrForbidden
		}
		if !order.Status.CanTransition(status) {
			return domain.ErrInvalidTransition
		}

		if err := s.repo.UpdateOrderStatus(txCtx, in.OrderID, status, now); err != nil {
			return err
		}
		if status == domain.OrderStatusCancelled {
			if err := s.repo.RestoreMaterialQuantity(txCtx, order.MaterialID, order.Quantity); err != nil {
				return err
			}
		}

		order.Status = status
		order.UpdatedAt = now
		result = order
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.dispatchNotify(result, true)
	return result, nil
}

// dispatchNotify delivers order events without blocking the caller.
// Notification failures are logged and swallowed; by the time this runs the
// order has committed and must not be reported as failed.
func (s *OrderService) dispatchNotify(order domain.Order, updated bool) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		fn := s.notifier.OrderCreated
		if updated {
			fn = s.notifier.OrderUpdated
		}
		if err := fn(ctx, order); err != nil {
			s.logger.Warn("order notification failed",
				zap.String("order_id", order.ID),
				zap.String("status", string(order.Status)),
				zap.Error(err),
			)
		}
	}()
}

func normalizeCurrency(code string) (string, error) {
	if len(code) != 3 {
		return "", domain.ErrInvalidCurrency
	}
	buf := []byte(code)
	for i, c := range buf {
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
			buf[i] = c - 'a' + 'A'
		default:
			return "", domain.ErrInvalidCurrency
		}
	}
	return string(buf), nil
}
