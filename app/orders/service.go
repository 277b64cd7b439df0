// Package orders is the admin side of the order lifecycle: listing, detail
// and status transitions with their inventory side effects.
package orders

import (
	"context"

	"github.com/shopcore/backoffice/models"
)

type OrderStore interface {
	Get(ctx context.Context, uid string) (*models.Order, error)
	List(ctx context.Context, offset, limit int) ([]models.Order, int64, error)
	TransitionStatus(ctx context.Context, uid string, prev, next models.OrderStatus, adjustments []models.StockAdjustment) error
}

type Service struct {
	orders OrderStore
}

func NewService(orders OrderStore) *Service {
	return &Service{orders: orders}
}

// UpdateStatus transitions an order to a new lifecycle state. Entering
// canceled restores stock for every item; leaving canceled reduces it again
// and fails entirely if any item can no longer be covered. The status change
// and all stock adjustments commit as one transaction.
func (s *Service) UpdateStatus(ctx context.Context, uid string, status models.OrderStatus) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, models.ErrInvalidTransition
	}

	order, err := s.orders.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	if order.Status == status {
		return order, nil
	}
	if !allowedTransition(order.Status, status) {
		return nil, models.ErrInvalidTransition
	}

	if err := s.orders.TransitionStatus(ctx, uid, order.Status, status, transitionAdjustments(order, status)); err != nil {
		return nil, err
	}
	return s.orders.Get(ctx, uid)
}

// allowedTransition rejects the one nonsensical move: walking a delivered
// order backward. Delivered orders can still be canceled, and uncanceling
// back to any state is an admin correction path.
func allowedTransition(prev, next models.OrderStatus) bool {
	if prev == models.OrderStatusDelivered && next != models.OrderStatusCanceled {
		return false
	}
	return true
}

// transitionAdjustments plans the stock side effects of a status change:
// restorations when entering canceled, conditional reductions when leaving
// it, nothing otherwise.
func transitionAdjustments(order *models.Order, next models.OrderStatus) []models.StockAdjustment {
	switch {
	case next == models.OrderStatusCanceled && order.Status != models.OrderStatusCanceled:
		return order.StockRestorations()
	case order.Status == models.OrderStatusCanceled && next != models.OrderStatusCanceled:
		return order.StockReductions()
	}
	return nil
}

// GetOrder returns any order by uid.
func (s *Service) GetOrder(ctx context.Context, uid string) (*models.Order, error) {
	return s.orders.Get(ctx, uid)
}

// ListOrders returns one page of orders plus the total count.
func (s *Service) ListOrders(ctx context.Context, page, perPage int) ([]models.Order, int64, error) {
	return s.orders.List(ctx, (page-1)*perPage, perPage)
}
