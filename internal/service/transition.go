package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pos-order-core/internal/domain"
)

var ErrOrderNotFound = errors.New("order not found")

// TransitionService applies status triggers requested by the kitchen, shop
// owner or customer. Rejected transitions leave the order untouched; the
// caller re-fetches current truth rather than assuming success.
type TransitionService struct {
	orders   OrderStore
	events   EventPublisher
	registry *ReservationRegistry
}

func NewTransitionService(orders OrderStore, events EventPublisher, registry *ReservationRegistry) *TransitionService {
	return &TransitionService{orders: orders, events: events, registry: registry}
}

func (s *TransitionService) Apply(ctx context.Context, orderID int, trig domain.Trigger, actor domain.Role) (domain.Order, error) {
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return domain.Order{}, fmt.Errorf("fetch orders: %w", err)
	}
	var current *domain.Order
	for i := range orders {
		if orders[i].ID == orderID {
			current = &orders[i]
			break
		}
	}
	if current == nil {
		return domain.Order{}, ErrOrderNotFound
	}

	next, err := domain.NextFor(current.Status, trig, actor)
	if err != nil {
		return *current, err
	}

	updated, err := s.orders.UpdateOrderStatus(ctx, orderID, next)
	if err != nil {
		return *current, fmt.Errorf("update order %d: %w", orderID, err)
	}

	// Keep the reservation registry in sync when a wrapped order resolves
	// through this path instead of the QR flow.
	if s.registry != nil {
		switch {
		case next == domain.StatusCancelled:
			s.registry.CancelByOrder(ctx, orderID)
		case trig == domain.TriggerPaymentConfirmed:
			s.registry.ConfirmByOrder(ctx, orderID)
		}
	}

	if s.events != nil {
		_ = s.events.PublishOrderEvent(ctx, domain.OrderEvent{
			Type:         domain.EventStatusChanged,
			OrderID:      updated.ID,
			Status:       updated.Status,
			RestaurantID: updated.RestaurantID,
			CustomerID:   updated.CustomerID,
			Total:        updated.TotalPrice,
			Timestamp:    time.Now(),
		})
	}
	return updated, nil
}
