package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pos-order-core/internal/domain"
	"pos-order-core/internal/mocks"
)

func TestTransitionApply(t *testing.T) {
	ctx := context.Background()
	orders := mocks.NewOrderStore(t)
	events := mocks.NewEventPublisher(t)
	svc := NewTransitionService(orders, events, nil)

	orders.On("ListOrders", mock.Anything).
		Return([]domain.Order{{ID: 11, Status: domain.StatusPending}}, nil).Once()
	orders.On("UpdateOrderStatus", mock.Anything, 11, domain.StatusCooking).
		Return(domain.Order{ID: 11, Status: domain.StatusCooking}, nil).Once()
	events.On("PublishOrderEvent", mock.Anything, mock.MatchedBy(func(e domain.OrderEvent) bool {
		return e.Type == domain.EventStatusChanged && e.OrderID == 11 && e.Status == domain.StatusCooking
	})).Return(nil).Once()

	got, err := svc.Apply(ctx, 11, domain.TriggerKitchenAccept, domain.RoleKitchen)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCooking, got.Status)
}

func TestTransitionApply_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown order", func(t *testing.T) {
		orders := mocks.NewOrderStore(t)
		orders.On("ListOrders", mock.Anything).Return([]domain.Order{}, nil).Once()
		svc := NewTransitionService(orders, nil, nil)

		_, err := svc.Apply(ctx, 99, domain.TriggerKitchenAccept, domain.RoleKitchen)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("invalid transition leaves order untouched", func(t *testing.T) {
		orders := mocks.NewOrderStore(t)
		// no UpdateOrderStatus expectation: a write here fails the test
		orders.On("ListOrders", mock.Anything).
			Return([]domain.Order{{ID: 11, Status: domain.StatusCompleted}}, nil).Once()
		svc := NewTransitionService(orders, nil, nil)

		got, err := svc.Apply(ctx, 11, domain.TriggerKitchenAccept, domain.RoleKitchen)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Equal(t, domain.StatusCompleted, got.Status)
	})

	t.Run("wrong actor", func(t *testing.T) {
		orders := mocks.NewOrderStore(t)
		orders.On("ListOrders", mock.Anything).
			Return([]domain.Order{{ID: 11, Status: domain.StatusPending}}, nil).Once()
		svc := NewTransitionService(orders, nil, nil)

		_, err := svc.Apply(ctx, 11, domain.TriggerKitchenAccept, domain.RoleCustomer)
		assert.ErrorIs(t, err, domain.ErrActorNotAllowed)
	})
}

func TestTransitionApply_SyncsReservation(t *testing.T) {
	ctx := context.Background()
	orders := mocks.NewOrderStore(t)
	registry := quickRegistry(t, orders, nil)
	svc := NewTransitionService(orders, nil, registry)

	res, err := registry.Open(ctx, []int{11})
	require.NoError(t, err)

	orders.On("ListOrders", mock.Anything).
		Return([]domain.Order{{ID: 11, Status: domain.StatusAwaitingPayment}}, nil).Once()
	// one write from Apply, one from the registry resolving the reservation
	orders.On("UpdateOrderStatus", mock.Anything, 11, domain.StatusCancelled).
		Return(domain.Order{ID: 11, Status: domain.StatusCancelled}, nil).Twice()

	_, err = svc.Apply(ctx, 11, domain.TriggerCancel, domain.RoleCustomer)
	require.NoError(t, err)

	got, err := registry.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationCancelled, got.State)
}
