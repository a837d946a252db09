// Package mocks holds testify mocks for the service ports.
package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"pos-order-core/internal/domain"
)

type OrderStore struct {
	mock.Mock
}

func NewOrderStore(t *testing.T) *OrderStore {
	m := &OrderStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *OrderStore) ListOrders(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *OrderStore) CreateOrder(ctx context.Context, o domain.Order) (domain.Order, error) {
	args := m.Called(ctx, o)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *OrderStore) UpdateOrderStatus(ctx context.Context, id int, status domain.Status) (domain.Order, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(domain.Order), args.Error(1)
}

type CatalogStore struct {
	mock.Mock
}

func NewCatalogStore(t *testing.T) *CatalogStore {
	m := &CatalogStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *CatalogStore) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Restaurant), args.Error(1)
}

func (m *CatalogStore) ListMenusByRestaurant(ctx context.Context, restaurantID int) ([]domain.Menu, error) {
	args := m.Called(ctx, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Menu), args.Error(1)
}

func (m *CatalogStore) GetCustomer(ctx context.Context, id int) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

type ReservationStore struct {
	mock.Mock
}

func NewReservationStore(t *testing.T) *ReservationStore {
	m := &ReservationStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ReservationStore) SaveReservation(ctx context.Context, r domain.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *ReservationStore) ListOpenReservations(ctx context.Context) ([]domain.Reservation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

type EventPublisher struct {
	mock.Mock
}

func NewEventPublisher(t *testing.T) *EventPublisher {
	m := &EventPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *EventPublisher) PublishOrderEvent(ctx context.Context, evt domain.OrderEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

type Alerter struct {
	mock.Mock
}

func NewAlerter(t *testing.T) *Alerter {
	m := &Alerter{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Alerter) Alert(viewer string, arrived int) {
	m.Called(viewer, arrived)
}
