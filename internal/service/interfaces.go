package service

import (
	"context"

	"pos-order-core/internal/domain"
	"pos-order-core/internal/storage"
)

// OrderStore is the externally-owned order collection. The upstream API has
// no filtering, so reads always pull the full collection and callers filter
// locally.
type OrderStore interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	CreateOrder(ctx context.Context, o domain.Order) (domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id int, status domain.Status) (domain.Order, error)
}

type CatalogStore interface {
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)
	ListMenusByRestaurant(ctx context.Context, restaurantID int) ([]domain.Menu, error)
	GetCustomer(ctx context.Context, id int) (*domain.Customer, error)
}

type ReservationStore interface {
	SaveReservation(ctx context.Context, r domain.Reservation) error
	ListOpenReservations(ctx context.Context) ([]domain.Reservation, error)
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, evt domain.OrderEvent) error
}

// Alerter receives the once-per-cycle new-arrival notification for a viewer.
type Alerter interface {
	Alert(viewer string, arrived int)
}

var (
	_ OrderStore        = (*storage.ResourceClient)(nil)
	_ CatalogStore      = (*storage.ResourceClient)(nil)
	_ OrderStore        = (*storage.PostgresStore)(nil)
	_ CatalogStore      = (*storage.PostgresStore)(nil)
	_ ReservationStore  = (*storage.RedisReservationStore)(nil)
	_ ReservationGetter = (*storage.RedisReservationStore)(nil)
	_ ReservationFinder = (*storage.RedisReservationStore)(nil)
	_ EventPublisher    = (*storage.KafkaPublisher)(nil)
)
