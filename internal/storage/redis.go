package storage

import (
	"context"
	"encoding/json"
	"log"
	"strconv"

	"github.com/redis/go-redis/v9"

	"pos-order-core/internal/domain"
)

const openReservationsKey = "reservations:open"

// RedisReservationStore persists reservation deadlines so expiry survives a
// process restart. Open reservation ids live in a set; each reservation is
// a JSON blob under its own key.
type RedisReservationStore struct {
	Client *redis.Client
}

func NewRedisReservationStore(client *redis.Client) *RedisReservationStore {
	return &RedisReservationStore{Client: client}
}

func reservationKey(id string) string {
	return "reservation:" + id
}

func orderReservationKey(orderID int) string {
	return "reservation:order:" + strconv.Itoa(orderID)
}

// SaveReservation also indexes each wrapped order id back to its reservation,
// so reconciliation can recover the intended outcome of a stuck order.
func (s *RedisReservationStore) SaveReservation(ctx context.Context, r domain.Reservation) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if err := s.Client.Set(ctx, reservationKey(r.ID), payload, 0).Err(); err != nil {
		return err
	}
	for _, oid := range r.OrderIDs {
		if err := s.Client.Set(ctx, orderReservationKey(oid), r.ID, 0).Err(); err != nil {
			return err
		}
	}
	if r.State.Resolved() {
		return s.Client.SRem(ctx, openReservationsKey, r.ID).Err()
	}
	return s.Client.SAdd(ctx, openReservationsKey, r.ID).Err()
}

// FindReservationByOrder resolves the reservation wrapping orderID, open or
// already resolved.
func (s *RedisReservationStore) FindReservationByOrder(ctx context.Context, orderID int) (*domain.Reservation, error) {
	id, err := s.Client.Get(ctx, orderReservationKey(orderID)).Result()
	if err != nil {
		return nil, err
	}
	return s.GetReservation(ctx, id)
}

func (s *RedisReservationStore) GetReservation(ctx context.Context, id string) (*domain.Reservation, error) {
	payload, err := s.Client.Get(ctx, reservationKey(id)).Result()
	if err != nil {
		return nil, err
	}
	var r domain.Reservation
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *RedisReservationStore) ListOpenReservations(ctx context.Context) ([]domain.Reservation, error) {
	ids, err := s.Client.SMembers(ctx, openReservationsKey).Result()
	if err != nil {
		return nil, err
	}

	var open []domain.Reservation
	for _, id := range ids {
		r, err := s.GetReservation(ctx, id)
		if err != nil {
			log.Printf("reservation %s in open set but unreadable: %v", id, err)
			continue
		}
		open = append(open, *r)
	}
	return open, nil
}
