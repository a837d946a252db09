package storage

import (
	"context"
	"database/sql"

	"pos-order-core/internal/domain"
)

// PostgresStore is an embedded alternative to the resource API for local
// and dev deployments (STORE_BACKEND=postgres). It implements the same
// ports, so nothing above the storage layer knows which backend is active.
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

func (s *PostgresStore) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT o.id, o.customer_id, o.restaurant_id, o.menu_id, o.quantity,
		       o.total_price, o.order_status, o.order_date,
		       o.payment_method, COALESCE(o.slip_ref, ''), COALESCE(o.card_last4, ''),
		       COALESCE(m.name, ''), COALESCE(c.name, '')
		FROM orders o
		LEFT JOIN menus m ON m.id = o.menu_id
		LEFT JOIN customers c ON c.id = o.customer_id
		ORDER BY o.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		var total string
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.RestaurantID, &o.MenuID, &o.Quantity,
			&total, &o.Status, &o.OrderDate,
			&o.Payment.Method, &o.Payment.SlipRef, &o.Payment.CardLast4,
			&o.MenuName, &o.CustomerName); err != nil {
			continue
		}
		o.TotalPrice = domain.ParseAmount(total)
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (s *PostgresStore) CreateOrder(ctx context.Context, o domain.Order) (domain.Order, error) {
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO orders (customer_id, restaurant_id, menu_id, quantity, total_price,
		                    order_status, order_date, payment_method, slip_ref, card_last4)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), $7, $8, $9)
		RETURNING id, order_date`,
		o.CustomerID, o.RestaurantID, o.MenuID, o.Quantity, o.TotalPrice.String(),
		o.Status, o.Payment.Method, o.Payment.SlipRef, o.Payment.CardLast4).
		Scan(&o.ID, &o.OrderDate)
	if err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (s *PostgresStore) UpdateOrderStatus(ctx context.Context, id int, status domain.Status) (domain.Order, error) {
	var o domain.Order
	var total string
	err := s.DB.QueryRowContext(ctx, `
		UPDATE orders SET order_status = $1 WHERE id = $2
		RETURNING id, customer_id, restaurant_id, menu_id, quantity, total_price,
		          order_status, order_date, payment_method`,
		status, id).
		Scan(&o.ID, &o.CustomerID, &o.RestaurantID, &o.MenuID, &o.Quantity,
			&total, &o.Status, &o.OrderDate, &o.Payment.Method)
	if err != nil {
		return domain.Order{}, err
	}
	o.TotalPrice = domain.ParseAmount(total)
	return o, nil
}

func (s *PostgresStore) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, owner_id, name, COALESCE(address, ''), COALESCE(payee_id, '')
		FROM restaurants
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var restaurants []domain.Restaurant
	for rows.Next() {
		var r domain.Restaurant
		if err := rows.Scan(&r.ID, &r.OwnerID, &r.Name, &r.Address, &r.PayeeID); err != nil {
			continue
		}
		restaurants = append(restaurants, r)
	}
	return restaurants, rows.Err()
}

func (s *PostgresStore) ListMenusByRestaurant(ctx context.Context, restaurantID int) ([]domain.Menu, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, restaurant_id, name, price
		FROM menus
		WHERE restaurant_id = $1
		ORDER BY id`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menus []domain.Menu
	for rows.Next() {
		var m domain.Menu
		var price string
		if err := rows.Scan(&m.ID, &m.RestaurantID, &m.Name, &price); err != nil {
			continue
		}
		m.Price = domain.ParseAmount(price)
		menus = append(menus, m)
	}
	return menus, rows.Err()
}

func (s *PostgresStore) GetCustomer(ctx context.Context, id int) (*domain.Customer, error) {
	var c domain.Customer
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(is_plus_member, FALSE)
		FROM customers WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.IsPlusMember)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
