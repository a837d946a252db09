package domain

import (
	"encoding/json"
	"time"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleKitchen  Role = "kitchen"
	RoleOwner    Role = "owner"
	RoleSystem   Role = "system"
)

// Principal is the authenticated user a viewer runs on behalf of. It is
// passed explicitly into viewer constructors instead of living in a
// package-level session variable.
type Principal struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Role         Role   `json:"role"`
	IsPlusMember bool   `json:"is_plus_member"`
}

type PaymentMethod string

const (
	PayCash      PaymentMethod = "cash"
	PayPromptPay PaymentMethod = "promptpay"
	PayCredit    PaymentMethod = "credit"
)

// Payment is a tagged variant: the method plus its method-specific payload.
// Upstream sometimes sends a bare method string, so decoding accepts both.
type Payment struct {
	Method    PaymentMethod `json:"method"`
	SlipRef   string        `json:"slip_ref,omitempty"`   // promptpay transfer slip image
	CardLast4 string        `json:"card_last4,omitempty"` // credit
}

func (p *Payment) UnmarshalJSON(data []byte) error {
	var method string
	if err := json.Unmarshal(data, &method); err == nil {
		p.Method = PaymentMethod(method)
		return nil
	}
	type alias Payment
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = Payment(a)
	return nil
}

func (p Payment) MarshalJSON() ([]byte, error) {
	if p.SlipRef == "" && p.CardLast4 == "" {
		return json.Marshal(string(p.Method))
	}
	type alias Payment
	return json.Marshal(alias(p))
}

type Order struct {
	ID           int       `json:"order_id"`
	CustomerID   int       `json:"customer_id"`
	RestaurantID int       `json:"restaurant_id"`
	MenuID       int       `json:"menu_id"`
	Quantity     int       `json:"quantity"`
	TotalPrice   Amount    `json:"total_price"`
	Status       Status    `json:"order_status"`
	OrderDate    time.Time `json:"order_date"`
	Payment      Payment   `json:"payment_method"`

	// Denormalized display fields; present only when the upstream API
	// chooses to join them.
	MenuName     string `json:"menu_name,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
}

type Restaurant struct {
	ID      int    `json:"restaurant_id"`
	OwnerID int    `json:"owner_id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	PayeeID string `json:"payee_id,omitempty"` // promptpay payee for QR rendering
}

type Menu struct {
	ID           int    `json:"menu_id"`
	RestaurantID int    `json:"restaurant_id"`
	Name         string `json:"menu_name"`
	Price        Amount `json:"price"`
}

type Customer struct {
	ID           int    `json:"customer_id"`
	Name         string `json:"customer_name"`
	IsPlusMember bool   `json:"is_plus_member"`
}

type ReservationState string

const (
	ReservationOpen      ReservationState = "open"
	ReservationConfirmed ReservationState = "confirmed"
	ReservationExpired   ReservationState = "expired"
	ReservationCancelled ReservationState = "cancelled"
)

func (s ReservationState) Resolved() bool {
	return s != ReservationOpen
}

// Reservation is the time-boxed intent to pay for one checkout's orders via
// QR. It wraps the orders' ids only; the orders keep their own persisted
// status.
type Reservation struct {
	ID        string           `json:"id"`
	OrderIDs  []int            `json:"order_ids"`
	CreatedAt time.Time        `json:"created_at"`
	Deadline  time.Time        `json:"deadline"`
	State     ReservationState `json:"state"`
}

const (
	EventOrderCreated  = "order_created"
	EventStatusChanged = "order_status_changed"
	EventOrdersArrived = "orders_arrived"
)

type OrderEvent struct {
	Type         string    `json:"type"`
	OrderID      int       `json:"order_id,omitempty"`
	Status       Status    `json:"status,omitempty"`
	RestaurantID int       `json:"restaurant_id,omitempty"`
	CustomerID   int       `json:"customer_id,omitempty"`
	Total        Amount    `json:"total,omitempty"`
	Viewer       string    `json:"viewer,omitempty"`  // orders_arrived
	Arrived      int       `json:"arrived,omitempty"` // orders_arrived
	Timestamp    time.Time `json:"timestamp"`
}
