package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pos-order-core/internal/domain"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrBadQuantity          = errors.New("quantity must be positive")
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
)

type CartItem struct {
	MenuID    int           `json:"menu_id"`
	MenuName  string        `json:"menu_name"`
	Quantity  int           `json:"quantity"`
	UnitPrice domain.Amount `json:"unit_price"`
}

type CheckoutRequest struct {
	CustomerID   int            `json:"customer_id"`
	RestaurantID int            `json:"restaurant_id"`
	Items        []CartItem     `json:"items"`
	Payment      domain.Payment `json:"payment_method"`
}

type CheckoutResult struct {
	Orders      []domain.Order      `json:"orders"`
	Reservation *domain.Reservation `json:"reservation,omitempty"`
	QRImageURL  string              `json:"qr_image_url,omitempty"`
}

// CheckoutService turns a cart into N orders. The payment method decides
// where each order starts: cash is kitchen-visible immediately, promptpay
// waits behind a payment reservation, credit waits for staff verification.
type CheckoutService struct {
	orders   OrderStore
	catalog  CatalogStore
	registry *ReservationRegistry
	events   EventPublisher
	qr       PaymentQR
}

func NewCheckoutService(orders OrderStore, catalog CatalogStore, registry *ReservationRegistry, events EventPublisher, qr PaymentQR) *CheckoutService {
	return &CheckoutService{orders: orders, catalog: catalog, registry: registry, events: events, qr: qr}
}

func initialStatus(method domain.PaymentMethod) (domain.Status, error) {
	switch method {
	case domain.PayCash:
		return domain.StatusPending, nil
	case domain.PayPromptPay:
		return domain.StatusAwaitingPayment, nil
	case domain.PayCredit:
		return domain.StatusCreditPending, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, method)
	}
}

func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}
	status, err := initialStatus(req.Payment.Method)
	if err != nil {
		return nil, err
	}

	result := &CheckoutResult{}
	total := domain.Amount{}
	ids := make([]int, 0, len(req.Items))
	now := time.Now()

	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: menu %d", ErrBadQuantity, item.MenuID)
		}
		lineTotal := item.UnitPrice.MulInt(item.Quantity)
		created, err := s.orders.CreateOrder(ctx, domain.Order{
			CustomerID:   req.CustomerID,
			RestaurantID: req.RestaurantID,
			MenuID:       item.MenuID,
			MenuName:     item.MenuName,
			Quantity:     item.Quantity,
			TotalPrice:   lineTotal,
			Status:       status,
			OrderDate:    now,
			Payment:      req.Payment,
		})
		if err != nil {
			return nil, fmt.Errorf("create order for menu %d: %w", item.MenuID, err)
		}
		result.Orders = append(result.Orders, created)
		ids = append(ids, created.ID)
		total = total.Add(lineTotal)
		s.publishCreated(ctx, created)
	}

	if req.Payment.Method == domain.PayPromptPay {
		res, err := s.registry.Open(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("open payment reservation: %w", err)
		}
		result.Reservation = &res
		result.QRImageURL = s.qr.ImageURL(s.payeeFor(ctx, req.RestaurantID), total)
	}
	return result, nil
}

func (s *CheckoutService) payeeFor(ctx context.Context, restaurantID int) string {
	if s.catalog == nil {
		return ""
	}
	restaurants, err := s.catalog.ListRestaurants(ctx)
	if err != nil {
		return ""
	}
	for _, r := range restaurants {
		if r.ID == restaurantID {
			return r.PayeeID
		}
	}
	return ""
}

func (s *CheckoutService) publishCreated(ctx context.Context, o domain.Order) {
	if s.events == nil {
		return
	}
	_ = s.events.PublishOrderEvent(ctx, domain.OrderEvent{
		Type:         domain.EventOrderCreated,
		OrderID:      o.ID,
		Status:       o.Status,
		RestaurantID: o.RestaurantID,
		CustomerID:   o.CustomerID,
		Total:        o.TotalPrice,
		Timestamp:    time.Now(),
	})
}
