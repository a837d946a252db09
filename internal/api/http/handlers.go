package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"pos-order-core/internal/domain"
	"pos-order-core/internal/service"
)

type Handler struct {
	Checkout    *service.CheckoutService
	Transitions *service.TransitionService
	Registry    *service.ReservationRegistry
	Hub         *service.PollerHub
	Orders      service.OrderStore
	Catalog     service.CatalogStore
	Alerter     service.Alerter
	QR          service.PaymentQR

	KitchenVisible domain.StatusSet
	FeePolicy      service.FeePolicy
	Location       *time.Location
}

func NewHandler(checkout *service.CheckoutService, transitions *service.TransitionService,
	registry *service.ReservationRegistry, hub *service.PollerHub,
	orders service.OrderStore, catalog service.CatalogStore, alerter service.Alerter, qr service.PaymentQR) *Handler {
	return &Handler{
		Checkout:       checkout,
		Transitions:    transitions,
		Registry:       registry,
		Hub:            hub,
		Orders:         orders,
		Catalog:        catalog,
		Alerter:        alerter,
		QR:             qr,
		KitchenVisible: domain.DefaultKitchenVisible(),
		FeePolicy:      service.DefaultFeePolicy(),
		Location:       time.Local,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/checkout", h.checkout).Methods("POST")

	r.HandleFunc("/api/reservations/{id}", h.getReservation).Methods("GET")
	r.HandleFunc("/api/reservations/{id}/confirm", h.confirmReservation).Methods("POST")
	r.HandleFunc("/api/reservations/{id}/cancel", h.cancelReservation).Methods("POST")

	r.HandleFunc("/api/orders/{id}/transition", h.transitionOrder).Methods("POST")

	r.HandleFunc("/api/kitchen/queue", h.kitchenQueue).Methods("GET")
	r.HandleFunc("/api/customers/{id}/history", h.customerHistory).Methods("GET")
	r.HandleFunc("/api/owners/{ownerId}/dashboard", h.ownerDashboard).Methods("GET")
	r.HandleFunc("/api/owners/{ownerId}/settlement", h.ownerSettlement).Methods("GET")

	r.HandleFunc("/api/payments/qr", h.paymentQR).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "order-core",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req service.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	result, err := h.Checkout.Checkout(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart),
			errors.Is(err, service.ErrBadQuantity),
			errors.Is(err, service.ErrUnknownPaymentMethod):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(result)
}

func (h *Handler) getReservation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	res, err := h.Registry.Get(r.Context(), id)
	if err != nil {
		http.Error(w, "Reservation not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"reservation":       res,
		"remaining_seconds": h.Registry.Remaining(id),
	})
}

func (h *Handler) confirmReservation(w http.ResponseWriter, r *http.Request) {
	h.resolveReservation(w, r, h.Registry.Confirm)
}

func (h *Handler) cancelReservation(w http.ResponseWriter, r *http.Request) {
	h.resolveReservation(w, r, h.Registry.Cancel)
}

func (h *Handler) resolveReservation(w http.ResponseWriter, r *http.Request,
	resolve func(ctx context.Context, id string) (domain.Reservation, error)) {
	id := mux.Vars(r)["id"]
	res, err := resolve(r.Context(), id)
	if err != nil {
		http.Error(w, "Reservation not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

type transitionRequest struct {
	Trigger domain.Trigger `json:"trigger"`
	Role    domain.Role    `json:"role"`
}

func (h *Handler) transitionOrder(w http.ResponseWriter, r *http.Request) {
	orderID, _ := strconv.Atoi(mux.Vars(r)["id"])
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.Transitions.Apply(r.Context(), orderID, req.Trigger, req.Role)
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	case errors.Is(err, domain.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case errors.Is(err, domain.ErrActorNotAllowed):
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

func (h *Handler) kitchenQueue(w http.ResponseWriter, r *http.Request) {
	p := h.Hub.Get("kitchen", func() *service.Poller {
		return service.NewPoller("kitchen", h.Orders, service.KitchenQueueView(h.KitchenVisible), h.Alerter)
	})
	h.writeSnapshot(w, r, p)
}

func (h *Handler) customerHistory(w http.ResponseWriter, r *http.Request) {
	customerID, _ := strconv.Atoi(mux.Vars(r)["id"])

	p := h.Hub.Get("customer:"+strconv.Itoa(customerID), func() *service.Poller {
		principal := domain.Principal{ID: customerID, Role: domain.RoleCustomer}
		if c, err := h.Catalog.GetCustomer(r.Context(), customerID); err == nil {
			principal.Name = c.Name
			principal.IsPlusMember = c.IsPlusMember
		}
		return service.NewPoller("customer:"+strconv.Itoa(customerID), h.Orders,
			service.CustomerHistoryView(principal, h.Location), h.Alerter)
	})

	snap, ok := h.ensureSnapshot(r, p)
	if !ok {
		http.Error(w, "order collection unavailable", http.StatusServiceUnavailable)
		return
	}
	if month := r.URL.Query().Get("month"); month != "" {
		if history, isHistory := snap.Payload.(service.CustomerHistory); isHistory {
			filtered := service.CustomerHistory{CustomerID: history.CustomerID}
			for _, day := range history.Days {
				if strings.HasPrefix(day.Date, month) {
					filtered.Days = append(filtered.Days, day)
				}
			}
			snap.Payload = filtered
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

func (h *Handler) ownerDashboard(w http.ResponseWriter, r *http.Request) {
	p, err := h.ownerPoller(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	h.writeSnapshot(w, r, p)
}

func (h *Handler) ownerSettlement(w http.ResponseWriter, r *http.Request) {
	p, err := h.ownerPoller(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	snap, ok := h.ensureSnapshot(r, p)
	if !ok {
		http.Error(w, "order collection unavailable", http.StatusServiceUnavailable)
		return
	}
	dash, isDash := snap.Payload.(service.OwnerDashboard)
	if !isDash {
		http.Error(w, "dashboard unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dash.Settlement)
}

func (h *Handler) ownerPoller(r *http.Request) (*service.Poller, error) {
	ownerID, _ := strconv.Atoi(mux.Vars(r)["ownerId"])

	shop, err := h.shopForOwner(r, ownerID)
	if err != nil {
		return nil, err
	}
	key := "owner:" + strconv.Itoa(ownerID)
	return h.Hub.Get(key, func() *service.Poller {
		return service.NewPoller(key, h.Orders, service.OwnerDashboardView(shop, h.FeePolicy, h.Location), h.Alerter)
	}), nil
}

func (h *Handler) shopForOwner(r *http.Request, ownerID int) (domain.Shop, error) {
	restaurants, err := h.Catalog.ListRestaurants(r.Context())
	if err != nil {
		return domain.Shop{}, err
	}
	for _, rest := range restaurants {
		if rest.OwnerID != ownerID {
			continue
		}
		menus, err := h.Catalog.ListMenusByRestaurant(r.Context(), rest.ID)
		if err != nil {
			return domain.Shop{}, err
		}
		return domain.NewShop(rest, menus), nil
	}
	return domain.Shop{}, errors.New("no shop for owner")
}

func (h *Handler) ensureSnapshot(r *http.Request, p *service.Poller) (service.Snapshot, bool) {
	if snap, ok := p.Snapshot(); ok {
		return snap, true
	}
	// freshly mounted viewer: do one synchronous cycle instead of serving blank
	p.Refresh(r.Context())
	return p.Snapshot()
}

func (h *Handler) writeSnapshot(w http.ResponseWriter, r *http.Request, p *service.Poller) {
	snap, ok := h.ensureSnapshot(r, p)
	if !ok {
		http.Error(w, "order collection unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

func (h *Handler) paymentQR(w http.ResponseWriter, r *http.Request) {
	payee := r.URL.Query().Get("payee")
	if payee == "" {
		http.Error(w, "payee is required", http.StatusBadRequest)
		return
	}
	amount := domain.ParseAmount(r.URL.Query().Get("amount"))

	if url := h.QR.ImageURL(payee, amount); url != "" {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"image_url": url})
		return
	}
	png, err := h.QR.ImagePNG(payee, amount)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
