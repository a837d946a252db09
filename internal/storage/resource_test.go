package storage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-order-core/internal/domain"
)

func testClient(t *testing.T, handler http.Handler) *ResourceClient {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewResourceClient(srv.URL)
	c.RetryWait = time.Millisecond
	return c
}

func TestListOrders(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		// upstream mixes string and numeric totals
		w.Write([]byte(`[
			{"order_id": 1, "order_status": "pending", "total_price": "1,200.00", "payment_method": "cash"},
			{"order_id": 2, "order_status": "cooking", "total_price": 350, "payment_method": {"method": "promptpay", "slip_ref": "s1"}}
		]`))
	}))

	orders, err := c.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "1200", orders[0].TotalPrice.String())
	assert.Equal(t, domain.PayCash, orders[0].Payment.Method)
	assert.Equal(t, "350", orders[1].TotalPrice.String())
	assert.Equal(t, "s1", orders[1].Payment.SlipRef)
}

func TestCreateOrder(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)

		var in domain.Order
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		in.ID = 41
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(in)
	}))

	created, err := c.CreateOrder(context.Background(), domain.Order{
		CustomerID: 3,
		MenuID:     21,
		Quantity:   2,
		TotalPrice: domain.AmountFromInt(160),
		Status:     domain.StatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, 41, created.ID)
	assert.Equal(t, domain.StatusPending, created.Status)
}

func TestUpdateOrderStatus(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/orders/11", r.URL.Path)

		var patch map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
		assert.Equal(t, "cooking", patch["order_status"])

		json.NewEncoder(w).Encode(domain.Order{ID: 11, Status: domain.StatusCooking})
	}))

	updated, err := c.UpdateOrderStatus(context.Background(), 11, domain.StatusCooking)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCooking, updated.Status)
}

func TestRetriesTransientFailures(t *testing.T) {
	calls := 0
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[]`))
	}))

	_, err := c.ListOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestGivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.ListOrders(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestCatalogEndpoints(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/restaurants":
			w.Write([]byte(`[{"restaurant_id": 7, "name": "Somtum House", "payee_id": "0891234567"}]`))
		case "/restaurants/7/menus":
			w.Write([]byte(`[{"menu_id": 21, "menu_name": "Pad Thai", "price": 80}]`))
		case "/customers/3":
			w.Write([]byte(`{"customer_id": 3, "customer_name": "Arthit", "is_plus_member": true}`))
		default:
			http.NotFound(w, r)
		}
	}))
	ctx := context.Background()

	restaurants, err := c.ListRestaurants(ctx)
	require.NoError(t, err)
	require.Len(t, restaurants, 1)
	assert.Equal(t, "0891234567", restaurants[0].PayeeID)

	menus, err := c.ListMenusByRestaurant(ctx, 7)
	require.NoError(t, err)
	require.Len(t, menus, 1)
	assert.Equal(t, "Pad Thai", menus[0].Name)

	customer, err := c.GetCustomer(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Arthit", customer.Name)
	assert.True(t, customer.IsPlusMember)
}
