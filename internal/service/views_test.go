package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-order-core/internal/domain"
)

func TestKitchenQueueView(t *testing.T) {
	view := KitchenQueueView(domain.DefaultKitchenVisible())

	orders := []domain.Order{
		{ID: 1, Status: domain.StatusPending},
		{ID: 2, Status: domain.StatusAwaitingPayment}, // unpaid, never shown to staff
		{ID: 3, Status: domain.StatusCooking},
		{ID: 4, Status: domain.StatusCompleted},
		{ID: 5, Status: domain.StatusWaiting},
	}

	result := view(orders, time.Now())
	queue := result.Payload.(KitchenQueue)

	require.Len(t, queue.Orders, 3)
	assert.Equal(t, 3, result.ActiveCount)
	assert.Equal(t, []int{5, 3, 1}, []int{queue.Orders[0].ID, queue.Orders[1].ID, queue.Orders[2].ID},
		"newest first")
	for _, o := range queue.Orders {
		assert.NotEqual(t, domain.StatusAwaitingPayment, o.Status)
	}
}

func TestKitchenQueueView_CashOrderVisibleImmediately(t *testing.T) {
	view := KitchenQueueView(domain.DefaultKitchenVisible())

	// cash checkout lands as pending with no payment gate in front of it
	result := view([]domain.Order{{ID: 9, Status: domain.StatusPending}}, time.Now())
	queue := result.Payload.(KitchenQueue)

	require.Len(t, queue.Orders, 1)
	assert.Equal(t, 9, queue.Orders[0].ID)
}

func TestCustomerHistoryView(t *testing.T) {
	p := domain.Principal{ID: 3, Name: "Arthit", Role: domain.RoleCustomer}
	view := CustomerHistoryView(p, time.UTC)

	d1 := time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, time.March, 15, 9, 0, 0, 0, time.UTC)

	orders := []domain.Order{
		{ID: 1, CustomerID: 3, Status: domain.StatusCompleted, OrderDate: d1},
		{ID: 2, CustomerID: 3, Status: domain.StatusCooking, OrderDate: d2},
		{ID: 3, CustomerID: 4, Status: domain.StatusCooking, OrderDate: d2},
		{ID: 4, CustomerName: "Arthit", Status: domain.StatusPending, OrderDate: d2}, // id dropped upstream
	}

	result := view(orders, time.Now())
	history := result.Payload.(CustomerHistory)

	assert.Equal(t, 2, result.ActiveCount, "active excludes terminal orders and other customers")
	require.Len(t, history.Days, 2)
	assert.Equal(t, "2026-03-15", history.Days[0].Date)
	require.Len(t, history.Days[0].Orders, 2)
	assert.Equal(t, 4, history.Days[0].Orders[0].ID, "same-day ties break by id, newest first")
	assert.Equal(t, 2, history.Days[0].Orders[1].ID)
	assert.Equal(t, "2026-03-14", history.Days[1].Date)
}

func TestOwnerDashboardView(t *testing.T) {
	shop := settleShop()
	view := OwnerDashboardView(shop, DefaultFeePolicy(), time.UTC)
	at := time.Date(2026, time.March, 14, 18, 0, 0, 0, time.UTC)

	orders := []domain.Order{
		{ID: 1, RestaurantID: 7, Status: domain.StatusCooking, TotalPrice: domain.AmountFromInt(100), OrderDate: at},
		{ID: 2, RestaurantID: 7, Status: domain.StatusPaid, TotalPrice: domain.AmountFromInt(200), OrderDate: at},
		{ID: 3, RestaurantID: 7, Status: domain.StatusCompleted, TotalPrice: domain.AmountFromInt(300), OrderDate: at},
		{ID: 4, RestaurantID: 8, Status: domain.StatusCooking, TotalPrice: domain.AmountFromInt(900), OrderDate: at},
	}

	result := view(orders, time.Now())
	dash := result.Payload.(OwnerDashboard)

	require.Len(t, dash.Active, 2) // cooking + paid
	require.Len(t, dash.History, 1)
	assert.Equal(t, 2, result.ActiveCount)
	assert.Equal(t, "500", dash.Settlement.Gross.String())
	assert.Equal(t, "5", dash.Settlement.Fee.String())
	assert.Equal(t, "495", dash.Settlement.Net.String())
}
