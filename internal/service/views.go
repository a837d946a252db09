package service

import (
	"sort"
	"time"

	"pos-order-core/internal/domain"
)

type KitchenQueue struct {
	Orders []domain.Order `json:"orders"`
}

// KitchenQueueView shows staff everything in the kitchen-visible allow-list,
// newest order first.
func KitchenQueueView(visible domain.StatusSet) ViewFunc {
	return func(orders []domain.Order, _ time.Time) ViewResult {
		queue := make([]domain.Order, 0, len(orders))
		for _, o := range orders {
			if visible.Contains(o.Status) {
				queue = append(queue, o)
			}
		}
		sort.Slice(queue, func(i, j int) bool { return queue[i].ID > queue[j].ID })
		return ViewResult{Payload: KitchenQueue{Orders: queue}, ActiveCount: len(queue)}
	}
}

type DayGroup struct {
	Date   string         `json:"date"` // YYYY-MM-DD, viewer-local
	Orders []domain.Order `json:"orders"`
}

type CustomerHistory struct {
	CustomerID int        `json:"customer_id"`
	Days       []DayGroup `json:"days"`
}

// CustomerHistoryView filters to the principal's own orders (id match, name
// fallback when upstream dropped the id) and groups them by calendar day,
// newest first within each group. Month selection happens at render time
// from the day keys. The active subset driving arrival alerts is the
// customer's non-terminal orders.
func CustomerHistoryView(p domain.Principal, loc *time.Location) ViewFunc {
	if loc == nil {
		loc = time.Local
	}
	return func(orders []domain.Order, _ time.Time) ViewResult {
		var owned []domain.Order
		active := 0
		for _, o := range orders {
			if !domain.OwnedByCustomer(o, p.ID, p.Name) {
				continue
			}
			owned = append(owned, o)
			if !o.Status.Terminal() {
				active++
			}
		}
		sort.Slice(owned, func(i, j int) bool {
			if !owned[i].OrderDate.Equal(owned[j].OrderDate) {
				return owned[i].OrderDate.After(owned[j].OrderDate)
			}
			return owned[i].ID > owned[j].ID
		})

		history := CustomerHistory{CustomerID: p.ID}
		byDay := make(map[string]int)
		for _, o := range owned {
			day := o.OrderDate.In(loc).Format("2006-01-02")
			idx, ok := byDay[day]
			if !ok {
				history.Days = append(history.Days, DayGroup{Date: day})
				idx = len(history.Days) - 1
				byDay[day] = idx
			}
			history.Days[idx].Orders = append(history.Days[idx].Orders, o)
		}
		return ViewResult{Payload: history, ActiveCount: active}
	}
}

type OwnerDashboard struct {
	RestaurantID int              `json:"restaurant_id"`
	Active       []domain.Order   `json:"active"`
	History      []domain.Order   `json:"history"`
	Settlement   SettlementReport `json:"settlement"`
}

// OwnerDashboardView resolves the shop's orders through the ranked matcher,
// splits active from history and recomputes settlement figures every cycle.
func OwnerDashboardView(shop domain.Shop, policy FeePolicy, loc *time.Location) ViewFunc {
	return func(orders []domain.Order, _ time.Time) ViewResult {
		dash := OwnerDashboard{RestaurantID: shop.Restaurant.ID}
		var owned []domain.Order
		for _, o := range orders {
			if !shop.Owns(o) {
				continue
			}
			owned = append(owned, o)
			if o.Status.Terminal() {
				dash.History = append(dash.History, o)
			} else {
				dash.Active = append(dash.Active, o)
			}
		}
		sort.Slice(dash.Active, func(i, j int) bool { return dash.Active[i].ID > dash.Active[j].ID })
		sort.Slice(dash.History, func(i, j int) bool { return dash.History[i].ID > dash.History[j].ID })
		dash.Settlement = Settle(owned, shop, policy, loc)
		return ViewResult{Payload: dash, ActiveCount: len(dash.Active)}
	}
}
