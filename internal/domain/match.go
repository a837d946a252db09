package domain

// Shop is a restaurant together with its menu set, used to resolve which
// orders belong to it. Upstream joins are incomplete: an order may miss its
// restaurant_id or even its menu_id, so resolution falls back through a
// ranked list of matchers. This is a resilience layer over bad data, not
// the primary contract; enforcing restaurant_id at write time would make
// everything past the first matcher dead code.
type Shop struct {
	Restaurant Restaurant
	MenuIDs    map[int]bool
	MenuNames  map[string]bool
}

func NewShop(rest Restaurant, menus []Menu) Shop {
	s := Shop{
		Restaurant: rest,
		MenuIDs:    make(map[int]bool, len(menus)),
		MenuNames:  make(map[string]bool, len(menus)),
	}
	for _, m := range menus {
		s.MenuIDs[m.ID] = true
		if m.Name != "" {
			s.MenuNames[m.Name] = true
		}
	}
	return s
}

// An orderMatcher reports whether it could decide at all (ok) and, if so,
// whether the order belongs to the shop. Matchers run in priority order and
// the first decisive one wins.
type orderMatcher func(Shop, Order) (matched, ok bool)

var shopMatchers = []orderMatcher{
	tryMatchByID,
	tryMatchByForeignSet,
	tryMatchByName,
}

func tryMatchByID(s Shop, o Order) (bool, bool) {
	if o.RestaurantID == 0 {
		return false, false
	}
	return o.RestaurantID == s.Restaurant.ID, true
}

func tryMatchByForeignSet(s Shop, o Order) (bool, bool) {
	if o.MenuID == 0 {
		return false, false
	}
	return s.MenuIDs[o.MenuID], true
}

func tryMatchByName(s Shop, o Order) (bool, bool) {
	if o.MenuName == "" {
		return false, false
	}
	return s.MenuNames[o.MenuName], true
}

func (s Shop) Owns(o Order) bool {
	for _, match := range shopMatchers {
		if matched, ok := match(s, o); ok {
			return matched
		}
	}
	return false
}

// OwnedByCustomer matches an order to a customer by id, falling back to
// name equality when the upstream join dropped the id.
func OwnedByCustomer(o Order, customerID int, customerName string) bool {
	if o.CustomerID != 0 {
		return o.CustomerID == customerID
	}
	return customerName != "" && o.CustomerName == customerName
}
