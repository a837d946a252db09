package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"pos-order-core/internal/domain"
)

// ResourceClient talks to the external resource API that owns the order
// collection. It is the primary OrderStore/CatalogStore adapter; the core
// never touches the upstream database directly.
type ResourceClient struct {
	BaseURL    string
	Client     *http.Client
	MaxRetries int
	RetryWait  time.Duration
}

func NewResourceClient(baseURL string) *ResourceClient {
	return &ResourceClient{
		BaseURL:    baseURL,
		Client:     &http.Client{Timeout: 2 * time.Minute},
		MaxRetries: 3,
		RetryWait:  500 * time.Millisecond,
	}
}

func (c *ResourceClient) do(ctx context.Context, method, path string, in, out any) error {
	var lastErr error
	for attempt := 1; attempt <= c.MaxRetries; attempt++ {
		lastErr = c.doOnce(ctx, method, path, in, out)
		if lastErr == nil {
			return nil
		}
		log.Printf("resource %s %s attempt %d/%d failed: %v", method, path, attempt, c.MaxRetries, lastErr)
		if attempt == c.MaxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.RetryWait):
		}
	}
	return lastErr
}

func (c *ResourceClient) doOnce(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("resource API %s %s: status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *ResourceClient) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *ResourceClient) CreateOrder(ctx context.Context, o domain.Order) (domain.Order, error) {
	var created domain.Order
	if err := c.do(ctx, http.MethodPost, "/orders", o, &created); err != nil {
		return domain.Order{}, err
	}
	return created, nil
}

func (c *ResourceClient) UpdateOrderStatus(ctx context.Context, id int, status domain.Status) (domain.Order, error) {
	var updated domain.Order
	patch := map[string]domain.Status{"order_status": status}
	if err := c.do(ctx, http.MethodPatch, "/orders/"+strconv.Itoa(id), patch, &updated); err != nil {
		return domain.Order{}, err
	}
	return updated, nil
}

func (c *ResourceClient) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	var restaurants []domain.Restaurant
	if err := c.do(ctx, http.MethodGet, "/restaurants", nil, &restaurants); err != nil {
		return nil, err
	}
	return restaurants, nil
}

func (c *ResourceClient) ListMenusByRestaurant(ctx context.Context, restaurantID int) ([]domain.Menu, error) {
	var menus []domain.Menu
	path := "/restaurants/" + strconv.Itoa(restaurantID) + "/menus"
	if err := c.do(ctx, http.MethodGet, path, nil, &menus); err != nil {
		return nil, err
	}
	return menus, nil
}

func (c *ResourceClient) GetCustomer(ctx context.Context, id int) (*domain.Customer, error) {
	var customer domain.Customer
	if err := c.do(ctx, http.MethodGet, "/customers/"+strconv.Itoa(id), nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}
