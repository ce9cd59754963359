package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/soratech/storefront/internal/models"
)

type OrdersAPI struct {
	c *Client
}

func (a *OrdersAPI) GetAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := a.c.get(ctx, "/api/Orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (a *OrdersAPI) GetByID(ctx context.Context, id int) (*models.Order, error) {
	var order models.Order
	if err := a.c.get(ctx, fmt.Sprintf("/api/Orders/%d", id), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (a *OrdersAPI) GetByUser(ctx context.Context, userID int) ([]models.Order, error) {
	var orders []models.Order
	if err := a.c.get(ctx, fmt.Sprintf("/api/Orders/user/%d", userID), &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Create submits the order and its line items atomically. The idempotency key
// lets the server collapse an accidental double submit into one order.
func (a *OrdersAPI) Create(ctx context.Context, order models.Order, idempotencyKey string) (*models.Order, error) {
	var created models.Order
	extra := http.Header{}
	if idempotencyKey != "" {
		extra.Set("Idempotency-Key", idempotencyKey)
	}
	if err := a.c.do(ctx, http.MethodPost, "/api/Orders", order, &created, extra); err != nil {
		return nil, err
	}
	return &created, nil
}

func (a *OrdersAPI) UpdateStatus(ctx context.Context, orderID, statusID int) error {
	body := map[string]int{"statusOrderId": statusID}
	return a.c.put(ctx, fmt.Sprintf("/api/Orders/%d/status", orderID), body, nil)
}
