package backend

import (
	"context"

	"github.com/soratech/storefront/internal/models"
)

// LookupsAPI covers the small reference tables used for foreign-key selects.
type LookupsAPI struct {
	c *Client
}

func (a *LookupsAPI) Categories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := a.c.get(ctx, "/api/Categories", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *LookupsAPI) Suppliers(ctx context.Context) ([]models.Supplier, error) {
	var out []models.Supplier
	if err := a.c.get(ctx, "/api/Suppliers", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *LookupsAPI) Roles(ctx context.Context) ([]models.Role, error) {
	var out []models.Role
	if err := a.c.get(ctx, "/api/Roles", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *LookupsAPI) StatusOrders(ctx context.Context) ([]models.StatusOrder, error) {
	var out []models.StatusOrder
	if err := a.c.get(ctx, "/api/StatusOrders", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *LookupsAPI) DeliveryTypes(ctx context.Context) ([]models.DeliveryType, error) {
	var out []models.DeliveryType
	if err := a.c.get(ctx, "/api/DeliveryTypes", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *LookupsAPI) PaymentTypes(ctx context.Context) ([]models.PaymentType, error) {
	var out []models.PaymentType
	if err := a.c.get(ctx, "/api/PaymentTypes", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *LookupsAPI) ProductCharacteristics(ctx context.Context) ([]models.ProductCharacteristic, error) {
	var out []models.ProductCharacteristic
	if err := a.c.get(ctx, "/api/ProductCharacteristics", &out); err != nil {
		return nil, err
	}
	return out, nil
}
