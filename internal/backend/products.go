package backend

import (
	"context"
	"fmt"

	"github.com/soratech/storefront/internal/models"
)

type ProductsAPI struct {
	c *Client
}

func (a *ProductsAPI) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := a.c.get(ctx, "/api/Products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetAllIncludingDeleted backs the admin soft-delete view.
func (a *ProductsAPI) GetAllIncludingDeleted(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := a.c.get(ctx, "/api/Products?includeDeleted=true", &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (a *ProductsAPI) GetByID(ctx context.Context, id int) (*models.Product, error) {
	var product models.Product
	if err := a.c.get(ctx, fmt.Sprintf("/api/Products/%d", id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (a *ProductsAPI) Create(ctx context.Context, p models.Product) (*models.Product, error) {
	var created models.Product
	if err := a.c.post(ctx, "/api/Products", p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (a *ProductsAPI) Update(ctx context.Context, p models.Product) error {
	return a.c.put(ctx, fmt.Sprintf("/api/Products/%d", p.ID), p, nil)
}

func (a *ProductsAPI) Delete(ctx context.Context, id int) error {
	return a.c.delete(ctx, fmt.Sprintf("/api/Products/%d", id))
}
