package backend

import (
	"context"
	"fmt"

	"github.com/soratech/storefront/internal/models"
)

type ReviewsAPI struct {
	c *Client
}

func (a *ReviewsAPI) GetForProduct(ctx context.Context, productID int) ([]models.Review, error) {
	var reviews []models.Review
	if err := a.c.get(ctx, fmt.Sprintf("/api/Reviews/product/%d", productID), &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (a *ReviewsAPI) Create(ctx context.Context, r models.Review) (*models.Review, error) {
	var created models.Review
	if err := a.c.post(ctx, "/api/Reviews", r, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (a *ReviewsAPI) Delete(ctx context.Context, id int) error {
	return a.c.delete(ctx, fmt.Sprintf("/api/Reviews/%d", id))
}

type AddressesAPI struct {
	c *Client
}

func (a *AddressesAPI) GetForUser(ctx context.Context, userID int) ([]models.Address, error) {
	var addresses []models.Address
	if err := a.c.get(ctx, fmt.Sprintf("/api/Addresses/user/%d", userID), &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (a *AddressesAPI) Create(ctx context.Context, addr models.Address) (*models.Address, error) {
	var created models.Address
	if err := a.c.post(ctx, "/api/Addresses", addr, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (a *AddressesAPI) Update(ctx context.Context, addr models.Address) error {
	return a.c.put(ctx, fmt.Sprintf("/api/Addresses/%d", addr.ID), addr, nil)
}

func (a *AddressesAPI) Delete(ctx context.Context, id int) error {
	return a.c.delete(ctx, fmt.Sprintf("/api/Addresses/%d", id))
}
