package backend

import (
	"context"
	"fmt"

	"github.com/soratech/storefront/internal/models"
)

type CartsAPI struct {
	c *Client
}

func (a *CartsAPI) GetForUser(ctx context.Context, userID int) ([]models.CartRow, error) {
	var rows []models.CartRow
	if err := a.c.get(ctx, fmt.Sprintf("/api/Carts/user/%d", userID), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (a *CartsAPI) Upsert(ctx context.Context, row models.CartRow) error {
	// A quantity of zero means the row should not exist at all.
	if row.Quantity <= 0 {
		return a.Delete(ctx, row.UserID, row.ProductID)
	}
	return a.c.post(ctx, "/api/Carts", row, nil)
}

func (a *CartsAPI) Delete(ctx context.Context, userID, productID int) error {
	return a.c.delete(ctx, fmt.Sprintf("/api/Carts/user/%d/product/%d", userID, productID))
}

func (a *CartsAPI) Clear(ctx context.Context, userID int) error {
	return a.c.delete(ctx, fmt.Sprintf("/api/Carts/user/%d", userID))
}

type FavoritesAPI struct {
	c *Client
}

func (a *FavoritesAPI) GetForUser(ctx context.Context, userID int) ([]models.Favorite, error) {
	var favs []models.Favorite
	if err := a.c.get(ctx, fmt.Sprintf("/api/Favorites/user/%d", userID), &favs); err != nil {
		return nil, err
	}
	return favs, nil
}

func (a *FavoritesAPI) Create(ctx context.Context, userID, productID int) error {
	return a.c.post(ctx, "/api/Favorites", models.Favorite{UserID: userID, ProductID: productID}, nil)
}

func (a *FavoritesAPI) Delete(ctx context.Context, userID, productID int) error {
	return a.c.delete(ctx, fmt.Sprintf("/api/Favorites/user/%d/product/%d", userID, productID))
}
