package backend

import (
	"context"
	"fmt"

	"github.com/soratech/storefront/internal/models"
)

type UsersAPI struct {
	c *Client
}

func (a *UsersAPI) GetAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := a.c.get(ctx, "/api/Users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (a *UsersAPI) GetByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	if err := a.c.get(ctx, fmt.Sprintf("/api/Users/%d", id), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *UsersAPI) Update(ctx context.Context, u models.User) error {
	return a.c.put(ctx, fmt.Sprintf("/api/Users/%d", u.ID), u, nil)
}

// Delete soft-deletes the account server-side.
func (a *UsersAPI) Delete(ctx context.Context, id int) error {
	return a.c.delete(ctx, fmt.Sprintf("/api/Users/%d", id))
}
