package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/soratech/storefront/internal/backend"
	"github.com/soratech/storefront/internal/middleware"
	"github.com/soratech/storefront/internal/store"
)

// httpError maps backend failures onto the response: upstream statuses pass
// through with their extracted message, everything else is a bad gateway.
func httpError(err error) error {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		return echo.NewHTTPError(apiErr.StatusCode, apiErr.Message)
	}
	return echo.NewHTTPError(http.StatusBadGateway, err.Error())
}

func clientStore(c echo.Context, m *store.Manager) *store.Store {
	return m.ForClient(c.Request().Context(), middleware.ClientKey(c))
}

func scoped(c echo.Context, base *backend.Client) *backend.Client {
	return base.WithToken(middleware.Token(c))
}
