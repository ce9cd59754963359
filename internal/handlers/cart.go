package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/soratech/storefront/internal/backend"
	"github.com/soratech/storefront/internal/logging"
	"github.com/soratech/storefront/internal/middleware"
	"github.com/soratech/storefront/internal/models"
	"github.com/soratech/storefront/internal/mykafka"
	"github.com/soratech/storefront/internal/store"
)

type CartHandler struct {
	Backend  *backend.Client
	Stores   *store.Manager
	Producer *mykafka.Producer
	Logger   *slog.Logger
}

func (h *CartHandler) GetCart(c echo.Context) error {
	lines := clientStore(c, h.Stores).Cart()
	var subtotal float64
	for _, l := range lines {
		subtotal += l.Price * float64(l.Quantity)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": lines, "subtotal": subtotal})
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	var req struct {
		ProductID int `json:"productId"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	product, err := h.Backend.Products.GetByID(ctx, req.ProductID)
	if err != nil {
		return httpError(err)
	}

	s := clientStore(c, h.Stores)
	if s.Quantity(product.ID)+1 > product.StockQuantity {
		return echo.NewHTTPError(http.StatusConflict, "недостаточно товара на складе")
	}
	s.AddToCart(*product)

	h.syncServerCart(c, product.ID, s.Quantity(product.ID))
	h.publish(c, "item_added", product.ID)

	return c.JSON(http.StatusOK, echo.Map{"items": s.Cart()})
}

func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	var req struct {
		ProductID int `json:"productId"`
		Quantity  int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s := clientStore(c, h.Stores)
	if req.Quantity > 0 {
		product, err := h.Backend.Products.GetByID(c.Request().Context(), req.ProductID)
		if err != nil {
			return httpError(err)
		}
		if req.Quantity > product.StockQuantity {
			return echo.NewHTTPError(http.StatusConflict, "недостаточно товара на складе")
		}
	}
	s.UpdateQuantity(req.ProductID, req.Quantity)

	h.syncServerCart(c, req.ProductID, req.Quantity)
	h.publish(c, "quantity_changed", req.ProductID)

	return c.JSON(http.StatusOK, echo.Map{"items": s.Cart()})
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	s := clientStore(c, h.Stores)
	s.RemoveFromCart(id)

	h.syncServerCart(c, id, 0)
	h.publish(c, "item_removed", id)

	return c.JSON(http.StatusOK, echo.Map{"items": s.Cart()})
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	s := clientStore(c, h.Stores)
	s.ClearCart()

	if userID := middleware.UserID(c); userID != 0 {
		client := scoped(c, h.Backend)
		if err := client.Carts.Clear(c.Request().Context(), userID); err != nil {
			logging.FromContext(c.Request().Context()).Warn("clear server cart", "error", err)
		}
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) GetFavorites(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"ids": clientStore(c, h.Stores).Favorites()})
}

// ToggleFavorite flips the flag locally and mirrors it to the account when
// the client is logged in. Mirror failures are logged, not surfaced: the
// local state is what the client sees.
func (h *CartHandler) ToggleFavorite(c echo.Context) error {
	var req struct {
		ProductID int `json:"productId"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s := clientStore(c, h.Stores)
	active := s.ToggleFavorite(req.ProductID)

	if userID := middleware.UserID(c); userID != 0 {
		ctx := c.Request().Context()
		client := scoped(c, h.Backend)
		var err error
		if active {
			err = client.Favorites.Create(ctx, userID, req.ProductID)
		} else {
			err = client.Favorites.Delete(ctx, userID, req.ProductID)
		}
		if err != nil {
			logging.FromContext(ctx).Warn("sync favorite", "productID", req.ProductID, "error", err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"productId": req.ProductID, "active": active})
}

func (h *CartHandler) ToggleComparison(c echo.Context) error {
	var req struct {
		ProductID int `json:"productId"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	active := clientStore(c, h.Stores).ToggleComparison(req.ProductID)
	return c.JSON(http.StatusOK, echo.Map{"productId": req.ProductID, "active": active})
}

func (h *CartHandler) syncServerCart(c echo.Context, productID, quantity int) {
	userID := middleware.UserID(c)
	if userID == 0 {
		return
	}
	ctx := c.Request().Context()
	client := scoped(c, h.Backend)
	row := models.CartRow{UserID: userID, ProductID: productID, Quantity: quantity}
	if err := client.Carts.Upsert(ctx, row); err != nil {
		logging.FromContext(ctx).Warn("sync server cart", "productID", productID, "error", err)
	}
}

func (h *CartHandler) publish(c echo.Context, eventType string, productID int) {
	if h.Producer == nil {
		return
	}
	ctx := c.Request().Context()
	event := map[string]any{"type": eventType, "productId": productID}
	if err := h.Producer.PublishEvent(ctx, "cart_events", middleware.ClientKey(c), event); err != nil {
		logging.FromContext(ctx).Warn("publish cart event", "error", err)
	}
}
