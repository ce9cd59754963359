package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/soratech/storefront/internal/backend"
	"github.com/soratech/storefront/internal/checkout"
	"github.com/soratech/storefront/internal/logging"
	"github.com/soratech/storefront/internal/middleware"
	"github.com/soratech/storefront/internal/models"
	"github.com/soratech/storefront/internal/store"
)

type CheckoutHandler struct {
	Backend  *backend.Client
	Stores   *store.Manager
	Checkout *checkout.Service
	Validate *validator.Validate
}

type checkoutRequest struct {
	AddressID      int `json:"addressId" validate:"required"`
	DeliveryTypeID int `json:"deliveryTypeId" validate:"required"`
	PaymentTypeID  int `json:"paymentTypeId" validate:"required"`
	// ProductIDs selects the cart rows to buy; empty means the whole cart.
	ProductIDs []int `json:"productIds"`
}

// Quote prices the selected cart rows for the chosen delivery and payment
// methods without placing an order.
func (h *CheckoutHandler) Quote(c echo.Context) error {
	var req struct {
		DeliveryTypeID int   `json:"deliveryTypeId"`
		PaymentTypeID  int   `json:"paymentTypeId"`
		ProductIDs     []int `json:"productIds"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	delivery, payment, err := h.lookupMethods(c, req.DeliveryTypeID, req.PaymentTypeID)
	if err != nil {
		return err
	}

	lines := selectLines(clientStore(c, h.Stores).Cart(), req.ProductIDs)
	totals := checkout.Calculate(lines, checkout.IsCourier(delivery), checkout.IsCard(payment))
	return c.JSON(http.StatusOK, totals)
}

func (h *CheckoutHandler) Submit(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.Validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	delivery, payment, err := h.lookupMethods(c, req.DeliveryTypeID, req.PaymentTypeID)
	if err != nil {
		return err
	}

	products, err := h.Backend.Products.GetAll(ctx)
	if err != nil {
		return httpError(err)
	}
	snapshot := make(map[int]models.Product, len(products))
	for _, p := range products {
		snapshot[p.ID] = p
	}

	s := clientStore(c, h.Stores)
	email, _ := c.Get("email").(string)
	lines := selectLines(s.Cart(), req.ProductIDs)

	client := scoped(c, h.Backend)
	svc := *h.Checkout
	svc.Backend = client
	order, err := svc.PlaceOrder(ctx, checkout.Request{
		UserID:    middleware.UserID(c),
		Email:     email,
		Lines:     lines,
		AddressID: req.AddressID,
		Delivery:  delivery,
		Payment:   payment,
		Products:  snapshot,
	})
	if err != nil {
		if apiErr, ok := err.(*backend.APIError); ok {
			return echo.NewHTTPError(apiErr.StatusCode, apiErr.Message)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Only the purchased rows leave the cart, locally and in the mirrored
	// server cart. The mirror cleanup is best-effort like the rest of the
	// sync.
	userID := middleware.UserID(c)
	for _, line := range lines {
		s.RemoveFromCart(line.ProductID)
		if userID != 0 {
			if err := client.Carts.Delete(ctx, userID, line.ProductID); err != nil {
				logging.FromContext(ctx).Warn("clear purchased cart row", "productID", line.ProductID, "error", err)
			}
		}
	}
	return c.JSON(http.StatusCreated, order)
}

// selectLines keeps the cart rows whose product is in ids; empty ids selects
// everything.
func selectLines(lines []store.CartLine, ids []int) []store.CartLine {
	if len(ids) == 0 {
		return lines
	}
	selected := make([]store.CartLine, 0, len(ids))
	for _, line := range lines {
		for _, id := range ids {
			if line.ProductID == id {
				selected = append(selected, line)
				break
			}
		}
	}
	return selected
}

func (h *CheckoutHandler) DeliveryTypes(c echo.Context) error {
	types, err := h.Backend.Lookups.DeliveryTypes(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, types)
}

func (h *CheckoutHandler) PaymentTypes(c echo.Context) error {
	types, err := h.Backend.Lookups.PaymentTypes(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, types)
}

func (h *CheckoutHandler) lookupMethods(c echo.Context, deliveryID, paymentID int) (models.DeliveryType, models.PaymentType, error) {
	ctx := c.Request().Context()
	var delivery models.DeliveryType
	var payment models.PaymentType

	deliveries, err := h.Backend.Lookups.DeliveryTypes(ctx)
	if err != nil {
		return delivery, payment, httpError(err)
	}
	for _, d := range deliveries {
		if d.ID == deliveryID {
			delivery = d
		}
	}
	if delivery.ID == 0 {
		return delivery, payment, echo.NewHTTPError(http.StatusBadRequest, "выберите способ доставки")
	}

	payments, err := h.Backend.Lookups.PaymentTypes(ctx)
	if err != nil {
		return delivery, payment, httpError(err)
	}
	for _, p := range payments {
		if p.ID == paymentID {
			payment = p
		}
	}
	if payment.ID == 0 {
		return delivery, payment, echo.NewHTTPError(http.StatusBadRequest, "выберите способ оплаты")
	}
	return delivery, payment, nil
}
