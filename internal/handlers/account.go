package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/soratech/storefront/internal/auth"
	"github.com/soratech/storefront/internal/backend"
	"github.com/soratech/storefront/internal/middleware"
	"github.com/soratech/storefront/internal/models"
	"github.com/soratech/storefront/internal/store"
)

const minReviewLen = 20

type AccountHandler struct {
	Backend *backend.Client
	Stores  *store.Manager
}

func (h *AccountHandler) Profile(c echo.Context) error {
	client := scoped(c, h.Backend)
	user, err := client.Users.GetByID(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	var req struct {
		FirstName string `json:"firstName"`
		Nickname  string `json:"nickname"`
		Phone     string `json:"phone"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := auth.ValidatePhone(req.Phone); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	client := scoped(c, h.Backend)
	user, err := client.Users.GetByID(ctx, middleware.UserID(c))
	if err != nil {
		return httpError(err)
	}

	user.FirstName = req.FirstName
	user.Nickname = req.Nickname
	user.Phone = req.Phone
	if err := client.Users.Update(ctx, *user); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AccountHandler) Orders(c echo.Context) error {
	client := scoped(c, h.Backend)
	orders, err := client.Orders.GetByUser(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *AccountHandler) Addresses(c echo.Context) error {
	client := scoped(c, h.Backend)
	addresses, err := client.Addresses.GetForUser(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, addresses)
}

func (h *AccountHandler) CreateAddress(c echo.Context) error {
	var addr models.Address
	if err := c.Bind(&addr); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	addr.UserID = middleware.UserID(c)

	client := scoped(c, h.Backend)
	created, err := client.Addresses.Create(c.Request().Context(), addr)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *AccountHandler) UpdateAddress(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var addr models.Address
	if err := c.Bind(&addr); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	addr.ID = id
	addr.UserID = middleware.UserID(c)

	client := scoped(c, h.Backend)
	if err := client.Addresses.Update(c.Request().Context(), addr); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, addr)
}

func (h *AccountHandler) DeleteAddress(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	client := scoped(c, h.Backend)
	if err := client.Addresses.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SubmitReview accepts a review only from a customer who actually bought
// the product, with a comment of at least twenty characters.
func (h *AccountHandler) SubmitReview(c echo.Context) error {
	var req struct {
		ProductID   int    `json:"productId"`
		Rating      int    `json:"rating"`
		CommentText string `json:"commentText"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Rating < 1 || req.Rating > 5 {
		return echo.NewHTTPError(http.StatusBadRequest, "оценка должна быть от 1 до 5")
	}
	if len([]rune(strings.TrimSpace(req.CommentText))) < minReviewLen {
		return echo.NewHTTPError(http.StatusBadRequest, "комментарий должен содержать не менее 20 символов")
	}

	ctx := c.Request().Context()
	userID := middleware.UserID(c)
	client := scoped(c, h.Backend)

	orders, err := client.Orders.GetByUser(ctx, userID)
	if err != nil {
		return httpError(err)
	}
	purchased := false
	for _, order := range orders {
		for _, item := range order.Items {
			if item.ProductID == req.ProductID {
				purchased = true
			}
		}
	}
	if !purchased {
		return echo.NewHTTPError(http.StatusForbidden, "отзыв можно оставить только на купленный товар")
	}

	review, err := client.Reviews.Create(ctx, models.Review{
		ProductID:   req.ProductID,
		UserID:      userID,
		Rating:      req.Rating,
		CommentText: strings.TrimSpace(req.CommentText),
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, review)
}
