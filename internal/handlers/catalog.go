package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/soratech/storefront/internal/backend"
	"github.com/soratech/storefront/internal/logging"
	"github.com/soratech/storefront/internal/models"
	"github.com/soratech/storefront/internal/mykafka"
	"github.com/soratech/storefront/internal/store"
	"github.com/soratech/storefront/internal/util"
)

type CatalogHandler struct {
	Backend  *backend.Client
	Stores   *store.Manager
	Producer *mykafka.Producer
	Logger   *slog.Logger
}

func (h *CatalogHandler) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.Backend.Products.GetAll(ctx)
	if err != nil {
		return httpError(err)
	}

	if raw := c.QueryParam("categoryId"); raw != "" {
		categoryID, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid categoryId")
		}
		filtered := make([]models.Product, 0, len(products))
		for _, p := range products {
			if p.CategoryID == categoryID {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, limit := util.Calculate(page, size)

	total := len(products)
	if from >= total {
		products = nil
	} else {
		if from+limit > total {
			limit = total - from
		}
		products = products[from : from+limit]
	}

	return c.JSON(http.StatusOK, echo.Map{"total": total, "products": products})
}

// GetProduct returns the detail view: the product itself plus its reviews
// and characteristics, fetched in parallel. Viewing a product records it in
// the client's recently-viewed list.
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()

	var (
		wg      sync.WaitGroup
		product *models.Product
		reviews []models.Review
		chars   []models.ProductCharacteristic

		productErr error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		product, productErr = h.Backend.Products.GetByID(ctx, id)
	}()
	go func() {
		defer wg.Done()
		var err error
		if reviews, err = h.Backend.Reviews.GetForProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("load reviews", "productID", id, "error", err)
		}
	}()
	go func() {
		defer wg.Done()
		all, err := h.Backend.Lookups.ProductCharacteristics(ctx)
		if err != nil {
			logging.FromContext(ctx).Warn("load characteristics", "productID", id, "error", err)
			return
		}
		for _, ch := range all {
			if ch.ProductID == id {
				chars = append(chars, ch)
			}
		}
	}()
	wg.Wait()

	if productErr != nil {
		return httpError(productErr)
	}

	clientStore(c, h.Stores).AddRecentlyViewed(product.ID)

	if h.Producer != nil {
		event := map[string]any{"type": "product_viewed", "productId": product.ID}
		if err := h.Producer.PublishEvent(ctx, "product_events", strconv.Itoa(product.ID), event); err != nil {
			logging.FromContext(ctx).Warn("publish product_viewed", "error", err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"product":         product,
		"reviews":         reviews,
		"characteristics": chars,
	})
}

// RecentlyViewed resolves the stored id list against the catalog, newest
// first. Products that disappeared from the catalog drop out silently.
func (h *CatalogHandler) RecentlyViewed(c echo.Context) error {
	ctx := c.Request().Context()
	ids := clientStore(c, h.Stores).RecentlyViewed()
	if len(ids) == 0 {
		return c.JSON(http.StatusOK, []models.Product{})
	}

	products, err := h.Backend.Products.GetAll(ctx)
	if err != nil {
		return httpError(err)
	}
	byID := make(map[int]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	viewed := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			viewed = append(viewed, p)
		}
	}
	return c.JSON(http.StatusOK, viewed)
}

func (h *CatalogHandler) Categories(c echo.Context) error {
	categories, err := h.Backend.Lookups.Categories(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, categories)
}

// Comparison returns the full products for the client's comparison set.
func (h *CatalogHandler) Comparison(c echo.Context) error {
	ctx := c.Request().Context()
	ids := clientStore(c, h.Stores).Comparison()
	if len(ids) == 0 {
		return c.JSON(http.StatusOK, []models.Product{})
	}

	products, err := h.Backend.Products.GetAll(ctx)
	if err != nil {
		return httpError(err)
	}
	selected := make([]models.Product, 0, len(ids))
	for _, p := range products {
		for _, id := range ids {
			if p.ID == id {
				selected = append(selected, p)
				break
			}
		}
	}
	return c.JSON(http.StatusOK, selected)
}
