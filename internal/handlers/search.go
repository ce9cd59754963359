package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/soratech/storefront/internal/middleware"
	"github.com/soratech/storefront/internal/search"
	"github.com/soratech/storefront/internal/util"
)

// SearchHandler keeps one sequenced searcher per client, so staleness is
// tracked per search box: one client's new query can only supersede that
// same client's in-flight one.
type SearchHandler struct {
	Do search.SearchFunc

	mu        sync.Mutex
	searchers map[string]*search.Searcher
}

func (h *SearchHandler) forClient(key string) *search.Searcher {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.searchers == nil {
		h.searchers = make(map[string]*search.Searcher)
	}
	s, ok := h.searchers[key]
	if !ok {
		s = search.NewSearcher(h.Do)
		h.searchers[key] = s
	}
	return s
}

func (h *SearchHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query error")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, size := util.Calculate(page, size)

	searcher := h.forClient(middleware.ClientKey(c))
	results, err := searcher.Search(c.Request().Context(), q, from, size)
	if err != nil {
		// A newer query from the same client superseded this one; the caller
		// should discard it.
		if errors.Is(err, search.ErrStale) {
			return c.NoContent(http.StatusNoContent)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"total": results.Total, "products": results.Products})
}
