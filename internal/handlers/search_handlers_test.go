package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/soratech/storefront/internal/models"
	"github.com/soratech/storefront/internal/search"
)

func searchContext(t *testing.T, clientKey, query string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/search?q="+query, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("clientKey", clientKey)
	return c, rec
}

func TestSearchClientsDoNotInterfere(t *testing.T) {
	slowStarted := make(chan struct{})
	release := make(chan struct{})

	h := &SearchHandler{Do: func(ctx context.Context, query string, from, size int) (search.Results, error) {
		if query == "slow" {
			close(slowStarted)
			select {
			case <-release:
			case <-ctx.Done():
				return search.Results{}, ctx.Err()
			}
		}
		return search.Results{Total: 1, Products: []models.Product{{ID: 1, NameProduct: query}}}, nil
	}}

	var wg sync.WaitGroup
	wg.Add(1)
	var slowRec *httptest.ResponseRecorder
	var slowErr error
	go func() {
		defer wg.Done()
		c, rec := searchContext(t, "guest:a", "slow")
		slowRec = rec
		slowErr = h.Search(c)
	}()

	<-slowStarted

	// Another client searching must not cancel or supersede the first one.
	c, rec := searchContext(t, "guest:b", "fast")
	require.NoError(t, h.Search(c))
	require.Equal(t, http.StatusOK, rec.Code)

	close(release)
	wg.Wait()
	require.NoError(t, slowErr)
	require.Equal(t, http.StatusOK, slowRec.Code)
}

func TestSearchSameClientSupersedes(t *testing.T) {
	firstStarted := make(chan struct{})
	release := make(chan struct{})

	h := &SearchHandler{Do: func(ctx context.Context, query string, from, size int) (search.Results, error) {
		if query == "first" {
			close(firstStarted)
			<-release
		}
		return search.Results{Total: 1}, nil
	}}

	var wg sync.WaitGroup
	wg.Add(1)
	var firstRec *httptest.ResponseRecorder
	var firstErr error
	go func() {
		defer wg.Done()
		c, rec := searchContext(t, "guest:a", "first")
		firstRec = rec
		firstErr = h.Search(c)
	}()

	<-firstStarted

	c, rec := searchContext(t, "guest:a", "second")
	require.NoError(t, h.Search(c))
	require.Equal(t, http.StatusOK, rec.Code)

	close(release)
	wg.Wait()
	// The slow first response from the same client comes back superseded.
	require.NoError(t, firstErr)
	require.Equal(t, http.StatusNoContent, firstRec.Code)
}

func TestSearchMissingQuery(t *testing.T) {
	h := &SearchHandler{Do: func(ctx context.Context, query string, from, size int) (search.Results, error) {
		return search.Results{}, nil
	}}
	c, _ := searchContext(t, "guest:a", "")

	err := h.Search(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, httpErr.Code)
}
