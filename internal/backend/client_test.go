package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soratech/storefront/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, func() string { return "test-token" })
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})

	_, err := c.Products.GetAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer test-token", gotAuth)
}

func TestValidationErrorsDictionary(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":{"Price":["must be positive"],"NameProduct":["required"]}}`))
	})

	_, err := c.Products.Create(context.Background(), models.Product{})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Contains(t, apiErr.Message, "Price: must be positive")
	require.Contains(t, apiErr.Message, "NameProduct: required")
}

func TestProblemTitleAndDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"title":"Conflict","detail":"article already taken"}`))
	})

	_, err := c.Products.Create(context.Background(), models.Product{})
	require.EqualError(t, err, "Conflict: article already taken")
}

func TestPlainJSONStringBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`"product not found"`))
	})

	_, err := c.Products.GetByID(context.Background(), 42)
	require.EqualError(t, err, "product not found")
}

func TestPlainTextExceptionLine(t *testing.T) {
	long := strings.Repeat("x", 300)
	body := "stack frame 1\n   System.InvalidOperationException: boom " + long + "\nstack frame 2"
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(body))
	})

	_, err := c.Products.GetAll(context.Background())
	require.Error(t, err)
	require.True(t, strings.HasPrefix(err.Error(), "System.InvalidOperationException: boom"))
	require.LessOrEqual(t, len(err.Error()), 200)
}

func TestPlainTextFirstLine(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("\n\n  upstream unavailable  \nmore detail"))
	})

	_, err := c.Products.GetAll(context.Background())
	require.EqualError(t, err, "upstream unavailable")
}

func TestEmptyErrorBodyFallsBackToStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.Products.GetAll(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "503")
}

func TestDeleteHandles204(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.Products.Delete(context.Background(), 7))
}

func TestIdempotencyKeyHeader(t *testing.T) {
	var gotKey string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Idempotency-Key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":1,"orderNumber":"ORD-1"}`))
	})

	created, err := c.Orders.Create(context.Background(), models.Order{UserID: 1}, "key-123")
	require.NoError(t, err)
	require.Equal(t, "key-123", gotKey)
	require.Equal(t, "ORD-1", created.OrderNumber)
}

func TestIncludeDeletedQuery(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"deleted":true}]`))
	})

	products, err := c.Products.GetAllIncludingDeleted(context.Background())
	require.NoError(t, err)
	require.Equal(t, "includeDeleted=true", gotQuery)
	require.Len(t, products, 1)
	require.True(t, products[0].Deleted)
}

func TestWithTokenClone(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})

	scoped := c.WithToken("user-token")
	_, err := scoped.Products.GetAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer user-token", gotAuth)

	// The base client keeps its own token source.
	_, err = c.Products.GetAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer test-token", gotAuth)

	require.Same(t, c, c.WithToken(""))
}
