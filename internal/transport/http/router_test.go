package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/soratech/storefront/internal/backend"
	"github.com/soratech/storefront/internal/checkout"
	"github.com/soratech/storefront/internal/handlers"
	"github.com/soratech/storefront/internal/middleware"
	"github.com/soratech/storefront/internal/models"
	"github.com/soratech/storefront/internal/search"
	"github.com/soratech/storefront/internal/store"
)

var testSecret = []byte("router-test-secret")

type memPersister struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (p *memPersister) Load(_ context.Context, key string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	data, ok := p.data[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return data, nil
}

func (p *memPersister) Save(_ context.Context, key string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data[key] = data
	return nil
}

func newTestApp(t *testing.T) *echo.Echo {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/Products", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]models.Product{
			{ID: 42, NameProduct: "GeForce RTX 4070", Article: "GPU-42", Price: 62990, StockQuantity: 3},
		})
	})
	mux.HandleFunc("GET /api/Products/42", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.Product{ID: 42, NameProduct: "GeForce RTX 4070", Article: "GPU-42", Price: 62990, StockQuantity: 3})
	})
	mux.HandleFunc("GET /api/Orders", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]backend.Record{
			{"id": float64(1), "orderNumber": "ORD-1", "statusOrderId": float64(1)},
		})
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	client := backend.NewClient(ts.URL, nil)
	stores := store.NewManager(&memPersister{data: make(map[string][]byte)}, nil)

	e := echo.New()
	Register(e, &Deps{
		Session:         &middleware.Session{JWTSecret: testSecret},
		CatalogHandler:  &handlers.CatalogHandler{Backend: client, Stores: stores},
		CartHandler:     &handlers.CartHandler{Backend: client, Stores: stores},
		CheckoutHandler: &handlers.CheckoutHandler{Backend: client, Stores: stores, Checkout: &checkout.Service{Backend: client}, Validate: validator.New()},
		AccountHandler:  &handlers.AccountHandler{Backend: client, Stores: stores},
		AuthHandler:     &handlers.AuthHandler{Backend: client, Stores: stores},
		AdminHandler:    &handlers.AdminHandler{Backend: client},
		SearchHandler:   &handlers.SearchHandler{Do: search.CatalogScan(client)},
	})
	return e
}

func TestHealthEndpoints(t *testing.T) {
	e := newTestApp(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGuestCartFlowKeepsCookieState(t *testing.T) {
	e := newTestApp(t)

	body, _ := json.Marshal(map[string]int{"productId": 42})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	// The issued guest cookie keys the same cart on the next request.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items    []store.CartLine `json:"items"`
		Subtotal float64          `json:"subtotal"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	require.Equal(t, 42, resp.Items[0].ProductID)
	require.Equal(t, 62990.0, resp.Subtotal)
}

func TestAdminRequiresRole(t *testing.T) {
	e := newTestApp(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/entities", nil))
	require.Equal(t, http.StatusForbidden, rec.Code)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": float64(1), "role": "manager",
	}).SignedString(testSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/entities", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/manager/orders", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCheckoutRequiresLogin(t *testing.T) {
	e := newTestApp(t)

	body, _ := json.Marshal(map[string]int{"addressId": 1, "deliveryTypeId": 1, "paymentTypeId": 1})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSearchFallsBackToCatalogScan(t *testing.T) {
	e := newTestApp(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/search?q=rtx", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Total    int64            `json:"total"`
		Products []models.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(1), resp.Total)
	require.Equal(t, 42, resp.Products[0].ID)
}
