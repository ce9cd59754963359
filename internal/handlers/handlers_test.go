package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/soratech/storefront/internal/backend"
	"github.com/soratech/storefront/internal/store"
)

type memPersister struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemPersister() *memPersister {
	return &memPersister{data: make(map[string][]byte)}
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

func newTestStores() *store.Manager {
	return store.NewManager(newMemPersister(), nil)
}

func newTestContext(t *testing.T, method, path string, body any) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	e := echo.New()
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("clientKey", "guest:test")
	return c, rec
}

func asUser(c echo.Context, id int, role string) {
	c.Set("userID", id)
	c.Set("role", role)
	c.Set("clientKey", "user:1")
	c.Set("token", "test-token")
}

// fakeBackend runs an httptest server for the routes the test needs and
// returns a client pointed at it.
func fakeBackend(t *testing.T, mux *http.ServeMux) *backend.Client {
	t.Helper()
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return backend.NewClient(ts.URL, nil)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
