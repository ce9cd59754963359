package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/soratech/storefront/internal/backend"
)

func categoriesBackend(t *testing.T) (*backend.Client, *[]backend.Record) {
	rows := []backend.Record{
		{"id": float64(1), "nameCategory": "Видеокарты", "description": "GPU"},
		{"id": float64(2), "nameCategory": "Процессоры", "description": "CPU"},
		{"id": float64(3), "nameCategory": "Память", "description": "RAM"},
	}
	var lastCreated []backend.Record
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/Categories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, rows)
	})
	mux.HandleFunc("POST /api/Categories", func(w http.ResponseWriter, r *http.Request) {
		var rec backend.Record
		json.NewDecoder(r.Body).Decode(&rec)
		rec["id"] = float64(100 + len(lastCreated))
		lastCreated = append(lastCreated, rec)
		writeJSON(w, rec)
	})
	return fakeBackend(t, mux), &lastCreated
}

func TestAdminListSearchAndMeta(t *testing.T) {
	client, _ := categoriesBackend(t)
	h := &AdminHandler{Backend: client}

	c, rec := newTestContext(t, http.MethodGet, "/admin/entities/categories?search=процес", nil)
	asUser(c, 1, "admin")
	c.SetParamNames("entity")
	c.SetParamValues("categories")

	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Items []backend.Record `json:"data"`
		Meta  struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Items, 1)
	require.Equal(t, "Процессоры", page.Items[0]["nameCategory"])
	require.Equal(t, int64(1), page.Meta.Total)
}

func TestAdminUnknownEntity(t *testing.T) {
	h := &AdminHandler{Backend: fakeBackend(t, http.NewServeMux())}

	c, _ := newTestContext(t, http.MethodGet, "/admin/entities/nonsense", nil)
	c.SetParamNames("entity")
	c.SetParamValues("nonsense")

	err := h.List(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestAdminCreateUsesPayloadBuilder(t *testing.T) {
	client, created := categoriesBackend(t)
	h := &AdminHandler{Backend: client}

	c, rec := newTestContext(t, http.MethodPost, "/admin/entities/categories", backend.Record{
		"nameCategory": "Корпуса",
		"description":  "",
	})
	asUser(c, 1, "admin")
	c.SetParamNames("entity")
	c.SetParamValues("categories")

	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, *created, 1)
	require.Equal(t, "Корпуса", (*created)[0]["nameCategory"])
}

func TestAdminOrdersAreReadOnly(t *testing.T) {
	h := &AdminHandler{Backend: fakeBackend(t, http.NewServeMux())}

	c, _ := newTestContext(t, http.MethodPost, "/admin/entities/orders", backend.Record{})
	c.SetParamNames("entity")
	c.SetParamValues("orders")

	err := h.Create(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusMethodNotAllowed, httpErr.Code)
}

func TestAdminUpdateMergesOriginal(t *testing.T) {
	var updated backend.Record
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/Categories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []backend.Record{
			{"id": float64(2), "nameCategory": "Процессоры", "description": "CPU"},
		})
	})
	mux.HandleFunc("PUT /api/Categories/2", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&updated)
		w.WriteHeader(http.StatusOK)
	})

	h := &AdminHandler{Backend: fakeBackend(t, mux)}
	c, _ := newTestContext(t, http.MethodPut, "/admin/entities/categories/2", backend.Record{
		"nameCategory": "",
		"description":  "Центральные процессоры",
	})
	c.SetParamNames("entity", "id")
	c.SetParamValues("categories", "2")

	require.NoError(t, h.Update(c))
	// Empty name falls back to the stored value, the description is replaced.
	require.Equal(t, "Процессоры", updated["nameCategory"])
	require.Equal(t, "Центральные процессоры", updated["description"])
}

func TestAdminExportCSVHasBOMAndHeader(t *testing.T) {
	client, _ := categoriesBackend(t)
	h := &AdminHandler{Backend: client}

	c, rec := newTestContext(t, http.MethodGet, "/admin/entities/categories/export", nil)
	c.SetParamNames("entity")
	c.SetParamValues("categories")

	require.NoError(t, h.ExportCSV(c))
	body := rec.Body.String()
	require.True(t, strings.HasPrefix(body, "\xEF\xBB\xBF"))
	require.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "categories.csv")
}

func TestAdminImportCSVCountsFailures(t *testing.T) {
	calls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/Categories", func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			http.Error(w, `{"title":"bad row"}`, http.StatusBadRequest)
			return
		}
		writeJSON(w, backend.Record{"id": float64(calls)})
	})

	h := &AdminHandler{Backend: fakeBackend(t, mux)}
	csv := "ID,Название,Описание\r\n1,Видеокарты,GPU\r\n2,сломанная,строка\r\n3,Память,RAM\r\n"

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/admin/entities/categories/import", strings.NewReader(csv))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("clientKey", "guest:test")
	c.SetParamNames("entity")
	c.SetParamValues("categories")

	require.NoError(t, h.ImportCSV(c))

	var result struct {
		Created int `json:"created"`
		Failed  int `json:"failed"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Equal(t, 2, result.Created)
	require.Equal(t, 1, result.Failed)
}
