package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/soratech/storefront/internal/backend"
	"github.com/soratech/storefront/internal/entity"
	"github.com/soratech/storefront/internal/logging"
	"github.com/soratech/storefront/internal/models"
	"github.com/soratech/storefront/internal/mykafka"
	"github.com/soratech/storefront/internal/search"
)

type AdminHandler struct {
	Backend  *backend.Client
	ES       *elasticsearch.Client
	Producer *mykafka.Producer
	Logger   *slog.Logger
}

// registry rebinds the entity descriptors to a client carrying the caller's
// token, so every backend call runs with the admin's own credentials.
func (h *AdminHandler) registry(c echo.Context) entity.Registry {
	return entity.NewRegistry(scoped(c, h.Backend))
}

func (h *AdminHandler) descriptor(c echo.Context) (entity.Descriptor, error) {
	d, err := h.registry(c).Get(c.Param("entity"))
	if err != nil {
		return entity.Descriptor{}, echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return d, nil
}

func (h *AdminHandler) Entities(c echo.Context) error {
	reg := h.registry(c)
	list := make([]echo.Map, 0, len(reg))
	for _, key := range reg.Keys() {
		d := reg[key]
		list = append(list, echo.Map{
			"key":        d.Key,
			"title":      d.Title,
			"softDelete": d.SoftDelete,
			"readOnly":   d.ReadOnly,
		})
	}
	return c.JSON(http.StatusOK, list)
}

func (h *AdminHandler) List(c echo.Context) error {
	d, err := h.descriptor(c)
	if err != nil {
		return err
	}

	rows, err := d.API.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	q := entity.Query{
		Search:   c.QueryParam("search"),
		SortKey:  c.QueryParam("sort"),
		SortDesc: c.QueryParam("desc") == "true",
		Page:     page,
	}
	return c.JSON(http.StatusOK, entity.ApplyQuery(d, rows, q))
}

// DeletedView returns soft-delete entities split into active and deleted rows.
func (h *AdminHandler) DeletedView(c echo.Context) error {
	d, err := h.descriptor(c)
	if err != nil {
		return err
	}
	if !d.SoftDelete {
		return echo.NewHTTPError(http.StatusBadRequest, "entity has no deleted view")
	}
	view, err := entity.LoadSplitView(c.Request().Context(), d)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *AdminHandler) Create(c echo.Context) error {
	d, err := h.descriptor(c)
	if err != nil {
		return err
	}
	if d.ReadOnly {
		return echo.NewHTTPError(http.StatusMethodNotAllowed, "entity is read only")
	}

	var form backend.Record
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	payload := d.BuildPayload(form, backend.Record{})
	created, err := d.API.Create(c.Request().Context(), payload)
	if err != nil {
		return httpError(err)
	}

	h.afterMutation(c, d, "created", created)
	return c.JSON(http.StatusCreated, created)
}

func (h *AdminHandler) Update(c echo.Context) error {
	d, err := h.descriptor(c)
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var form backend.Record
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	original, err := h.findRecord(ctx, d, id)
	if err != nil {
		return err
	}

	payload := d.BuildPayload(form, original)
	if err := d.API.Update(ctx, id, payload); err != nil {
		return httpError(err)
	}

	payload["id"] = id
	h.afterMutation(c, d, "updated", payload)
	return c.JSON(http.StatusOK, payload)
}

func (h *AdminHandler) Delete(c echo.Context) error {
	d, err := h.descriptor(c)
	if err != nil {
		return err
	}
	if d.ReadOnly {
		return echo.NewHTTPError(http.StatusMethodNotAllowed, "entity is read only")
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := d.API.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}

	if d.Key == "products" {
		ctx := c.Request().Context()
		if h.ES != nil {
			if err := search.DeleteProduct(ctx, h.ES, search.ProductIndex, id); err != nil {
				logging.FromContext(ctx).Warn("remove product from index", "id", id, "error", err)
			}
		}
		h.publish(c, "deleted", backend.Record{"id": id})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) ExportCSV(c echo.Context) error {
	d, err := h.descriptor(c)
	if err != nil {
		return err
	}
	rows, err := d.API.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+d.Key+`.csv"`)
	c.Response().WriteHeader(http.StatusOK)
	return entity.ExportCSV(d, rows, c.Response())
}

// ImportCSV accepts a file upload (field "file") or a raw CSV body and
// creates one record per row. Bad rows are counted, not fatal.
func (h *AdminHandler) ImportCSV(c echo.Context) error {
	d, err := h.descriptor(c)
	if err != nil {
		return err
	}
	if d.ReadOnly {
		return echo.NewHTTPError(http.StatusMethodNotAllowed, "entity is read only")
	}

	var reader io.Reader = c.Request().Body
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		defer f.Close()
		reader = f
	}

	result, err := entity.ImportCSV(c.Request().Context(), d, reader)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) Options(c echo.Context) error {
	reg := h.registry(c)
	d, err := reg.Get(c.Param("entity"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	loader := &entity.OptionsLoader{
		Registry: reg,
		Client:   scoped(c, h.Backend),
		Logger:   h.Logger,
	}
	return c.JSON(http.StatusOK, loader.Load(c.Request().Context(), d.FormFields))
}

// AuditLogs returns the change journal with the old/new blobs pre-parsed for
// display.
func (h *AdminHandler) AuditLogs(c echo.Context) error {
	client := scoped(c, h.Backend)
	logs, err := client.AuditLogs.GetAll(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	view := make([]echo.Map, 0, len(logs))
	for _, l := range logs {
		view = append(view, echo.Map{
			"id":        l.ID,
			"tableName": l.TableName,
			"operation": l.Operation,
			"recordId":  l.RecordID,
			"oldData":   l.ParsedOldData(),
			"newData":   l.ParsedNewData(),
			"userId":    l.UserID,
			"changedAt": l.ChangedAt,
		})
	}
	return c.JSON(http.StatusOK, view)
}

func (h *AdminHandler) CreateBackup(c echo.Context) error {
	client := scoped(c, h.Backend)
	fileName, err := client.Backup.Create(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"fileName": fileName})
}

func (h *AdminHandler) findRecord(ctx context.Context, d entity.Descriptor, id int) (backend.Record, error) {
	list := d.API.List
	if d.SoftDelete && d.API.ListAll != nil {
		list = d.API.ListAll
	}
	rows, err := list(ctx)
	if err != nil {
		return nil, httpError(err)
	}
	for _, rec := range rows {
		if recID(rec) == id {
			return rec, nil
		}
	}
	return nil, echo.NewHTTPError(http.StatusNotFound, "запись не найдена")
}

func (h *AdminHandler) afterMutation(c echo.Context, d entity.Descriptor, action string, rec backend.Record) {
	if d.Key != "products" {
		return
	}
	ctx := c.Request().Context()
	if h.ES != nil {
		if p, ok := asProduct(rec); ok {
			if err := search.IndexProduct(ctx, h.ES, search.ProductIndex, p); err != nil {
				logging.FromContext(ctx).Warn("index product", "id", p.ID, "error", err)
			}
		}
	}
	h.publish(c, action, rec)
}

func (h *AdminHandler) publish(c echo.Context, action string, rec backend.Record) {
	if h.Producer == nil {
		return
	}
	ctx := c.Request().Context()
	event := map[string]any{"type": "product_" + action, "product": rec}
	if err := h.Producer.PublishEvent(ctx, "product_events", strconv.Itoa(recID(rec)), event); err != nil {
		logging.FromContext(ctx).Warn("publish product event", "error", err)
	}
}

func asProduct(rec backend.Record) (models.Product, bool) {
	var p models.Product
	data, err := json.Marshal(rec)
	if err != nil {
		return p, false
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, false
	}
	return p, p.ID != 0
}

func recID(rec backend.Record) int {
	switch v := rec["id"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
