package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/soratech/storefront/internal/auth"
	"github.com/soratech/storefront/internal/backend"
	"github.com/soratech/storefront/internal/middleware"
	"github.com/soratech/storefront/internal/store"
)

type AuthHandler struct {
	Backend *backend.Client
	Stores  *store.Manager
	Reset   *auth.ResetService
	Logger  *slog.Logger

	mu    sync.Mutex
	flows map[string]*auth.Flow
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req backend.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := auth.ValidateEmail(req.Email); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resp, err := h.Backend.Auth.Login(c.Request().Context(), req)
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return echo.NewHTTPError(http.StatusUnauthorized, "неверный email или пароль")
		}
		return httpError(err)
	}

	s := clientStore(c, h.Stores)
	s.SetSession(&resp.User, resp.Token)

	return c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req backend.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := auth.ValidateEmail(req.Email); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := auth.ValidatePhone(req.Phone); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resp, err := h.Backend.Auth.Register(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}

	clientStore(c, h.Stores).SetSession(&resp.User, resp.Token)
	return c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) LogOut(c echo.Context) error {
	clientStore(c, h.Stores).ClearSession()
	return c.NoContent(http.StatusNoContent)
}

// Session reports the client's stored session together with UI state, so a
// page load restores everything in one round trip.
func (h *AuthHandler) Session(c echo.Context) error {
	s := clientStore(c, h.Stores)
	return c.JSON(http.StatusOK, echo.Map{
		"session":   s.Session(),
		"cart":      s.Cart(),
		"favorites": s.Favorites(),
		"modalView": s.ModalView(),
	})
}

func (h *AuthHandler) SetModalView(c echo.Context) error {
	var req struct {
		View string `json:"view"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	clientStore(c, h.Stores).SetModalView(req.View)
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) StartReset(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	f := h.flow(c, true)
	if err := h.Reset.Start(c.Request().Context(), f, req.Email); err != nil {
		return resetError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"stage": f.Stage().String()})
}

func (h *AuthHandler) VerifyResetCode(c echo.Context) error {
	var req struct {
		Code string `json:"code"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	f := h.flow(c, false)
	if f == nil {
		return echo.NewHTTPError(http.StatusConflict, auth.ErrWrongStage.Error())
	}
	if err := h.Reset.VerifyCode(c.Request().Context(), f, req.Code); err != nil {
		return resetError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"stage": f.Stage().String()})
}

// ChangeResetEmail steps the flow back so another address can be entered.
func (h *AuthHandler) ChangeResetEmail(c echo.Context) error {
	f := h.flow(c, false)
	if f == nil {
		return echo.NewHTTPError(http.StatusConflict, auth.ErrWrongStage.Error())
	}
	if err := h.Reset.ChangeEmail(c.Request().Context(), f); err != nil {
		return resetError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"stage": f.Stage().String()})
}

func (h *AuthHandler) CompleteReset(c echo.Context) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	f := h.flow(c, false)
	if f == nil {
		return echo.NewHTTPError(http.StatusConflict, auth.ErrWrongStage.Error())
	}
	if err := h.Reset.Complete(c.Request().Context(), f, req.Password); err != nil {
		return resetError(err)
	}
	h.dropFlow(c)
	return c.JSON(http.StatusOK, echo.Map{"stage": auth.StageDone.String()})
}

func (h *AuthHandler) flow(c echo.Context, create bool) *auth.Flow {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.flows == nil {
		h.flows = make(map[string]*auth.Flow)
	}
	key := middleware.ClientKey(c)
	f, ok := h.flows[key]
	if !ok {
		if !create {
			return nil
		}
		f = auth.NewFlow()
		h.flows[key] = f
	}
	if create && f.Stage() != auth.StageEmail {
		// Restarting from the email step discards the previous attempt.
		f = auth.NewFlow()
		h.flows[key] = f
	}
	return f
}

func (h *AuthHandler) dropFlow(c echo.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.flows, middleware.ClientKey(c))
}

func resetError(err error) error {
	switch {
	case errors.Is(err, auth.ErrCodeExpired):
		return echo.NewHTTPError(http.StatusGone, err.Error())
	case errors.Is(err, auth.ErrCodeMismatch):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrTooManyTries):
		return echo.NewHTTPError(http.StatusTooManyRequests, err.Error())
	case errors.Is(err, auth.ErrWrongStage):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			return echo.NewHTTPError(apiErr.StatusCode, apiErr.Message)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}
