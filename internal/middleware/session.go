package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const guestCookieName = "soratech_client"

// Session resolves the caller: bearer-token claims for authenticated users,
// a durable guest cookie otherwise. Every request ends up with a client key
// for the state store.
type Session struct {
	JWTSecret []byte
}

// WithSession parses the Authorization header when present and always
// assigns a client key. Invalid tokens degrade to guest access.
func (s *Session) WithSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authz := c.Request().Header.Get(echo.HeaderAuthorization)
		if strings.HasPrefix(authz, "Bearer ") {
			raw := strings.TrimPrefix(authz, "Bearer ")
			token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if t.Method.Alg() != "HS256" {
					return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
				}
				return s.JWTSecret, nil
			})
			if err == nil && token.Valid {
				if claims, ok := token.Claims.(jwt.MapClaims); ok {
					if sub, ok := claims["sub"].(float64); ok {
						c.Set("userID", int(sub))
						c.Set("clientKey", fmt.Sprintf("user:%d", int(sub)))
					}
					if role, ok := claims["role"].(string); ok {
						c.Set("role", role)
					}
					if email, ok := claims["email"].(string); ok {
						c.Set("email", email)
					}
					c.Set("token", raw)
				}
			}
		}

		if c.Get("clientKey") == nil {
			c.Set("clientKey", "guest:"+s.guestID(c))
		}
		return next(c)
	}
}

func (s *Session) guestID(c echo.Context) string {
	if cookie, err := c.Cookie(guestCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	id := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     guestCookieName,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Get("userID") == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "требуется вход")
		}
		return next(c)
	}
}

func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			for _, r := range roles {
				if role == r {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "недостаточно прав")
		}
	}
}

// ClientKey returns the store key assigned by WithSession.
func ClientKey(c echo.Context) string {
	key, _ := c.Get("clientKey").(string)
	return key
}

// UserID returns the authenticated user id or 0 for guests.
func UserID(c echo.Context) int {
	id, _ := c.Get("userID").(int)
	return id
}

// Token returns the raw bearer token forwarded to the backend.
func Token(c echo.Context) string {
	t, _ := c.Get("token").(string)
	return t
}
