package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sfniknax/niknax/internal/core/ports"
)

// ContextKeyWindow holds the domain.WindowContext of the calling popup.
const ContextKeyWindow = "window"

// WindowAuth validates the window token and injects the window, with its
// current session id, into context. A window whose host has no session
// cookie any more is rejected.
func WindowAuth(tokens ports.WindowTokenIssuer, sessions ports.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			win, err := tokens.Parse(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sid, err := sessions.SessionID(c.Request().Context(), win.Host)
			if err != nil {
				return err
			}
			if sid == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "no session for "+win.Host)
			}
			win.SessionID = sid

			c.Set(ContextKeyWindow, win)
			return next(c)
		}
	}
}
