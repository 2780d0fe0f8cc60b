package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sfniknax/niknax/internal/core/domain"
)

// RequirePage only lets through windows launched for one of pages.
func RequirePage(pages ...domain.Page) echo.MiddlewareFunc {
	allowed := make(map[domain.Page]struct{}, len(pages))
	for _, p := range pages {
		allowed[p] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			win, _ := c.Get(ContextKeyWindow).(domain.WindowContext)
			if _, ok := allowed[win.Page]; !ok {
				return c.JSON(http.StatusForbidden, domain.Fail[any]("forbidden"))
			}
			return next(c)
		}
	}
}
