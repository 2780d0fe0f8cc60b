package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sfniknax/niknax/internal/api/middleware"
	"github.com/sfniknax/niknax/internal/core/domain"
	"github.com/sfniknax/niknax/internal/core/ports"
)

// ctxWindow extracts the window injected by the WindowAuth middleware. A
// window without a session id means the middleware did not run.
func ctxWindow(c echo.Context) (domain.WindowContext, error) {
	win, ok := c.Get(middleware.ContextKeyWindow).(domain.WindowContext)
	if !ok || win.SessionID == "" {
		return domain.WindowContext{}, echo.NewHTTPError(http.StatusUnauthorized, "missing window context")
	}
	return win, nil
}

// windowServices binds the CRM services to the calling window's session.
func windowServices(c echo.Context, factory ports.ServiceFactory) (*ports.WindowServices, domain.WindowContext, error) {
	win, err := ctxWindow(c)
	if err != nil {
		return nil, win, err
	}
	svc, err := factory.Services(win.Host, win.SessionID)
	if err != nil {
		return nil, win, err
	}
	return svc, win, nil
}
