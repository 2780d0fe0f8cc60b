package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sfniknax/niknax/internal/core/domain"
	"github.com/sfniknax/niknax/internal/core/ports"
)

// WindowHandler tells a popup what it was opened for.
type WindowHandler struct {
	factory ports.ServiceFactory
}

func NewWindowHandler(factory ports.ServiceFactory) *WindowHandler {
	return &WindowHandler{factory: factory}
}

type windowResponse struct {
	Window       domain.WindowContext `json:"window"`
	SessionValid bool                 `json:"session_valid"`
}

// Get returns the window context and whether its session is still accepted.
//
// @Summary      Current window
// @Tags         window
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Failure      502  {object}  map[string]any
// @Router       /api/window [get]
func (h *WindowHandler) Get(c echo.Context) error {
	svc, win, err := windowServices(c, h.factory)
	if err != nil {
		return err
	}

	valid := true
	if err := svc.Records.Ping(c.Request().Context()); err != nil {
		var re *domain.RemoteError
		if !errors.As(err, &re) || re.Status != http.StatusUnauthorized {
			return err
		}
		valid = false
	}

	return c.JSON(http.StatusOK, domain.Success(windowResponse{Window: win, SessionValid: valid}))
}
