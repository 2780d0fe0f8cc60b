package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sfniknax/niknax/internal/core/domain"
	"github.com/sfniknax/niknax/internal/core/ports"
)

// LaunchHandler serves the coordinator endpoints called by injected buttons.
type LaunchHandler struct {
	launches ports.LaunchService
}

func NewLaunchHandler(launches ports.LaunchService) *LaunchHandler {
	return &LaunchHandler{launches: launches}
}

type registerSessionRequest struct {
	Host      string `json:"host" validate:"required"`
	SessionID string `json:"session_id" validate:"required"`
}

type launchRequest struct {
	SenderURL  string `json:"sender_url" validate:"required,url"`
	Page       string `json:"page" validate:"required"`
	ObjectName string `json:"object_name,omitempty"`
	FieldName  string `json:"field_name,omitempty"`
}

type launchResponse struct {
	Window   domain.WindowContext `json:"window"`
	Size     domain.PopupSize     `json:"size"`
	Token    string               `json:"token"`
	PopupURL string               `json:"popup_url"`
}

// RegisterSession stores the session cookie of a CRM host.
//
// @Summary      Register a host session
// @Tags         launch
// @Accept       json
// @Produce      json
// @Param        body  body  registerSessionRequest  true  "Host and session id"
// @Success      204
// @Failure      400   {object}  map[string]any
// @Failure      422   {object}  map[string]any
// @Router       /api/sessions [post]
func (h *LaunchHandler) RegisterSession(c echo.Context) error {
	var req registerSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.launches.RegisterSession(c.Request().Context(), req.Host, req.SessionID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Launch opens a popup window for a page of the sender's org.
//
// @Summary      Launch a popup window
// @Tags         launch
// @Accept       json
// @Produce      json
// @Param        body  body      launchRequest  true  "Sender page and action"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Failure      422   {object}  map[string]any
// @Router       /api/launch [post]
func (h *LaunchHandler) Launch(c echo.Context) error {
	var req launchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	launch, err := h.launches.Launch(c.Request().Context(), ports.LaunchRequest{
		SenderURL:  req.SenderURL,
		Page:       domain.Page(req.Page),
		ObjectName: req.ObjectName,
		FieldName:  req.FieldName,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, domain.Success(launchResponse{
		Window:   launch.Window,
		Size:     launch.Size,
		Token:    launch.Token,
		PopupURL: launch.PopupURL,
	}))
}
