package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sfniknax/niknax/internal/core/domain"
	"github.com/sfniknax/niknax/internal/core/ports"
)

// PermissionHandler serves the permission set and audit trail popups.
type PermissionHandler struct {
	factory ports.ServiceFactory
}

func NewPermissionHandler(factory ports.ServiceFactory) *PermissionHandler {
	return &PermissionHandler{factory: factory}
}

// FieldAccess reports read/edit access to a field per permission set.
// field defaults to the window's Object.Field; permission_set may repeat or
// hold a comma separated list.
//
// @Summary      Field level security report
// @Tags         permissions
// @Produce      json
// @Security     BearerAuth
// @Param        field           query     string  false  "Object.Field"
// @Param        permission_set  query     string  false  "Permission set API names"
// @Success      200             {object}  map[string]any
// @Failure      400             {object}  map[string]any
// @Failure      502             {object}  map[string]any
// @Router       /api/permission-sets/fls [get]
func (h *PermissionHandler) FieldAccess(c echo.Context) error {
	svc, win, err := windowServices(c, h.factory)
	if err != nil {
		return err
	}

	field := c.QueryParam("field")
	if field == "" && win.ObjectName != "" && win.FieldName != "" {
		field = win.ObjectName + "." + win.FieldName
	}
	if field == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "field is required")
	}

	var sets []string
	for _, v := range c.QueryParams()["permission_set"] {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				sets = append(sets, name)
			}
		}
	}

	rows, err := svc.Permissions.FieldAccess(c.Request().Context(), field, sets)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain.Success(rows))
}

// PermissionSets lists the non-profile permission sets of the org.
//
// @Summary      List permission sets
// @Tags         permissions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Failure      502  {object}  map[string]any
// @Router       /api/permission-sets [get]
func (h *PermissionHandler) PermissionSets(c echo.Context) error {
	svc, _, err := windowServices(c, h.factory)
	if err != nil {
		return err
	}
	sets, err := svc.Permissions.PermissionSets(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain.Success(sets))
}

type objectSettingsResponse struct {
	URL string `json:"url"`
}

// ObjectSettings resolves where the popup sends the browser to edit the
// object settings of permission set :id. object defaults to the window's
// object.
//
// @Summary      Object settings page of a permission set
// @Tags         permissions
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true   "Permission set id"
// @Param        object  query     string  false  "Object API name"
// @Success      200     {object}  map[string]any
// @Failure      400     {object}  map[string]any
// @Failure      404     {object}  map[string]any
// @Router       /api/permission-sets/{id}/object-settings [get]
func (h *PermissionHandler) ObjectSettings(c echo.Context) error {
	svc, win, err := windowServices(c, h.factory)
	if err != nil {
		return err
	}

	object := c.QueryParam("object")
	if object == "" {
		object = win.ObjectName
	}
	if object == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "object is required")
	}

	path, err := svc.Permissions.ObjectSettingsPath(c.Request().Context(), c.Param("id"), object)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain.Success(objectSettingsResponse{URL: "https://" + win.Host + path}))
}

// AuditLog returns the setup audit trail of the window's org.
//
// @Summary      Setup audit trail
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Failure      502  {object}  map[string]any
// @Router       /api/audit-log [get]
func (h *PermissionHandler) AuditLog(c echo.Context) error {
	svc, _, err := windowServices(c, h.factory)
	if err != nil {
		return err
	}

	entries, err := svc.Audit.AuditLog(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain.Success(entries))
}
