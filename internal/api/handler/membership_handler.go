package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sfniknax/niknax/internal/core/domain"
	"github.com/sfniknax/niknax/internal/core/ports"
)

// MembershipHandler serves the public group and queue membership editors.
type MembershipHandler struct {
	factory ports.ServiceFactory
}

func NewMembershipHandler(factory ports.ServiceFactory) *MembershipHandler {
	return &MembershipHandler{factory: factory}
}

type addMembershipsRequest struct {
	GroupIDs []string `json:"group_ids" validate:"required,min=1,dive,required"`
}

// Groups lists the groups the window's page edits memberships of.
//
// @Summary      List public groups or queues
// @Tags         memberships
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Failure      502  {object}  map[string]any
// @Router       /api/groups [get]
func (h *MembershipHandler) Groups(c echo.Context) error {
	svc, groupType, err := h.bind(c)
	if err != nil {
		return err
	}
	groups, err := svc.Memberships.Groups(c.Request().Context(), groupType)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain.Success(groups))
}

// List returns the memberships of user :id.
//
// @Summary      List group memberships
// @Tags         memberships
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      502  {object}  map[string]any
// @Router       /api/users/{id}/group-memberships [get]
func (h *MembershipHandler) List(c echo.Context) error {
	svc, groupType, err := h.bind(c)
	if err != nil {
		return err
	}
	members, err := svc.Memberships.Memberships(c.Request().Context(), c.Param("id"), groupType)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain.Success(members))
}

// Add makes user :id a member of each group, one result per group.
//
// @Summary      Add group memberships
// @Tags         memberships
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "User id"
// @Param        body  body      addMembershipsRequest  true  "Groups to join"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  map[string]any
// @Failure      422   {object}  map[string]any
// @Failure      502   {object}  map[string]any
// @Router       /api/users/{id}/group-memberships [post]
func (h *MembershipHandler) Add(c echo.Context) error {
	var req addMembershipsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	svc, groupType, err := h.bind(c)
	if err != nil {
		return err
	}
	results, err := svc.Memberships.AddMemberships(c.Request().Context(), c.Param("id"), groupType, req.GroupIDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain.Success(results))
}

// Remove deletes membership :membershipId of user :id.
//
// @Summary      Remove a group membership
// @Tags         memberships
// @Security     BearerAuth
// @Param        id            path  string  true  "User id"
// @Param        membershipId  path  string  true  "GroupMember id"
// @Success      204
// @Failure      404  {object}  map[string]any
// @Failure      502  {object}  map[string]any
// @Router       /api/users/{id}/group-memberships/{membershipId} [delete]
func (h *MembershipHandler) Remove(c echo.Context) error {
	svc, groupType, err := h.bind(c)
	if err != nil {
		return err
	}
	if err := svc.Memberships.RemoveMembership(c.Request().Context(), c.Param("id"), groupType, c.Param("membershipId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// bind resolves the window's services and the group type its page edits.
func (h *MembershipHandler) bind(c echo.Context) (*ports.WindowServices, domain.GroupType, error) {
	svc, win, err := windowServices(c, h.factory)
	if err != nil {
		return nil, "", err
	}
	groupType := pageGroupType(win.Page)
	if groupType == "" {
		return nil, "", echo.NewHTTPError(http.StatusForbidden, "page does not edit memberships")
	}
	return svc, groupType, nil
}
