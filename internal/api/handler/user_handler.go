package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sfniknax/niknax/internal/core/domain"
	"github.com/sfniknax/niknax/internal/core/ports"
	"github.com/sfniknax/niknax/internal/core/service"
)

// UserHandler serves the clone user and quick create user popups.
type UserHandler struct {
	factory ports.ServiceFactory
}

func NewUserHandler(factory ports.ServiceFactory) *UserHandler {
	return &UserHandler{factory: factory}
}

// --- Request / Response types ---

type suggestionRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name" validate:"required"`
	UsernamePrefix string `json:"username_prefix"`
	DomainPrefix   string `json:"domain_prefix"`
}

type suggestionResponse struct {
	Alias    string `json:"alias"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
}

type cloneUserRequest struct {
	SourceUserID         string `json:"source_user_id"`
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name" validate:"required"`
	Email                string `json:"email" validate:"required,email"`
	Username             string `json:"username" validate:"required"`
	Alias                string `json:"alias" validate:"required"`
	Nickname             string `json:"nickname" validate:"required"`
	FederationIdentifier string `json:"federation_identifier"`
	ProfileID            string `json:"profile_id"`
	RoleID               string `json:"role_id"`

	ClonePermissionSetLicenseAssignments bool `json:"clone_permission_set_license_assignments"`
	ClonePermissionSetAssignments        bool `json:"clone_permission_set_assignments"`
	FilterPermissionSetsByLicense        bool `json:"filter_permission_sets_by_license"`
	ClonePublicGroupMemberships          bool `json:"clone_public_group_memberships"`
	CloneQueueMemberships                bool `json:"clone_queue_memberships"`
	ResetPassword                        bool `json:"reset_password"`
}

// newCloneUserRequest holds the form defaults: every kind of access is
// copied and no password email is sent.
func newCloneUserRequest() cloneUserRequest {
	return cloneUserRequest{
		ClonePermissionSetLicenseAssignments: true,
		ClonePermissionSetAssignments:        true,
		ClonePublicGroupMemberships:          true,
		CloneQueueMemberships:                true,
	}
}

type createUserRequest struct {
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name" validate:"required"`
	Email                string `json:"email" validate:"required,email"`
	Username             string `json:"username" validate:"required"`
	Alias                string `json:"alias" validate:"required"`
	Nickname             string `json:"nickname" validate:"required"`
	FederationIdentifier string `json:"federation_identifier"`
	ProfileID            string `json:"profile_id" validate:"required"`
	RoleID               string `json:"role_id"`
	ResetPassword        bool   `json:"reset_password"`
}

type cloneUserResponse struct {
	UserID       string               `json:"user_id"`
	Items        []domain.CloneResult `json:"items"`
	PasswordSent bool                 `json:"password_sent"`
}

type clonePermissionSetsRequest struct {
	ToUserID        string `json:"to_user_id" validate:"required"`
	FilterByLicense bool   `json:"filter_by_license"`
}

type cloneGroupsRequest struct {
	ToUserID  string `json:"to_user_id" validate:"required"`
	GroupType string `json:"group_type" validate:"omitempty,oneof=Regular Queue"`
}

// Suggest generates alias, username and nickname for a new user.
//
// @Summary      Suggest identity values
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      suggestionRequest  true  "Name and prefixes"
// @Success      200   {object}  map[string]any
// @Failure      422   {object}  map[string]any
// @Router       /api/users/suggestions [post]
func (h *UserHandler) Suggest(c echo.Context) error {
	var req suggestionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	s := service.SuggestUser(ports.UserSuggestionInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		UsernamePrefix: req.UsernamePrefix,
		DomainPrefix:   req.DomainPrefix,
	})
	return c.JSON(http.StatusOK, domain.Success(suggestionResponse{
		Alias:    s.Alias,
		Username: s.Username,
		Nickname: s.Nickname,
	}))
}

// Clone creates a user from the window's source user and replicates the
// access selected on the form.
//
// @Summary      Clone a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      cloneUserRequest  true  "Clone form"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Failure      502   {object}  map[string]any
// @Router       /api/users/clone [post]
func (h *UserHandler) Clone(c echo.Context) error {
	req := newCloneUserRequest()
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	svc, win, err := windowServices(c, h.factory)
	if err != nil {
		return err
	}
	if req.SourceUserID == "" {
		req.SourceUserID = win.RecordID
	}

	report, err := svc.Users.Clone(c.Request().Context(), toCloneInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, domain.Success(cloneUserResponse{
		UserID:       report.User.ID(),
		Items:        report.Items,
		PasswordSent: report.PasswordSent,
	}))
}

// Create creates a user from the quick create form. The password reset email
// is sent unless reset_password is false.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "Quick create form"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      422   {object}  map[string]any
// @Failure      502   {object}  map[string]any
// @Router       /api/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	req := createUserRequest{ResetPassword: true}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	svc, _, err := windowServices(c, h.factory)
	if err != nil {
		return err
	}

	report, err := svc.Users.CreateUser(c.Request().Context(), ports.CreateUserInput{
		FirstName:            req.FirstName,
		LastName:             req.LastName,
		Email:                req.Email,
		Username:             req.Username,
		Alias:                req.Alias,
		Nickname:             req.Nickname,
		FederationIdentifier: req.FederationIdentifier,
		ProfileID:            req.ProfileID,
		RoleID:               req.RoleID,
		ResetPassword:        req.ResetPassword,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, domain.Success(cloneUserResponse{
		UserID:       report.User.ID(),
		Items:        report.Items,
		PasswordSent: report.PasswordSent,
	}))
}

// Profiles lists the profiles offered on the user forms.
//
// @Summary      List profiles
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Failure      502  {object}  map[string]any
// @Router       /api/profiles [get]
func (h *UserHandler) Profiles(c echo.Context) error {
	svc, _, err := windowServices(c, h.factory)
	if err != nil {
		return err
	}
	profiles, err := svc.Users.Profiles(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain.Success(profiles))
}

// Roles lists the roles offered on the user forms.
//
// @Summary      List roles
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Failure      502  {object}  map[string]any
// @Router       /api/roles [get]
func (h *UserHandler) Roles(c echo.Context) error {
	svc, _, err := windowServices(c, h.factory)
	if err != nil {
		return err
	}
	roles, err := svc.Users.Roles(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain.Success(roles))
}

// ClonePermissionSetAssignments copies the permission sets of user :id.
//
// @Summary      Clone permission set assignments
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                      true  "Source user id"
// @Param        body  body      clonePermissionSetsRequest  true  "Target user"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  map[string]any
// @Failure      502   {object}  map[string]any
// @Router       /api/users/{id}/permission-set-assignments/clone [post]
func (h *UserHandler) ClonePermissionSetAssignments(c echo.Context) error {
	var req clonePermissionSetsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	svc, _, err := windowServices(c, h.factory)
	if err != nil {
		return err
	}

	items, err := svc.Users.ClonePermissionSetAssignments(c.Request().Context(), c.Param("id"), req.ToUserID,
		ports.PermissionSetCloneOptions{FilterByLicense: req.FilterByLicense})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain.Success(items))
}

// CloneGroupMemberships copies the public group or queue memberships of
// user :id. Without group_type the window's page decides.
//
// @Summary      Clone group memberships
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Source user id"
// @Param        body  body      cloneGroupsRequest  true  "Target user and group type"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  map[string]any
// @Failure      502   {object}  map[string]any
// @Router       /api/users/{id}/group-memberships/clone [post]
func (h *UserHandler) CloneGroupMemberships(c echo.Context) error {
	var req cloneGroupsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	svc, win, err := windowServices(c, h.factory)
	if err != nil {
		return err
	}

	groupType := domain.GroupType(req.GroupType)
	if groupType == "" {
		groupType = pageGroupType(win.Page)
	}
	if groupType == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "group_type is required")
	}

	items, err := svc.Users.CloneGroupMemberships(c.Request().Context(), c.Param("id"), req.ToUserID, groupType)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain.Success(items))
}

func pageGroupType(p domain.Page) domain.GroupType {
	switch p {
	case domain.PageEditPublicGroupMemberships:
		return domain.GroupTypeRegular
	case domain.PageEditQueueMemberships:
		return domain.GroupTypeQueue
	default:
		return ""
	}
}

func toCloneInput(r cloneUserRequest) ports.CloneUserInput {
	return ports.CloneUserInput{
		SourceUserID:                  r.SourceUserID,
		FirstName:                     r.FirstName,
		LastName:                      r.LastName,
		Email:                         r.Email,
		Username:                      r.Username,
		Alias:                         r.Alias,
		Nickname:                      r.Nickname,
		FederationIdentifier:          r.FederationIdentifier,
		ProfileID:                     r.ProfileID,
		RoleID:                        r.RoleID,

		ClonePermissionSetLicenseAssignments: r.ClonePermissionSetLicenseAssignments,
		ClonePermissionSetAssignments:        r.ClonePermissionSetAssignments,
		FilterPermissionSetsByLicense:        r.FilterPermissionSetsByLicense,
		ClonePublicGroupMemberships:          r.ClonePublicGroupMemberships,
		CloneQueueMemberships:                r.CloneQueueMemberships,
		ResetPassword:                        r.ResetPassword,
	}
}
