package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/sfniknax/niknax/internal/api/docs"
	"github.com/sfniknax/niknax/internal/api/handler"
	"github.com/sfniknax/niknax/internal/api/middleware"
	"github.com/sfniknax/niknax/internal/core/domain"
	"github.com/sfniknax/niknax/internal/core/ports"
)

// Deps are the collaborators the HTTP layer is built on.
type Deps struct {
	Launches ports.LaunchService
	Tokens   ports.WindowTokenIssuer
	Sessions ports.SessionStore
	Services ports.ServiceFactory
	Logger   zerolog.Logger
	// Registry receives the request metrics. Nil means the default registry,
	// which also holds the CRM and clone metrics.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	promConfig := echoprometheus.MiddlewareConfig{Namespace: "niknax"}
	promHandlerConfig := echoprometheus.HandlerConfig{}
	if d.Registry != nil {
		promConfig.Registerer = d.Registry
		promHandlerConfig.Gatherer = d.Registry
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddlewareWithConfig(promConfig))

	// --- Operational routes (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(promHandlerConfig))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Coordinator ---
	launchHandler := handler.NewLaunchHandler(d.Launches)
	e.POST("/api/sessions", launchHandler.RegisterSession)
	e.POST("/api/launch", launchHandler.Launch)

	// --- Popup windows ---
	win := e.Group("/api", middleware.WindowAuth(d.Tokens, d.Sessions))

	windowHandler := handler.NewWindowHandler(d.Services)
	userHandler := handler.NewUserHandler(d.Services)
	membershipHandler := handler.NewMembershipHandler(d.Services)
	permissionHandler := handler.NewPermissionHandler(d.Services)

	userForms := middleware.RequirePage(domain.PageCloneUser, domain.PageQuickCreateUser)
	membershipEditors := middleware.RequirePage(domain.PageEditPublicGroupMemberships, domain.PageEditQueueMemberships)

	win.GET("/window", windowHandler.Get)
	win.POST("/users/suggestions", userHandler.Suggest)
	win.GET("/profiles", userHandler.Profiles, userForms)
	win.GET("/roles", userHandler.Roles, userForms)

	// Clone user
	win.POST("/users/clone", userHandler.Clone,
		middleware.RequirePage(domain.PageCloneUser))
	win.POST("/users/:id/permission-set-assignments/clone", userHandler.ClonePermissionSetAssignments,
		middleware.RequirePage(domain.PageCloneUser))
	win.POST("/users/:id/group-memberships/clone", userHandler.CloneGroupMemberships,
		middleware.RequirePage(domain.PageCloneUser, domain.PageEditPublicGroupMemberships, domain.PageEditQueueMemberships))

	// Quick create user
	win.POST("/users", userHandler.Create,
		middleware.RequirePage(domain.PageQuickCreateUser))

	// Public group and queue memberships
	win.GET("/groups", membershipHandler.Groups, membershipEditors)
	win.GET("/users/:id/group-memberships", membershipHandler.List, membershipEditors)
	win.POST("/users/:id/group-memberships", membershipHandler.Add, membershipEditors)
	win.DELETE("/users/:id/group-memberships/:membershipId", membershipHandler.Remove, membershipEditors)

	// Permission sets
	win.GET("/permission-sets", permissionHandler.PermissionSets,
		middleware.RequirePage(domain.PagePermissionSetEditField, domain.PagePermissionSetObjectSettings, domain.PageSetupPlus))
	win.GET("/permission-sets/fls", permissionHandler.FieldAccess,
		middleware.RequirePage(domain.PagePermissionSetEditField, domain.PageSetupPlus))
	win.GET("/permission-sets/:id/object-settings", permissionHandler.ObjectSettings,
		middleware.RequirePage(domain.PagePermissionSetObjectSettings))

	// Setup+
	win.GET("/audit-log", permissionHandler.AuditLog,
		middleware.RequirePage(domain.PageSetupPlus))

	return e
}
