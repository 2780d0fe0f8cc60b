package ports

// WindowServices are the CRM services bound to one host and session.
type WindowServices struct {
	Records     RecordClient
	Users       UserService
	Memberships MembershipService
	Permissions PermissionService
	Audit       AuditService
}

// ServiceFactory builds the services a popup window works with.
type ServiceFactory interface {
	Services(host, sessionID string) (*WindowServices, error)
}
