package api

import (
	"github.com/rs/zerolog"

	"github.com/sfniknax/niknax/internal/core/ports"
	"github.com/sfniknax/niknax/internal/core/service"
	"github.com/sfniknax/niknax/internal/infrastructure/salesforce"
)

// CRMServiceFactory wires the salesforce clients into the core services for
// one host and session. Nothing is cached between windows.
type CRMServiceFactory struct {
	opts   salesforce.Options
	logger zerolog.Logger
}

func NewCRMServiceFactory(opts salesforce.Options, logger zerolog.Logger) *CRMServiceFactory {
	opts.Logger = logger
	return &CRMServiceFactory{opts: opts, logger: logger}
}

func (f *CRMServiceFactory) Services(host, sessionID string) (*ports.WindowServices, error) {
	clients, err := salesforce.NewClients(host, sessionID, f.opts)
	if err != nil {
		return nil, err
	}
	log := f.logger.With().Str("host", host).Logger()
	return &ports.WindowServices{
		Records:     clients.REST,
		Users:       service.NewUserService(clients.REST, clients.Tooling, log),
		Memberships: service.NewMembershipService(clients.REST, log),
		Permissions: service.NewPermissionService(clients.REST, clients.Metadata, log),
		Audit:       service.NewAuditService(clients.REST, clients.Audit),
	}, nil
}
