package ports

import (
	"context"

	"github.com/sfniknax/niknax/internal/core/domain"
)

// RecordClient issues queries and CRUD calls against the object REST API.
type RecordClient interface {
	// Query runs a SOQL query and decodes every page of records into out,
	// which must be a pointer to a slice.
	Query(ctx context.Context, soql string, out any) error
	// Create inserts record as objectType and returns the new id. Id and
	// attributes keys are never sent.
	Create(ctx context.Context, objectType string, record domain.Record) (string, error)
	Delete(ctx context.Context, objectType, id string) error
	GetObjectFields(ctx context.Context, objectType string) ([]domain.Field, error)
	GetOrganisation(ctx context.Context) (*domain.Organisation, error)
	// Ping reports whether the session is still accepted by the server.
	Ping(ctx context.Context) error
}

// FieldSecurityReader reads field-level security from permission set metadata.
type FieldSecurityReader interface {
	ReadPermissionSetFLS(ctx context.Context, permissionSet, field string) (domain.FieldAccess, error)
	ReadPermissionSetsFLS(ctx context.Context, permissionSets []string, field string) ([]domain.PermissionSetFieldAccess, error)
}

// ApexExecutor runs anonymous Apex through the tooling API.
type ApexExecutor interface {
	ExecuteAnonymous(ctx context.Context, apex string) error
}

// AuditTrailReader downloads the setup audit trail of an org.
type AuditTrailReader interface {
	GetAuditLog(ctx context.Context, orgID string) ([]domain.AuditLogEntry, error)
}
