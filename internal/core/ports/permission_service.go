package ports

import (
	"context"

	"github.com/sfniknax/niknax/internal/core/domain"
)

// PermissionService reports field-level security across permission sets.
type PermissionService interface {
	// FieldAccess returns one row per permission set. When permissionSets is
	// empty every non-profile permission set of the org is reported.
	FieldAccess(ctx context.Context, field string, permissionSets []string) ([]domain.PermissionSetFieldAccess, error)
	PermissionSets(ctx context.Context) ([]domain.PermissionSet, error)
	// ObjectSettingsPath returns the org-relative setup path editing the
	// object settings of object in one permission set.
	ObjectSettingsPath(ctx context.Context, permissionSetID, object string) (string, error)
}

// AuditService downloads the setup audit trail of the current org.
type AuditService interface {
	AuditLog(ctx context.Context) ([]domain.AuditLogEntry, error)
}
