package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sfniknax/niknax/internal/core/domain"
	"github.com/sfniknax/niknax/internal/core/ports"
)

const permissionSetsQuery = "SELECT Id, Name, Label, NamespacePrefix FROM PermissionSet" +
	" WHERE IsOwnedByProfile = false ORDER BY Label"

// PermissionService reports who can read or edit a field through
// permission sets.
type PermissionService struct {
	records ports.RecordClient
	fls     ports.FieldSecurityReader
	logger  zerolog.Logger
}

func NewPermissionService(records ports.RecordClient, fls ports.FieldSecurityReader, logger zerolog.Logger) *PermissionService {
	return &PermissionService{records: records, fls: fls, logger: logger}
}

// FieldAccess reports access on field (Object.Field) for each permission set.
// A single named permission set fails as a whole; with several, failures are
// reported per row.
func (s *PermissionService) FieldAccess(ctx context.Context, field string, permissionSets []string) ([]domain.PermissionSetFieldAccess, error) {
	object, name, ok := strings.Cut(field, ".")
	if !ok || object == "" || name == "" {
		return nil, fmt.Errorf("field %q must be Object.Field: %w", field, domain.ErrInvalidInput)
	}

	if len(permissionSets) == 1 {
		access, err := s.fls.ReadPermissionSetFLS(ctx, permissionSets[0], field)
		if err != nil {
			return nil, err
		}
		return []domain.PermissionSetFieldAccess{{PermissionSet: permissionSets[0], Field: field, Access: access}}, nil
	}

	if len(permissionSets) == 0 {
		sets, err := s.PermissionSets(ctx)
		if err != nil {
			return nil, err
		}
		for _, p := range sets {
			permissionSets = append(permissionSets, p.FullName())
		}
		if len(permissionSets) == 0 {
			return []domain.PermissionSetFieldAccess{}, nil
		}
	}

	rows, err := s.fls.ReadPermissionSetsFLS(ctx, permissionSets, field)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("field", field).Int("permission_sets", len(rows)).Msg("field access read")
	return rows, nil
}

// PermissionSets lists the non-profile permission sets of the org.
func (s *PermissionService) PermissionSets(ctx context.Context) ([]domain.PermissionSet, error) {
	var sets []domain.PermissionSet
	if err := s.records.Query(ctx, permissionSetsQuery, &sets); err != nil {
		return nil, fmt.Errorf("list permission sets: %w", err)
	}
	return sets, nil
}

// ObjectSettingsPath resolves the setup page where object settings of object
// are edited in the given permission set.
func (s *PermissionService) ObjectSettingsPath(ctx context.Context, permissionSetID, object string) (string, error) {
	if !domain.IsRecordID(permissionSetID) {
		return "", fmt.Errorf("permission set %q: %w", permissionSetID, domain.ErrInvalidInput)
	}
	if object == "" {
		return "", fmt.Errorf("object is required: %w", domain.ErrInvalidInput)
	}

	var rows []domain.PermissionSet
	soql := "SELECT Id FROM PermissionSet WHERE Id = " + domain.QuoteSOQL(permissionSetID) +
		" AND IsOwnedByProfile = false"
	if err := s.records.Query(ctx, soql, &rows); err != nil {
		return "", fmt.Errorf("read permission set: %w", err)
	}
	if len(rows) != 1 {
		return "", fmt.Errorf("permission set %s: %w", permissionSetID, domain.ErrNotFound)
	}
	return domain.ObjectSettingsPath(rows[0].ID, object), nil
}

// AuditService downloads the setup audit trail of the session's org.
type AuditService struct {
	records ports.RecordClient
	trail   ports.AuditTrailReader
}

func NewAuditService(records ports.RecordClient, trail ports.AuditTrailReader) *AuditService {
	return &AuditService{records: records, trail: trail}
}

func (s *AuditService) AuditLog(ctx context.Context) ([]domain.AuditLogEntry, error) {
	org, err := s.records.GetOrganisation(ctx)
	if err != nil {
		return nil, fmt.Errorf("read organisation: %w", err)
	}
	return s.trail.GetAuditLog(ctx, org.ID)
}
