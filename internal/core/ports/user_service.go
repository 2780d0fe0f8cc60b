package ports

import (
	"context"

	"github.com/sfniknax/niknax/internal/core/domain"
)

// CloneUserInput carries the clone form submitted from the popup.
type CloneUserInput struct {
	SourceUserID         string
	FirstName            string
	LastName             string
	Email                string
	Username             string
	Alias                string
	Nickname             string
	FederationIdentifier string // optional
	ProfileID            string // optional: keep the source profile when empty
	RoleID               string // optional: keep the source role when empty

	ClonePermissionSetLicenseAssignments bool
	ClonePermissionSetAssignments        bool
	FilterPermissionSetsByLicense        bool
	ClonePublicGroupMemberships          bool
	CloneQueueMemberships                bool
	ResetPassword                        bool
}

// CreateUserInput carries the quick create form. Locale, time zone and
// language come from the org defaults.
type CreateUserInput struct {
	FirstName            string
	LastName             string
	Email                string
	Username             string
	Alias                string
	Nickname             string
	FederationIdentifier string // optional
	ProfileID            string
	RoleID               string // optional
	ResetPassword        bool
}

// UserReport is returned once a clone or create has run to completion.
type UserReport struct {
	User         domain.Record
	Items        []domain.CloneResult
	PasswordSent bool
}

// PermissionSetCloneOptions tunes permission set assignment replication.
type PermissionSetCloneOptions struct {
	// FilterByLicense keeps only permission sets with no license or with the
	// target profile's user license.
	FilterByLicense bool
}

// UserService creates and clones users and their access.
type UserService interface {
	Clone(ctx context.Context, input CloneUserInput) (*UserReport, error)
	CloneUser(ctx context.Context, sourceUserID string, overrides map[string]any) (domain.Record, error)
	ClonePermissionSetLicenseAssignments(ctx context.Context, fromUserID, toUserID string) ([]domain.CloneResult, error)
	ClonePermissionSetAssignments(ctx context.Context, fromUserID, toUserID string, opts PermissionSetCloneOptions) ([]domain.CloneResult, error)
	CloneGroupMemberships(ctx context.Context, fromUserID, toUserID string, groupType domain.GroupType) ([]domain.CloneResult, error)
	CreateUser(ctx context.Context, input CreateUserInput) (*UserReport, error)
	Profiles(ctx context.Context) ([]domain.Profile, error)
	Roles(ctx context.Context) ([]domain.Role, error)
}

// MembershipService edits the public group or queue memberships of a user.
type MembershipService interface {
	// Groups lists the groups of groupType a user can join.
	Groups(ctx context.Context, groupType domain.GroupType) ([]domain.Group, error)
	Memberships(ctx context.Context, userID string, groupType domain.GroupType) ([]domain.GroupMember, error)
	// AddMemberships adds userID to each group, one result per group.
	AddMemberships(ctx context.Context, userID string, groupType domain.GroupType, groupIDs []string) ([]domain.CloneResult, error)
	RemoveMembership(ctx context.Context, userID string, groupType domain.GroupType, membershipID string) error
}

// UserSuggestionInput seeds the generated alias and username.
type UserSuggestionInput struct {
	FirstName      string
	LastName       string
	UsernamePrefix string
	DomainPrefix   string
}

// UserSuggestion holds generated identity values for a new user.
type UserSuggestion struct {
	Alias    string
	Username string
	Nickname string
}
