package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sfniknax/niknax/internal/api/metrics"
	"github.com/sfniknax/niknax/internal/core/domain"
	"github.com/sfniknax/niknax/internal/core/ports"
)

// Clone result type for the optional password reset step.
const CloneTypePasswordReset = "Password Reset"

// UserService creates users and clones users with their permission set
// assignments and group memberships. Steps run one after the other; nothing
// is rolled back.
type UserService struct {
	records ports.RecordClient
	apex    ports.ApexExecutor
	logger  zerolog.Logger
}

func NewUserService(records ports.RecordClient, apex ports.ApexExecutor, logger zerolog.Logger) *UserService {
	return &UserService{records: records, apex: apex, logger: logger}
}

// CloneUser creates a copy of the source user. Every createable field not in
// overrides is copied from the source; overrides are applied on top. Any
// failure aborts before or at the create call.
func (s *UserService) CloneUser(ctx context.Context, sourceUserID string, overrides map[string]any) (domain.Record, error) {
	if !domain.IsRecordID(sourceUserID) {
		return nil, fmt.Errorf("source user %q: %w", sourceUserID, domain.ErrInvalidInput)
	}

	fields, err := s.records.GetObjectFields(ctx, domain.ObjectUser)
	if err != nil {
		return nil, fmt.Errorf("describe user: %w", err)
	}

	selected := make([]string, 0, len(fields))
	for _, f := range fields {
		if !f.Createable || f.Name == domain.FieldID {
			continue
		}
		if _, overridden := overrides[f.Name]; overridden {
			continue
		}
		selected = append(selected, f.Name)
	}

	selectList := strings.Join(selected, ", ")
	if selectList == "" {
		selectList = domain.FieldID
	}
	soql := fmt.Sprintf("SELECT %s FROM User WHERE Id = %s", selectList, domain.QuoteSOQL(sourceUserID))

	var rows []domain.Record
	if err := s.records.Query(ctx, soql, &rows); err != nil {
		return nil, fmt.Errorf("read source user: %w", err)
	}
	if len(rows) != 1 {
		return nil, fmt.Errorf("source user %s: %w", sourceUserID, domain.ErrNotFound)
	}

	user := rows[0].Without(domain.FieldID, domain.FieldAttributes)
	for k, v := range overrides {
		user[k] = v
	}

	id, err := s.records.Create(ctx, domain.ObjectUser, user)
	if err != nil {
		s.logger.Error().Err(err).Str("source_user_id", sourceUserID).Msg("failed to create cloned user")
		return nil, fmt.Errorf("create user: %w", err)
	}
	user[domain.FieldID] = id

	metrics.UsersClonedTotal.Inc()
	s.logger.Info().Str("source_user_id", sourceUserID).Str("user_id", id).Msg("user cloned")
	return user, nil
}

// ClonePermissionSetAssignments copies the non-profile permission set
// assignments of fromUserID to toUserID, one Clone Result per assignment.
// A failed create is recorded on its result and the loop continues.
func (s *UserService) ClonePermissionSetAssignments(ctx context.Context, fromUserID, toUserID string, opts ports.PermissionSetCloneOptions) ([]domain.CloneResult, error) {
	if err := checkUserIDs(fromUserID, toUserID); err != nil {
		return nil, err
	}

	soql := "SELECT Id, AssigneeId, PermissionSetId, PermissionSet.Name, PermissionSet.Label, PermissionSet.LicenseId, PermissionSet.License.Name" +
		" FROM PermissionSetAssignment WHERE AssigneeId = " + domain.QuoteSOQL(fromUserID) +
		" AND PermissionSet.IsOwnedByProfile = false"

	if opts.FilterByLicense {
		licenseID, err := s.profileLicense(ctx, toUserID)
		if err != nil {
			return nil, err
		}
		soql += " AND (PermissionSet.LicenseId = null"
		if licenseID != "" {
			soql += " OR PermissionSet.LicenseId = " + domain.QuoteSOQL(licenseID)
		}
		soql += ")"
	}

	var assignments []domain.PermissionSetAssignment
	if err := s.records.Query(ctx, soql, &assignments); err != nil {
		return nil, fmt.Errorf("read permission set assignments: %w", err)
	}

	results := make([]domain.CloneResult, 0, len(assignments))
	for _, a := range assignments {
		a.AssigneeID = toUserID
		_, err := s.records.Create(ctx, domain.ObjectPermissionSetAssignment, a.Record())
		results = append(results, s.cloneResult(a.Label(), domain.CloneTypePermissionSet, err))
	}
	return results, nil
}

// ClonePermissionSetLicenseAssignments copies the permission set license
// assignments of fromUserID to toUserID, one Clone Result per assignment.
func (s *UserService) ClonePermissionSetLicenseAssignments(ctx context.Context, fromUserID, toUserID string) ([]domain.CloneResult, error) {
	if err := checkUserIDs(fromUserID, toUserID); err != nil {
		return nil, err
	}

	soql := "SELECT Id, AssigneeId, PermissionSetLicenseId, PermissionSetLicense.MasterLabel, PermissionSetLicense.DeveloperName" +
		" FROM PermissionSetLicenseAssign WHERE AssigneeId = " + domain.QuoteSOQL(fromUserID)

	var assignments []domain.PermissionSetLicenseAssignment
	if err := s.records.Query(ctx, soql, &assignments); err != nil {
		return nil, fmt.Errorf("read permission set license assignments: %w", err)
	}

	results := make([]domain.CloneResult, 0, len(assignments))
	for _, a := range assignments {
		a.AssigneeID = toUserID
		_, err := s.records.Create(ctx, domain.ObjectPermissionSetLicenseAssign, a.Record())
		results = append(results, s.cloneResult(a.Label(), domain.CloneTypePermissionSetLicense, err))
	}
	return results, nil
}

// CloneGroupMemberships copies the memberships of fromUserID in groups of
// groupType to toUserID, one Clone Result per membership.
func (s *UserService) CloneGroupMemberships(ctx context.Context, fromUserID, toUserID string, groupType domain.GroupType) ([]domain.CloneResult, error) {
	if err := checkUserIDs(fromUserID, toUserID); err != nil {
		return nil, err
	}
	if groupType == "" {
		return nil, fmt.Errorf("group type: %w", domain.ErrInvalidInput)
	}

	soql := "SELECT Id, GroupId, UserOrGroupId, Group.Name, Group.Type FROM GroupMember" +
		" WHERE UserOrGroupId = " + domain.QuoteSOQL(fromUserID) +
		" AND Group.Type = " + domain.QuoteSOQL(string(groupType))

	var members []domain.GroupMember
	if err := s.records.Query(ctx, soql, &members); err != nil {
		return nil, fmt.Errorf("read group memberships: %w", err)
	}

	label := groupType.CloneLabel()
	results := make([]domain.CloneResult, 0, len(members))
	for _, m := range members {
		m.UserOrGroupID = toUserID
		_, err := s.records.Create(ctx, domain.ObjectGroupMember, m.Record())
		results = append(results, s.cloneResult(m.Label(), label, err))
	}
	return results, nil
}

// Clone runs the whole clone form: the user itself, then the access it asks
// for, then the optional password reset. Once the user exists, failures of
// the later steps are reported in the result list instead of returned.
func (s *UserService) Clone(ctx context.Context, input ports.CloneUserInput) (*ports.UserReport, error) {
	if err := ValidateCloneInput(input); err != nil {
		return nil, err
	}

	user, err := s.CloneUser(ctx, input.SourceUserID, cloneOverrides(input))
	if err != nil {
		return nil, err
	}
	report := &ports.UserReport{User: user, Items: []domain.CloneResult{}}
	userID := user.ID()

	// Licenses go first: licensed permission sets need them.
	if input.ClonePermissionSetLicenseAssignments {
		items, err := s.ClonePermissionSetLicenseAssignments(ctx, input.SourceUserID, userID)
		report.Items = s.appendStep(report.Items, items, err, "Permission set license assignments", domain.CloneTypePermissionSetLicense)
	}

	if input.ClonePermissionSetAssignments {
		items, err := s.ClonePermissionSetAssignments(ctx, input.SourceUserID, userID,
			ports.PermissionSetCloneOptions{FilterByLicense: input.FilterPermissionSetsByLicense})
		report.Items = s.appendStep(report.Items, items, err, "Permission set assignments", domain.CloneTypePermissionSet)
	}

	groupSteps := []struct {
		enabled bool
		typ     domain.GroupType
		item    string
	}{
		{input.ClonePublicGroupMemberships, domain.GroupTypeRegular, "Public group memberships"},
		{input.CloneQueueMemberships, domain.GroupTypeQueue, "Queue memberships"},
	}
	for _, step := range groupSteps {
		if !step.enabled {
			continue
		}
		items, err := s.CloneGroupMemberships(ctx, input.SourceUserID, userID, step.typ)
		report.Items = s.appendStep(report.Items, items, err, step.item, step.typ.CloneLabel())
	}

	if input.ResetPassword {
		s.resetPassword(ctx, report)
	}

	failed := slices.IndexFunc(report.Items, func(r domain.CloneResult) bool { return !r.Succeeded() }) >= 0
	s.logger.Info().
		Str("user_id", userID).
		Int("items", len(report.Items)).
		Bool("partial_failure", failed).
		Msg("clone finished")
	return report, nil
}

// CreateUser creates a user from the quick create form. Locale, time zone
// and language are taken from the org defaults. A failed password reset is
// reported in the items, not returned.
func (s *UserService) CreateUser(ctx context.Context, input ports.CreateUserInput) (*ports.UserReport, error) {
	if err := ValidateCreateInput(input); err != nil {
		return nil, err
	}

	org, err := s.records.GetOrganisation(ctx)
	if err != nil {
		return nil, fmt.Errorf("read organisation: %w", err)
	}

	user := domain.Record{
		domain.UserFirstName:         input.FirstName,
		domain.UserLastName:          input.LastName,
		domain.UserEmail:             input.Email,
		domain.UserUsername:          input.Username,
		domain.UserAlias:             input.Alias,
		domain.UserCommunityNickname: input.Nickname,
		domain.UserProfileID:         input.ProfileID,
		domain.UserTimeZoneSidKey:    org.TimeZoneSidKey,
		domain.UserLocaleSidKey:      org.DefaultLocaleSidKey,
		domain.UserLanguageLocaleKey: org.LanguageLocaleKey,
		domain.UserEmailEncodingKey:  domain.DefaultEmailEncoding,
	}
	if input.FederationIdentifier != "" {
		user[domain.UserFederationIdentifier] = input.FederationIdentifier
	}
	if input.RoleID != "" {
		user[domain.UserRoleID] = input.RoleID
	}

	id, err := s.records.Create(ctx, domain.ObjectUser, user)
	if err != nil {
		s.logger.Error().Err(err).Str("username", input.Username).Msg("failed to create user")
		return nil, fmt.Errorf("create user: %w", err)
	}
	user[domain.FieldID] = id
	metrics.UsersCreatedTotal.Inc()
	s.logger.Info().Str("user_id", id).Str("profile_id", input.ProfileID).Msg("user created")

	report := &ports.UserReport{User: user, Items: []domain.CloneResult{}}
	if input.ResetPassword {
		s.resetPassword(ctx, report)
	}
	return report, nil
}

// Profiles lists the profiles a new user can get, with their user license.
func (s *UserService) Profiles(ctx context.Context) ([]domain.Profile, error) {
	var profiles []domain.Profile
	if err := s.records.Query(ctx, "SELECT Id, Name, UserLicenseId, UserLicense.Name FROM Profile ORDER BY Name", &profiles); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

func (s *UserService) Roles(ctx context.Context) ([]domain.Role, error) {
	var roles []domain.Role
	if err := s.records.Query(ctx, "SELECT Id, Name, DeveloperName FROM UserRole ORDER BY Name", &roles); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

func (s *UserService) resetPassword(ctx context.Context, report *ports.UserReport) {
	err := s.apex.ExecuteAnonymous(ctx, resetPasswordApex(report.User.ID()))
	report.PasswordSent = err == nil
	report.Items = append(report.Items, s.cloneResult("Reset password email", CloneTypePasswordReset, err))
}

// appendStep adds a step's results, or a single failed result naming the
// step when the step could not run at all.
func (s *UserService) appendStep(items, step []domain.CloneResult, err error, item, typ string) []domain.CloneResult {
	if err != nil {
		return append(items, s.cloneResult(item, typ, err))
	}
	return append(items, step...)
}

func (s *UserService) cloneResult(item, typ string, err error) domain.CloneResult {
	res := domain.CloneResult{Item: item, Type: typ}
	outcome := metrics.OutcomeSuccess
	if err != nil {
		res.Error = err.Error()
		outcome = metrics.OutcomeError
		s.logger.Warn().Err(err).Str("item", item).Str("type", typ).Msg("clone item failed")
	}
	metrics.CloneItemsTotal.WithLabelValues(typ, outcome).Inc()
	return res
}

func (s *UserService) profileLicense(ctx context.Context, userID string) (string, error) {
	var rows []struct {
		Profile *struct {
			UserLicenseID string `json:"UserLicenseId"`
		} `json:"Profile"`
	}
	soql := "SELECT Profile.UserLicenseId FROM User WHERE Id = " + domain.QuoteSOQL(userID)
	if err := s.records.Query(ctx, soql, &rows); err != nil {
		return "", fmt.Errorf("read target profile license: %w", err)
	}
	if len(rows) != 1 {
		return "", fmt.Errorf("target user %s: %w", userID, domain.ErrNotFound)
	}
	if rows[0].Profile == nil {
		return "", nil
	}
	return rows[0].Profile.UserLicenseID, nil
}

func cloneOverrides(input ports.CloneUserInput) map[string]any {
	overrides := map[string]any{
		domain.UserFirstName:         input.FirstName,
		domain.UserLastName:          input.LastName,
		domain.UserEmail:             input.Email,
		domain.UserUsername:          input.Username,
		domain.UserAlias:             input.Alias,
		domain.UserCommunityNickname: input.Nickname,
	}
	if input.FederationIdentifier != "" {
		overrides[domain.UserFederationIdentifier] = input.FederationIdentifier
	}
	if input.ProfileID != "" {
		overrides[domain.UserProfileID] = input.ProfileID
	}
	if input.RoleID != "" {
		overrides[domain.UserRoleID] = input.RoleID
	}
	return overrides
}

func resetPasswordApex(userID string) string {
	return "System.resetPassword(" + domain.QuoteSOQL(userID) + ", true);"
}

func checkUserIDs(ids ...string) error {
	for _, id := range ids {
		if !domain.IsRecordID(id) {
			return fmt.Errorf("user id %q: %w", id, domain.ErrInvalidInput)
		}
	}
	return nil
}
