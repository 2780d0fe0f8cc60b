package domain

// Object names used by the user flows.
const (
	ObjectUser                       = "User"
	ObjectPermissionSetAssignment    = "PermissionSetAssignment"
	ObjectPermissionSetLicenseAssign = "PermissionSetLicenseAssign"
	ObjectGroupMember                = "GroupMember"
)

// User field names written from the clone and create forms.
const (
	UserFirstName            = "FirstName"
	UserLastName             = "LastName"
	UserEmail                = "Email"
	UserUsername             = "Username"
	UserAlias                = "Alias"
	UserCommunityNickname    = "CommunityNickname"
	UserFederationIdentifier = "FederationIdentifier"
	UserProfileID            = "ProfileId"
	UserRoleID               = "UserRoleId"
	UserTimeZoneSidKey       = "TimeZoneSidKey"
	UserLocaleSidKey         = "LocaleSidKey"
	UserLanguageLocaleKey    = "LanguageLocaleKey"
	UserEmailEncodingKey     = "EmailEncodingKey"
)

// DefaultEmailEncoding is used for users created from scratch.
const DefaultEmailEncoding = "UTF-8"

// Profile is a user profile offered on the create form.
type Profile struct {
	ID            string   `json:"Id"`
	Name          string   `json:"Name"`
	UserLicenseID string   `json:"UserLicenseId,omitempty"`
	UserLicense   *License `json:"UserLicense,omitempty"`
}

// Role is a user role offered on the create form.
type Role struct {
	ID            string `json:"Id"`
	Name          string `json:"Name"`
	DeveloperName string `json:"DeveloperName,omitempty"`
}

// Group is a public group or queue a user can be made a member of.
type Group struct {
	ID            string    `json:"Id"`
	Name          string    `json:"Name"`
	DeveloperName string    `json:"DeveloperName,omitempty"`
	Type          GroupType `json:"Type"`
}

// GroupType discriminates public groups from queues.
type GroupType string

const (
	GroupTypeRegular GroupType = "Regular"
	GroupTypeQueue   GroupType = "Queue"
)

// CloneLabel is the human label used in clone reports.
func (t GroupType) CloneLabel() string {
	switch t {
	case GroupTypeRegular:
		return "Public Group"
	case GroupTypeQueue:
		return "Queue"
	default:
		return string(t)
	}
}

// Clone report labels for permission set and permission set license assignments.
const (
	CloneTypePermissionSet        = "Permission Set"
	CloneTypePermissionSetLicense = "Permission Set License"
)

// License is the denormalized user license of a permission set.
type License struct {
	Name string `json:"Name"`
}

// PermissionSetRef is the denormalized permission set on an assignment row.
type PermissionSetRef struct {
	Name      string   `json:"Name,omitempty"`
	Label     string   `json:"Label,omitempty"`
	LicenseID string   `json:"LicenseId,omitempty"`
	License   *License `json:"License,omitempty"`
}

// PermissionSetAssignment grants a permission set to a user.
type PermissionSetAssignment struct {
	ID              string            `json:"Id,omitempty"`
	AssigneeID      string            `json:"AssigneeId"`
	PermissionSetID string            `json:"PermissionSetId"`
	PermissionSet   *PermissionSetRef `json:"PermissionSet,omitempty"`
}

// Label returns the permission set label, falling back to its id. A licensed
// permission set is suffixed with its license name.
func (a PermissionSetAssignment) Label() string {
	label := a.PermissionSetID
	if a.PermissionSet != nil && a.PermissionSet.Label != "" {
		label = a.PermissionSet.Label
	}
	if license := a.LicenseName(); license != "" {
		label += " (" + license + ")"
	}
	return label
}

// LicenseName returns the denormalized license name, if any.
func (a PermissionSetAssignment) LicenseName() string {
	if a.PermissionSet == nil || a.PermissionSet.License == nil {
		return ""
	}
	return a.PermissionSet.License.Name
}

// Record returns the createable shape of the assignment, without
// relationship fields.
func (a PermissionSetAssignment) Record() Record {
	return Record{
		"AssigneeId":      a.AssigneeID,
		"PermissionSetId": a.PermissionSetID,
	}
}

// PermissionSetLicenseRef is the denormalized license on an assignment row.
type PermissionSetLicenseRef struct {
	MasterLabel   string `json:"MasterLabel,omitempty"`
	DeveloperName string `json:"DeveloperName,omitempty"`
}

// PermissionSetLicenseAssignment grants a permission set license to a user.
type PermissionSetLicenseAssignment struct {
	ID                     string                   `json:"Id,omitempty"`
	AssigneeID             string                   `json:"AssigneeId"`
	PermissionSetLicenseID string                   `json:"PermissionSetLicenseId"`
	PermissionSetLicense   *PermissionSetLicenseRef `json:"PermissionSetLicense,omitempty"`
}

func (a PermissionSetLicenseAssignment) Label() string {
	if a.PermissionSetLicense != nil && a.PermissionSetLicense.MasterLabel != "" {
		return a.PermissionSetLicense.MasterLabel
	}
	return a.PermissionSetLicenseID
}

func (a PermissionSetLicenseAssignment) Record() Record {
	return Record{
		"AssigneeId":             a.AssigneeID,
		"PermissionSetLicenseId": a.PermissionSetLicenseID,
	}
}

// GroupRef is the denormalized group on a membership row.
type GroupRef struct {
	Name string    `json:"Name,omitempty"`
	Type GroupType `json:"Type,omitempty"`
}

// GroupMember links a user (or group) to a public group or queue.
type GroupMember struct {
	ID            string    `json:"Id,omitempty"`
	GroupID       string    `json:"GroupId"`
	UserOrGroupID string    `json:"UserOrGroupId"`
	Group         *GroupRef `json:"Group,omitempty"`
}

// Label returns the group name, falling back to its id.
func (m GroupMember) Label() string {
	if m.Group != nil && m.Group.Name != "" {
		return m.Group.Name
	}
	return m.GroupID
}

// Record returns the createable shape of the membership.
func (m GroupMember) Record() Record {
	return Record{
		"GroupId":       m.GroupID,
		"UserOrGroupId": m.UserOrGroupID,
	}
}

// CloneResult reports the outcome of replicating one assignment or membership.
type CloneResult struct {
	Item  string `json:"item"`
	Type  string `json:"type"`
	Error string `json:"error,omitempty"`
}

func (r CloneResult) Succeeded() bool { return r.Error == "" }
