package domain

import "net/url"

// MetadataTypePermissionSet is the metadata type read for field-level security.
const MetadataTypePermissionSet = "PermissionSet"

// FieldAccess is the field-level security granted by one permission set.
// A permission set without an entry for the field grants neither.
type FieldAccess struct {
	Read bool `json:"read"`
	Edit bool `json:"edit"`
}

// PermissionSetFieldAccess is one row of a field-level security report.
type PermissionSetFieldAccess struct {
	PermissionSet string      `json:"permission_set"`
	Field         string      `json:"field"`
	Access        FieldAccess `json:"access"`
	Error         string      `json:"error,omitempty"`
}

// AuditLogEntry is one row of the setup audit trail export. Date is kept as
// exported since the CSV renders it in the viewing user's locale.
type AuditLogEntry struct {
	Date                  string `json:"date"`
	User                  string `json:"user"`
	SourceNamespacePrefix string `json:"source_namespace_prefix,omitempty"`
	Action                string `json:"action"`
	Section               string `json:"section"`
	DelegateUser          string `json:"delegate_user,omitempty"`
}

// PermissionSet is a non-profile permission set as listed by query.
type PermissionSet struct {
	ID              string `json:"Id"`
	Name            string `json:"Name"`
	Label           string `json:"Label,omitempty"`
	NamespacePrefix string `json:"NamespacePrefix,omitempty"`
}

// FullName is the metadata API name. Packaged permission sets are
// prefixed with their namespace.
func (p PermissionSet) FullName() string {
	if p.NamespacePrefix == "" {
		return p.Name
	}
	return p.NamespacePrefix + "__" + p.Name
}

// ObjectSettingsPath is the setup page editing object settings of object in
// the permission set with id permissionSetID.
func ObjectSettingsPath(permissionSetID, object string) string {
	address := "/" + permissionSetID + "?s=EntityPermissions&o=" + url.QueryEscape(object)
	return "/lightning/setup/PermSets/page?address=" + url.QueryEscape(address)
}
