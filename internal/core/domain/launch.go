package domain

import "strings"

// Page is the action tag sent by the injected buttons.
type Page string

const (
	PageCloneUser                   Page = "clone-user"
	PageQuickCreateUser             Page = "quick-create-user"
	PageEditPublicGroupMemberships  Page = "edit-public-group-memberships"
	PageEditQueueMemberships        Page = "edit-queue-memberships"
	PagePermissionSetEditField      Page = "permission-set-edit-field"
	PagePermissionSetObjectSettings Page = "permission-set-object-settings-redirect"
	PageSetupPlus                   Page = "setup-plus"
)

// PopupSize is the window size the coordinator opens a page with.
type PopupSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

var popupSizes = map[Page]PopupSize{
	PageCloneUser:                   {Width: 640, Height: 820},
	PageQuickCreateUser:             {Width: 640, Height: 760},
	PageEditPublicGroupMemberships:  {Width: 900, Height: 700},
	PageEditQueueMemberships:        {Width: 900, Height: 700},
	PagePermissionSetEditField:      {Width: 720, Height: 760},
	PagePermissionSetObjectSettings: {Width: 480, Height: 360},
	PageSetupPlus:                   {Width: 1200, Height: 800},
}

// PopupSize returns the window size for p and whether p is a known page.
func (p Page) PopupSize() (PopupSize, bool) {
	size, ok := popupSizes[p]
	return size, ok
}

// WindowContext is everything a popup window knows about its launch.
type WindowContext struct {
	WindowID   string `json:"window_id"`
	Host       string `json:"host"`
	SessionID  string `json:"-"`
	Page       Page   `json:"page"`
	RecordID   string `json:"record_id,omitempty"`
	ObjectName string `json:"object_name,omitempty"`
	FieldName  string `json:"field_name,omitempty"`
}

// Hostname suffixes of UI-facing domains and their API-canonical replacement.
var canonicalHostSuffixes = []struct {
	from string
	to   string
}{
	{".lightning.force.com", ".my.salesforce.com"},
	{".my.salesforce-setup.com", ".my.salesforce.com"},
	{".my.site.com", ".my.salesforce.com"},
}

// CanonicalAPIHost rewrites an experience/UI host to the API host whose
// session cookie is valid for API calls. Unknown hosts are returned lowercased.
func CanonicalAPIHost(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	for _, s := range canonicalHostSuffixes {
		if strings.HasSuffix(host, s.from) {
			return strings.TrimSuffix(host, s.from) + s.to
		}
	}
	// Visualforce hosts look like mydomain--c.vf.force.com.
	if strings.HasSuffix(host, ".vf.force.com") {
		prefix := strings.TrimSuffix(host, ".vf.force.com")
		if i := strings.Index(prefix, "--"); i > 0 {
			prefix = prefix[:i]
		}
		return prefix + ".my.salesforce.com"
	}
	return host
}
