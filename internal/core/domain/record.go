package domain

import (
	"regexp"
	"strings"
)

// Reserved record keys the CRM rejects on create.
const (
	FieldID         = "Id"
	FieldAttributes = "attributes"
)

var recordIDPattern = regexp.MustCompile(`^(?:[a-zA-Z0-9]{18}|[a-zA-Z0-9]{15})$`)

// Record is a CRM object row keyed by API field name.
type Record map[string]any

// ID returns the record id, empty until the record is created server side.
func (r Record) ID() string {
	id, _ := r[FieldID].(string)
	return id
}

// Without returns a shallow copy of r with keys removed.
func (r Record) Without(keys ...string) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// Field describes one field of an object as reported by describe.
type Field struct {
	Name       string `json:"name"`
	Label      string `json:"label"`
	Type       string `json:"type"`
	Createable bool   `json:"createable"`
	Updateable bool   `json:"updateable"`
	Nillable   bool   `json:"nillable"`
}

// Organisation holds the org-wide defaults used when creating users.
type Organisation struct {
	ID                  string `json:"Id"`
	DefaultLocaleSidKey string `json:"DefaultLocaleSidKey"`
	TimeZoneSidKey      string `json:"TimeZoneSidKey"`
	LanguageLocaleKey   string `json:"LanguageLocaleKey"`
	OrganizationType    string `json:"OrganizationType"`
	IsSandbox           bool   `json:"IsSandbox"`
}

// IsRecordID reports whether s looks like a 15 or 18 character record id.
func IsRecordID(s string) bool {
	return recordIDPattern.MatchString(s)
}

// FindRecordID returns the first path segment that is a record id, if any.
func FindRecordID(path string) string {
	for _, seg := range strings.Split(path, "/") {
		if IsRecordID(seg) {
			return seg
		}
	}
	return ""
}

// QuoteSOQL renders s as a SOQL string literal.
func QuoteSOQL(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(s) + "'"
}
