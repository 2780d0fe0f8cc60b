package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sfniknax/niknax/internal/core/domain"
	"github.com/sfniknax/niknax/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stub CRM clients
// ---------------------------------------------------------------------------

// queryResponse answers every query containing match with rows (JSON) or err.
type queryResponse struct {
	match string
	rows  string
	err   error
}

type createdRecord struct {
	objectType string
	record     domain.Record
}

type stubRecords struct {
	fields    []domain.Field
	fieldsErr error
	responses []queryResponse
	queries   []string
	created   []createdRecord
	attempts  map[string]int
	createErr func(objectType string, n int) error // n counts create attempts of objectType, from 1
	orgErr    error
	deleted   []string
	deleteErr error
}

func (s *stubRecords) Query(_ context.Context, soql string, out any) error {
	s.queries = append(s.queries, soql)
	for _, r := range s.responses {
		if !strings.Contains(soql, r.match) {
			continue
		}
		if r.err != nil {
			return r.err
		}
		return json.Unmarshal([]byte(r.rows), out)
	}
	return json.Unmarshal([]byte(`[]`), out)
}

func (s *stubRecords) Create(_ context.Context, objectType string, record domain.Record) (string, error) {
	if s.attempts == nil {
		s.attempts = make(map[string]int)
	}
	s.attempts[objectType]++
	n := s.attempts[objectType]
	if s.createErr != nil {
		if err := s.createErr(objectType, n); err != nil {
			return "", err
		}
	}
	s.created = append(s.created, createdRecord{objectType: objectType, record: record.Without()})
	return fmt.Sprintf("%.3s%012d", strings.ToUpper(objectType), n), nil
}

func (s *stubRecords) Delete(_ context.Context, objectType, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, objectType+"/"+id)
	return nil
}

func (s *stubRecords) GetObjectFields(context.Context, string) ([]domain.Field, error) {
	return s.fields, s.fieldsErr
}

func (s *stubRecords) GetOrganisation(context.Context) (*domain.Organisation, error) {
	if s.orgErr != nil {
		return nil, s.orgErr
	}
	return &domain.Organisation{
		ID:                  "00D000000000001",
		DefaultLocaleSidKey: "en_GB",
		TimeZoneSidKey:      "Europe/London",
		LanguageLocaleKey:   "en_US",
	}, nil
}

func (s *stubRecords) Ping(context.Context) error { return nil }

func (s *stubRecords) createdOf(objectType string) []domain.Record {
	var out []domain.Record
	for _, c := range s.created {
		if c.objectType == objectType {
			out = append(out, c.record)
		}
	}
	return out
}

type stubApex struct {
	scripts []string
	err     error
}

func (s *stubApex) ExecuteAnonymous(_ context.Context, apex string) error {
	s.scripts = append(s.scripts, apex)
	return s.err
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

const (
	sourceUserID = "005000000000001AAA"
	targetUserID = "005000000000002AAA"
)

var discardLogger = zerolog.Nop()

var userFields = []domain.Field{
	{Name: "Id", Type: "id"},
	{Name: "FirstName", Createable: true},
	{Name: "LastName", Createable: true},
	{Name: "Email", Createable: true},
	{Name: "ProfileId", Createable: true},
	{Name: "Department", Createable: true},
	{Name: "LastLoginDate"},
}

const sourceUserRow = `[{
	"attributes": {"type": "User", "url": "/services/data/v58.0/sobjects/User/005000000000001AAA"},
	"FirstName": "Ada",
	"ProfileId": "00e000000000001",
	"Department": "Engineering"
}]`

func keys(r domain.Record) []string {
	out := make([]string, 0, len(r))
	for k := range r {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func newUserStub() *stubRecords {
	return &stubRecords{
		fields:    userFields,
		responses: []queryResponse{{match: "FROM User WHERE Id", rows: sourceUserRow}},
	}
}

// ---------------------------------------------------------------------------
// CloneUser
// ---------------------------------------------------------------------------

func TestUserService_CloneUser_FieldSet(t *testing.T) {
	records := newUserStub()
	svc := NewUserService(records, &stubApex{}, discardLogger)

	overrides := map[string]any{"LastName": "Lovelace", "Email": "ada@example.com"}
	user, err := svc.CloneUser(context.Background(), sourceUserID, overrides)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantQuery := "SELECT FirstName, ProfileId, Department FROM User WHERE Id = '005000000000001AAA'"
	if records.queries[0] != wantQuery {
		t.Errorf("query = %q, want %q", records.queries[0], wantQuery)
	}

	created := records.createdOf(domain.ObjectUser)
	if len(created) != 1 {
		t.Fatalf("expected 1 created user, got %d", len(created))
	}
	wantFields := []string{"Department", "Email", "FirstName", "LastName", "ProfileId"}
	if got := keys(created[0]); !slices.Equal(got, wantFields) {
		t.Errorf("created fields = %v, want %v", got, wantFields)
	}
	if created[0]["LastName"] != "Lovelace" || created[0]["FirstName"] != "Ada" {
		t.Errorf("unexpected created values: %v", created[0])
	}

	if got := keys(user); !slices.Equal(got, []string{"Department", "Email", "FirstName", "Id", "LastName", "ProfileId"}) {
		t.Errorf("returned fields = %v", got)
	}
	if user.ID() != "USE000000000001" {
		t.Errorf("Id = %q, want id returned by create", user.ID())
	}
}

func TestUserService_CloneUser_OverrideNonCreateableField(t *testing.T) {
	records := newUserStub()
	svc := NewUserService(records, &stubApex{}, discardLogger)

	user, err := svc.CloneUser(context.Background(), sourceUserID, map[string]any{"Nickname__c": "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user["Nickname__c"] != "x" {
		t.Errorf("override not applied: %v", user)
	}
}

func TestUserService_CloneUser_Aborts(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		stub    func(*stubRecords)
		source  string
		wantErr error
	}{
		{
			name:    "invalid source id",
			source:  "not-an-id",
			stub:    func(*stubRecords) {},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "describe fails",
			source:  sourceUserID,
			stub:    func(s *stubRecords) { s.fieldsErr = boom },
			wantErr: boom,
		},
		{
			name:    "query fails",
			source:  sourceUserID,
			stub:    func(s *stubRecords) { s.responses = []queryResponse{{match: "FROM User", err: boom}} },
			wantErr: boom,
		},
		{
			name:    "source user missing",
			source:  sourceUserID,
			stub:    func(s *stubRecords) { s.responses = nil },
			wantErr: domain.ErrNotFound,
		},
		{
			name:   "create fails",
			source: sourceUserID,
			stub: func(s *stubRecords) {
				s.createErr = func(string, int) error { return boom }
			},
			wantErr: boom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := newUserStub()
			tt.stub(records)
			svc := NewUserService(records, &stubApex{}, discardLogger)

			user, err := svc.CloneUser(context.Background(), tt.source, map[string]any{"LastName": "X"})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if user != nil {
				t.Errorf("expected no user on failure, got %v", user)
			}
			if len(records.created) != 0 {
				t.Errorf("expected nothing created, got %d", len(records.created))
			}
		})
	}
}

// ---------------------------------------------------------------------------
// ClonePermissionSetAssignments
// ---------------------------------------------------------------------------

const assignmentRows = `[
	{"attributes":{"type":"PermissionSetAssignment"},"Id":"0Pa000000000001","AssigneeId":"005000000000001AAA","PermissionSetId":"0PS000000000001","PermissionSet":{"Name":"Sales","Label":"Sales Users"}},
	{"attributes":{"type":"PermissionSetAssignment"},"Id":"0Pa000000000002","AssigneeId":"005000000000001AAA","PermissionSetId":"0PS000000000002","PermissionSet":{"Name":"CPQ","Label":"CPQ Admin","LicenseId":"0PL000000000001","License":{"Name":"Salesforce CPQ"}}},
	{"attributes":{"type":"PermissionSetAssignment"},"Id":"0Pa000000000003","AssigneeId":"005000000000001AAA","PermissionSetId":"0PS000000000003","PermissionSet":{"Name":"Reports","Label":"Reports"}}
]`

func TestUserService_ClonePermissionSetAssignments_PartialFailure(t *testing.T) {
	records := &stubRecords{
		responses: []queryResponse{{match: "FROM PermissionSetAssignment", rows: assignmentRows}},
		createErr: func(objectType string, n int) error {
			if n == 2 {
				return errors.New("INVALID_CROSS_REFERENCE_KEY: license mismatch")
			}
			return nil
		},
	}
	svc := NewUserService(records, &stubApex{}, discardLogger)

	results, err := svc.ClonePermissionSetAssignments(context.Background(), sourceUserID, targetUserID, ports.PermissionSetCloneOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !results[0].Succeeded() || !results[2].Succeeded() {
		t.Errorf("items 1 and 3 must succeed: %+v", results)
	}
	if results[1].Succeeded() || !strings.Contains(results[1].Error, "license mismatch") {
		t.Errorf("item 2 must carry the create error: %+v", results[1])
	}
	if results[0].Item != "Sales Users" || results[0].Type != domain.CloneTypePermissionSet {
		t.Errorf("unexpected result labels: %+v", results[0])
	}
	if results[1].Item != "CPQ Admin (Salesforce CPQ)" {
		t.Errorf("licensed permission set must name its license: %q", results[1].Item)
	}

	for _, rec := range records.createdOf(domain.ObjectPermissionSetAssignment) {
		if rec["AssigneeId"] != targetUserID {
			t.Errorf("assignee not rewritten: %v", rec)
		}
		if got := keys(rec); !slices.Equal(got, []string{"AssigneeId", "PermissionSetId"}) {
			t.Errorf("denormalized fields not stripped: %v", got)
		}
	}

	if !strings.Contains(records.queries[0], "PermissionSet.IsOwnedByProfile = false") {
		t.Errorf("profile-owned permission sets must be excluded: %s", records.queries[0])
	}
}

func TestUserService_ClonePermissionSetAssignments_FilterByLicense(t *testing.T) {
	records := &stubRecords{
		responses: []queryResponse{
			{match: "Profile.UserLicenseId", rows: `[{"Profile":{"UserLicenseId":"100000000000001"}}]`},
			{match: "FROM PermissionSetAssignment", rows: `[]`},
		},
	}
	svc := NewUserService(records, &stubApex{}, discardLogger)

	_, err := svc.ClonePermissionSetAssignments(context.Background(), sourceUserID, targetUserID,
		ports.PermissionSetCloneOptions{FilterByLicense: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records.queries) != 2 {
		t.Fatalf("expected 2 queries, got %d", len(records.queries))
	}
	if !strings.Contains(records.queries[0], "WHERE Id = '005000000000002AAA'") {
		t.Errorf("license must be read from the target user: %s", records.queries[0])
	}
	want := "AND (PermissionSet.LicenseId = null OR PermissionSet.LicenseId = '100000000000001')"
	if !strings.HasSuffix(records.queries[1], want) {
		t.Errorf("query %q missing license filter", records.queries[1])
	}
}

func TestUserService_ClonePermissionSetAssignments_QueryError(t *testing.T) {
	records := &stubRecords{
		responses: []queryResponse{{match: "FROM PermissionSetAssignment", err: domain.ErrRemote}},
	}
	svc := NewUserService(records, &stubApex{}, discardLogger)

	_, err := svc.ClonePermissionSetAssignments(context.Background(), sourceUserID, targetUserID, ports.PermissionSetCloneOptions{})
	if !errors.Is(err, domain.ErrRemote) {
		t.Fatalf("expected ErrRemote, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// CloneGroupMemberships
// ---------------------------------------------------------------------------

func TestUserService_CloneGroupMemberships_Labels(t *testing.T) {
	tests := []struct {
		groupType domain.GroupType
		wantType  string
	}{
		{domain.GroupTypeRegular, "Public Group"},
		{domain.GroupTypeQueue, "Queue"},
		{domain.GroupType("Territory"), "Territory"},
	}

	for _, tt := range tests {
		t.Run(string(tt.groupType), func(t *testing.T) {
			records := &stubRecords{
				responses: []queryResponse{{match: "FROM GroupMember", rows: `[
					{"Id":"011000000000001","GroupId":"00G000000000001","UserOrGroupId":"005000000000001AAA","Group":{"Name":"EMEA Sales","Type":"Regular"}}
				]`}},
			}
			svc := NewUserService(records, &stubApex{}, discardLogger)

			results, err := svc.CloneGroupMemberships(context.Background(), sourceUserID, targetUserID, tt.groupType)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(results) != 1 || results[0].Type != tt.wantType || results[0].Item != "EMEA Sales" {
				t.Fatalf("unexpected results: %+v", results)
			}
			if !strings.HasSuffix(records.queries[0], "AND Group.Type = '"+string(tt.groupType)+"'") {
				t.Errorf("query not filtered by type: %s", records.queries[0])
			}

			created := records.createdOf(domain.ObjectGroupMember)
			if len(created) != 1 || created[0]["UserOrGroupId"] != targetUserID || created[0]["GroupId"] != "00G000000000001" {
				t.Errorf("unexpected created membership: %v", created)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Clone (full form)
// ---------------------------------------------------------------------------

func validCloneInput() ports.CloneUserInput {
	return ports.CloneUserInput{
		SourceUserID: sourceUserID,
		FirstName:    "Grace",
		LastName:     "Hopper",
		Email:        "grace@example.com",
		Username:     "grace.hopper@example.com.dev",
		Alias:        "ghopp",
		Nickname:     "User01234567890123456789",
	}
}

func TestUserService_Clone_AllSteps(t *testing.T) {
	records := newUserStub()
	records.responses = append(records.responses,
		queryResponse{match: "FROM PermissionSetLicenseAssign", rows: `[{"Id":"2LA000000000001","AssigneeId":"005000000000001AAA","PermissionSetLicenseId":"0PL000000000001","PermissionSetLicense":{"MasterLabel":"Salesforce CPQ"}}]`},
		queryResponse{match: "FROM PermissionSetAssignment", rows: assignmentRows},
		queryResponse{match: "Group.Type = 'Regular'", err: errors.New("INVALID_TYPE")},
		queryResponse{match: "Group.Type = 'Queue'", rows: `[{"GroupId":"00G000000000009","UserOrGroupId":"005000000000001AAA","Group":{"Name":"Support","Type":"Queue"}}]`},
	)
	apex := &stubApex{}
	svc := NewUserService(records, apex, discardLogger)

	input := validCloneInput()
	input.ProfileID = "00e000000000002"
	input.ClonePermissionSetLicenseAssignments = true
	input.ClonePermissionSetAssignments = true
	input.ClonePublicGroupMemberships = true
	input.CloneQueueMemberships = true
	input.ResetPassword = true

	report, err := svc.Clone(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user := records.createdOf(domain.ObjectUser)[0]
	if user["ProfileId"] != "00e000000000002" || user["CommunityNickname"] != input.Nickname || user["Alias"] != "ghopp" {
		t.Errorf("form values not applied: %v", user)
	}
	if _, ok := user["FederationIdentifier"]; ok {
		t.Error("blank federation identifier must not be sent")
	}

	// 1 license, 3 permission sets, 1 failed public group step, 1 queue, 1 password reset.
	if len(report.Items) != 7 {
		t.Fatalf("expected 7 items, got %d: %+v", len(report.Items), report.Items)
	}
	if report.Items[0].Type != domain.CloneTypePermissionSetLicense || report.Items[0].Item != "Salesforce CPQ" {
		t.Errorf("license assignment must be cloned first: %+v", report.Items[0])
	}
	groupStep := report.Items[4]
	if groupStep.Type != "Public Group" || groupStep.Succeeded() {
		t.Errorf("public group step must be reported as failed: %+v", groupStep)
	}
	if report.Items[5].Type != "Queue" || !report.Items[5].Succeeded() {
		t.Errorf("queue membership must succeed: %+v", report.Items[5])
	}
	if licenses := records.createdOf(domain.ObjectPermissionSetLicenseAssign); len(licenses) != 1 || licenses[0]["AssigneeId"] != "USE000000000001" {
		t.Errorf("unexpected license assignments: %v", licenses)
	}

	if !report.PasswordSent {
		t.Error("expected password reset to be reported as sent")
	}
	if len(apex.scripts) != 1 || apex.scripts[0] != "System.resetPassword('USE000000000001', true);" {
		t.Errorf("unexpected apex: %v", apex.scripts)
	}
}

func TestUserService_Clone_ResetPasswordFails(t *testing.T) {
	records := newUserStub()
	apex := &stubApex{err: errors.New("INSUFFICIENT_ACCESS")}
	svc := NewUserService(records, apex, discardLogger)

	input := validCloneInput()
	input.ResetPassword = true

	report, err := svc.Clone(context.Background(), input)
	if err != nil {
		t.Fatalf("reset failure must not fail the clone: %v", err)
	}
	if report.PasswordSent {
		t.Error("PasswordSent must be false")
	}
	if len(report.Items) != 1 || report.Items[0].Error != "INSUFFICIENT_ACCESS" {
		t.Errorf("unexpected items: %+v", report.Items)
	}
}

func TestUserService_Clone_InvalidInput(t *testing.T) {
	records := newUserStub()
	svc := NewUserService(records, &stubApex{}, discardLogger)

	input := validCloneInput()
	input.Email = "not-an-email"
	input.LastName = " "

	_, err := svc.Clone(context.Background(), input)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !strings.Contains(err.Error(), "last name is required") || !strings.Contains(err.Error(), "not-an-email") {
		t.Errorf("every problem must be reported: %v", err)
	}
	if len(records.queries) != 0 {
		t.Error("no remote call expected on invalid input")
	}
}

func TestUserService_Clone_UserFailureAborts(t *testing.T) {
	records := newUserStub()
	records.createErr = func(string, int) error { return errors.New("DUPLICATE_USERNAME") }
	apex := &stubApex{}
	svc := NewUserService(records, apex, discardLogger)

	input := validCloneInput()
	input.ClonePermissionSetAssignments = true
	input.ResetPassword = true

	if _, err := svc.Clone(context.Background(), input); err == nil {
		t.Fatal("expected error")
	}
	if len(records.queries) != 1 {
		t.Errorf("no step may run after a failed user create, queries: %v", records.queries)
	}
	if len(apex.scripts) != 0 {
		t.Error("password reset must not run")
	}
}

// ---------------------------------------------------------------------------
// ClonePermissionSetLicenseAssignments
// ---------------------------------------------------------------------------

func TestUserService_ClonePermissionSetLicenseAssignments(t *testing.T) {
	records := &stubRecords{
		responses: []queryResponse{{match: "FROM PermissionSetLicenseAssign", rows: `[
			{"Id":"2LA000000000001","AssigneeId":"005000000000001AAA","PermissionSetLicenseId":"0PL000000000001","PermissionSetLicense":{"MasterLabel":"Salesforce CPQ"}},
			{"Id":"2LA000000000002","AssigneeId":"005000000000001AAA","PermissionSetLicenseId":"0PL000000000002","PermissionSetLicense":{"MasterLabel":"Field Service"}}
		]`}},
		createErr: func(_ string, n int) error {
			if n == 1 {
				return errors.New("LICENSE_LIMIT_EXCEEDED")
			}
			return nil
		},
	}
	svc := NewUserService(records, &stubApex{}, discardLogger)

	results, err := svc.ClonePermissionSetLicenseAssignments(context.Background(), sourceUserID, targetUserID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 || results[0].Succeeded() || !results[1].Succeeded() {
		t.Fatalf("unexpected results: %+v", results)
	}
	if results[1].Item != "Field Service" || results[1].Type != domain.CloneTypePermissionSetLicense {
		t.Errorf("unexpected labels: %+v", results[1])
	}
	created := records.createdOf(domain.ObjectPermissionSetLicenseAssign)
	if len(created) != 1 || created[0]["AssigneeId"] != targetUserID || created[0]["PermissionSetLicenseId"] != "0PL000000000002" {
		t.Errorf("unexpected created assignments: %v", created)
	}
	if got := keys(created[0]); !slices.Equal(got, []string{"AssigneeId", "PermissionSetLicenseId"}) {
		t.Errorf("denormalized fields not stripped: %v", got)
	}
}

// ---------------------------------------------------------------------------
// CreateUser
// ---------------------------------------------------------------------------

func validCreateInput() ports.CreateUserInput {
	return ports.CreateUserInput{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
		Username:  "grace.hopper@example.com.dev",
		Alias:     "ghopp",
		Nickname:  "User01234567890123456789",
		ProfileID: "00e000000000002",
	}
}

func TestUserService_CreateUser_UsesOrgDefaults(t *testing.T) {
	records := &stubRecords{}
	apex := &stubApex{}
	svc := NewUserService(records, apex, discardLogger)

	input := validCreateInput()
	input.RoleID = "00E000000000001"
	input.ResetPassword = true

	report, err := svc.CreateUser(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	created := records.createdOf(domain.ObjectUser)
	if len(created) != 1 {
		t.Fatalf("expected 1 created user, got %d", len(created))
	}
	user := created[0]
	want := map[string]any{
		"TimeZoneSidKey":    "Europe/London",
		"LocaleSidKey":      "en_GB",
		"LanguageLocaleKey": "en_US",
		"EmailEncodingKey":  "UTF-8",
		"ProfileId":         "00e000000000002",
		"UserRoleId":        "00E000000000001",
		"CommunityNickname": input.Nickname,
	}
	for k, v := range want {
		if user[k] != v {
			t.Errorf("%s = %v, want %v", k, user[k], v)
		}
	}
	if _, ok := user["FederationIdentifier"]; ok {
		t.Error("blank federation identifier must not be sent")
	}

	if report.User.ID() != "USE000000000001" || !report.PasswordSent {
		t.Errorf("unexpected report: %+v", report)
	}
	if len(apex.scripts) != 1 || apex.scripts[0] != "System.resetPassword('USE000000000001', true);" {
		t.Errorf("unexpected apex: %v", apex.scripts)
	}
}

func TestUserService_CreateUser_Failures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		input   func(*ports.CreateUserInput)
		stub    func(*stubRecords)
		wantErr error
	}{
		{
			name:    "profile required",
			input:   func(in *ports.CreateUserInput) { in.ProfileID = "" },
			stub:    func(*stubRecords) {},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "organisation unreadable",
			input:   func(*ports.CreateUserInput) {},
			stub:    func(s *stubRecords) { s.orgErr = boom },
			wantErr: boom,
		},
		{
			name:    "create fails",
			input:   func(*ports.CreateUserInput) {},
			stub:    func(s *stubRecords) { s.createErr = func(string, int) error { return boom } },
			wantErr: boom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := &stubRecords{}
			tt.stub(records)
			apex := &stubApex{}
			svc := NewUserService(records, apex, discardLogger)

			input := validCreateInput()
			input.ResetPassword = true
			tt.input(&input)

			report, err := svc.CreateUser(context.Background(), input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if report != nil || len(records.created) != 0 || len(apex.scripts) != 0 {
				t.Errorf("nothing may be created on failure: report=%v created=%v apex=%v", report, records.created, apex.scripts)
			}
		})
	}
}

func TestUserService_ProfilesAndRoles(t *testing.T) {
	records := &stubRecords{
		responses: []queryResponse{
			{match: "FROM Profile", rows: `[{"Id":"00e000000000001","Name":"Standard User","UserLicenseId":"100000000000001","UserLicense":{"Name":"Salesforce"}}]`},
			{match: "FROM UserRole", rows: `[{"Id":"00E000000000001","Name":"CEO","DeveloperName":"CEO"}]`},
		},
	}
	svc := NewUserService(records, &stubApex{}, discardLogger)

	profiles, err := svc.Profiles(context.Background())
	if err != nil {
		t.Fatalf("profiles: %v", err)
	}
	if len(profiles) != 1 || profiles[0].UserLicense == nil || profiles[0].UserLicense.Name != "Salesforce" {
		t.Errorf("unexpected profiles: %+v", profiles)
	}

	roles, err := svc.Roles(context.Background())
	if err != nil {
		t.Fatalf("roles: %v", err)
	}
	if len(roles) != 1 || roles[0].DeveloperName != "CEO" {
		t.Errorf("unexpected roles: %+v", roles)
	}
}
