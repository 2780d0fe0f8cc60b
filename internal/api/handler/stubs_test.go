package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sfniknax/niknax/internal/api/middleware"
	"github.com/sfniknax/niknax/internal/core/domain"
	"github.com/sfniknax/niknax/internal/core/ports"
)

type stubFactory struct {
	services *ports.WindowServices
	host     string
	session  string
}

func (f *stubFactory) Services(host, sessionID string) (*ports.WindowServices, error) {
	f.host, f.session = host, sessionID
	return f.services, nil
}

// stubRecords only implements Ping; other calls panic on the nil embed.
type stubRecords struct {
	ports.RecordClient
	pingErr error
}

func (s *stubRecords) Ping(context.Context) error { return s.pingErr }

type stubUsers struct {
	cloneFn  func(ctx context.Context, in ports.CloneUserInput) (*ports.UserReport, error)
	psaFn    func(ctx context.Context, from, to string, opts ports.PermissionSetCloneOptions) ([]domain.CloneResult, error)
	groupsFn func(ctx context.Context, from, to string, t domain.GroupType) ([]domain.CloneResult, error)
	createFn func(ctx context.Context, in ports.CreateUserInput) (*ports.UserReport, error)
	profiles []domain.Profile
	roles    []domain.Role
}

func (s *stubUsers) Clone(ctx context.Context, in ports.CloneUserInput) (*ports.UserReport, error) {
	return s.cloneFn(ctx, in)
}

func (s *stubUsers) CloneUser(context.Context, string, map[string]any) (domain.Record, error) {
	return nil, nil
}

func (s *stubUsers) ClonePermissionSetAssignments(ctx context.Context, from, to string, opts ports.PermissionSetCloneOptions) ([]domain.CloneResult, error) {
	return s.psaFn(ctx, from, to, opts)
}

func (s *stubUsers) CloneGroupMemberships(ctx context.Context, from, to string, t domain.GroupType) ([]domain.CloneResult, error) {
	return s.groupsFn(ctx, from, to, t)
}

func (s *stubUsers) ClonePermissionSetLicenseAssignments(context.Context, string, string) ([]domain.CloneResult, error) {
	return nil, nil
}

func (s *stubUsers) CreateUser(ctx context.Context, in ports.CreateUserInput) (*ports.UserReport, error) {
	return s.createFn(ctx, in)
}

func (s *stubUsers) Profiles(context.Context) ([]domain.Profile, error) { return s.profiles, nil }

func (s *stubUsers) Roles(context.Context) ([]domain.Role, error) { return s.roles, nil }

// stubMemberships records the group type and user every call was made with.
type stubMemberships struct {
	groupType domain.GroupType
	userID    string
	added     []string
	removed   string
	removeErr error
}

func (s *stubMemberships) Groups(_ context.Context, t domain.GroupType) ([]domain.Group, error) {
	s.groupType = t
	return []domain.Group{{ID: "00G000000000001", Name: "Support", Type: t}}, nil
}

func (s *stubMemberships) Memberships(_ context.Context, userID string, t domain.GroupType) ([]domain.GroupMember, error) {
	s.userID, s.groupType = userID, t
	return []domain.GroupMember{{ID: "011000000000001", GroupID: "00G000000000001", UserOrGroupID: userID}}, nil
}

func (s *stubMemberships) AddMemberships(_ context.Context, userID string, t domain.GroupType, groupIDs []string) ([]domain.CloneResult, error) {
	s.userID, s.groupType, s.added = userID, t, groupIDs
	results := make([]domain.CloneResult, 0, len(groupIDs))
	for _, id := range groupIDs {
		results = append(results, domain.CloneResult{Item: id, Type: t.CloneLabel()})
	}
	return results, nil
}

func (s *stubMemberships) RemoveMembership(_ context.Context, userID string, t domain.GroupType, membershipID string) error {
	s.userID, s.groupType, s.removed = userID, t, membershipID
	return s.removeErr
}

type stubPermissions struct {
	fn     func(ctx context.Context, field string, sets []string) ([]domain.PermissionSetFieldAccess, error)
	sets   []domain.PermissionSet
	pathFn func(ctx context.Context, permissionSetID, object string) (string, error)
}

func (s *stubPermissions) FieldAccess(ctx context.Context, field string, sets []string) ([]domain.PermissionSetFieldAccess, error) {
	return s.fn(ctx, field, sets)
}

func (s *stubPermissions) PermissionSets(context.Context) ([]domain.PermissionSet, error) {
	return s.sets, nil
}

func (s *stubPermissions) ObjectSettingsPath(ctx context.Context, permissionSetID, object string) (string, error) {
	return s.pathFn(ctx, permissionSetID, object)
}

type stubAudit struct {
	entries []domain.AuditLogEntry
	err     error
}

func (s *stubAudit) AuditLog(context.Context) ([]domain.AuditLogEntry, error) {
	return s.entries, s.err
}

type stubLaunches struct {
	launchFn   func(ctx context.Context, req ports.LaunchRequest) (*ports.Launch, error)
	registered map[string]string
}

func (s *stubLaunches) Launch(ctx context.Context, req ports.LaunchRequest) (*ports.Launch, error) {
	return s.launchFn(ctx, req)
}

func (s *stubLaunches) RegisterSession(_ context.Context, host, sessionID string) error {
	if s.registered == nil {
		s.registered = map[string]string{}
	}
	s.registered[host] = sessionID
	return nil
}

// newContext builds an echo context for a JSON request, with win injected
// as WindowAuth would when win.SessionID is set.
func newContext(method, target, body string, win domain.WindowContext) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if win.SessionID != "" {
		c.Set(middleware.ContextKeyWindow, win)
	}
	return e, c, rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["success"] != true {
		t.Fatalf("expected success envelope, got %s", rec.Body.String())
	}
	return resp
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	return he.Code
}

var testWindow = domain.WindowContext{
	WindowID:  "win-1",
	Host:      "acme.my.salesforce.com",
	SessionID: "00Dxx!sid",
	Page:      domain.PageCloneUser,
	RecordID:  "005000000000001AAA",
}
