package salesforce

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfniknax/niknax/internal/core/domain"
)

const auditPage = `<html><body>
<div class="pbBody">
  <a href="/setup/org/orgsetupaudit.jsp?setupid=SecurityEvents">refresh</a>
  <a href="/servlet/servlet.SetupAuditTrail?id=00D000000000001&amp;_CONFIRMATIONTOKEN=VmpFPSxN+Q%3D%3D">Download setup audit trail for last six months (Excel .csv file)</a>
</div>
</body></html>`

const auditExport = "\ufeffDate,User,Source Namespace Prefix,Action,Section,Delegate User\n" +
	"\"10/19/2026, 9:15:02 AM PDT\",admin@acme.com,,Changed profile Standard User,Manage Users,\n" +
	"\"10/18/2026, 4:01:44 PM PDT\",ops@acme.com,,Created permission set Sales,Manage Users,admin@acme.com\n"

func TestAuditClient_GetAuditLog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie("sid"); assert.NoError(t, err) {
			assert.Equal(t, testSession, cookie.Value)
		}

		switch r.URL.Path {
		case auditTrailPagePath:
			_, _ = w.Write([]byte(auditPage))
		case auditTrailDownloadPath:
			q := r.URL.Query()
			assert.Equal(t, "00D000000000001", q.Get("id"))
			assert.Equal(t, "VmpFPSxN+Q==", q.Get(confirmationTokenParam))
			assert.Equal(t, "p1", q.Get("isdtp"))
			w.Header().Set("Content-Type", "text/csv")
			_, _ = w.Write([]byte(auditExport))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	entries, err := NewAuditClient(newTestClient(t, srv)).GetAuditLog(context.Background(), "00D000000000001")

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.AuditLogEntry{
		Date:    "10/19/2026, 9:15:02 AM PDT",
		User:    "admin@acme.com",
		Action:  "Changed profile Standard User",
		Section: "Manage Users",
	}, entries[0])
	assert.Equal(t, "admin@acme.com", entries[1].DelegateUser)
}

func TestAuditClient_GetAuditLog_MissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>Insufficient Privileges</body></html>`))
	}))
	defer srv.Close()

	_, err := NewAuditClient(newTestClient(t, srv)).GetAuditLog(context.Background(), "00D000000000001")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidResponse)
}

func TestParseAuditTrail_Empty(t *testing.T) {
	entries, err := parseAuditTrail(nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
