package salesforce

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sfniknax/niknax/internal/core/domain"
)

const (
	auditTrailPagePath     = "/setup/org/orgsetupaudit.jsp"
	auditTrailDownloadPath = "/servlet/servlet.SetupAuditTrail"
	confirmationTokenParam = "_CONFIRMATIONTOKEN"
)

// AuditClient downloads the setup audit trail. The export is only reachable
// through the setup UI, so it authenticates with the sid cookie as well.
type AuditClient struct {
	client *Client
}

func NewAuditClient(client *Client) *AuditClient {
	return &AuditClient{client: client}
}

// GetAuditLog loads the audit trail setup page to obtain a confirmation
// token, then downloads and parses the CSV export.
func (a *AuditClient) GetAuditLog(ctx context.Context, orgID string) ([]domain.AuditLogEntry, error) {
	header := http.Header{}
	header.Set("Cookie", "sid="+a.client.SessionID())

	page, err := a.client.fetch(ctx, "audit.page", http.MethodGet,
		a.client.URL(auditTrailPagePath, url.Values{"setupid": {"SecurityEvents"}}), header, nil)
	if err != nil {
		return nil, err
	}

	token, err := confirmationToken(page)
	if err != nil {
		return nil, err
	}

	export, err := a.client.fetch(ctx, "audit.download", http.MethodGet,
		a.client.URL(auditTrailDownloadPath, url.Values{
			"id":                   {orgID},
			confirmationTokenParam: {token},
			"isdtp":                {"p1"},
		}), header, nil)
	if err != nil {
		return nil, err
	}

	return parseAuditTrail(export)
}

// confirmationToken finds the download link on the audit trail page. The raw
// query is read by hand because tokens may contain "+", which url.Values
// would turn into a space.
func confirmationToken(page []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", domain.NewRemoteError(domain.ErrInvalidResponse, http.StatusOK, "audit trail page: %s", err.Error())
	}

	var token string
	doc.Find(`a[href*="servlet.SetupAuditTrail"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		u, err := url.Parse(href)
		if err != nil {
			return true
		}
		for _, pair := range strings.Split(u.RawQuery, "&") {
			value, ok := strings.CutPrefix(pair, confirmationTokenParam+"=")
			if !ok {
				continue
			}
			if unescaped, err := url.PathUnescape(value); err == nil && unescaped != "" {
				token = unescaped
				return false
			}
		}
		return true
	})

	if token == "" {
		return "", domain.NewRemoteError(domain.ErrInvalidResponse, http.StatusOK, "audit trail page: %s not found", confirmationTokenParam)
	}
	return token, nil
}

func parseAuditTrail(export []byte) ([]domain.AuditLogEntry, error) {
	r := csv.NewReader(bytes.NewReader(export))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []domain.AuditLogEntry{}, nil
	}
	if err != nil {
		return nil, domain.NewRemoteError(domain.ErrInvalidResponse, http.StatusOK, "audit trail export: %s", err.Error())
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	get := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	entries := make([]domain.AuditLogEntry, 0)
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, domain.NewRemoteError(domain.ErrInvalidResponse, http.StatusOK, "audit trail export: %s", err.Error())
		}
		entries = append(entries, domain.AuditLogEntry{
			Date:                  get(row, "Date"),
			User:                  get(row, "User"),
			SourceNamespacePrefix: get(row, "Source Namespace Prefix"),
			Action:                get(row, "Action"),
			Section:               get(row, "Section"),
			DelegateUser:          get(row, "Delegate User"),
		})
	}
	return entries, nil
}
