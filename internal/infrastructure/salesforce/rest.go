package salesforce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/sfniknax/niknax/internal/core/domain"
)

const organisationQuery = "SELECT Id, DefaultLocaleSidKey, TimeZoneSidKey, LanguageLocaleKey, OrganizationType, IsSandbox FROM Organization"

// RESTClient implements ports.RecordClient on the object REST API.
type RESTClient struct {
	client *Client
}

func NewRESTClient(client *Client) *RESTClient {
	return &RESTClient{client: client}
}

func (r *RESTClient) dataPath(suffix string) string {
	return "/services/data/v" + r.client.opts.APIVersion + suffix
}

func (r *RESTClient) objectPath(objectType string, parts ...string) string {
	p := r.dataPath("/sobjects/" + url.PathEscape(objectType))
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

type queryPage struct {
	TotalSize      int               `json:"totalSize"`
	Done           bool              `json:"done"`
	NextRecordsURL string            `json:"nextRecordsUrl"`
	Records        []json.RawMessage `json:"records"`
}

// Query runs soql and decodes the records of every page into out.
func (r *RESTClient) Query(ctx context.Context, soql string, out any) error {
	target := r.client.URL(r.dataPath("/query"), url.Values{"q": {soql}})

	records := make([]json.RawMessage, 0)
	for target != "" {
		body, err := r.client.fetch(ctx, "query", http.MethodGet, target, nil, nil)
		if err != nil {
			return err
		}

		var page queryPage
		if err := json.Unmarshal(body, &page); err != nil {
			return domain.NewRemoteError(domain.ErrInvalidResponse, http.StatusOK, "query: %s", err.Error())
		}
		records = append(records, page.Records...)

		target = ""
		if !page.Done && page.NextRecordsURL != "" {
			target = r.client.URL(page.NextRecordsURL, nil)
		}
	}

	joined, err := json.Marshal(records)
	if err != nil {
		return domain.NewRemoteError(domain.ErrInvalidResponse, http.StatusOK, "query: %s", err.Error())
	}
	if err := json.Unmarshal(joined, out); err != nil {
		return domain.NewRemoteError(domain.ErrInvalidResponse, http.StatusOK, "query: %s", err.Error())
	}
	return nil
}

// Create inserts record and returns the new id. Id and attributes are
// stripped from the payload since the server rejects them on insert.
func (r *RESTClient) Create(ctx context.Context, objectType string, record domain.Record) (string, error) {
	payload, err := json.Marshal(record.Without(domain.FieldID, domain.FieldAttributes))
	if err != nil {
		return "", fmt.Errorf("create %s: %w: %v", objectType, domain.ErrInvalidInput, err)
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")

	body, err := r.client.fetch(ctx, "create", http.MethodPost, r.client.URL(r.objectPath(objectType), nil), header, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}

	id := gjson.GetBytes(body, "id").String()
	if id == "" {
		return "", domain.NewRemoteError(domain.ErrInvalidResponse, http.StatusCreated, "create %s: response carried no id", objectType)
	}
	return id, nil
}

// Delete removes a record. Success is decided by the HTTP status alone.
func (r *RESTClient) Delete(ctx context.Context, objectType, id string) error {
	_, err := r.client.fetch(ctx, "delete", http.MethodDelete, r.client.URL(r.objectPath(objectType, id), nil), nil, nil)
	return err
}

// GetObjectFields returns the field descriptors of objectType.
func (r *RESTClient) GetObjectFields(ctx context.Context, objectType string) ([]domain.Field, error) {
	body, err := r.client.fetch(ctx, "describe", http.MethodGet, r.client.URL(r.objectPath(objectType, "describe"), nil), nil, nil)
	if err != nil {
		return nil, err
	}

	var describe struct {
		Fields []domain.Field `json:"fields"`
	}
	if err := json.Unmarshal(body, &describe); err != nil {
		return nil, domain.NewRemoteError(domain.ErrInvalidResponse, http.StatusOK, "describe %s: %s", objectType, err.Error())
	}
	return describe.Fields, nil
}

// GetOrganisation returns the org-wide locale defaults.
func (r *RESTClient) GetOrganisation(ctx context.Context) (*domain.Organisation, error) {
	var orgs []domain.Organisation
	if err := r.Query(ctx, organisationQuery, &orgs); err != nil {
		return nil, err
	}
	if len(orgs) == 0 {
		return nil, fmt.Errorf("organisation: %w", domain.ErrNotFound)
	}
	return &orgs[0], nil
}

// Ping checks that the session is still accepted.
func (r *RESTClient) Ping(ctx context.Context) error {
	_, err := r.client.fetch(ctx, "ping", http.MethodGet, r.client.URL(r.dataPath(""), nil), nil, nil)
	return err
}
