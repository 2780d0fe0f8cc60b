package salesforce

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/beevik/etree"

	"github.com/sfniknax/niknax/internal/api/metrics"
	"github.com/sfniknax/niknax/internal/core/domain"
)

// The Metadata API readMetadata call accepts at most ten names per request.
const metadataBatchSize = 10

const (
	soapEnvelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"
	xsiNS          = "http://www.w3.org/2001/XMLSchema-instance"
	metadataNS     = "http://soap.sforce.com/2006/04/metadata"
)

// MetadataClient reads declarative metadata over the SOAP Metadata API.
type MetadataClient struct {
	client *Client
}

func NewMetadataClient(client *Client) *MetadataClient {
	return &MetadataClient{client: client}
}

// ReadMetadata reads names of metadataType in batches of ten and returns the
// records elements of every batch, batches in input order. progress, when
// set, is called before each batch with the number of records read so far.
func (m *MetadataClient) ReadMetadata(ctx context.Context, metadataType string, names []string, progress func(read int)) ([]*etree.Element, error) {
	records := make([]*etree.Element, 0, len(names))
	for start := 0; start < len(names); start += metadataBatchSize {
		end := min(start+metadataBatchSize, len(names))

		if progress != nil {
			progress(len(records))
		}

		batch, err := m.readBatch(ctx, metadataType, names[start:end])
		if err != nil {
			return nil, err
		}
		records = append(records, batch...)
	}
	return records, nil
}

func (m *MetadataClient) readBatch(ctx context.Context, metadataType string, names []string) ([]*etree.Element, error) {
	envelope, err := m.readMetadataEnvelope(metadataType, names)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	header := http.Header{}
	header.Set("Content-Type", "text/xml")
	header.Set("SOAPAction", "''")

	metrics.MetadataBatchesTotal.Inc()
	target := m.client.URL("/services/Soap/m/"+m.client.opts.MetadataAPIVersion, nil)
	status, body, err := m.client.send(ctx, "metadata.read", http.MethodPost, target, header, bytes.NewReader(envelope))
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	parseErr := doc.ReadFromBytes(body)

	if !isSuccess(status) {
		code := "unknown"
		if parseErr == nil {
			if fc := descend(doc.Root(), "Body", "Fault", "faultcode"); len(fc) > 0 && strings.TrimSpace(fc[0].Text()) != "" {
				code = strings.TrimSpace(fc[0].Text())
			}
		}
		return nil, domain.NewRemoteError(domain.ErrSOAPFault, status, "SOAP operation failed with fault code: %s", code)
	}
	if parseErr != nil {
		return nil, domain.NewRemoteError(domain.ErrInvalidResponse, status, "read metadata: %s", parseErr.Error())
	}
	if root := doc.Root(); root == nil || root.Tag != "Envelope" {
		return nil, domain.NewRemoteError(domain.ErrInvalidResponse, status, "read metadata: response is not a SOAP envelope")
	}

	return descend(doc.Root(), "Body", "readMetadataResponse", "result", "records"), nil
}

func (m *MetadataClient) readMetadataEnvelope(metadataType string, names []string) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	env := doc.CreateElement("soapenv:Envelope")
	env.CreateAttr("xmlns:soapenv", soapEnvelopeNS)
	env.CreateAttr("xmlns:xsi", xsiNS)

	hdr := env.CreateElement("soapenv:Header")
	hdr.CreateAttr("xmlns", metadataNS)
	hdr.CreateElement("SessionHeader").CreateElement("sessionId").SetText(m.client.SessionID())

	body := env.CreateElement("soapenv:Body")
	body.CreateAttr("xmlns", metadataNS)
	read := body.CreateElement("readMetadata")
	read.CreateElement("type").SetText(metadataType)
	for _, name := range names {
		read.CreateElement("fullNames").SetText(name)
	}

	return doc.WriteToBytes()
}

// ReadPermissionSetFLS returns the read/edit access permissionSet grants on
// field (Object.Field). No entry for the field means no access and is not an
// error.
func (m *MetadataClient) ReadPermissionSetFLS(ctx context.Context, permissionSet, field string) (domain.FieldAccess, error) {
	records, err := m.ReadMetadata(ctx, domain.MetadataTypePermissionSet, []string{permissionSet}, nil)
	if err != nil {
		return domain.FieldAccess{}, err
	}

	rec := recordsByFullName(records)[permissionSet]
	if rec == nil {
		return domain.FieldAccess{}, fmt.Errorf("permission set %q: %w", permissionSet, domain.ErrNotFound)
	}
	return fieldAccess(rec, permissionSet, field)
}

// ReadPermissionSetsFLS reports access on field for every permission set in
// one batched read. Per permission set failures land in the row's Error.
func (m *MetadataClient) ReadPermissionSetsFLS(ctx context.Context, permissionSets []string, field string) ([]domain.PermissionSetFieldAccess, error) {
	records, err := m.ReadMetadata(ctx, domain.MetadataTypePermissionSet, permissionSets, func(read int) {
		m.client.log.Debug().Int("read", read).Int("total", len(permissionSets)).Msg("reading permission sets")
	})
	if err != nil {
		return nil, err
	}

	byName := recordsByFullName(records)
	rows := make([]domain.PermissionSetFieldAccess, 0, len(permissionSets))
	for _, name := range permissionSets {
		row := domain.PermissionSetFieldAccess{PermissionSet: name, Field: field}
		rec := byName[name]
		if rec == nil {
			row.Error = fmt.Sprintf("permission set %q: %v", name, domain.ErrNotFound)
			rows = append(rows, row)
			continue
		}
		access, err := fieldAccess(rec, name, field)
		if err != nil {
			row.Error = err.Error()
		}
		row.Access = access
		rows = append(rows, row)
	}
	return rows, nil
}

func fieldAccess(rec *etree.Element, permissionSet, field string) (domain.FieldAccess, error) {
	for _, fp := range childrenByTag(rec, "fieldPermissions") {
		fields := childrenByTag(fp, "field")
		if len(fields) > 1 {
			return domain.FieldAccess{}, fmt.Errorf("permission set %q: fieldPermissions entry has %d field elements: %w",
				permissionSet, len(fields), domain.ErrMalformedMetadata)
		}
		if len(fields) == 0 || strings.TrimSpace(fields[0].Text()) != field {
			continue
		}
		return domain.FieldAccess{
			Read: boolChild(fp, "readable"),
			Edit: boolChild(fp, "editable"),
		}, nil
	}
	return domain.FieldAccess{}, nil
}

// recordsByFullName indexes records by their fullName. Records without a
// fullName are the server's placeholders for names that do not exist.
func recordsByFullName(records []*etree.Element) map[string]*etree.Element {
	out := make(map[string]*etree.Element, len(records))
	for _, rec := range records {
		names := childrenByTag(rec, "fullName")
		if len(names) == 0 {
			continue
		}
		out[strings.TrimSpace(names[0].Text())] = rec
	}
	return out
}

func boolChild(el *etree.Element, tag string) bool {
	children := childrenByTag(el, tag)
	return len(children) > 0 && strings.TrimSpace(children[0].Text()) == "true"
}

func childrenByTag(el *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, ch := range el.ChildElements() {
		if ch.Tag == tag {
			out = append(out, ch)
		}
	}
	return out
}

// descend walks el's children by local name, fanning out at every step.
func descend(el *etree.Element, path ...string) []*etree.Element {
	if el == nil {
		return nil
	}
	current := []*etree.Element{el}
	for _, tag := range path {
		var next []*etree.Element
		for _, e := range current {
			next = append(next, childrenByTag(e, tag)...)
		}
		current = next
	}
	return current
}
