package salesforce

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/sfniknax/niknax/internal/api/metrics"
	"github.com/sfniknax/niknax/internal/core/domain"
)

const (
	DefaultAPIVersion         = "58.0"
	DefaultMetadataAPIVersion = "60.0"
)

// Options configures the clients built on top of Client.
type Options struct {
	APIVersion         string
	MetadataAPIVersion string
	// Timeout bounds every call. Zero leaves the platform default in place.
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client sends requests to one CRM host on behalf of one session.
type Client struct {
	baseURL   *url.URL
	sessionID string
	http      *http.Client
	log       zerolog.Logger
	opts      Options
}

// NewClient returns a Client for host, which is either a bare hostname (https
// is assumed) or a full base URL.
func NewClient(host, sessionID string, opts Options) (*Client, error) {
	base, err := baseURL(host)
	if err != nil {
		return nil, fmt.Errorf("salesforce client: %w: %v", domain.ErrInvalidInput, err)
	}
	if opts.APIVersion == "" {
		opts.APIVersion = DefaultAPIVersion
	}
	if opts.MetadataAPIVersion == "" {
		opts.MetadataAPIVersion = DefaultMetadataAPIVersion
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		baseURL:   base,
		sessionID: sessionID,
		http:      hc,
		log:       opts.Logger,
		opts:      opts,
	}, nil
}

func baseURL(host string) (*url.URL, error) {
	if host == "" {
		return nil, fmt.Errorf("empty host")
	}
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, err
	}
	if u.Host == "" {
		return nil, fmt.Errorf("host missing in %q", host)
	}
	return &url.URL{Scheme: u.Scheme, Host: u.Host}, nil
}

// SessionID returns the session the client authenticates with.
func (c *Client) SessionID() string {
	return c.sessionID
}

// URL resolves path and query against the server base URL.
func (c *Client) URL(path string, query url.Values) string {
	ref, err := url.Parse(path)
	if err != nil {
		ref = &url.URL{Path: path}
	}
	if len(query) > 0 {
		ref.RawQuery = query.Encode()
	}
	return c.baseURL.ResolveReference(ref).String()
}

// Do sends an authenticated request. A "+" anywhere in rawURL is sent as
// "%20" so that encoded spaces are not read back as literal plus signs.
// header is cloned, never modified. No retry is attempted.
func (c *Client) Do(ctx context.Context, method, rawURL string, header http.Header, body io.Reader) (*http.Response, error) {
	target := strings.ReplaceAll(rawURL, "+", "%20")

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, domain.NewRemoteError(domain.ErrTransport, 0, "%s", err.Error())
	}
	req.Header = header.Clone()
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	req.Header.Set("Authorization", "Bearer "+c.sessionID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.NewRemoteError(domain.ErrTransport, 0, "%s", err.Error())
	}
	return resp, nil
}

// send performs the call, reads the whole body and records metrics. Only
// transport failures are returned as errors; the status is left to the caller.
func (c *Client) send(ctx context.Context, op, method, target string, header http.Header, body io.Reader) (int, []byte, error) {
	start := time.Now()
	defer func() {
		metrics.RemoteCallDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	resp, err := c.Do(ctx, method, target, header, body)
	if err != nil {
		metrics.RemoteCallsTotal.WithLabelValues(op, metrics.OutcomeTransportError).Inc()
		c.log.Warn().Err(err).Str("op", op).Str("method", method).Msg("crm call failed")
		return 0, nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RemoteCallsTotal.WithLabelValues(op, metrics.OutcomeTransportError).Inc()
		return resp.StatusCode, nil, domain.NewRemoteError(domain.ErrTransport, resp.StatusCode, "%s", err.Error())
	}

	outcome := metrics.OutcomeSuccess
	if !isSuccess(resp.StatusCode) {
		outcome = metrics.OutcomeHTTPError
	}
	metrics.RemoteCallsTotal.WithLabelValues(op, outcome).Inc()

	c.log.Debug().
		Str("op", op).
		Str("method", method).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("crm call")

	return resp.StatusCode, payload, nil
}

// fetch is send plus the REST error convention: a non-2xx body is an array
// of {message} objects, joined by newline into the error message.
func (c *Client) fetch(ctx context.Context, op, method, target string, header http.Header, body io.Reader) ([]byte, error) {
	status, payload, err := c.send(ctx, op, method, target, header, body)
	if err != nil {
		return nil, err
	}
	if !isSuccess(status) {
		return nil, &domain.RemoteError{Kind: domain.ErrRemote, Status: status, Message: errorMessage(payload, status)}
	}
	return payload, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func errorMessage(body []byte, status int) string {
	if gjson.ValidBytes(body) {
		parsed := gjson.ParseBytes(body)
		if parsed.IsArray() {
			var msgs []string
			for _, m := range parsed.Get("#.message").Array() {
				if s := m.String(); s != "" {
					msgs = append(msgs, s)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "\n")
			}
		}
	}
	return fmt.Sprintf("%d %s", status, http.StatusText(status))
}
