package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sfniknax/niknax/internal/api/metrics"
	"github.com/sfniknax/niknax/internal/core/domain"
	"github.com/sfniknax/niknax/internal/core/ports"
	"github.com/sfniknax/niknax/internal/pkg/poll"
)

// LaunchService resolves the session behind a host page and opens popup
// windows for it. It is the only component that reads session cookies.
type LaunchService struct {
	sessions  ports.SessionStore
	tokens    ports.WindowTokenIssuer
	popupURL  string
	poll      poll.Options
	logger    zerolog.Logger
	newWindow func() string
}

func NewLaunchService(sessions ports.SessionStore, tokens ports.WindowTokenIssuer, popupURL string, pollOpts poll.Options, logger zerolog.Logger) *LaunchService {
	return &LaunchService{
		sessions:  sessions,
		tokens:    tokens,
		popupURL:  popupURL,
		poll:      pollOpts,
		logger:    logger,
		newWindow: uuid.NewString,
	}
}

// Launch builds the window for req. The session cookie of the canonical API
// host is polled for, since the host page may still be signing in.
func (s *LaunchService) Launch(ctx context.Context, req ports.LaunchRequest) (*ports.Launch, error) {
	size, ok := req.Page.PopupSize()
	if !ok {
		return nil, fmt.Errorf("page %q: %w", req.Page, domain.ErrInvalidInput)
	}

	sender, err := url.Parse(req.SenderURL)
	if err != nil || sender.Hostname() == "" {
		return nil, fmt.Errorf("sender url %q: %w", req.SenderURL, domain.ErrInvalidInput)
	}
	host := domain.CanonicalAPIHost(sender.Hostname())

	sessionID, err := s.awaitSession(ctx, host)
	if err != nil {
		return nil, err
	}

	win := domain.WindowContext{
		WindowID:   s.newWindow(),
		Host:       host,
		SessionID:  sessionID,
		Page:       req.Page,
		RecordID:   senderRecordID(sender),
		ObjectName: req.ObjectName,
		FieldName:  req.FieldName,
	}

	token, err := s.tokens.Issue(win)
	if err != nil {
		return nil, err
	}

	metrics.LaunchesTotal.WithLabelValues(string(req.Page)).Inc()
	s.logger.Info().
		Str("window_id", win.WindowID).
		Str("host", host).
		Str("page", string(req.Page)).
		Str("record_id", win.RecordID).
		Msg("window launched")

	return &ports.Launch{
		Window:   win,
		Size:     size,
		Token:    token,
		PopupURL: s.windowURL(win.Page, token),
	}, nil
}

func (s *LaunchService) awaitSession(ctx context.Context, host string) (string, error) {
	var sessionID string
	opts := s.poll
	opts.OnTimeout = func() {
		s.logger.Warn().Str("host", host).Msg("no session cookie for host")
	}

	err := poll.Until(ctx, opts, func(ctx context.Context) (bool, error) {
		id, err := s.sessions.SessionID(ctx, host)
		if err != nil {
			return false, err
		}
		sessionID = id
		return id != "", nil
	})
	if errors.Is(err, poll.ErrTimeout) {
		return "", fmt.Errorf("host %s: %w", host, domain.ErrSessionUnavailable)
	}
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

func (s *LaunchService) windowURL(page domain.Page, token string) string {
	q := url.Values{"page": {string(page)}, "token": {token}}
	return s.popupURL + "?" + q.Encode()
}

// RegisterSession records the session cookie seen on host.
func (s *LaunchService) RegisterSession(ctx context.Context, host, sessionID string) error {
	return s.sessions.Put(ctx, domain.CanonicalAPIHost(host), sessionID)
}

// senderRecordID finds the record id in the page path, or in the classic
// page address that Lightning setup pages carry in their query.
func senderRecordID(sender *url.URL) string {
	if id := domain.FindRecordID(sender.Path); id != "" {
		return id
	}
	if address := sender.Query().Get("address"); address != "" {
		if inner, err := url.Parse(address); err == nil {
			return domain.FindRecordID(inner.Path)
		}
	}
	return ""
}
