package ports

import (
	"context"

	"github.com/sfniknax/niknax/internal/core/domain"
)

// LaunchRequest is sent by an injected button to open a popup window.
type LaunchRequest struct {
	SenderURL  string
	Page       domain.Page
	ObjectName string // optional
	FieldName  string // optional
}

// Launch tells the caller which window to open and how to authenticate it.
type Launch struct {
	Window   domain.WindowContext
	Size     domain.PopupSize
	Token    string
	PopupURL string
}

// LaunchService is the privileged coordinator between host pages and popups.
type LaunchService interface {
	Launch(ctx context.Context, req LaunchRequest) (*Launch, error)
	RegisterSession(ctx context.Context, host, sessionID string) error
}

// SessionStore resolves the CRM session cookie for an API host.
// An unknown host yields an empty id and no error.
type SessionStore interface {
	SessionID(ctx context.Context, host string) (string, error)
	Put(ctx context.Context, host, sessionID string) error
}

// WindowTokenIssuer signs and verifies popup window tokens.
type WindowTokenIssuer interface {
	Issue(win domain.WindowContext) (string, error)
	Parse(token string) (domain.WindowContext, error)
}
