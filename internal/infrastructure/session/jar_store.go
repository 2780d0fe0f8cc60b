package session

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/sfniknax/niknax/internal/core/domain"
)

// CookieName is the CRM session cookie.
const CookieName = "sid"

// JarStore keeps session cookies in memory, scoped per host the way a
// browser cookie jar would.
type JarStore struct {
	jar *cookiejar.Jar
}

func NewJarStore() (*JarStore, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("session jar: %w", err)
	}
	return &JarStore{jar: jar}, nil
}

func hostURL(host string) (*url.URL, error) {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" || strings.ContainsAny(host, "/?#") {
		return nil, fmt.Errorf("session host %q: %w", host, domain.ErrInvalidInput)
	}
	return &url.URL{Scheme: "https", Host: host, Path: "/"}, nil
}

// SessionID returns the sid cookie for host, or "" when none is stored.
func (s *JarStore) SessionID(_ context.Context, host string) (string, error) {
	u, err := hostURL(host)
	if err != nil {
		return "", err
	}
	for _, c := range s.jar.Cookies(u) {
		if c.Name == CookieName {
			return c.Value, nil
		}
	}
	return "", nil
}

// Put stores sessionID as the host-only sid cookie of host.
func (s *JarStore) Put(_ context.Context, host, sessionID string) error {
	u, err := hostURL(host)
	if err != nil {
		return err
	}
	if sessionID == "" {
		return fmt.Errorf("session id: %w", domain.ErrInvalidInput)
	}
	s.jar.SetCookies(u, []*http.Cookie{{
		Name:     CookieName,
		Value:    sessionID,
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
	}})
	return nil
}
