package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfniknax/niknax/internal/core/domain"
)

func TestIssuer_RoundTrip(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	win := domain.WindowContext{
		WindowID:   "6a1f0c8e-3c1b-4f7e-9f39-0c6d2f1b7a11",
		Host:       "acme.my.salesforce.com",
		SessionID:  "must-not-leak",
		Page:       domain.PagePermissionSetEditField,
		ObjectName: "Account",
		FieldName:  "Rating",
	}

	signed, err := issuer.Issue(win)
	require.NoError(t, err)

	got, err := issuer.Parse(signed)
	require.NoError(t, err)

	want := win
	want.SessionID = ""
	assert.Equal(t, want, got)
}

func TestIssuer_SessionNotInClaims(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	signed, err := issuer.Issue(domain.WindowContext{Host: "acme.my.salesforce.com", SessionID: "00Dxx!secret"})
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(signed, claims)
	require.NoError(t, err)
	for _, v := range claims {
		assert.NotEqual(t, "00Dxx!secret", v)
	}
}

func TestIssuer_Expired(t *testing.T) {
	issuer := NewIssuer("secret", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	signed, err := issuer.Issue(domain.WindowContext{Host: "acme.my.salesforce.com"})
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Parse(signed)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestIssuer_WrongSecret(t *testing.T) {
	signed, err := NewIssuer("secret", time.Hour).Issue(domain.WindowContext{Host: "acme.my.salesforce.com"})
	require.NoError(t, err)

	_, err = NewIssuer("other", time.Hour).Parse(signed)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestIssuer_RejectsOtherAlgorithms(t *testing.T) {
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"host": "acme.my.salesforce.com",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewIssuer("secret", time.Hour).Parse(unsigned)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestIssuer_MissingHost(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	signed, err := issuer.Issue(domain.WindowContext{Page: domain.PageCloneUser})
	require.NoError(t, err)

	_, err = issuer.Parse(signed)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
