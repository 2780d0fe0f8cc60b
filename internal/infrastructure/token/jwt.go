package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sfniknax/niknax/internal/core/domain"
)

const DefaultTTL = 8 * time.Hour

// Issuer signs popup window tokens with HS256. The session id never goes
// into a token; it is resolved from the session store per request.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *Issuer) Issue(win domain.WindowContext) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"jti":  win.WindowID,
		"host": win.Host,
		"page": string(win.Page),
		"iat":  now.Unix(),
		"exp":  now.Add(i.ttl).Unix(),
	}
	if win.RecordID != "" {
		claims["record_id"] = win.RecordID
	}
	if win.ObjectName != "" {
		claims["object"] = win.ObjectName
	}
	if win.FieldName != "" {
		claims["field"] = win.FieldName
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign window token: %w", err)
	}
	return signed, nil
}

func (i *Issuer) Parse(token string) (domain.WindowContext, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !tkn.Valid {
		return domain.WindowContext{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	str := func(key string) string {
		s, _ := claims[key].(string)
		return s
	}
	win := domain.WindowContext{
		WindowID:   str("jti"),
		Host:       str("host"),
		Page:       domain.Page(str("page")),
		RecordID:   str("record_id"),
		ObjectName: str("object"),
		FieldName:  str("field"),
	}
	if win.Host == "" {
		return domain.WindowContext{}, fmt.Errorf("%w: host claim missing", domain.ErrInvalidToken)
	}
	return win, nil
}
