// Package auth extracts bearer credentials from requests and issues and
// verifies the HMAC-signed tokens that carry a user's identity.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("token missing")
	ErrInvalidToken = errors.New("token invalid")
	// ErrUnknownUser means a valid token names a user that does not exist.
	ErrUnknownUser = errors.New("user not found")
)

const bearerPrefix = "bearer "

// Identity is the acting user decoded from a verified token.
type Identity struct {
	UserID   string
	Username string
}

type claims struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenFromHeader returns the credential of an Authorization header value
// whose scheme is "bearer" in any letter case.
func TokenFromHeader(value string) (string, bool) {
	if len(value) < len(bearerPrefix) || !strings.EqualFold(value[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(value[len(bearerPrefix):])
	if token == "" {
		return "", false
	}
	return token, true
}

// TokenFromRequest looks at the Authorization header first and falls back
// to the "token" query parameter, which browsers' WebSocket API needs.
func TokenFromRequest(r *http.Request) (string, bool) {
	if token, ok := TokenFromHeader(r.Header.Get("Authorization")); ok {
		return token, true
	}
	if token := r.URL.Query().Get("token"); token != "" {
		return token, true
	}
	return "", false
}

// Issuer signs and verifies tokens with a shared secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for the given user.
func (i *Issuer) Issue(userID, username string) (string, error) {
	now := i.now()
	c := claims{
		ID:       userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token and decodes its identity.
func (i *Issuer) Verify(token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrMissingToken
	}

	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !parsed.Valid {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if c.ID == "" {
		return Identity{}, fmt.Errorf("%w: id claim is missing", ErrInvalidToken)
	}

	return Identity{UserID: c.ID, Username: c.Username}, nil
}
