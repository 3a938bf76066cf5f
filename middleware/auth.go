package middleware

import (
	"context"
	"errors"
	"net/http"

	"bloglist/internal/auth"
	"bloglist/internal/errresponse"
	"bloglist/pkg/logger"

	"github.com/go-chi/render"
)

type contextKey string

const IdentityKey contextKey = "identity"

// Verifier decodes a bearer credential into the acting user.
type Verifier interface {
	Verify(token string) (auth.Identity, error)
}

type authOptions struct {
	queryToken bool
}

// Option tunes Authenticate.
type Option func(*authOptions)

// AllowQueryToken lets the "token" query parameter stand in for the
// Authorization header. Browsers cannot set headers on a WebSocket handshake.
func AllowQueryToken() Option {
	return func(o *authOptions) {
		o.queryToken = true
	}
}

// Authenticate rejects requests without a valid bearer token with 401 and
// stores the decoded identity in the request context otherwise. Only the
// Authorization header is read unless AllowQueryToken is given.
func Authenticate(v Verifier, opts ...Option) func(http.Handler) http.Handler {
	var o authOptions
	for _, opt := range opts {
		opt(&o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := auth.TokenFromHeader(r.Header.Get("Authorization"))
			if !ok && o.queryToken {
				token, ok = auth.TokenFromRequest(r)
			}
			if !ok {
				_ = render.Render(w, r, errresponse.ErrUnauthorized("token missing or invalid"))
				return
			}

			identity, err := v.Verify(token)
			if err != nil {
				if !errors.Is(err, auth.ErrInvalidToken) && !errors.Is(err, auth.ErrMissingToken) {
					logger.Sugar.Errorf("Unexpected token verification error: %v", err)
				}
				logger.Sugar.Debugf("Rejected token: %v", err)
				_ = render.Render(w, r, errresponse.ErrUnauthorized("token missing or invalid"))
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFrom returns the identity stored by Authenticate.
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(auth.Identity)
	return identity, ok
}
