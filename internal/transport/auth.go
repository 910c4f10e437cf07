package transport

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

type callerKey struct{}

// TokenVerifier maps a bearer token to a caller name.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// CallerFromContext returns the authenticated caller, if present.
func CallerFromContext(ctx context.Context) (string, bool) {
	caller, ok := ctx.Value(callerKey{}).(string)
	return caller, ok
}

type staticToken struct {
	caller string
	token  []byte
}

// StaticTokens verifies against a fixed token list. Entries are either a bare
// token or "caller=token".
type StaticTokens struct {
	tokens []staticToken
}

// NewStaticTokens builds a verifier from configured token entries.
func NewStaticTokens(entries []string) *StaticTokens {
	v := &StaticTokens{}
	for i, entry := range entries {
		caller, token, ok := strings.Cut(entry, "=")
		if !ok {
			caller, token = fmt.Sprintf("client-%d", i+1), entry
		}
		if token = strings.TrimSpace(token); token == "" {
			continue
		}
		v.tokens = append(v.tokens, staticToken{caller: strings.TrimSpace(caller), token: []byte(token)})
	}
	return v
}

// Verify implements TokenVerifier.
func (v *StaticTokens) Verify(_ context.Context, token string) (string, error) {
	for _, t := range v.tokens {
		if subtle.ConstantTimeCompare(t.token, []byte(token)) == 1 {
			return t.caller, nil
		}
	}
	return "", ErrUnauthorized
}

// AuthMiddleware enforces bearer token authentication.
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			caller, err := verifier.Verify(r.Context(), token)
			if err != nil || caller == "" {
				http.Error(w, "invalid bearer token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), callerKey{}, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
