package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/recipebook/recipebook-be/internal/models"
)

// keyBytes is the entropy of a token key; hex-encoded it yields 40 characters.
const keyBytes = 20

// NewKey mints a cryptographically random opaque token key.
func NewKey() (string, error) {
	buf := make([]byte, keyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Authenticator resolves a bearer token key to its owning user.
type Authenticator interface {
	Authenticate(key string) (models.User, error)
}

type contextKey string

const (
	userKey  = contextKey("authUser")
	tokenKey = contextKey("authToken")
)

// UserFrom returns the authenticated user stored in the request context.
func UserFrom(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey).(models.User)
	return user, ok
}

// TokenFrom returns the token key the request authenticated with.
func TokenFrom(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(tokenKey).(string)
	return key, ok
}

// KeyFromRequest extracts the token key from the Authorization header.
// Both "Token <key>" and "Bearer <key>" schemes are accepted.
func KeyFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return ""
	}
	scheme := strings.ToLower(parts[0])
	if scheme != "token" && scheme != "bearer" {
		return ""
	}
	return parts[1]
}

// Middleware authenticates requests against the token store.
type Middleware struct {
	auth Authenticator
}

// NewMiddleware creates an auth Middleware backed by the given Authenticator.
func NewMiddleware(auth Authenticator) *Middleware {
	return &Middleware{auth: auth}
}

// RequireAuth rejects requests that do not carry a valid token. The resolved
// user and the presented key are passed down via the request context, never
// read from ambient state.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := KeyFromRequest(r)
		if key == "" {
			unauthorized(w, "Authentication credentials were not provided")
			return
		}

		user, err := m.auth.Authenticate(key)
		if err != nil {
			unauthorized(w, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		ctx = context.WithValue(ctx, tokenKey, key)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Optional resolves a token when one is presented but lets anonymous
// requests through untouched. Invalid tokens are treated as anonymous.
func (m *Middleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := KeyFromRequest(r)
		if key != "" {
			if user, err := m.auth.Authenticate(key); err == nil {
				ctx := context.WithValue(r.Context(), userKey, user)
				ctx = context.WithValue(ctx, tokenKey, key)
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
