package auth

import (
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/recipebook/recipebook-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKey(t *testing.T) {
	first, err := NewKey()
	require.NoError(t, err)
	assert.Len(t, first, 40)
	_, err = hex.DecodeString(first)
	assert.NoError(t, err)

	second, err := NewKey()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestKeyFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"token scheme", "Token abc123", "abc123"},
		{"bearer scheme", "Bearer abc123", "abc123"},
		{"case insensitive scheme", "token abc123", "abc123"},
		{"missing header", "", ""},
		{"unknown scheme", "Basic abc123", ""},
		{"no key", "Token", ""},
		{"too many parts", "Token a b", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, KeyFromRequest(r))
		})
	}
}

type fakeAuthenticator struct {
	user models.User
	err  error
}

func (f *fakeAuthenticator) Authenticate(key string) (models.User, error) {
	if f.err != nil {
		return models.User{}, f.err
	}
	return f.user, nil
}

func TestRequireAuth(t *testing.T) {
	user := models.User{ID: "u1", Username: "bob"}
	mw := NewMiddleware(&fakeAuthenticator{user: user})

	var gotUser models.User
	var gotKey string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = UserFrom(r.Context())
		gotKey, _ = TokenFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodPost, "/logout/", nil)
	r.Header.Set("Authorization", "Token sometoken")
	w := httptest.NewRecorder()
	mw.RequireAuth(next).ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", gotUser.ID)
	assert.Equal(t, "sometoken", gotKey)
}

func TestRequireAuth_MissingToken(t *testing.T) {
	mw := NewMiddleware(&fakeAuthenticator{})

	r := httptest.NewRequest(http.MethodPost, "/logout/", nil)
	w := httptest.NewRecorder()
	mw.RequireAuth(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not run")
	})).ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail":"Authentication credentials were not provided"}`, w.Body.String())
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	mw := NewMiddleware(&fakeAuthenticator{err: errors.New("unknown token")})

	r := httptest.NewRequest(http.MethodPost, "/logout/", nil)
	r.Header.Set("Authorization", "Token bad")
	w := httptest.NewRecorder()
	mw.RequireAuth(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not run")
	})).ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptional_AnonymousAndInvalidPassThrough(t *testing.T) {
	mw := NewMiddleware(&fakeAuthenticator{err: errors.New("unknown token")})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := UserFrom(r.Context())
		assert.False(t, ok)
		w.WriteHeader(http.StatusOK)
	})

	for _, header := range []string{"", "Token bad"} {
		r := httptest.NewRequest(http.MethodGet, "/recipes/", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		mw.Optional(next).ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
