package middlewarectx_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/storefront/internal/lib/jwt"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/services/auth"
)

type AuthenticatorMock struct {
	mock.Mock
}

func (m *AuthenticatorMock) Authenticate(ctx context.Context, token string) (*models.User, *jwt.Claims, error) {
	args := m.Called(ctx, token)
	u, _ := args.Get(0).(*models.User)
	c, _ := args.Get(1).(*jwt.Claims)
	return u, c, args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestJWTMiddleware(t *testing.T) {
	user := &models.User{UUID: "u-1", Role: models.RoleUser}
	claims := &jwt.Claims{UserUID: "u-1"}

	tests := []struct {
		name           string
		authHeader     string
		setup          func(m *AuthenticatorMock)
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "missing Authorization header",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "invalid Authorization header prefix",
			authHeader:     "Basic sometoken",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:       "rejected token",
			authHeader: "Bearer bad",
			setup: func(m *AuthenticatorMock) {
				m.On("Authenticate", mock.Anything, "bad").
					Return(nil, nil, fmt.Errorf("wrap: %w", auth.ErrUnauthenticated))
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:       "backend failure",
			authHeader: "Bearer tok",
			setup: func(m *AuthenticatorMock) {
				m.On("Authenticate", mock.Anything, "tok").Return(nil, nil, errors.New("redis down"))
			},
			wantStatusCode: http.StatusInternalServerError,
		},
		{
			name:       "valid token",
			authHeader: "Bearer good",
			setup: func(m *AuthenticatorMock) {
				m.On("Authenticate", mock.Anything, "good").Return(user, claims, nil)
			},
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthenticatorMock)
			if tt.setup != nil {
				tt.setup(authMock)
			}

			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				u, ok := middlewarectx.UserFromContext(r.Context())
				require.True(t, ok)
				assert.Equal(t, "u-1", u.UUID)
				c, ok := middlewarectx.ClaimsFromContext(r.Context())
				require.True(t, ok)
				assert.Equal(t, "u-1", c.UserUID)
				w.WriteHeader(http.StatusOK)
			})

			h := middlewarectx.JWTMiddleware(authMock, newNoopLogger())(next)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatusCode, rr.Code)
			assert.Equal(t, tt.wantCalled, called)
			if !tt.wantCalled {
				assert.Contains(t, rr.Body.String(), `"status":"error"`)
			}
		})
	}
}

func TestAdminOnly(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := middlewarectx.AdminOnly(newNoopLogger())(next)

	tests := []struct {
		name string
		user *models.User
		want int
	}{
		{name: "no user", user: nil, want: http.StatusUnauthorized},
		{name: "regular user", user: &models.User{UUID: "u", Role: models.RoleUser}, want: http.StatusForbidden},
		{name: "admin", user: &models.User{UUID: "a", Role: models.RoleAdmin}, want: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.user != nil {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.User, tt.user))
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}
