package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ragrids/internal/errors"
)

func guardedRequest(t *testing.T, tokens *JWTService, req *http.Request) (echo.Context, error) {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	var seen echo.Context
	err := Guard(tokens)(func(c echo.Context) error {
		seen = c
		return c.NoContent(http.StatusOK)
	})(c)
	return seen, err
}

func TestGuard(t *testing.T) {
	users := NewJWTService(KindUser, "user-secret")
	admins := NewJWTService(KindAdmin, "admin-secret")

	userToken, err := users.GenerateToken("u1", "u1@solar.in")
	require.NoError(t, err)
	adminToken, err := admins.GenerateToken("a1", "a1@ragrids.in")
	require.NoError(t, err)

	tests := []struct {
		name    string
		tokens  *JWTService
		prepare func(*http.Request)
		allowed bool
		userID  string
	}{
		{
			name:    "user cookie",
			tokens:  users,
			prepare: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "userToken", Value: userToken}) },
			allowed: true,
			userID:  "u1",
		},
		{
			name:    "bearer header",
			tokens:  admins,
			prepare: func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Bearer "+adminToken) },
			allowed: true,
			userID:  "a1",
		},
		{
			name:    "no token",
			tokens:  users,
			prepare: func(r *http.Request) {},
		},
		{
			name:    "user token on admin guard",
			tokens:  admins,
			prepare: func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Bearer "+userToken) },
		},
		{
			name:    "admin token in user cookie",
			tokens:  users,
			prepare: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "userToken", Value: adminToken}) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.prepare(req)

			c, err := guardedRequest(t, tt.tokens, req)

			if !tt.allowed {
				var httpErr *apperrors.HTTPError
				require.ErrorAs(t, err, &httpErr)
				assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
				assert.Equal(t, "Unauthorized", httpErr.Message)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			claims, ok := ClaimsFromContext(c)
			require.True(t, ok)
			assert.Equal(t, tt.userID, claims.UserID)
		})
	}
}
