package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eemerson/paybox-server/internal/api/testutils"
	"github.com/eemerson/paybox-server/internal/apperr"
	"github.com/eemerson/paybox-server/internal/models"
)

func TestLogin(t *testing.T) {
	svc := &testutils.StubService{
		LoginFn: func(_ context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
			if req.Password != "Password123" {
				return nil, apperr.New(apperr.KindAuthorization, "credenciales inválidas")
			}
			return &models.AuthResponse{
				Status:   "success",
				UserID:   "user-1",
				Email:    req.Email,
				FullName: "María Quispe",
				Role:     models.RoleUser,
				Token:    "signed-token",
			}, nil
		},
	}
	router := testutils.SetupRouter(svc, nil, nil)

	// Successful login
	w := testutils.PerformRequest(router, http.MethodPost, "/api/auth/login",
		models.LoginRequest{Email: "maria@example.com", Password: "Password123"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "signed-token")

	// Wrong password
	w = testutils.PerformRequest(router, http.MethodPost, "/api/auth/login",
		models.LoginRequest{Email: "maria@example.com", Password: "wrong"}, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Malformed body
	w = testutils.PerformRequest(router, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "not-an-email"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMeReturnsEffectivePermissions(t *testing.T) {
	svc := &testutils.StubService{
		GetProfileFn: func(_ context.Context, userID string) (*models.UserProfile, error) {
			assert.Equal(t, "admin-1", userID)
			return &models.UserProfile{
				ID:       "admin-1",
				Email:    "admin@example.com",
				FullName: "Admin",
				Role:     models.RoleAdmin,
				// Stored flags are false; the role overrides them.
			}, nil
		},
	}
	router := testutils.SetupRouter(svc, nil, nil)
	token := testutils.TokenFor(t, "admin-1", models.RoleAdmin)

	w := testutils.PerformRequest(router, http.MethodGet, "/api/auth/me", nil, testutils.AuthHeaders(token))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"canCreate":true`)
	assert.Contains(t, w.Body.String(), `"canDelete":true`)
}

func TestMiddlewareRejectsBadTokens(t *testing.T) {
	router := testutils.SetupRouter(&testutils.StubService{}, nil, nil)

	w := testutils.PerformRequest(router, http.MethodGet, "/api/payments", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = testutils.PerformRequest(router, http.MethodGet, "/api/payments", nil,
		map[string]string{"Authorization": "Bearer not-a-jwt"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = testutils.PerformRequest(router, http.MethodGet, "/api/payments", nil,
		map[string]string{"Authorization": "Basic abc"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
