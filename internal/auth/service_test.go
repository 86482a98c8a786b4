package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdmurray/portfolio-backend/internal/config"
)

func testConfig() config.AuthConfig {
	return config.AuthConfig{
		AdminUsername: "admin",
		AdminPassword: "hunter2",
		JWTSecret:     "test-secret",
		TokenTTLHours: 1,
	}
}

func TestLoginAndVerify(t *testing.T) {
	svc := NewService(testConfig())

	token, expiresAt, err := svc.Login("admin", "hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Sub)
	assert.Equal(t, "admin", claims.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := NewService(testConfig())

	_, _, err := svc.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login("root", "hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	svc := NewService(testConfig())

	token, _, err := svc.Login("admin", "hunter2")
	require.NoError(t, err)

	_, err = svc.Verify(token + "x")
	assert.Error(t, err)

	other := NewService(config.AuthConfig{
		AdminUsername: "admin",
		AdminPassword: "hunter2",
		JWTSecret:     "different-secret",
		TokenTTLHours: 1,
	})
	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestMiddlewareAuthenticate(t *testing.T) {
	svc := NewService(testConfig())
	mw := NewMiddleware(svc)

	var gotClaims *Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	// No token.
	rec := httptest.NewRecorder()
	mw.Authenticate(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid token.
	token, _, err := svc.Login("admin", "hunter2")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	mw.Authenticate(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotClaims)
	assert.Equal(t, "admin", gotClaims.Sub)
}
