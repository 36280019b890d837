package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func protectedHandler(captured *string) http.Handler {
	return Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = CallerFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAuthExtractsCaller(t *testing.T) {
	var caller string
	handler := protectedHandler(&caller)

	req := httptest.NewRequest(http.MethodPost, "/escrows", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, jwt.MapClaims{"address": "0xbuyer"}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0xbuyer", caller)
}

func TestAuthRejectsMissingToken(t *testing.T) {
	var caller string
	handler := protectedHandler(&caller)

	req := httptest.NewRequest(http.MethodPost, "/escrows", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, caller)
}

func TestAuthRejectsWrongSecret(t *testing.T) {
	var caller string
	handler := protectedHandler(&caller)

	req := httptest.NewRequest(http.MethodPost, "/escrows", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "another-secret", jwt.MapClaims{"address": "0xbuyer"}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsMissingAddressClaim(t *testing.T) {
	var caller string
	handler := protectedHandler(&caller)

	req := httptest.NewRequest(http.MethodPost, "/escrows", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, jwt.MapClaims{"sub": "someone"}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCallerFromContextOutsideAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/escrows/1", nil)
	assert.Empty(t, CallerFromContext(req.Context()))
}
