package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSigningKey = "test-signing-key"

func signedToken(t *testing.T, key, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": subject})
	signed, err := token.SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func unsignedToken(t *testing.T, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": subject})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	return signed
}

func bearerEcho() *echo.Echo {
	e := echo.New()
	e.GET("/api/whoami", func(c echo.Context) error {
		return c.String(http.StatusOK, GetUserID(c))
	}, RequireBearer(testSigningKey))
	return e
}

func TestRequireBearer_AcceptsSignedToken(t *testing.T) {
	e := bearerEcho()

	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.Header.Set(headerAuthorization, "Bearer "+signedToken(t, testSigningKey, "alice"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())
}

func TestRequireBearer_RejectsForgedSubject(t *testing.T) {
	e := bearerEcho()

	tests := []struct {
		name  string
		token string
	}{
		{"unsigned token", unsignedToken(t, "victim")},
		{"wrong key", signedToken(t, "attacker-key", "victim")},
		{"garbage", "not.a.jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
			req.Header.Set(headerAuthorization, "Bearer "+tt.token)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireBearer_MissingOrMalformedHeader(t *testing.T) {
	e := bearerEcho()

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc"},
		{"no token", "Bearer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
			if tt.header != "" {
				req.Header.Set(headerAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireBearer_SessionDefaultsToSubject(t *testing.T) {
	e := echo.New()
	var gotSession string
	e.GET("/api/s", func(c echo.Context) error {
		gotSession = GetSessionID(c)
		return c.NoContent(http.StatusOK)
	}, RequireBearer(testSigningKey))

	req := httptest.NewRequest(http.MethodGet, "/api/s", nil)
	req.Header.Set(headerAuthorization, "Bearer "+signedToken(t, testSigningKey, "bob"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bob", gotSession)

	req = httptest.NewRequest(http.MethodGet, "/api/s", nil)
	req.Header.Set(headerAuthorization, "Bearer "+signedToken(t, testSigningKey, "bob"))
	req.Header.Set(SessionIDHeader, "tab-2")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tab-2", gotSession)
}
