package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	// ContextKeyUserID holds the authenticated subject for the request.
	ContextKeyUserID = "user_id"
	// ContextKeySessionID holds the dashboard session the request belongs to.
	ContextKeySessionID = "session_id"

	// SessionIDHeader lets a client pin its dashboard session explicitly.
	// Without it the session is keyed by the authenticated subject.
	SessionIDHeader = "X-Session-ID"

	headerAuthorization = "Authorization"
	bearerScheme        = "bearer"
	authHeaderParts     = 2

	jsonKeyError = "error"

	msgMissingAuthorization = "missing authorization token"
	msgMalformedToken       = "malformed authorization token"
	msgInvalidToken         = "invalid authorization token"
)

// RequireBearer authenticates requests by verifying the bearer token's
// signature against the HMAC key shared with the identity provider, then
// keys the request by the token's subject. Tokens signed with any other
// method, or with another key, are rejected.
func RequireBearer(signingKey string) echo.MiddlewareFunc {
	key := []byte(signingKey)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(headerAuthorization)
			if header == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{jsonKeyError: msgMissingAuthorization})
			}

			parts := strings.SplitN(header, " ", authHeaderParts)
			if len(parts) != authHeaderParts || !strings.EqualFold(parts[0], bearerScheme) {
				return c.JSON(http.StatusUnauthorized, map[string]string{jsonKeyError: msgMalformedToken})
			}

			subject, err := verifiedSubject(parts[1], key)
			if err != nil || subject == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{jsonKeyError: msgInvalidToken})
			}

			c.Set(ContextKeyUserID, subject)

			sessionID := c.Request().Header.Get(SessionIDHeader)
			if sessionID == "" {
				sessionID = subject
			}
			c.Set(ContextKeySessionID, sessionID)

			return next(c)
		}
	}
}

func verifiedSubject(token string, key []byte) (string, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !parsed.Valid {
		return "", jwt.ErrTokenSignatureInvalid
	}
	return claims.GetSubject()
}

// GetUserID returns the authenticated subject set by RequireBearer.
func GetUserID(c echo.Context) string {
	if id, ok := c.Get(ContextKeyUserID).(string); ok {
		return id
	}
	return ""
}

// GetSessionID returns the dashboard session key set by RequireBearer.
func GetSessionID(c echo.Context) string {
	if id, ok := c.Get(ContextKeySessionID).(string); ok {
		return id
	}
	return ""
}
