package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	tokens Authenticator
}

func NewAuthHandler(tokens Authenticator) *AuthHandler {
	return &AuthHandler{tokens: tokens}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges the caller's credentials against the identity provider's
// token endpoint. Credential failures come back as a structured outcome
// with a 401, never as an opaque error.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}
	req.Username = strings.TrimSpace(req.Username)

	outcome, err := h.tokens.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	switch {
	case outcome.Success:
		return c.JSON(http.StatusOK, outcome)
	case outcome.Code == "INVALID_CREDENTIALS":
		return c.JSON(http.StatusUnauthorized, outcome)
	default:
		return c.JSON(http.StatusBadGateway, outcome)
	}
}
