package orchard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"content-dashboard/internal/config"
	apperrors "content-dashboard/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
)

const (
	grantTypePassword = "password"

	// Refresh the cached service token this long before its exp claim.
	tokenRefreshLeeway = 30 * time.Second

	oauthErrInvalidGrant = "invalid_grant"

	errTokenRequestFailedFmt  = "token request failed: %w"
	errTokenDecodeFailedFmt   = "failed to decode token response: %w"
	errTokenExchangeRejected  = "token exchange rejected"
	errServiceAccountMissing  = "service account credentials are not configured"
	msgInvalidUserOrPassword  = "Invalid username or password."
	msgTokenEndpointUnreached = "Unable to connect to server. Please try again."
)

// TokenSource yields a bearer token for outgoing content store calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenResponse is the identity provider's answer to a password-grant
// exchange. Either AccessToken or the Error pair is populated.
type TokenResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	ExpiresIn        int    `json:"expires_in"`
	IDToken          string `json:"id_token,omitempty"`
	Error            string `json:"error,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// TokenClient performs OAuth2 password-grant exchanges and caches the
// service account's token for the dashboard core's own store calls.
// No refresh-token flow exists; an expiring token is re-exchanged.
type TokenClient struct {
	cfg        config.OAuthConfig
	httpClient *http.Client
	logger     *slog.Logger

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func NewTokenClient(cfg config.OAuthConfig, httpClient *http.Client, logger *slog.Logger) *TokenClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TokenClient{cfg: cfg, httpClient: httpClient, logger: logger}
}

// PasswordGrant exchanges the given credentials for a token. OAuth2 error
// responses come back as a populated TokenResponse, not a Go error; only
// transport and decode failures error out.
func (c *TokenClient) PasswordGrant(ctx context.Context, username, password string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", grantTypePassword)
	form.Set("username", username)
	form.Set("password", password)
	form.Set("client_id", c.cfg.ClientID)
	form.Set("scope", c.cfg.Scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf(errTokenRequestFailedFmt, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf(errTokenRequestFailedFmt, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf(errTokenRequestFailedFmt, err)
	}

	var tokenResp TokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf(errTokenDecodeFailedFmt, err)
	}

	return &tokenResp, nil
}

// Token returns the cached service-account token, re-exchanging credentials
// when the cached one is within its refresh leeway of expiring.
func (c *TokenClient) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.expiresAt.Add(-tokenRefreshLeeway)) {
		return c.token, nil
	}

	if c.cfg.Username == "" || c.cfg.Password == "" {
		return "", apperrors.Unauthorized(errServiceAccountMissing)
	}

	resp, err := c.PasswordGrant(ctx, c.cfg.Username, c.cfg.Password)
	if err != nil {
		return "", err
	}

	if resp.AccessToken == "" {
		c.logger.Warn("service account token exchange rejected",
			"error", resp.Error, "description", resp.ErrorDescription)
		return "", apperrors.InvalidCredentials(errTokenExchangeRejected)
	}

	c.token = resp.AccessToken
	c.expiresAt = tokenExpiry(resp)

	return c.token, nil
}

// tokenExpiry reads the access token's exp claim without verifying the
// signature; verification belongs to the resource server. ExpiresIn is the
// fallback for opaque tokens.
func tokenExpiry(resp *TokenResponse) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(resp.AccessToken, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}

	if resp.ExpiresIn > 0 {
		return time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}

	return time.Now().Add(time.Minute)
}

// LoginOutcome is the dashboard-facing result of an interactive login.
type LoginOutcome struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Login translates a password-grant exchange into a dashboard login outcome,
// mapping invalid_grant onto an invalid-credentials message.
func (c *TokenClient) Login(ctx context.Context, username, password string) (*LoginOutcome, error) {
	resp, err := c.PasswordGrant(ctx, username, password)
	if err != nil {
		return &LoginOutcome{
			Success: false,
			Code:    "NETWORK_ERROR",
			Message: msgTokenEndpointUnreached,
		}, nil
	}

	if resp.AccessToken != "" {
		return &LoginOutcome{Success: true, Token: resp.AccessToken}, nil
	}

	if resp.Error == oauthErrInvalidGrant {
		return &LoginOutcome{
			Success: false,
			Code:    "INVALID_CREDENTIALS",
			Message: msgInvalidUserOrPassword,
		}, nil
	}

	message := resp.ErrorDescription
	if message == "" {
		message = msgTokenEndpointUnreached
	}

	return &LoginOutcome{Success: false, Code: "NETWORK_ERROR", Message: message}, nil
}
