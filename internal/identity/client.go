// Package identity signs users up and in against the external identity
// provider and exchanges refresh tokens.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thenoetrevino/tablero/internal/session"
)

// Client talks to the identity provider
type Client struct {
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

// NewClient creates an identity client. A nil httpClient uses a 10s timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		now:        time.Now,
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"` // seconds
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SignUp registers an account and returns its first tokens
func (c *Client) SignUp(ctx context.Context, email, password, name string) (session.Tokens, error) {
	return c.exchange(ctx, "/auth/signup", credentials{Email: email, Password: password, Name: name})
}

// SignIn exchanges email and password for tokens
func (c *Client) SignIn(ctx context.Context, email, password string) (session.Tokens, error) {
	return c.exchange(ctx, "/auth/token", credentials{Email: email, Password: password})
}

// Refresh exchanges a refresh token for new tokens
func (c *Client) Refresh(ctx context.Context, refreshToken string) (session.Tokens, error) {
	if refreshToken == "" {
		return session.Tokens{}, ErrMissingRefresh
	}
	return c.exchange(ctx, "/auth/refresh", refreshRequest{RefreshToken: refreshToken})
}

// SignOut revokes the refresh token at the provider
func (c *Client) SignOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return c.post(ctx, "/auth/signout", refreshRequest{RefreshToken: refreshToken}, nil)
}

func (c *Client) exchange(ctx context.Context, path string, body any) (session.Tokens, error) {
	var resp tokenResponse
	if err := c.post(ctx, path, body, &resp); err != nil {
		return session.Tokens{}, err
	}

	tokens := session.Tokens{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	if resp.ExpiresIn > 0 {
		tokens.ExpiresAt = c.now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}
	return tokens, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode identity response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var body errorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)

	slog.Debug("identity provider rejected request",
		"path", resp.Request.URL.Path,
		"status", resp.StatusCode,
		"code", body.Code)

	switch {
	case body.Code == "invalid_credentials",
		resp.StatusCode == http.StatusUnauthorized && body.Code == "":
		return ErrInvalidCredentials
	case body.Code == "email_taken",
		resp.StatusCode == http.StatusConflict && body.Code == "":
		return ErrEmailTaken
	}

	msg := body.Message
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &ProviderError{Status: resp.StatusCode, Code: body.Code, Message: msg}
}
