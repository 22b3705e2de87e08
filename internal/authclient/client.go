// Package authclient talks to the authentication provider's REST surface:
// email sign-up, username sign-in and session lookup.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"ichthyo-signup/internal/logging"
)

const (
	signUpPath     = "/api/auth/sign-up/email"
	signInPath     = "/api/auth/sign-in/username"
	getSessionPath = "/api/auth/get-session"

	RequestIDHeader = "X-Request-Id"
	jwtHeader       = "Set-Auth-Jwt"
)

var ErrUnexpectedStatus = errors.New("unexpected status")

// Client is the provider client. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New returns a client rooted at baseURL (scheme and host, no trailing slash).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SignUp registers a new account with email and password.
//
// OnRequest runs before the request is sent. When the provider answers,
// OnSuccess or OnError runs and the returned Result mirrors it. Transport
// and decode failures are returned as errors and no further hook runs.
func (c *Client) SignUp(ctx context.Context, req SignUpRequest, hooks Hooks) (*Result, error) {
	return c.post(ctx, signUpPath, req, hooks)
}

// SignIn opens a session for an existing account.
func (c *Client) SignIn(ctx context.Context, username, password string, hooks Hooks) (*Result, error) {
	return c.post(ctx, signInPath, signInRequest{Username: username, Password: password}, hooks)
}

// GetSession returns the active session, or nil when nobody is signed in.
func (c *Client) GetSession(ctx context.Context) (*Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+getSessionPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(RequestIDHeader, uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: get-session returned %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var s Session
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.User == nil {
		return nil, nil
	}
	s.JWT = resp.Header.Get(jwtHeader)
	return &s, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, hooks Hooks) (*Result, error) {
	requestID := uuid.NewString()
	log := c.log.With("path", path, "request_id", requestID)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	hooks.request(HookContext{RequestID: requestID})

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var out authResponse
		if len(bytes.TrimSpace(respBody)) > 0 {
			if err := json.Unmarshal(respBody, &out); err != nil {
				return nil, fmt.Errorf("decode response: %w", err)
			}
		}
		log.Debug(ctx, "auth request succeeded", "status", resp.StatusCode)
		hooks.success(HookContext{RequestID: requestID, User: out.User})
		return &Result{User: out.User, Token: out.Token}, nil
	}

	apiErr := decodeAPIError(resp.StatusCode, respBody)
	log.Info(ctx, "auth request rejected", "status", resp.StatusCode, "code", apiErr.Code)
	hooks.failure(HookContext{RequestID: requestID, Error: apiErr})
	return &Result{Error: apiErr}, nil
}

// decodeAPIError reads the provider's {code, message} body. Bodies that are
// not JSON leave Message empty.
func decodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{}
	_ = json.Unmarshal(body, apiErr)
	apiErr.Status = status
	return apiErr
}
