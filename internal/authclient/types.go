package authclient

import (
	"fmt"
	"time"
)

// SignUpRequest is the payload of the email sign-up operation.
type SignUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type signInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// User is the account record returned by the provider.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Username      string    `json:"username,omitempty"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

// SessionInfo describes the provider-side session record.
type SessionInfo struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Session is the body of get-session. JWT is filled from the set-auth-jwt
// response header when the provider issues one.
type Session struct {
	Session SessionInfo `json:"session"`
	User    *User       `json:"user"`
	JWT     string      `json:"-"`
}

// APIError is an error payload reported by the provider.
// Message may be empty; callers pick their own fallback text.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("auth api error (status %d)", e.Status)
	}
	return fmt.Sprintf("auth api error (status %d): %s", e.Status, e.Message)
}

// Result is what SignUp and SignIn hand back when the provider answered.
// Exactly one of User or Error is set.
type Result struct {
	User  *User
	Token string
	Error *APIError
}

type authResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// HookContext is passed to every hook of a single request.
type HookContext struct {
	RequestID string
	User      *User
	Error     *APIError
}

// Hooks are the continuations a caller attaches to a request. Nil hooks are
// skipped. OnSuccess and OnError are mutually exclusive and run at most once.
type Hooks struct {
	OnRequest func(HookContext)
	OnSuccess func(HookContext)
	OnError   func(HookContext)
}

func (h Hooks) request(c HookContext) {
	if h.OnRequest != nil {
		h.OnRequest(c)
	}
}

func (h Hooks) success(c HookContext) {
	if h.OnSuccess != nil {
		h.OnSuccess(c)
	}
}

func (h Hooks) failure(c HookContext) {
	if h.OnError != nil {
		h.OnError(c)
	}
}
