package authclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

type hookRecorder struct {
	calls   []string
	success HookContext
	failure HookContext
}

func (r *hookRecorder) hooks() Hooks {
	return Hooks{
		OnRequest: func(HookContext) { r.calls = append(r.calls, "request") },
		OnSuccess: func(c HookContext) {
			r.calls = append(r.calls, "success")
			r.success = c
		},
		OnError: func(c HookContext) {
			r.calls = append(r.calls, "error")
			r.failure = c
		},
	}
}

func newServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/")
}

// ---- SignUp ----

func TestSignUp_Success(t *testing.T) {
	var got SignUpRequest
	var reqID string
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, signUpPath, r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		reqID = r.Header.Get(RequestIDHeader)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"token":"tok","user":{"id":"u1","email":"a@b.c","name":"Ann"}}`)
	})

	rec := &hookRecorder{}
	req := SignUpRequest{Username: "ann", Email: "a@b.c", Name: "Ann", Password: "pw"}
	res, err := c.SignUp(context.Background(), req, rec.hooks())
	require.NoError(t, err)

	assert.Equal(t, req, got)
	_, err = uuid.Parse(reqID)
	assert.NoError(t, err, "request id must be a uuid")

	require.NotNil(t, res.User)
	assert.Equal(t, "u1", res.User.ID)
	assert.Equal(t, "tok", res.Token)
	assert.Nil(t, res.Error)
	assert.Equal(t, []string{"request", "success"}, rec.calls)
	assert.Equal(t, reqID, rec.success.RequestID)
}

func TestSignUp_EmptyFieldsAreSent(t *testing.T) {
	var raw map[string]any
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		w.WriteHeader(http.StatusOK)
	})

	res, err := c.SignUp(context.Background(), SignUpRequest{}, Hooks{})
	require.NoError(t, err)
	assert.Nil(t, res.Error)
	assert.Equal(t, map[string]any{"username": "", "email": "", "name": "", "password": ""}, raw)
}

func TestSignUp_ProviderError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantCode    string
		wantMessage string
	}{
		{"json error", http.StatusUnprocessableEntity, `{"code":"USER_ALREADY_EXISTS","message":"Email already exists"}`, "USER_ALREADY_EXISTS", "Email already exists"},
		{"no message", http.StatusBadRequest, `{"code":"BAD"}`, "BAD", ""},
		{"plain text body", http.StatusInternalServerError, `boom`, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			rec := &hookRecorder{}
			res, err := c.SignUp(context.Background(), SignUpRequest{Email: "x"}, rec.hooks())
			require.NoError(t, err)
			require.NotNil(t, res.Error)

			assert.Equal(t, tt.status, res.Error.Status)
			assert.Equal(t, tt.wantCode, res.Error.Code)
			assert.Equal(t, tt.wantMessage, res.Error.Message)
			assert.Nil(t, res.User)
			assert.Equal(t, []string{"request", "error"}, rec.calls)
			assert.Same(t, res.Error, rec.failure.Error)
		})
	}
}

func TestSignUp_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	rec := &hookRecorder{}
	res, err := New(url).SignUp(context.Background(), SignUpRequest{}, rec.hooks())
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Equal(t, []string{"request"}, rec.calls, "no completion hook on transport failure")
}

func TestSignUp_MalformedSuccessBody(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"user":`)
	})
	rec := &hookRecorder{}
	_, err := c.SignUp(context.Background(), SignUpRequest{}, rec.hooks())
	require.Error(t, err)
	assert.Equal(t, []string{"request"}, rec.calls)
}

func TestSignIn_Success(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, signInPath, r.URL.Path)
		var body signInRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, signInRequest{Username: "ann", Password: "pw"}, body)
		_, _ = io.WriteString(w, `{"user":{"id":"u1"}}`)
	})

	res, err := c.SignIn(context.Background(), "ann", "pw", Hooks{})
	require.NoError(t, err)
	require.NotNil(t, res.User)
	assert.Equal(t, "u1", res.User.ID)
}

// ---- GetSession ----

func TestGetSession(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		jwt      string
		wantUser string
		wantErr  bool
	}{
		{"null body", http.StatusOK, `null`, "", "", false},
		{"empty body", http.StatusOK, ``, "", "", false},
		{"unauthorized", http.StatusUnauthorized, `{}`, "", "", false},
		{"no user", http.StatusOK, `{"session":{"id":"s"}}`, "", "", false},
		{"active", http.StatusOK, `{"session":{"id":"s1","userId":"u1"},"user":{"id":"u1"}}`, "a.b.c", "u1", false},
		{"server error", http.StatusInternalServerError, ``, "", "", true},
		{"malformed", http.StatusOK, `{"user":`, "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, getSessionPath, r.URL.Path)
				if tt.jwt != "" {
					w.Header().Set(jwtHeader, tt.jwt)
				}
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			s, err := c.GetSession(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantUser == "" {
				assert.Nil(t, s)
				return
			}
			require.NotNil(t, s)
			assert.Equal(t, tt.wantUser, s.User.ID)
			assert.Equal(t, "s1", s.Session.ID)
			assert.Equal(t, tt.jwt, s.JWT)
		})
	}
}

func TestGetSession_UnexpectedStatusIsSentinel(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.GetSession(context.Background())
	require.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestAPIError_Error(t *testing.T) {
	assert.Equal(t, "auth api error (status 400)", (&APIError{Status: 400}).Error())
	assert.Equal(t, "auth api error (status 409): taken", (&APIError{Status: 409, Message: "taken"}).Error())
}
