package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinhsin/worksite/internal/models"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestResolveBaseURL(t *testing.T) {
	assert.Equal(t, localBaseURL, ResolveBaseURL("localhost"))
	assert.Equal(t, localBaseURL, ResolveBaseURL("127.0.0.1"))
	assert.Equal(t, localBaseURL, ResolveBaseURL("::1"))
	assert.Equal(t, productionBaseURL, ResolveBaseURL("worksite.example.com"))
}

func TestHealthURL_StripsAPISegment(t *testing.T) {
	c := NewClient("http://localhost:3000/api", nil)
	assert.Equal(t, "http://localhost:3000/health", c.HealthURL())
}

func TestClient_BearerInjection(t *testing.T) {
	var gotAuth, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewEncoder(w).Encode(models.Envelope{Success: true})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api", staticToken("tok-123"))
	require.NoError(t, c.Get(context.Background(), "/ping", nil))
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "application/json", gotContentType)

	c = NewClient(srv.URL+"/api", staticToken(""))
	require.NoError(t, c.Get(context.Background(), "/ping", nil))
	assert.Empty(t, gotAuth, "no token must mean no Authorization header")
}

func TestClient_DecodesEnvelopeData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.Envelope{
			Success: true,
			Data:    models.Profile{ID: "u1", Username: "admin", Role: models.RoleAdmin},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api", nil)
	profile, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin", profile.Username)
	assert.Equal(t, models.RoleAdmin, profile.Role)
}

func TestClient_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(models.Envelope{
			Success: false,
			Error: &models.ErrorBody{
				Code:        "TOKEN_EXPIRED",
				Message:     "token has expired",
				Remediation: "Log in again",
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api", nil)
	err := c.Get(context.Background(), "/auth/me", nil)
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, CodeTokenExpired, apiErr.Code)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Log in again", apiErr.Remediation)
	assert.True(t, apiErr.IsAuthError())
	assert.False(t, apiErr.Timestamp.IsZero())
}

func TestClient_SuccessFalseOn200IsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.Envelope{
			Success: false,
			Error:   &models.ErrorBody{Code: "TOKEN_EXPIRED", Message: "expired"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api", nil)
	err := c.Get(context.Background(), "/auth/me", nil)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusOK, apiErr.StatusCode)
	assert.True(t, apiErr.IsAuthError(), "code classification must override the 200 status")
}

func TestClient_MalformedBodyIsParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "data": {`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api", nil)
	err := c.Get(context.Background(), "/auth/me", nil)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, CodeParseError, apiErr.Code)
	assert.Equal(t, 0, apiErr.StatusCode)
	assert.True(t, apiErr.IsNetworkError())
}

func TestClient_TransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL+"/api", nil)
	err := c.Get(context.Background(), "/auth/me", nil)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, CodeNetworkError, apiErr.Code)
	assert.Equal(t, 0, apiErr.StatusCode)
	assert.True(t, apiErr.IsNetworkError())
}

func TestClient_NeverReturnsUnclassifiedErrors(t *testing.T) {
	c := NewClient("http://invalid.invalid/api", nil)
	err := c.Post(context.Background(), "/auth/login", map[string]string{"username": "a"}, nil)
	require.Error(t, err)

	var apiErr *Error
	assert.True(t, errors.As(err, &apiErr), "every failure must be an *api.Error, got %T", err)
}

func TestClient_Login(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "admin", body["username"])
		require.Equal(t, "test123", body["password"])

		_ = json.NewEncoder(w).Encode(models.Envelope{
			Success: true,
			Data: models.LoginResult{
				Token: "tok-1",
				User:  models.Profile{ID: "u1", Username: "admin", Role: models.RoleAdmin},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api", nil)
	result, err := c.Login(context.Background(), "admin", "test123")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", result.Token)
	assert.Equal(t, models.RoleAdmin, result.User.Role)
}

func TestClient_CrossChannelAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/line/cross-channel-auth", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "liff", body["channelType"])
		require.Equal(t, "U123", body["liffUserId"])

		_ = json.NewEncoder(w).Encode(models.Envelope{
			Success: true,
			Data:    models.CrossChannelResult{AuthToken: "opaque-1", SystemUserID: "u9"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api", nil)
	result, err := c.CrossChannelAuth(context.Background(), "U123", "liff-access")
	require.NoError(t, err)
	assert.Equal(t, "opaque-1", result.AuthToken)
	assert.Equal(t, "u9", result.SystemUserID)
}
