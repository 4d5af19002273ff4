package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProviderTestClient(t *testing.T, baseURL string) *Client {
	client, err := NewClient(Config{
		BaseURL:    baseURL,
		ServiceKey: "service_role_key",
	})
	require.NoError(t, err)
	return client
}

func TestNewClient_InvalidConfig(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)

	_, err = NewClient(Config{BaseURL: "http://localhost:9999"})
	assert.Error(t, err)
}

func TestAdminCreateUser_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/admin/users", r.URL.Path)
		assert.Equal(t, "service_role_key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service_role_key", r.Header.Get("Authorization"))

		var req CreateUserRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "new@example.com", req.Email)
		// The client always pre-confirms the email
		assert.True(t, req.EmailConfirm)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "uuid-1", "email": "new@example.com"}`))
	}))
	defer server.Close()

	client := newProviderTestClient(t, server.URL)

	user, err := client.AdminCreateUser(context.Background(), CreateUserRequest{
		Email:    "new@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)
	assert.Equal(t, "uuid-1", user.ID)
	assert.Equal(t, "new@example.com", user.Email)
}

func TestAdminCreateUser_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"msg": "A user with this email address has already been registered"}`))
	}))
	defer server.Close()

	client := newProviderTestClient(t, server.URL)

	_, err := client.AdminCreateUser(context.Background(), CreateUserRequest{
		Email:    "taken@example.com",
		Password: "secret-password",
	})
	assert.ErrorIs(t, err, ErrSignupRejected)
}

func TestAdminCreateUser_ProviderDown(t *testing.T) {
	client := newProviderTestClient(t, "http://127.0.0.1:1")

	_, err := client.AdminCreateUser(context.Background(), CreateUserRequest{
		Email:    "new@example.com",
		Password: "secret-password",
	})
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestSignInWithPassword_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"access_token": "jwt-token",
			"token_type": "bearer",
			"expires_in": 3600,
			"refresh_token": "refresh-token",
			"user": {"id": "uuid-1", "email": "test@example.com"}
		}`))
	}))
	defer server.Close()

	client := newProviderTestClient(t, server.URL)

	session, err := client.SignInWithPassword(context.Background(), PasswordGrantRequest{
		Email:    "test@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", session.AccessToken)
	assert.Equal(t, "refresh-token", session.RefreshToken)
	assert.Equal(t, "uuid-1", session.User.ID)
}

func TestSignInWithPassword_InvalidCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "invalid_grant", "error_description": "Invalid login credentials"}`))
	}))
	defer server.Close()

	client := newProviderTestClient(t, server.URL)

	_, err := client.SignInWithPassword(context.Background(), PasswordGrantRequest{
		Email:    "test@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSendRecoveryEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recover", r.URL.Path)

		var req RecoverRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test@example.com", req.Email)

		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newProviderTestClient(t, server.URL)

	err := client.SendRecoveryEmail(context.Background(), "test@example.com")
	assert.NoError(t, err)
}

func TestGetUser_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/user", r.URL.Path)
		// User token, not the service key
		assert.Equal(t, "Bearer user-jwt", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "uuid-1", "email": "test@example.com"}`))
	}))
	defer server.Close()

	client := newProviderTestClient(t, server.URL)

	user, err := client.GetUser(context.Background(), "user-jwt")
	require.NoError(t, err)
	assert.Equal(t, "uuid-1", user.ID)
}

func TestGetUser_InvalidToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"msg": "invalid JWT"}`))
	}))
	defer server.Close()

	client := newProviderTestClient(t, server.URL)

	_, err := client.GetUser(context.Background(), "expired-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGetUser_EmptyID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"email": "test@example.com"}`))
	}))
	defer server.Close()

	client := newProviderTestClient(t, server.URL)

	_, err := client.GetUser(context.Background(), "odd-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
