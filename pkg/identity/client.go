package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to a GoTrue-compatible identity provider. The backend
// never verifies tokens itself; it asks the provider on every request.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new identity provider client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	httpClient := &http.Client{
		Timeout: 10 * time.Second,
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
	}, nil
}

// GetConfig returns the client configuration
func (c *Client) GetConfig() Config {
	return c.config
}

// AdminCreateUser registers a new account through the admin API with the
// email pre-confirmed, so the user can sign in immediately.
func (c *Client) AdminCreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	req.EmailConfirm = true

	body, status, err := c.doRequest(ctx, http.MethodPost, "/admin/users", req, "")
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK && status != http.StatusCreated {
		if status == http.StatusUnprocessableEntity || status == http.StatusBadRequest || status == http.StatusConflict {
			return nil, fmt.Errorf("%w: %s", ErrSignupRejected, parseError(body))
		}
		return nil, fmt.Errorf("%w: status %d", ErrProviderUnavailable, status)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user response: %w", err)
	}

	return &user, nil
}

// SignInWithPassword exchanges an email/password pair for a session.
func (c *Client) SignInWithPassword(ctx context.Context, req PasswordGrantRequest) (*Session, error) {
	body, status, err := c.doRequest(ctx, http.MethodPost, "/token?grant_type=password", req, "")
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		if status == http.StatusBadRequest || status == http.StatusUnauthorized || status == http.StatusUnprocessableEntity {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, parseError(body))
		}
		return nil, fmt.Errorf("%w: status %d", ErrProviderUnavailable, status)
	}

	var session Session
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session response: %w", err)
	}

	return &session, nil
}

// SendRecoveryEmail asks the provider to email a password reset link.
// The provider responds 200 even for unknown addresses, so callers can
// safely report success without leaking account existence.
func (c *Client) SendRecoveryEmail(ctx context.Context, email string) error {
	body, status, err := c.doRequest(ctx, http.MethodPost, "/recover", RecoverRequest{Email: email}, "")
	if err != nil {
		return err
	}

	if status != http.StatusOK {
		if status >= http.StatusInternalServerError {
			return fmt.Errorf("%w: status %d", ErrProviderUnavailable, status)
		}
		return fmt.Errorf("recovery request failed: %s", parseError(body))
	}

	return nil
}

// GetUser validates a bearer token and returns the account it belongs to.
func (c *Client) GetUser(ctx context.Context, token string) (*User, error) {
	body, status, err := c.doRequest(ctx, http.MethodGet, "/user", nil, token)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("%w: status %d", ErrProviderUnavailable, status)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user response: %w", err)
	}
	if user.ID == "" {
		return nil, ErrInvalidToken
	}

	return &user, nil
}

// doRequest performs an HTTP request against the provider. When token is
// empty the service key is used as the bearer credential.
func (c *Client) doRequest(ctx context.Context, method, path string, payload interface{}, token string) ([]byte, int, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	url := c.config.BaseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("apikey", c.config.ServiceKey)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.config.ServiceKey)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, resp.StatusCode, nil
}

func parseError(body []byte) string {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return string(body)
	}
	if msg := errResp.text(); msg != "" {
		return msg
	}
	return string(body)
}
