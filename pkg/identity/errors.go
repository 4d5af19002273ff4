package identity

import "errors"

var (
	// ErrInvalidConfig is returned when the client configuration is incomplete
	ErrInvalidConfig = errors.New("invalid identity provider configuration")

	// ErrInvalidCredentials is returned when the provider rejects an email/password pair
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned when the provider rejects a bearer token
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrSignupRejected is returned when the provider refuses to create a user
	ErrSignupRejected = errors.New("signup rejected by identity provider")

	// ErrProviderUnavailable is returned on network or 5xx failures
	ErrProviderUnavailable = errors.New("identity provider unavailable")
)
