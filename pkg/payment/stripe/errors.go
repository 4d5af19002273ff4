package stripe

import "errors"

var (
	// ErrInvalidConfig is returned when the client configuration is incomplete
	ErrInvalidConfig = errors.New("invalid stripe configuration")

	// ErrInvalidRequest is returned when Stripe rejects the request parameters
	ErrInvalidRequest = errors.New("invalid stripe request")

	// ErrUnauthorized is returned when the secret key is rejected
	ErrUnauthorized = errors.New("stripe authentication failed")

	// ErrNetworkError is returned on transport failures
	ErrNetworkError = errors.New("stripe network error")

	// ErrPaymentFailed is returned on unexpected API errors
	ErrPaymentFailed = errors.New("stripe payment request failed")

	// ErrInvalidSignature is returned when a webhook signature does not verify
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrInvalidPayload is returned when a webhook body cannot be parsed
	ErrInvalidPayload = errors.New("invalid webhook payload")
)
