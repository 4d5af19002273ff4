package stripe

import "time"

const (
	defaultBaseURL          = "https://api.stripe.com"
	defaultWebhookTolerance = 5 * time.Minute
)

// Config represents the configuration for the Stripe API client.
type Config struct {
	// SecretKey is the API secret key (sk_...)
	SecretKey string

	// WebhookSecret signs incoming webhook payloads (whsec_...)
	WebhookSecret string

	// Currency is the three-letter ISO code used for payment intents
	Currency string

	// BaseURL is the API root, overridable for tests
	BaseURL string

	// WebhookTolerance is the maximum accepted signature timestamp skew
	WebhookTolerance time.Duration
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return ErrInvalidConfig
	}
	if c.WebhookSecret == "" {
		return ErrInvalidConfig
	}
	if c.Currency == "" {
		return ErrInvalidConfig
	}
	return nil
}
