package identity

// Config represents the configuration for the identity provider client.
type Config struct {
	// BaseURL is the provider's auth API root, e.g. https://<project>.example.co/auth/v1
	BaseURL string

	// ServiceKey is the privileged API key used for admin operations
	// (user creation) and as the API key header on every call.
	ServiceKey string
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrInvalidConfig
	}
	if c.ServiceKey == "" {
		return ErrInvalidConfig
	}
	return nil
}
