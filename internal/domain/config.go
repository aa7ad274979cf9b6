package domain

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment variables recognized at startup. They take precedence over
// the corresponding configuration file values.
const (
	EnvBackendURL   = "PRODUCTS_BACKEND_URL"
	EnvBackendToken = "PRODUCTS_BACKEND_TOKEN"
	EnvTransport    = "PRODUCTS_TRANSPORT"
)

// Config represents the server configuration.
// This is the root configuration structure loaded from YAML files.
type Config struct {
	Transport TransportConfig `yaml:"transport"`
	Backend   BackendConfig   `yaml:"backend"`
	Limits    LimitsConfig    `yaml:"limits,omitempty"`
}

// TransportConfig defines transport settings.
// Specifies whether to use stdio or HTTP transport.
type TransportConfig struct {
	Type string     `yaml:"type" validate:"omitempty,oneof=stdio http"` // "stdio" or "http"
	HTTP HTTPConfig `yaml:"http,omitempty"`
}

// HTTPConfig defines HTTP transport settings.
// Only used when transport type is "http".
type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// BackendConfig defines the connection to the products REST API.
type BackendConfig struct {
	BaseURL   string      `yaml:"base_url" validate:"required"`
	Timeout   string      `yaml:"timeout,omitempty"`
	RateLimit float64     `yaml:"rate_limit,omitempty" validate:"gte=0"` // requests per second, 0 disables
	Burst     int         `yaml:"burst,omitempty" validate:"gte=0"`
	Auth      *AuthConfig `yaml:"auth,omitempty"` // Optional - the backend may be unauthenticated
}

// AuthConfig defines authentication settings for the backend.
// Supports basic authentication and bearer token authentication.
type AuthConfig struct {
	Type     string `yaml:"type" validate:"omitempty,oneof=basic bearer"` // "basic" or "bearer"
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	Token    string `yaml:"token,omitempty"`
}

// LimitsConfig bounds the result sizes handed back to callers.
type LimitsConfig struct {
	DefaultList int `yaml:"default_list,omitempty" validate:"gte=0"`
}

// AuthType defines supported authentication methods.
type AuthType int

const (
	// BasicAuth uses username and password authentication
	BasicAuth AuthType = iota
	// BearerAuth uses bearer token authentication
	BearerAuth
)

// String returns the string representation of AuthType.
func (a AuthType) String() string {
	switch a {
	case BasicAuth:
		return "basic"
	case BearerAuth:
		return "bearer"
	default:
		return "unknown"
	}
}

// ParseAuthType converts a string to AuthType.
func ParseAuthType(s string) AuthType {
	switch s {
	case "basic":
		return BasicAuth
	case "bearer":
		return BearerAuth
	default:
		return BasicAuth
	}
}

// configValidator applies the struct tags declared on the config types.
var configValidator = validator.New()

// LoadConfig reads configuration from a YAML file, applies environment
// overrides and defaults, and validates the result.
// A missing file is not an error: the configuration is then assembled from
// environment variables and defaults alone, so deployments that only set
// PRODUCTS_BACKEND_URL need no file at all.
func LoadConfig(path string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("invalid YAML syntax in configuration file: %w", err)
		}
	case os.IsNotExist(err):
		// Fall through to environment and defaults.
	default:
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	config.applyEnvOverrides()
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// applyEnvOverrides lets the environment take precedence over file values.
func (c *Config) applyEnvOverrides() {
	if baseURL := os.Getenv(EnvBackendURL); baseURL != "" {
		c.Backend.BaseURL = baseURL
	}

	if token := os.Getenv(EnvBackendToken); token != "" {
		c.Backend.Auth = &AuthConfig{
			Type:  "bearer",
			Token: token,
		}
	}

	if transport := os.Getenv(EnvTransport); transport != "" {
		c.Transport.Type = transport
	}
}

// applyDefaults fills in the optional settings.
func (c *Config) applyDefaults() {
	if c.Transport.Type == "" {
		c.Transport.Type = "stdio"
	}

	if c.Backend.Timeout == "" {
		c.Backend.Timeout = "5s"
	}

	// rate.NewLimiter with a zero burst would never admit a request.
	if c.Backend.RateLimit > 0 && c.Backend.Burst <= 0 {
		c.Backend.Burst = 1
	}

	if c.Limits.DefaultList <= 0 {
		c.Limits.DefaultList = 100
	}
}

// TimeoutDuration returns the parsed backend timeout.
// Falls back to five seconds when the setting is empty or malformed; Validate
// reports the malformed case separately.
func (b *BackendConfig) TimeoutDuration() time.Duration {
	if b.Timeout == "" {
		return 5 * time.Second
	}
	d, err := time.ParseDuration(b.Timeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// Validate checks the configuration for completeness and correctness.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var messages []string

	if err := configValidator.Struct(c); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			for _, fieldError := range fieldErrors {
				messages = append(messages, fieldErrorMessage(fieldError))
			}
		} else {
			messages = append(messages, err.Error())
		}
	}

	messages = append(messages, c.validateTransport()...)
	messages = append(messages, c.Backend.validate()...)

	if len(messages) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(messages, "; "))
	}

	return nil
}

// fieldErrorMessage translates a validator field error into the same
// register as the hand-written checks.
func fieldErrorMessage(fieldError validator.FieldError) string {
	switch fieldError.StructNamespace() {
	case "Config.Transport.Type":
		return fmt.Sprintf("invalid transport type '%v': must be 'stdio' or 'http'", fieldError.Value())
	case "Config.Backend.BaseURL":
		return "backend base_url is required"
	case "Config.Backend.RateLimit":
		return "backend rate_limit must not be negative"
	case "Config.Backend.Burst":
		return "backend burst must not be negative"
	case "Config.Backend.Auth.Type":
		return fmt.Sprintf("invalid auth type '%v': must be 'basic' or 'bearer'", fieldError.Value())
	case "Config.Limits.DefaultList":
		return "default_list must not be negative"
	default:
		return fmt.Sprintf("%s failed %s validation", fieldError.StructNamespace(), fieldError.Tag())
	}
}

// validateTransport validates the transport configuration.
func (c *Config) validateTransport() []string {
	var messages []string

	if c.Transport.Type == "" {
		messages = append(messages, "transport type is required")
	}

	// If HTTP transport, validate HTTP configuration
	if c.Transport.Type == "http" {
		if c.Transport.HTTP.Host == "" {
			messages = append(messages, "HTTP host is required when transport type is 'http'")
		}
		if c.Transport.HTTP.Port <= 0 || c.Transport.HTTP.Port > 65535 {
			messages = append(messages, fmt.Sprintf("invalid HTTP port %d: must be between 1 and 65535", c.Transport.HTTP.Port))
		}
	}

	return messages
}

// validate checks the backend connection settings beyond the struct tags.
func (b *BackendConfig) validate() []string {
	var messages []string

	if b.BaseURL != "" {
		parsedURL, err := url.Parse(b.BaseURL)
		switch {
		case err != nil:
			messages = append(messages, fmt.Sprintf("backend base_url is invalid: %v", err))
		case parsedURL.Scheme != "http" && parsedURL.Scheme != "https":
			messages = append(messages, "backend base_url must use http or https scheme")
		case parsedURL.Host == "":
			messages = append(messages, "backend base_url must include a host")
		}
	}

	if b.Timeout != "" {
		d, err := time.ParseDuration(b.Timeout)
		if err != nil {
			messages = append(messages, fmt.Sprintf("backend timeout is invalid: %v", err))
		} else if d <= 0 {
			messages = append(messages, "backend timeout must be positive")
		}
	}

	if b.Auth != nil {
		messages = append(messages, b.Auth.validate()...)
	}

	return messages
}

// validate checks that the credentials match the declared auth type.
func (ac *AuthConfig) validate() []string {
	var messages []string

	switch ac.Type {
	case "":
		messages = append(messages, "auth type is required when auth is configured")
	case "basic":
		if ac.Username == "" {
			messages = append(messages, "username is required for basic auth")
		}
		if ac.Password == "" {
			messages = append(messages, "password is required for basic auth")
		}
	case "bearer":
		if ac.Token == "" {
			messages = append(messages, "token is required for bearer auth")
		}
	}

	return messages
}
