package domain

import (
	"encoding/base64"
	"fmt"
	"net/http"
)

// Credentials stores authentication information for the backend API.
// Supports both basic authentication (username/password) and bearer token
// authentication.
type Credentials struct {
	Type     AuthType // BasicAuth or BearerAuth
	Username string   // Used for basic auth
	Password string   // Used for basic auth
	Token    string   // Used for bearer auth
}

// CredentialsFromConfig converts an AuthConfig to Credentials.
func CredentialsFromConfig(authConfig *AuthConfig) *Credentials {
	return &Credentials{
		Type:     ParseAuthType(authConfig.Type),
		Username: authConfig.Username,
		Password: authConfig.Password,
		Token:    authConfig.Token,
	}
}

// NewBackendClient builds the HTTP client used for all backend calls.
// The client timeout caps every outbound request. When the backend requires
// authentication, a wrapping transport injects the Authorization header on
// each request.
func NewBackendClient(backend *BackendConfig) (*http.Client, error) {
	client := &http.Client{
		Timeout: backend.TimeoutDuration(),
	}

	if backend.Auth != nil {
		creds := CredentialsFromConfig(backend.Auth)
		if err := validateCredentials(creds); err != nil {
			return nil, err
		}

		client.Transport = &authenticatedTransport{
			base:        http.DefaultTransport,
			credentials: creds,
		}
	}

	return client, nil
}

// validateCredentials validates a Credentials object.
func validateCredentials(creds *Credentials) error {
	if creds == nil {
		return fmt.Errorf("credentials cannot be nil")
	}

	switch creds.Type {
	case BasicAuth:
		if creds.Username == "" {
			return fmt.Errorf("username is required for basic authentication")
		}
		if creds.Password == "" {
			return fmt.Errorf("password is required for basic authentication")
		}
	case BearerAuth:
		if creds.Token == "" {
			return fmt.Errorf("token is required for bearer authentication")
		}
	default:
		return fmt.Errorf("invalid authentication type: %v", creds.Type)
	}

	return nil
}

// authenticatedTransport is an http.RoundTripper that adds authentication headers.
type authenticatedTransport struct {
	base        http.RoundTripper
	credentials *Credentials
}

// RoundTrip implements http.RoundTripper by adding authentication headers to requests.
func (t *authenticatedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	clonedReq := req.Clone(req.Context())

	switch t.credentials.Type {
	case BasicAuth:
		// Basic authentication: encode username:password in base64
		auth := t.credentials.Username + ":" + t.credentials.Password
		encodedAuth := base64.StdEncoding.EncodeToString([]byte(auth))
		clonedReq.Header.Set("Authorization", "Basic "+encodedAuth)
	case BearerAuth:
		clonedReq.Header.Set("Authorization", "Bearer "+t.credentials.Token)
	}

	return t.base.RoundTrip(clonedReq)
}
