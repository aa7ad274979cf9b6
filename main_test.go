package main

import (
	"os"
	"strings"
	"testing"

	"products-mcp-server/internal/application"
	"products-mcp-server/internal/domain"
	"products-mcp-server/internal/infrastructure"
)

// clearEnv keeps ambient environment overrides out of config tests.
func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(domain.EnvBackendURL, "")
	t.Setenv(domain.EnvBackendToken, "")
	t.Setenv(domain.EnvTransport, "")
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	tmpFile.Close()
	return tmpFile.Name()
}

// TestConfigurationLoading tests that configuration can be loaded successfully
func TestConfigurationLoading(t *testing.T) {
	clearEnv(t)

	configContent := `
transport:
  type: stdio

backend:
  base_url: http://localhost:8000
  timeout: 10s
  auth:
    type: basic
    username: admin
    password: secret

limits:
  default_list: 50
`

	path := writeTempConfig(t, configContent)

	config, err := domain.LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	if config.Transport.Type != "stdio" {
		t.Errorf("Expected transport type 'stdio', got '%s'", config.Transport.Type)
	}

	if config.Backend.BaseURL != "http://localhost:8000" {
		t.Errorf("Expected backend base URL 'http://localhost:8000', got '%s'", config.Backend.BaseURL)
	}

	if config.Backend.Auth == nil {
		t.Fatal("Expected backend auth to be configured")
	}

	if config.Backend.Auth.Type != "basic" {
		t.Errorf("Expected auth type 'basic', got '%s'", config.Backend.Auth.Type)
	}

	if config.Limits.DefaultList != 50 {
		t.Errorf("Expected default list limit 50, got %d", config.Limits.DefaultList)
	}
}

// TestServerConstructionFromConfig wires the full stack from a loaded
// configuration the same way runServer does.
func TestServerConstructionFromConfig(t *testing.T) {
	clearEnv(t)

	configContent := `
transport:
  type: stdio

backend:
  base_url: http://localhost:8000
  rate_limit: 10
`

	path := writeTempConfig(t, configContent)

	config, err := domain.LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	httpClient, err := domain.NewBackendClient(&config.Backend)
	if err != nil {
		t.Fatalf("Failed to create backend client: %v", err)
	}

	productClient := infrastructure.NewProductClient(
		config.Backend.BaseURL, httpClient, config.Backend.RateLimit, config.Backend.Burst)

	if productClient.BaseURL() != "http://localhost:8000" {
		t.Errorf("Unexpected client base URL: %s", productClient.BaseURL())
	}

	mapper := domain.NewResponseMapper()
	handler := application.NewProductHandler(productClient, config.Limits.DefaultList)
	dispatcher := application.NewDispatcher(mapper, handler)

	tools := dispatcher.ListAllTools()
	if len(tools) != 5 {
		t.Fatalf("Expected 5 tools, got %d", len(tools))
	}

	server := application.NewServer(domain.NewStdioTransport(), dispatcher, mapper, config)
	if server == nil {
		t.Fatal("Failed to create server")
	}
}

// TestToolDefinitionsWithoutBackend mirrors the tools subcommand: schemas
// must be available without a live backend.
func TestToolDefinitionsWithoutBackend(t *testing.T) {
	handler := application.NewProductHandler(nil, 0)
	dispatcher := application.NewDispatcher(domain.NewResponseMapper(), handler)

	tools := dispatcher.ListAllTools()
	if len(tools) != 5 {
		t.Fatalf("Expected 5 tools, got %d", len(tools))
	}

	for _, tool := range tools {
		if !strings.HasPrefix(tool.Name, "product_") {
			t.Errorf("Unexpected tool name: %s", tool.Name)
		}
		if tool.Description == "" {
			t.Errorf("Tool %s has no description", tool.Name)
		}
		if tool.InputSchema.Type != "object" {
			t.Errorf("Tool %s schema type is %q, expected object", tool.Name, tool.InputSchema.Type)
		}
	}
}

// TestRunServer_InvalidConfig verifies startup fails fast on a broken
// configuration instead of starting a half-wired server.
func TestRunServer_InvalidConfig(t *testing.T) {
	clearEnv(t)

	configContent := `
transport:
  type: websocket

backend:
  base_url: http://localhost:8000
`

	path := writeTempConfig(t, configContent)

	err := runServer(path)
	if err == nil {
		t.Fatal("Expected error for invalid transport type")
	}

	if !strings.Contains(err.Error(), "failed to load configuration") {
		t.Errorf("Unexpected error: %v", err)
	}
}

// TestRunServer_MissingConfigWithoutEnvironment verifies a missing file
// without environment overrides is rejected.
func TestRunServer_MissingConfigWithoutEnvironment(t *testing.T) {
	clearEnv(t)

	err := runServer("nonexistent-config.yaml")
	if err == nil {
		t.Fatal("Expected error when no backend URL is available")
	}
}

// TestInvalidConfiguration tests that invalid configurations are rejected
func TestInvalidConfiguration(t *testing.T) {
	tests := []struct {
		name          string
		configContent string
		expectError   bool
	}{
		{
			name: "Missing transport type defaults to stdio",
			configContent: `
backend:
  base_url: http://localhost:8000
`,
			expectError: false,
		},
		{
			name: "Invalid transport type",
			configContent: `
transport:
  type: invalid

backend:
  base_url: http://localhost:8000
`,
			expectError: true,
		},
		{
			name: "HTTP transport without host",
			configContent: `
transport:
  type: http
  http:
    port: 8080

backend:
  base_url: http://localhost:8000
`,
			expectError: true,
		},
		{
			name: "Missing base URL",
			configContent: `
transport:
  type: stdio
`,
			expectError: true,
		},
		{
			name: "Base URL with unsupported scheme",
			configContent: `
transport:
  type: stdio

backend:
  base_url: ftp://localhost:8000
`,
			expectError: true,
		},
		{
			name: "Invalid auth type",
			configContent: `
transport:
  type: stdio

backend:
  base_url: http://localhost:8000
  auth:
    type: invalid
    username: user
    password: pass
`,
			expectError: true,
		},
		{
			name: "Basic auth without username",
			configContent: `
transport:
  type: stdio

backend:
  base_url: http://localhost:8000
  auth:
    type: basic
    password: pass
`,
			expectError: true,
		},
		{
			name: "Bearer auth without token",
			configContent: `
transport:
  type: stdio

backend:
  base_url: http://localhost:8000
  auth:
    type: bearer
`,
			expectError: true,
		},
		{
			name: "Negative rate limit",
			configContent: `
transport:
  type: stdio

backend:
  base_url: http://localhost:8000
  rate_limit: -1
`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := writeTempConfig(t, tt.configContent)

			_, err := domain.LoadConfig(path)

			if tt.expectError && err == nil {
				t.Error("Expected error but got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}
