package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"testing"
)

func TestMapToToolResponse_Success(t *testing.T) {
	mapper := NewResponseMapper()

	result := NewSuccessResult(Product{ID: 1, Name: "Laptop"}, "Product \"Laptop\" created successfully with ID 1")

	response, err := mapper.MapToToolResponse(result)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if response.IsError {
		t.Error("Expected IsError to be false for a successful result")
	}
	if len(response.Content) != 1 {
		t.Fatalf("Expected 1 content block, got %d", len(response.Content))
	}
	if response.Content[0].Type != "text" {
		t.Errorf("Expected content type 'text', got '%s'", response.Content[0].Type)
	}

	var decoded DispatchResult
	if err := json.Unmarshal([]byte(response.Content[0].Text), &decoded); err != nil {
		t.Fatalf("Content text is not valid JSON: %v", err)
	}
	if !decoded.Success {
		t.Error("Expected serialized result to report success")
	}
	if decoded.Message != "Product \"Laptop\" created successfully with ID 1" {
		t.Errorf("Unexpected message: %s", decoded.Message)
	}
}

func TestMapToToolResponse_Failure(t *testing.T) {
	mapper := NewResponseMapper()

	result := NewFailureResult(FailureNotFound, "no product found with name \"Ghost\"")

	response, err := mapper.MapToToolResponse(result)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !response.IsError {
		t.Error("Expected IsError to be true for a failed result")
	}

	var decoded DispatchResult
	if err := json.Unmarshal([]byte(response.Content[0].Text), &decoded); err != nil {
		t.Fatalf("Content text is not valid JSON: %v", err)
	}
	if decoded.Success {
		t.Error("Expected serialized result to report failure")
	}
	if decoded.Kind != FailureNotFound {
		t.Errorf("Expected kind '%s', got '%s'", FailureNotFound, decoded.Kind)
	}
}

func TestMapToToolResponse_NilResult(t *testing.T) {
	mapper := NewResponseMapper()

	response, err := mapper.MapToToolResponse(nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if response.IsError {
		t.Error("Expected IsError to be false for nil result")
	}
	if len(response.Content) != 1 || response.Content[0].Text != "{}" {
		t.Errorf("Expected empty JSON object content, got %+v", response.Content)
	}
}

func TestMapFailure_NilError(t *testing.T) {
	mapper := NewResponseMapper()

	if result := mapper.MapFailure(nil); result != nil {
		t.Errorf("Expected nil result for nil error, got %+v", result)
	}
}

func TestMapFailure_DispatchError(t *testing.T) {
	mapper := NewResponseMapper()

	result := mapper.MapFailure(NewDispatchError(FailureInvalidArgument, "price must not be negative"))

	if result.Success {
		t.Error("Expected failed result")
	}
	if result.Kind != FailureInvalidArgument {
		t.Errorf("Expected kind '%s', got '%s'", FailureInvalidArgument, result.Kind)
	}
	if result.Message != "price must not be negative" {
		t.Errorf("Unexpected message: %s", result.Message)
	}
	if result.Payload != nil {
		t.Error("Expected no payload without candidates")
	}
}

func TestMapFailure_AmbiguousMatchCarriesCandidates(t *testing.T) {
	mapper := NewResponseMapper()

	result := mapper.MapFailure(&DispatchError{
		Kind:       FailureAmbiguousMatch,
		Message:    "multiple products match \"usb\"; specify an exact name",
		Candidates: []string{"USB Cable", "USB Hub"},
	})

	if result.Kind != FailureAmbiguousMatch {
		t.Errorf("Expected kind '%s', got '%s'", FailureAmbiguousMatch, result.Kind)
	}

	payload, ok := result.Payload.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected payload map, got %T", result.Payload)
	}
	candidates, ok := payload["candidates"].([]string)
	if !ok {
		t.Fatalf("Expected candidates slice, got %T", payload["candidates"])
	}
	if len(candidates) != 2 || candidates[0] != "USB Cable" {
		t.Errorf("Unexpected candidates: %v", candidates)
	}
}

func TestMapFailure_NotFoundUsesBackendDetail(t *testing.T) {
	mapper := NewResponseMapper()

	result := mapper.MapFailure(NewHTTPError(404, "Not Found", `{"detail": "Product not found"}`))

	if result.Kind != FailureNotFound {
		t.Errorf("Expected kind '%s', got '%s'", FailureNotFound, result.Kind)
	}
	if result.Message != "Product not found" {
		t.Errorf("Expected backend detail as message, got '%s'", result.Message)
	}
}

func TestMapFailure_NotFoundWithoutBody(t *testing.T) {
	mapper := NewResponseMapper()

	result := mapper.MapFailure(NewHTTPError(404, "Not Found", ""))

	if result.Kind != FailureNotFound {
		t.Errorf("Expected kind '%s', got '%s'", FailureNotFound, result.Kind)
	}
	if result.Message != "product not found" {
		t.Errorf("Expected fallback message, got '%s'", result.Message)
	}
}

func TestMapFailure_BackendError(t *testing.T) {
	mapper := NewResponseMapper()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "server error with JSON detail",
			err:      NewHTTPError(500, "Internal Server Error", `{"detail": "database unavailable"}`),
			expected: "backend error (status 500): database unavailable",
		},
		{
			name:     "validation error with error key",
			err:      NewHTTPError(422, "Unprocessable Entity", `{"error": "price must be a number"}`),
			expected: "backend error (status 422): price must be a number",
		},
		{
			name:     "plain text body",
			err:      NewHTTPError(503, "Service Unavailable", "upstream down"),
			expected: "backend error (status 503): upstream down",
		},
		{
			name:     "empty body falls back to status text",
			err:      NewHTTPError(500, "Internal Server Error", ""),
			expected: "backend error (status 500): Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := mapper.MapFailure(tt.err)

			if result.Kind != FailureBackend {
				t.Errorf("Expected kind '%s', got '%s'", FailureBackend, result.Kind)
			}
			if result.Message != tt.expected {
				t.Errorf("Expected message '%s', got '%s'", tt.expected, result.Message)
			}
		})
	}
}

func TestMapFailure_WrappedHTTPError(t *testing.T) {
	mapper := NewResponseMapper()

	wrapped := fmt.Errorf("failed to delete product: %w", NewHTTPError(404, "Not Found", ""))
	result := mapper.MapFailure(wrapped)

	if result.Kind != FailureNotFound {
		t.Errorf("Expected wrapped HTTPError to classify as not_found, got '%s'", result.Kind)
	}
}

func TestMapFailure_Timeout(t *testing.T) {
	mapper := NewResponseMapper()

	tests := []struct {
		name string
		err  error
	}{
		{"deadline exceeded", context.DeadlineExceeded},
		{"wrapped deadline", fmt.Errorf("failed to execute request: %w", context.DeadlineExceeded)},
		{"url error timeout", &url.Error{Op: "Get", URL: "http://localhost:8000", Err: timeoutError{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := mapper.MapFailure(tt.err)

			if result.Kind != FailureTransport {
				t.Errorf("Expected kind '%s', got '%s'", FailureTransport, result.Kind)
			}
			if result.Message != "backend request timed out" {
				t.Errorf("Expected timeout message, got '%s'", result.Message)
			}
		})
	}
}

func TestMapFailure_ConnectionRefused(t *testing.T) {
	mapper := NewResponseMapper()

	connErr := &url.Error{
		Op:  "Get",
		URL: "http://localhost:1/api/products",
		Err: errors.New("connect: connection refused"),
	}
	result := mapper.MapFailure(connErr)

	if result.Kind != FailureTransport {
		t.Errorf("Expected kind '%s', got '%s'", FailureTransport, result.Kind)
	}
	if !contains(result.Message, "backend unreachable") {
		t.Errorf("Expected unreachable message, got '%s'", result.Message)
	}
	if !contains(result.Message, "connection refused") {
		t.Errorf("Expected underlying cause in message, got '%s'", result.Message)
	}
}

func TestMapFailure_GenericError(t *testing.T) {
	mapper := NewResponseMapper()

	result := mapper.MapFailure(errors.New("something odd happened"))

	if result.Kind != FailureBackend {
		t.Errorf("Expected kind '%s', got '%s'", FailureBackend, result.Kind)
	}
	if result.Message != "unexpected error: something odd happened" {
		t.Errorf("Unexpected message: %s", result.Message)
	}
}

func TestHTTPError_Error(t *testing.T) {
	withBody := NewHTTPError(500, "Internal Server Error", "details here")
	if withBody.Error() != "HTTP 500: Internal Server Error - details here" {
		t.Errorf("Unexpected error string: %s", withBody.Error())
	}

	withoutBody := NewHTTPError(404, "Not Found", "")
	if withoutBody.Error() != "HTTP 404: Not Found" {
		t.Errorf("Unexpected error string: %s", withoutBody.Error())
	}
}

// timeoutError fakes a net.Error whose Timeout method reports true.
type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestIsTimeout(t *testing.T) {
	if !isTimeout(context.DeadlineExceeded) {
		t.Error("Expected context.DeadlineExceeded to classify as timeout")
	}
	if !isTimeout(&url.Error{Op: "Get", URL: "x", Err: timeoutError{}}) {
		t.Error("Expected url.Error wrapping a timeout to classify as timeout")
	}
	if isTimeout(errors.New("plain")) {
		t.Error("Expected plain error not to classify as timeout")
	}
	if isTimeout(context.Canceled) {
		t.Error("Expected context.Canceled not to classify as timeout")
	}
}
