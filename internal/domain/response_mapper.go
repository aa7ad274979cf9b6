package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// DefaultResponseMapper is the default implementation of ResponseMapper.
// It converts dispatch results and handler errors to MCP-compliant tool responses.
type DefaultResponseMapper struct{}

// NewResponseMapper creates a new instance of DefaultResponseMapper.
func NewResponseMapper() ResponseMapper {
	return &DefaultResponseMapper{}
}

// MapToToolResponse converts a DispatchResult to MCP format.
// The whole result is serialized into a single text content block, so the
// caller sees the success flag, payload, and message together. Failed
// results set the isError flag instead of becoming protocol errors.
func (m *DefaultResponseMapper) MapToToolResponse(result *DispatchResult) (*ToolResponse, error) {
	if result == nil {
		return &ToolResponse{
			Content: []ContentBlock{
				{
					Type: "text",
					Text: "{}",
				},
			},
		}, nil
	}

	// Convert the result to JSON
	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal dispatch result: %w", err)
	}

	return &ToolResponse{
		Content: []ContentBlock{
			{
				Type: "text",
				Text: string(jsonBytes),
			},
		},
		IsError: !result.Success,
	}, nil
}

// MapFailure converts a handler error into a failed DispatchResult.
// Classification order: already-classified DispatchErrors pass through,
// backend HTTP statuses map to not_found or backend_error, timeouts and
// connection failures map to transport_error, and anything else becomes a
// backend_error with the raw error text.
func (m *DefaultResponseMapper) MapFailure(err error) *DispatchResult {
	if err == nil {
		return nil
	}

	var dispatchErr *DispatchError
	if errors.As(err, &dispatchErr) {
		result := NewFailureResult(dispatchErr.Kind, dispatchErr.Message)
		if len(dispatchErr.Candidates) > 0 {
			result.Payload = map[string]interface{}{
				"candidates": dispatchErr.Candidates,
			}
		}
		return result
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return mapHTTPError(httpErr)
	}

	if isTimeout(err) {
		return NewFailureResult(FailureTransport, "backend request timed out")
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return NewFailureResult(FailureTransport, fmt.Sprintf("backend unreachable: %v", urlErr.Err))
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return NewFailureResult(FailureTransport, fmt.Sprintf("backend unreachable: %v", netErr))
	}

	return NewFailureResult(FailureBackend, fmt.Sprintf("unexpected error: %v", err))
}

// isTimeout reports whether err is a deadline expiry or a network timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// HTTPError represents an HTTP error with status code and message.
// This is used to wrap non-2xx responses from backend API calls.
type HTTPError struct {
	StatusCode int
	Message    string
	Body       string
}

// Error implements the error interface for HTTPError.
func (e HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("HTTP %d: %s - %s", e.StatusCode, e.Message, e.Body)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// NewHTTPError creates a new HTTPError with the given status code and message.
func NewHTTPError(statusCode int, message string, body string) HTTPError {
	return HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Body:       body,
	}
}

// mapHTTPError maps backend HTTP statuses to failure kinds.
// A 404 after name resolution means the product disappeared between lookup
// and action, which callers must see as not_found rather than a backend
// defect. Everything else surfaces the backend's own reason.
func mapHTTPError(httpErr HTTPError) *DispatchResult {
	if httpErr.StatusCode == http.StatusNotFound {
		reason := backendReason(httpErr.Body)
		if reason == "" {
			reason = "product not found"
		}
		return NewFailureResult(FailureNotFound, reason)
	}

	reason := backendReason(httpErr.Body)
	if reason == "" {
		reason = httpErr.Message
	}
	return NewFailureResult(FailureBackend, fmt.Sprintf("backend error (status %d): %s", httpErr.StatusCode, reason))
}

// backendReason extracts a human-readable reason from a backend error body.
// The products API reports errors as a JSON object; the usual keys are tried
// in order, falling back to the raw body text.
func backendReason(body string) string {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return ""
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(trimmed), &payload); err == nil {
		for _, key := range []string{"detail", "error", "message"} {
			if value, ok := payload[key].(string); ok && value != "" {
				return value
			}
		}
	}

	return trimmed
}
