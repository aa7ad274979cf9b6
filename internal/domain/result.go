package domain

import "fmt"

// FailureKind classifies why a dispatched tool call failed.
// The kind travels inside the DispatchResult so callers can react to the
// category without parsing the message text.
type FailureKind string

const (
	// FailureUnknownTool indicates the requested tool name is not registered.
	FailureUnknownTool FailureKind = "unknown_tool"

	// FailureInvalidArgument indicates a missing, mistyped, or out-of-range argument.
	FailureInvalidArgument FailureKind = "invalid_argument"

	// FailureNotFound indicates name resolution matched no product.
	FailureNotFound FailureKind = "not_found"

	// FailureAmbiguousMatch indicates name resolution matched several products
	// and none of them exactly.
	FailureAmbiguousMatch FailureKind = "ambiguous_match"

	// FailureNoChanges indicates an update that carried no fields to change.
	FailureNoChanges FailureKind = "no_changes_requested"

	// FailureTransport indicates the backend could not be reached or timed out.
	FailureTransport FailureKind = "transport_error"

	// FailureBackend indicates the backend answered with a non-2xx status.
	FailureBackend FailureKind = "backend_error"
)

// DispatchResult is the normalized outcome of one tool invocation.
// Every dispatch produces exactly one of these, success or failure; raw
// transport errors never cross this boundary.
type DispatchResult struct {
	Success bool        `json:"success"`
	Payload interface{} `json:"payload,omitempty"`
	Message string      `json:"message"`
	Kind    FailureKind `json:"error_kind,omitempty"`
}

// NewSuccessResult builds a successful DispatchResult.
func NewSuccessResult(payload interface{}, message string) *DispatchResult {
	return &DispatchResult{
		Success: true,
		Payload: payload,
		Message: message,
	}
}

// NewFailureResult builds a failed DispatchResult of the given kind.
func NewFailureResult(kind FailureKind, message string) *DispatchResult {
	return &DispatchResult{
		Success: false,
		Message: message,
		Kind:    kind,
	}
}

// DispatchError is a classified failure raised inside a handler before or
// during its backend interaction. It carries the failure kind and, for
// ambiguous name resolution, the candidate names the caller can pick from.
type DispatchError struct {
	Kind       FailureKind
	Message    string
	Candidates []string
}

// Error implements the error interface for DispatchError.
func (e *DispatchError) Error() string {
	return e.Message
}

// NewDispatchError creates a DispatchError with the given kind and message.
func NewDispatchError(kind FailureKind, format string, args ...interface{}) *DispatchError {
	return &DispatchError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}
