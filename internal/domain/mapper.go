package domain

// ResponseMapper converts dispatch outcomes to MCP tool responses.
// This interface is responsible for transforming normalized results and
// handler errors into MCP-compliant format consumable by MCP clients.
type ResponseMapper interface {
	// MapToToolResponse converts a DispatchResult to MCP format.
	// Failed results become error-flagged text content rather than
	// protocol errors. Returns an error if serialization fails.
	MapToToolResponse(result *DispatchResult) (*ToolResponse, error)

	// MapFailure converts a handler error into a failed DispatchResult.
	// This method classifies DispatchErrors, backend HTTP errors, timeouts,
	// and connection failures into the corresponding failure kinds.
	MapFailure(err error) *DispatchResult
}
