package domain

import (
	"context"
)

// ToolHandler processes requests for one family of tools.
// A handler owns every operation sharing its name prefix and executes the
// backend interaction for each of them.
type ToolHandler interface {
	// Handle executes a validated tool call request.
	// Domain outcomes (success or a classified failure) come back as a
	// DispatchResult or a DispatchError; transport and backend errors come
	// back as plain errors for the dispatcher to classify.
	Handle(ctx context.Context, req *ToolRequest) (*DispatchResult, error)

	// ListTools returns available tools for this handler.
	// Each tool represents a specific operation (e.g., product_add, product_search).
	ListTools() []ToolDefinition

	// ToolName returns the identifier for this handler.
	// This is used for routing requests to the appropriate handler.
	ToolName() string
}
