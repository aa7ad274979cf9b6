package application

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"products-mcp-server/internal/domain"
)

// Dispatcher routes MCP tool requests to the appropriate ToolHandler.
// It maintains a registry of handlers keyed by tool name prefix and validates
// arguments against the registered tool schemas before delegating.
type Dispatcher struct {
	handlers    map[string]domain.ToolHandler
	definitions map[string]domain.ToolDefinition
	mapper      domain.ResponseMapper
}

// NewDispatcher creates a new Dispatcher with the provided handlers.
// Handlers are registered by their ToolName() identifier; their tool
// definitions are indexed by tool name for argument validation.
func NewDispatcher(mapper domain.ResponseMapper, handlers ...domain.ToolHandler) *Dispatcher {
	dispatcher := &Dispatcher{
		handlers:    make(map[string]domain.ToolHandler),
		definitions: make(map[string]domain.ToolDefinition),
		mapper:      mapper,
	}

	for _, handler := range handlers {
		dispatcher.handlers[handler.ToolName()] = handler
		for _, def := range handler.ListTools() {
			dispatcher.definitions[def.Name] = def
		}
	}

	return dispatcher
}

// Dispatch routes a tool request to its handler and normalizes the outcome.
// Tool names follow the pattern: <handler>_<operation> (e.g., product_add,
// product_search). Every invocation produces a DispatchResult: unknown tools,
// invalid arguments, and handler failures all travel as failure results so
// the caller can always render a tool response.
func (d *Dispatcher) Dispatch(ctx context.Context, req *domain.ToolRequest) (result *domain.DispatchResult) {
	// A panicking handler must not take down the request loop.
	defer func() {
		if r := recover(); r != nil {
			result = domain.NewFailureResult(domain.FailureBackend, fmt.Sprintf("internal error: %v", r))
		}
	}()

	// Extract handler name from tool name prefix
	handlerName := d.extractHandlerName(req.Name)
	if handlerName == "" {
		return domain.NewFailureResult(domain.FailureUnknownTool,
			fmt.Sprintf("invalid tool name format: %s (expected format: <handler>_<operation>)", req.Name))
	}

	// Find the appropriate handler
	handler, exists := d.handlers[handlerName]
	if !exists {
		return domain.NewFailureResult(domain.FailureUnknownTool,
			fmt.Sprintf("unknown tool: %s (no handler registered for '%s')", req.Name, handlerName))
	}

	def, exists := d.definitions[req.Name]
	if !exists {
		return domain.NewFailureResult(domain.FailureUnknownTool,
			fmt.Sprintf("unknown tool: %s", req.Name))
	}

	// Validate and normalize arguments before any handler work happens
	args, err := def.InputSchema.ValidateArguments(req.Arguments)
	if err != nil {
		return d.mapper.MapFailure(err)
	}

	validated := *req
	validated.Arguments = args

	// Delegate to the handler
	result, err = handler.Handle(ctx, &validated)
	if err != nil {
		return d.mapper.MapFailure(err)
	}
	if result == nil {
		return domain.NewFailureResult(domain.FailureBackend,
			fmt.Sprintf("handler returned no result for tool: %s", req.Name))
	}

	return result
}

// ListAllTools aggregates tool definitions from all registered handlers.
// This is used for MCP tool discovery (tools/list method). Definitions are
// sorted by name so discovery output is stable across runs.
func (d *Dispatcher) ListAllTools() []domain.ToolDefinition {
	var allTools []domain.ToolDefinition

	for _, handler := range d.handlers {
		allTools = append(allTools, handler.ListTools()...)
	}

	sort.Slice(allTools, func(i, j int) bool {
		return allTools[i].Name < allTools[j].Name
	})

	return allTools
}

// extractHandlerName extracts the handler identifier from a tool name.
// Tool names follow the pattern: <handler>_<operation>
// For example: "product_add" -> "product", "product_search" -> "product"
func (d *Dispatcher) extractHandlerName(toolName string) string {
	// Find the first underscore
	idx := strings.Index(toolName, "_")
	if idx == -1 {
		return ""
	}

	return toolName[:idx]
}

// GetHandler returns the handler for a specific handler name.
// This is useful for testing and debugging.
func (d *Dispatcher) GetHandler(handlerName string) (domain.ToolHandler, bool) {
	handler, exists := d.handlers[handlerName]
	return handler, exists
}
