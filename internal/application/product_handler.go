package application

import (
	"context"
	"fmt"
	"strings"

	"products-mcp-server/internal/domain"
)

// ProductHandler implements ToolHandler for product catalog operations.
// It routes MCP tool calls to the backend products API and normalizes every
// outcome into a DispatchResult.
type ProductHandler struct {
	api          domain.ProductAPI
	defaultLimit int
}

// defaultListLimit caps product_list output when no limit is configured.
const defaultListLimit = 100

// NewProductHandler creates a new ProductHandler instance.
func NewProductHandler(api domain.ProductAPI, defaultLimit int) *ProductHandler {
	if defaultLimit <= 0 {
		defaultLimit = defaultListLimit
	}

	return &ProductHandler{
		api:          api,
		defaultLimit: defaultLimit,
	}
}

// Tool name constants for product operations
const (
	ToolProductAdd    = "product_add"
	ToolProductDelete = "product_delete"
	ToolProductUpdate = "product_update"
	ToolProductList   = "product_list"
	ToolProductSearch = "product_search"
)

// ToolName returns the identifier for this handler.
func (h *ProductHandler) ToolName() string {
	return "product"
}

// ListTools returns available tools for product operations.
func (h *ProductHandler) ListTools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolProductAdd,
			Description: "Add a new product to the catalog",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "The product name",
					},
					"price": map[string]interface{}{
						"type":        "number",
						"description": "The product price (non-negative)",
					},
					"availability": map[string]interface{}{
						"type":        "integer",
						"description": "The number of units in stock (non-negative)",
					},
					"description": map[string]interface{}{
						"type":        "string",
						"description": "The product description (optional)",
						"default":     "",
					},
				},
				Required: []string{"name", "price", "availability"},
			},
		},
		{
			Name:        ToolProductDelete,
			Description: "Delete a product from the catalog by its name",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "The name of the product to delete",
					},
				},
				Required: []string{"name"},
			},
		},
		{
			Name:        ToolProductUpdate,
			Description: "Update an existing product's price, availability, or description",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "The name of the product to update",
					},
					"new_price": map[string]interface{}{
						"type":        "number",
						"description": "The new price (optional)",
					},
					"new_availability": map[string]interface{}{
						"type":        "integer",
						"description": "The new number of units in stock (optional)",
					},
					"new_description": map[string]interface{}{
						"type":        "string",
						"description": "The new description (optional)",
					},
				},
				Required: []string{"name"},
			},
		},
		{
			Name:        ToolProductList,
			Description: "List products in the catalog",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of products to return (optional)",
						"default":     h.defaultLimit,
					},
				},
				Required: []string{},
			},
		},
		{
			Name:        ToolProductSearch,
			Description: "Search the catalog for products matching a query",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "The search query",
					},
				},
				Required: []string{"query"},
			},
		},
	}
}

// Handle processes an MCP tool call request for product operations.
func (h *ProductHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.DispatchResult, error) {
	// Validate that we have arguments
	if req.Arguments == nil {
		req.Arguments = make(map[string]interface{})
	}

	// Route to the appropriate handler based on tool name
	switch req.Name {
	case ToolProductAdd:
		return h.handleAdd(ctx, req.Arguments)
	case ToolProductDelete:
		return h.handleDelete(ctx, req.Arguments)
	case ToolProductUpdate:
		return h.handleUpdate(ctx, req.Arguments)
	case ToolProductList:
		return h.handleList(ctx, req.Arguments)
	case ToolProductSearch:
		return h.handleSearch(ctx, req.Arguments)
	default:
		return nil, domain.NewDispatchError(domain.FailureUnknownTool, "unknown product tool: %s", req.Name)
	}
}

// handleAdd handles the product_add tool call.
func (h *ProductHandler) handleAdd(ctx context.Context, args map[string]interface{}) (*domain.DispatchResult, error) {
	// Validate required parameters
	name, err := getStringParam(args, "name", true)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, domain.NewDispatchError(domain.FailureInvalidArgument, "name must be non-empty")
	}

	price, err := getFloatParam(args, "price", true)
	if err != nil {
		return nil, err
	}
	if price < 0 {
		return nil, domain.NewDispatchError(domain.FailureInvalidArgument, "price must not be negative")
	}

	availability, err := getIntParam(args, "availability", true)
	if err != nil {
		return nil, err
	}
	if availability < 0 {
		return nil, domain.NewDispatchError(domain.FailureInvalidArgument, "availability must not be negative")
	}

	// Optional parameters
	description, err := getStringParam(args, "description", false)
	if err != nil {
		return nil, err
	}

	// Build the create request
	create := &domain.ProductCreate{
		Name:         name,
		Price:        price,
		Availability: availability,
		Description:  description,
	}

	// Call the backend
	created, err := h.api.CreateProduct(ctx, create)
	if err != nil {
		return nil, err
	}

	return domain.NewSuccessResult(created,
		fmt.Sprintf("Product %q created successfully with ID %d", created.Name, created.ID)), nil
}

// handleDelete handles the product_delete tool call.
func (h *ProductHandler) handleDelete(ctx context.Context, args map[string]interface{}) (*domain.DispatchResult, error) {
	// Validate required parameters
	name, err := getStringParam(args, "name", true)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, domain.NewDispatchError(domain.FailureInvalidArgument, "name must be non-empty")
	}

	// Resolve the identifier, then act on it
	product, err := h.resolveByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if err := h.api.DeleteProduct(ctx, product.ID); err != nil {
		return nil, err
	}

	return domain.NewSuccessResult(product,
		fmt.Sprintf("Product %q deleted successfully", product.Name)), nil
}

// handleUpdate handles the product_update tool call.
func (h *ProductHandler) handleUpdate(ctx context.Context, args map[string]interface{}) (*domain.DispatchResult, error) {
	// Validate required parameters
	name, err := getStringParam(args, "name", true)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, domain.NewDispatchError(domain.FailureInvalidArgument, "name must be non-empty")
	}

	// Optional parameters; absence must be distinguishable from zero values
	// so the backend only touches the fields the caller provided.
	newPrice, err := optionalFloatParam(args, "new_price")
	if err != nil {
		return nil, err
	}
	if newPrice != nil && *newPrice < 0 {
		return nil, domain.NewDispatchError(domain.FailureInvalidArgument, "new_price must not be negative")
	}

	newAvailability, err := optionalIntParam(args, "new_availability")
	if err != nil {
		return nil, err
	}
	if newAvailability != nil && *newAvailability < 0 {
		return nil, domain.NewDispatchError(domain.FailureInvalidArgument, "new_availability must not be negative")
	}

	newDescription, err := optionalStringParam(args, "new_description")
	if err != nil {
		return nil, err
	}

	// Build the partial update carrying only the provided fields
	update := &domain.ProductUpdate{
		Price:        newPrice,
		Availability: newAvailability,
		Description:  newDescription,
	}
	if update.IsEmpty() {
		return nil, domain.NewDispatchError(domain.FailureNoChanges,
			"at least one of new_price, new_availability, or new_description must be provided")
	}

	// Resolve the identifier, then act on it
	product, err := h.resolveByName(ctx, name)
	if err != nil {
		return nil, err
	}

	updated, err := h.api.UpdateProduct(ctx, product.ID, update)
	if err != nil {
		return nil, err
	}

	return domain.NewSuccessResult(updated,
		fmt.Sprintf("Product %q updated successfully", updated.Name)), nil
}

// handleList handles the product_list tool call.
func (h *ProductHandler) handleList(ctx context.Context, args map[string]interface{}) (*domain.DispatchResult, error) {
	limit := h.defaultLimit
	if _, exists := args["limit"]; exists {
		provided, err := getIntParam(args, "limit", true)
		if err != nil {
			return nil, err
		}
		if provided <= 0 {
			return nil, domain.NewDispatchError(domain.FailureInvalidArgument, "limit must be a positive integer")
		}
		limit = provided
	}

	// Call the backend
	products, err := h.api.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}

	// The backend has no server-side limiting; truncate locally
	if len(products) > limit {
		products = products[:limit]
	}

	if len(products) == 0 {
		return domain.NewSuccessResult(products, "No products found"), nil
	}

	return domain.NewSuccessResult(products,
		fmt.Sprintf("Found %d product(s)", len(products))), nil
}

// handleSearch handles the product_search tool call.
func (h *ProductHandler) handleSearch(ctx context.Context, args map[string]interface{}) (*domain.DispatchResult, error) {
	// Validate required parameters
	query, err := getStringParam(args, "query", true)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return nil, domain.NewDispatchError(domain.FailureInvalidArgument, "query must be non-empty")
	}

	// Call the backend; matches are returned as-is without local re-filtering
	products, err := h.api.SearchProducts(ctx, query)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}

	if len(products) == 0 {
		return domain.NewSuccessResult(products,
			fmt.Sprintf("No products found matching %q", query)), nil
	}

	return domain.NewSuccessResult(products,
		fmt.Sprintf("Found %d product(s) matching %q", len(products), query)), nil
}

// resolveByName finds the single product identified by name.
// The backend delete and update surfaces are identifier-keyed, so name-based
// tools first resolve the identifier through the search endpoint. Zero
// matches fail as not found. Multiple matches resolve to the first
// case-insensitive exact match; when none is exact the resolution is
// ambiguous and the candidates are surfaced so the caller can disambiguate.
func (h *ProductHandler) resolveByName(ctx context.Context, name string) (*domain.Product, error) {
	matches, err := h.api.SearchProducts(ctx, name)
	if err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, domain.NewDispatchError(domain.FailureNotFound, "no product found with name %q", name)
	case 1:
		return &matches[0], nil
	}

	for i := range matches {
		if strings.EqualFold(matches[i].Name, name) {
			return &matches[i], nil
		}
	}

	candidates := make([]string, 0, len(matches))
	for _, match := range matches {
		candidates = append(candidates, match.Name)
	}

	return nil, &domain.DispatchError{
		Kind:       domain.FailureAmbiguousMatch,
		Message:    fmt.Sprintf("multiple products match %q; specify an exact name", name),
		Candidates: candidates,
	}
}
