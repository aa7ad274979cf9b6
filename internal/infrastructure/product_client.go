package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"products-mcp-server/internal/domain"
)

// ProductClient handles products REST API interactions.
// It implements the ProductAPI interface and provides methods for all
// backend operations required by the MCP server.
type ProductClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewProductClient creates a new products API client.
// The baseURL should be the root URL of the backend (e.g., "http://localhost:8000").
// The httpClient should come from NewBackendClient so the configured timeout
// and credentials apply. A rateLimit of 0 disables client-side rate limiting.
func NewProductClient(baseURL string, httpClient *http.Client, rateLimit float64, burst int) *ProductClient {
	var limiter *rate.Limiter
	if rateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(rateLimit), burst)
	}

	return &ProductClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		limiter:    limiter,
	}
}

// BaseURL returns the configured base URL for the backend.
func (c *ProductClient) BaseURL() string {
	return c.baseURL
}

// Do executes an HTTP request against the backend.
func (c *ProductClient) Do(req *http.Request) (*http.Response, error) {
	// Set common headers
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

// wait blocks until the rate limiter admits the next request.
func (c *ProductClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		// Wait wraps context errors in its own text; surface the context
		// error itself so the failure classifies as a timeout or cancel.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}

// ListProducts retrieves all products from the backend.
func (c *ProductClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/api/products", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, domain.NewHTTPError(resp.StatusCode, http.StatusText(resp.StatusCode), string(body))
	}

	var products []domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return products, nil
}

// GetProduct retrieves a single product by its identifier.
func (c *ProductClient) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/api/products/%d", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, domain.NewHTTPError(resp.StatusCode, http.StatusText(resp.StatusCode), string(body))
	}

	var product domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &product, nil
}

// SearchProducts retrieves the products matching the query.
func (c *ProductClient) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	endpoint := fmt.Sprintf("%s/api/products/search?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, domain.NewHTTPError(resp.StatusCode, http.StatusText(resp.StatusCode), string(body))
	}

	var products []domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return products, nil
}

// CreateProduct creates a new product.
// Returns the created product with its assigned identifier.
func (c *ProductClient) CreateProduct(ctx context.Context, create *domain.ProductCreate) (*domain.Product, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/api/products", c.baseURL)

	body, err := json.Marshal(create)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal product: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	// The backend answers 201 on create; some deployments answer 200.
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, domain.NewHTTPError(resp.StatusCode, http.StatusText(resp.StatusCode), string(body))
	}

	var created domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &created, nil
}

// UpdateProduct applies a partial update to an existing product.
// The body carries only the fields set on update; the backend leaves the
// rest untouched. Returns the updated product.
func (c *ProductClient) UpdateProduct(ctx context.Context, id int, update *domain.ProductUpdate) (*domain.Product, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/api/products/%d", c.baseURL, id)

	body, err := json.Marshal(update)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal update: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, domain.NewHTTPError(resp.StatusCode, http.StatusText(resp.StatusCode), string(body))
	}

	var updated domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &updated, nil
}

// DeleteProduct removes a product by its identifier.
func (c *ProductClient) DeleteProduct(ctx context.Context, id int) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/api/products/%d", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.NewHTTPError(resp.StatusCode, http.StatusText(resp.StatusCode), string(body))
	}

	return nil
}
