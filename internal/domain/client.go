package domain

import (
	"context"
)

// ProductAPI defines the backend operations the handlers depend on.
// The infrastructure layer implements it against the products REST API;
// tests substitute recording fakes. Every call carries a context so the
// per-invocation timeout and caller cancellation reach the wire.
type ProductAPI interface {
	// ListProducts retrieves all products.
	ListProducts(ctx context.Context) ([]Product, error)

	// GetProduct retrieves a single product by its identifier.
	GetProduct(ctx context.Context, id int) (*Product, error)

	// SearchProducts retrieves the products matching the query.
	SearchProducts(ctx context.Context, query string) ([]Product, error)

	// CreateProduct creates a product and returns it with its assigned ID.
	CreateProduct(ctx context.Context, create *ProductCreate) (*Product, error)

	// UpdateProduct applies a partial update and returns the updated product.
	UpdateProduct(ctx context.Context, id int, update *ProductUpdate) (*Product, error)

	// DeleteProduct removes a product by its identifier.
	DeleteProduct(ctx context.Context, id int) error
}
