package domain

// Product represents a product record owned by the backend catalog service.
// The backend serializes a missing description as null; decoding into a plain
// string normalizes that to the empty string.
type Product struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Availability int     `json:"availability"`
	Description  string  `json:"description"`
}

// ProductCreate is the request body for creating a product.
// The backend assigns the ID.
type ProductCreate struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Availability int     `json:"availability"`
	Description  string  `json:"description,omitempty"`
}

// ProductUpdate is the request body for a partial product update.
// Pointer fields distinguish "not provided" from a zero value, so the
// serialized body carries only the fields the caller actually set and the
// backend leaves the rest untouched.
type ProductUpdate struct {
	Name         *string  `json:"name,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	Availability *int     `json:"availability,omitempty"`
	Description  *string  `json:"description,omitempty"`
}

// IsEmpty returns true if no field of the update is set.
func (u *ProductUpdate) IsEmpty() bool {
	return u.Name == nil && u.Price == nil && u.Availability == nil && u.Description == nil
}
