// Package errors provides custom error types for product-related operations.
package errors

import "errors"

// ErrProductNotFound is returned when an operation requires an existing product
// and no product with the requested ID is stored.
var ErrProductNotFound = errors.New("product not found")
