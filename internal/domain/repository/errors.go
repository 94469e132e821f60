package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint is violated
	// (email, sku, slug, one review per user per product, wishlist pair).
	ErrDuplicate = errors.New("duplicate")
)

// InsufficientStockError is returned by order creation when a guarded stock
// decrement finds fewer units than requested. The whole transaction is
// rolled back; no partial decrements survive.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s", e.ProductName)
}
