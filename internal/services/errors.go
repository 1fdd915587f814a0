// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound               = errors.New("not found")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrTokenRevoked           = errors.New("token has been revoked")
	ErrUsernameTaken          = errors.New("username already taken")
	ErrPasswordMismatch       = errors.New("passwords don't match")
	ErrProductNotFound        = errors.New("product does not exist")
	ErrProductUnavailable     = errors.New("product is not available")
	ErrCategoryNotFound       = errors.New("category does not exist")
	ErrCategoryInUse          = errors.New("category still has products")
	ErrCartEmpty              = errors.New("cart is empty")
	ErrMissingShippingAddress = errors.New("shipping address required")
	ErrOrderNotPending        = errors.New("order is not pending")
	ErrInvalidOrderStatus     = errors.New("invalid order status")
	ErrPaymentsDisabled       = errors.New("payments are not configured")
	ErrPaymentMismatch        = errors.New("payment does not belong to order")
	ErrPaymentIncomplete      = errors.New("payment has not succeeded")
	ErrPaymentGateway         = errors.New("payment provider request failed")
)

// ValidationError wraps request validation failures so handlers can report
// field details.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// StockExceededError is returned when a cart quantity would exceed the
// product's stock.
type StockExceededError struct {
	Available int
}

func (e *StockExceededError) Error() string {
	return fmt.Sprintf("only %d items in stock", e.Available)
}

// InsufficientStockError aborts order creation when a product cannot cover
// the requested quantity.
type InsufficientStockError struct {
	ProductName string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: only %d available", e.ProductName, e.Available)
}
