package ledger

import (
	"context"
	"fmt"
)

// StorageError is a typed failure of a single ledger operation. It is fatal
// to that operation only; the caller decides whether to retry.
type StorageError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *StorageError) Error() string {
	return fmt.Sprintf("ledger %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause
func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps a low-level failure of the named operation
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// Repository is the durable store for orders created on this device.
//
// Insert persists the order and all of its line items as one atomic unit and
// returns the assigned identity. An order carrying an identity that already
// exists replaces the prior row and its line items (last write wins).
// Delete cascades to line items and is idempotent: deleting an id that does
// not exist is a no-op. No update operation exists; orders are write-once.
type Repository interface {
	Insert(ctx context.Context, order *Order) (uint, error)
	Delete(ctx context.Context, id uint) error
	OrdersByOwner(ctx context.Context, ownerID string) ([]Order, error)
	LineItemsByOrder(ctx context.Context, orderID uint) ([]LineItem, error)
	LineItemsByOwner(ctx context.Context, ownerID string) ([]LineItem, error)
}
