package draft

import (
	"fmt"

	"github.com/go-faster/errors"
)

// ErrItemIndex is returned when a remove targets a line item index that does
// not exist in the collection.
var ErrItemIndex = errors.New("line item index out of range")

// ValidationError indicates bad user input: a missing required field, a
// non-positive quantity, a negative override, or a duplicate package line.
// Validation errors are resolved locally; the draft is left unchanged and
// they never reach the persistence layer.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError indicates a referenced catalog entity is missing from the
// draft's catalog snapshot.
type NotFoundError struct {
	Kind  Kind
	RefID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found in catalog", e.Kind, e.RefID)
}

// InsufficientStockError indicates the requested quantity, combined with
// quantities already in the draft for the same product, exceeds the stock
// available in the catalog snapshot.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}
