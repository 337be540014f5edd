package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/sorenh/crmdash/internal/domain/draft"
)

// ErrNotFound is returned when a requested order does not exist.
var ErrNotFound = errors.New("order not found")

// Status enumerates order lifecycle states.
type Status string

const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// PaymentStatus enumerates payment states.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// ValidStatus reports whether s is a known order status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusNew, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentUnpaid, PaymentPartial, PaymentPaid:
		return true
	}
	return false
}

// Order is a persisted customer order with its derived amounts.
type Order struct {
	ID                   string
	CustomerID           string
	Status               Status
	PaymentStatus        PaymentStatus
	PaymentMethod        string
	Notes                string
	InstallationIncluded bool
	Subtotal             decimal.Decimal
	Discount             decimal.Decimal
	Tax                  decimal.Decimal
	Total                decimal.Decimal
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Item is one persisted order line.
type Item struct {
	ID        string
	OrderID   string
	Kind      draft.Kind
	RefID     string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Warranty is created for product lines whose catalog entry carries a
// warranty duration.
type Warranty struct {
	ID          string
	OrderItemID string
	ProductID   string
	Months      int
	ExpiresAt   time.Time
}

// Repository defines persistence operations for orders and their lines.
type Repository interface {
	Upsert(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	InsertItem(ctx context.Context, item *Item) error
	UpdateItem(ctx context.Context, id string, quantity int, unitPrice decimal.Decimal) error
	DeleteItem(ctx context.Context, id string) error
	ListItems(ctx context.Context, orderID string) ([]Item, error)
}

// Inventory decrements product stock. Implemented by the storage
// collaborator as a remote procedure call.
type Inventory interface {
	DecrementStock(ctx context.Context, productID string, quantity int) error
}

// WarrantyRepository persists warranty records.
type WarrantyRepository interface {
	Create(ctx context.Context, w *Warranty) error
}
