package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrProductNotFound is returned when a requested product does not exist.
	ErrProductNotFound = errors.New("product not found")
	// ErrPackNotFound is returned when a requested package does not exist.
	ErrPackNotFound = errors.New("package not found")
)

// Product is a catalog item that can be sold directly or included in a package.
type Product struct {
	ID             string
	SKU            string
	Name           string
	Price          decimal.Decimal
	Stock          int
	WarrantyMonths int
	Active         bool
}

// Pack is a named bundle of products sold at its own price.
type Pack struct {
	ID          string
	Name        string
	Description string
	BasePrice   decimal.Decimal
	Active      bool
}

// ProductRepository defines read operations for the product catalog.
type ProductRepository interface {
	ListActive(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
}

// PackRepository defines read operations for the package catalog.
type PackRepository interface {
	ListActive(ctx context.Context) ([]Pack, error)
	GetByID(ctx context.Context, id string) (*Pack, error)
}
