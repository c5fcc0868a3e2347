// internal/core/domain/sweet.go
package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Sweet represents a single catalog product
type Sweet struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// InStock reports whether the sweet is eligible for purchase.
// A quantity of zero means out of stock.
func (s *Sweet) InStock() bool {
	return s.Quantity > 0
}

// SweetInput is the payload for create and update operations
type SweetInput struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Validate performs domain validation on the input
func (in *SweetInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if strings.TrimSpace(in.Category) == "" {
		return &ValidationError{Field: "category", Reason: "is required"}
	}
	if in.Price.IsNegative() {
		return &ValidationError{Field: "price", Reason: "cannot be negative"}
	}
	if in.Quantity < 0 {
		return &ValidationError{Field: "quantity", Reason: "cannot be negative"}
	}
	return nil
}
