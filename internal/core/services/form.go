// internal/core/services/form.go
package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/candyline/sweetshop/internal/core/domain"
	"github.com/candyline/sweetshop/internal/core/ports"
)

// SweetForm owns the input state for one create-or-edit form instance,
// decoupled from the catalog list. Fields hold the raw entered strings;
// parsing happens on submit and a failed submit retains them so the user
// can correct and retry.
type SweetForm struct {
	catalog ports.CatalogClient
	editing *domain.Sweet // nil in create mode

	Name     string
	Category string
	Price    string
	Quantity string
}

// NewCreateForm returns an empty form that will create a new sweet
func NewCreateForm(catalog ports.CatalogClient) *SweetForm {
	return &SweetForm{catalog: catalog}
}

// NewEditForm returns a form pre-populated from an existing sweet that
// will update it on submit
func NewEditForm(catalog ports.CatalogClient, sweet domain.Sweet) *SweetForm {
	return &SweetForm{
		catalog:  catalog,
		editing:  &sweet,
		Name:     sweet.Name,
		Category: sweet.Category,
		Price:    sweet.Price.String(),
		Quantity: strconv.Itoa(sweet.Quantity),
	}
}

// Editing reports whether the form was opened in edit mode
func (f *SweetForm) Editing() bool {
	return f.editing != nil
}

// Input parses and validates the entered values without touching the
// network. Price must parse as a non-negative decimal, quantity as a
// non-negative integer.
func (f *SweetForm) Input() (domain.SweetInput, error) {
	var in domain.SweetInput

	price, err := decimal.NewFromString(strings.TrimSpace(f.Price))
	if err != nil {
		return in, &domain.ValidationError{Field: "price", Reason: "must be a number"}
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(f.Quantity))
	if err != nil {
		return in, &domain.ValidationError{Field: "quantity", Reason: "must be a whole number"}
	}

	in = domain.SweetInput{
		Name:     strings.TrimSpace(f.Name),
		Category: strings.TrimSpace(f.Category),
		Price:    price,
		Quantity: quantity,
	}
	if err := in.Validate(); err != nil {
		return domain.SweetInput{}, err
	}
	return in, nil
}

// Submit validates the form and delegates to Create or Update depending on
// the mode it was opened in. The entered values are retained on failure.
func (f *SweetForm) Submit(ctx context.Context) (*domain.Sweet, error) {
	in, err := f.Input()
	if err != nil {
		return nil, err
	}
	if f.editing != nil {
		return f.catalog.Update(ctx, f.editing.ID, in)
	}
	return f.catalog.Create(ctx, in)
}
