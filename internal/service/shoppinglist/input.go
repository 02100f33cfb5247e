package shoppinglist

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/shoplist-backend/internal/domain"
)

const (
	maxNameLen  = 200
	maxItems    = 500
	maxQuantity = 99999999 // NUMERIC(10,2)
)

// ItemInput is one entry of a list's item collection.
type ItemInput struct {
	ProductID int64            `json:"productId"`
	Quantity  *decimal.Decimal `json:"quantity"`  // nil = 1
	UnitPrice *decimal.Decimal `json:"unitPrice"` // nil = 0
}

// Item converts the input to a list item with defaults applied.
func (i ItemInput) Item() domain.ListItem {
	it := domain.ListItem{
		ProductID: i.ProductID,
		Quantity:  domain.DefaultItemQuantity,
		UnitPrice: domain.DefaultItemUnitPrice,
	}
	if i.Quantity != nil {
		it.Quantity = *i.Quantity
	}
	if i.UnitPrice != nil {
		it.UnitPrice = *i.UnitPrice
	}
	return it
}

func validateItems(items []ItemInput) []domain.FieldError {
	var errs []domain.FieldError
	if len(items) > maxItems {
		errs = append(errs, domain.FieldError{Field: "items", Message: fmt.Sprintf("max %d items", maxItems)})
	}

	limit := decimal.NewFromInt(maxQuantity)
	for idx, it := range items {
		field := fmt.Sprintf("items[%d]", idx)
		if it.ProductID <= 0 {
			errs = append(errs, domain.FieldError{Field: field + ".productId", Message: "required"})
		}
		if it.Quantity != nil {
			switch {
			case !it.Quantity.IsPositive():
				errs = append(errs, domain.FieldError{Field: field + ".quantity", Message: "must be greater than 0"})
			case it.Quantity.GreaterThan(limit):
				errs = append(errs, domain.FieldError{Field: field + ".quantity", Message: "too large"})
			}
		}
		if it.UnitPrice != nil {
			switch {
			case it.UnitPrice.IsNegative():
				errs = append(errs, domain.FieldError{Field: field + ".unitPrice", Message: "must not be negative"})
			case it.UnitPrice.GreaterThan(limit):
				errs = append(errs, domain.FieldError{Field: field + ".unitPrice", Message: "too large"})
			}
		}
	}
	return errs
}

func toItems(in []ItemInput) []domain.ListItem {
	items := make([]domain.ListItem, len(in))
	for i, it := range in {
		items[i] = it.Item()
	}
	return items
}

// CreateInput holds the parameters for creating a shopping list with its
// initial items.
type CreateInput struct {
	Name      *string     `json:"name"`
	Completed *bool       `json:"completed"` // nil = false
	CreatedAt *time.Time  `json:"createdAt"` // nil = now
	Items     []ItemInput `json:"items"`
}

// Validate checks all fields and collects all errors.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	if i.Name != nil && utf8.RuneCountInString(domain.NormalizeName(*i.Name)) > maxNameLen {
		errs = append(errs, domain.FieldError{Field: "name", Message: "max 200 characters"})
	}
	if i.CreatedAt != nil && i.CreatedAt.IsZero() {
		errs = append(errs, domain.FieldError{Field: "createdAt", Message: "invalid timestamp"})
	}
	errs = append(errs, validateItems(i.Items)...)

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// Fields returns the column values of the new list row.
func (i CreateInput) Fields() map[string]any {
	fields := map[string]any{
		"name":      domain.NormalizeOptional(i.Name),
		"completed": i.Completed != nil && *i.Completed,
	}
	if i.CreatedAt != nil {
		fields["created_at"] = *i.CreatedAt
	}
	return fields
}

// UpdateInput holds the parameters for updating a shopping list.
// Items nil leaves the collection untouched; a non-nil pointer, even to an
// empty slice, replaces it.
type UpdateInput struct {
	Name      *string      `json:"name"` // ptr("") = clear
	Completed *bool        `json:"completed"`
	Items     *[]ItemInput `json:"items"`
}

// Validate checks all fields and collects all errors.
func (i UpdateInput) Validate() error {
	var errs []domain.FieldError

	if i.Name != nil && utf8.RuneCountInString(domain.NormalizeName(*i.Name)) > maxNameLen {
		errs = append(errs, domain.FieldError{Field: "name", Message: "max 200 characters"})
	}
	if i.Items != nil {
		errs = append(errs, validateItems(*i.Items)...)
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// Fields returns only the supplied parent attributes.
func (i UpdateInput) Fields() map[string]any {
	fields := make(map[string]any, 2)
	if i.Name != nil {
		fields["name"] = domain.NormalizeOptional(i.Name)
	}
	if i.Completed != nil {
		fields["completed"] = *i.Completed
	}
	return fields
}
