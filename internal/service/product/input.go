package product

import (
	"unicode/utf8"

	"github.com/heartmarshall/shoplist-backend/internal/domain"
)

const (
	maxNameLen     = 200
	maxCategoryLen = 100
)

// CreateInput holds the parameters for creating a product.
type CreateInput struct {
	Name     string  `json:"name"`
	Category *string `json:"category"`
}

// Validate checks all fields and collects all errors.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	name := domain.NormalizeName(i.Name)
	if name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		errs = append(errs, domain.FieldError{Field: "name", Message: "max 200 characters"})
	}
	if i.Category != nil && utf8.RuneCountInString(domain.NormalizeName(*i.Category)) > maxCategoryLen {
		errs = append(errs, domain.FieldError{Field: "category", Message: "max 100 characters"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// Fields returns the column values of a new product.
func (i CreateInput) Fields() map[string]any {
	return map[string]any{
		"name":     domain.NormalizeName(i.Name),
		"category": domain.NormalizeOptional(i.Category),
	}
}

// UpdateInput holds the parameters for updating a product.
type UpdateInput struct {
	Name     *string `json:"name"`
	Category *string `json:"category"` // nil = don't change; ptr("") = clear
}

// Validate checks all fields and collects all errors.
func (i UpdateInput) Validate() error {
	var errs []domain.FieldError

	if i.Name != nil {
		name := domain.NormalizeName(*i.Name)
		if name == "" {
			errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
		}
		if utf8.RuneCountInString(name) > maxNameLen {
			errs = append(errs, domain.FieldError{Field: "name", Message: "max 200 characters"})
		}
	}
	if i.Category != nil && utf8.RuneCountInString(domain.NormalizeName(*i.Category)) > maxCategoryLen {
		errs = append(errs, domain.FieldError{Field: "category", Message: "max 100 characters"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// Fields returns only the supplied attributes. A blank category clears it.
func (i UpdateInput) Fields() map[string]any {
	fields := make(map[string]any, 2)
	if i.Name != nil {
		fields["name"] = domain.NormalizeName(*i.Name)
	}
	if i.Category != nil {
		fields["category"] = domain.NormalizeOptional(i.Category)
	}
	return fields
}
