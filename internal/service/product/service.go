// Package product wires the product catalog onto the generic resource
// controller.
package product

import (
	"log/slog"

	"github.com/heartmarshall/shoplist-backend/internal/domain"
	"github.com/heartmarshall/shoplist-backend/internal/service/resource"
)

// Service provides product catalog operations.
type Service = resource.Controller[domain.Product, CreateInput, UpdateInput]

// NewService creates a new product service.
func NewService(log *slog.Logger, products resource.Store[domain.Product], maxPageSize int) *Service {
	return resource.New[domain.Product, CreateInput, UpdateInput](log, products, resource.Options{
		Entity:      "product",
		MaxPageSize: maxPageSize,
	})
}
