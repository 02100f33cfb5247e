// Package seeder imports a product catalog file into the database.
package seeder

import (
	"context"

	"github.com/heartmarshall/shoplist-backend/internal/domain"
)

// CatalogRepo defines the batch repository contract consumed by the seeder pipeline.
// Implemented by product.BulkRepo.
type CatalogRepo interface {
	// ExistingNames returns the lower-cased names of all products.
	ExistingNames(ctx context.Context) (map[string]bool, error)
	// BulkInsert skips names that already exist, ignoring case.
	BulkInsert(ctx context.Context, products []domain.Product) (int, error)
	// BulkUpdateCategories matches products by name, ignoring case.
	BulkUpdateCategories(ctx context.Context, products []domain.Product) (int, error)
}
