// Package product implements the product catalog repository using PostgreSQL.
package product

import (
	postgres "github.com/heartmarshall/shoplist-backend/internal/adapter/postgres"
	"github.com/heartmarshall/shoplist-backend/internal/domain"
)

// Columns selected for every product row.
var Columns = []string{"id", "name", "category", "created_at", "updated_at"}

// Repo provides product persistence backed by PostgreSQL.
type Repo = postgres.Table[domain.Product]

// New creates a product repository. Search matches a substring of the name
// case-insensitively; rows are ordered by name.
func New(db postgres.Querier) *Repo {
	return postgres.NewTable(db, postgres.Spec[domain.Product]{
		Entity:       "product",
		Table:        "products",
		Columns:      Columns,
		Filter:       postgres.ILikeFilter("name"),
		DefaultOrder: []string{"name ASC", "id ASC"},
		Sortable: map[string]string{
			"name":      "name",
			"category":  "category",
			"id":        "id",
			"createdAt": "created_at",
		},
	})
}
