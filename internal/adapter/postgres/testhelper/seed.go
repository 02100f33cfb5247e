package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/shoplist-backend/internal/domain"
)

// UniqueSuffix returns a short unique string for generating non-conflicting
// test data in the shared database.
func UniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedProduct inserts a product named name and returns it.
func SeedProduct(t *testing.T, pool *pgxpool.Pool, name string) domain.Product {
	t.Helper()

	var p domain.Product
	err := pool.QueryRow(context.Background(),
		`INSERT INTO products (name) VALUES ($1)
		 RETURNING id, name, category, created_at, updated_at`,
		name,
	).Scan(&p.ID, &p.Name, &p.Category, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedProduct insert: %v", err)
	}
	return p
}

// SeedList inserts a shopping list with one item per product (quantity 1,
// unit price 1.00) and returns the list id.
func SeedList(t *testing.T, pool *pgxpool.Pool, name string, productIDs ...int64) int64 {
	t.Helper()
	ctx := context.Background()

	var id int64
	if err := pool.QueryRow(ctx,
		`INSERT INTO shopping_lists (name) VALUES ($1) RETURNING id`, name,
	).Scan(&id); err != nil {
		t.Fatalf("testhelper: SeedList insert list: %v", err)
	}

	for i, pid := range productIDs {
		if _, err := pool.Exec(ctx,
			`INSERT INTO list_items (list_id, product_id, position, quantity, unit_price)
			 VALUES ($1, $2, $3, $4, $5)`,
			id, pid, i, decimal.NewFromInt(1), decimal.RequireFromString("1.00"),
		); err != nil {
			t.Fatalf("testhelper: SeedList insert item: %v", err)
		}
	}
	return id
}

// CountRows returns the number of rows in table matching the optional where
// clause.
func CountRows(t *testing.T, pool *pgxpool.Pool, table, where string, args ...any) int {
	t.Helper()

	query := "SELECT count(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	var n int
	if err := pool.QueryRow(context.Background(), query, args...).Scan(&n); err != nil {
		t.Fatalf("testhelper: CountRows %s: %v", table, err)
	}
	return n
}
