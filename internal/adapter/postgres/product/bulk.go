package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/shoplist-backend/internal/adapter/postgres"
	"github.com/heartmarshall/shoplist-backend/internal/domain"
)

// BulkRepo writes catalog imports in batches.
type BulkRepo struct {
	db postgres.Querier
}

// NewBulkRepo creates a bulk product repository.
func NewBulkRepo(db postgres.Querier) *BulkRepo {
	return &BulkRepo{db: db}
}

// ExistingNames returns the lower-cased name of every product.
func (r *BulkRepo) ExistingNames(ctx context.Context) (map[string]bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)
	rows, err := q.Query(ctx, `SELECT lower(name) FROM products`)
	if err != nil {
		return nil, fmt.Errorf("get product names: %w", err)
	}
	defer rows.Close()

	result := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan product name: %w", err)
		}
		result[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product names: %w", err)
	}

	return result, nil
}

// BulkInsert inserts products using pgx.Batch. A product whose name already
// exists, ignoring case, is skipped.
func (r *BulkRepo) BulkInsert(ctx context.Context, products []domain.Product) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(
			`INSERT INTO products (name, category)
			 SELECT $1::text, $2::text
			 WHERE NOT EXISTS (SELECT 1 FROM products WHERE lower(name) = lower($1::text))`,
			p.Name, p.Category,
		)
	}

	return r.sendBatchExec(ctx, batch)
}

// BulkUpdateCategories sets the category of products matched by name,
// ignoring case. Rows whose category already matches are not touched.
func (r *BulkRepo) BulkUpdateCategories(ctx context.Context, products []domain.Product) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(
			`UPDATE products SET category = $2, updated_at = now()
			 WHERE lower(name) = $1 AND category IS DISTINCT FROM $2`,
			strings.ToLower(p.Name), p.Category,
		)
	}

	return r.sendBatchExec(ctx, batch)
}

func (r *BulkRepo) sendBatchExec(ctx context.Context, batch *pgx.Batch) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)
	results := q.SendBatch(ctx, batch)
	defer results.Close()

	var affected int
	for range batch.Len() {
		tag, err := results.Exec()
		if err != nil {
			return affected, postgres.MapError(err, "product", 0)
		}
		affected += int(tag.RowsAffected())
	}

	return affected, nil
}
