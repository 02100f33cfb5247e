package shoppinglist

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	postgres "github.com/heartmarshall/shoplist-backend/internal/adapter/postgres"
	"github.com/heartmarshall/shoplist-backend/internal/domain"
)

const listByListIDsSQL = `
SELECT i.id, i.list_id, i.product_id, i.position, i.quantity, i.unit_price,
       p.name AS product_name, p.category AS product_category,
       p.created_at AS product_created_at, p.updated_at AS product_updated_at
FROM list_items i
JOIN products p ON p.id = i.product_id
WHERE i.list_id = ANY($1)
ORDER BY i.list_id, i.position, i.id`

// ItemRepo provides list item persistence backed by PostgreSQL.
type ItemRepo struct {
	db postgres.Querier
}

// NewItemRepo creates a new list item repository.
func NewItemRepo(db postgres.Querier) *ItemRepo {
	return &ItemRepo{db: db}
}

type itemRow struct {
	ID               int64           `db:"id"`
	ListID           int64           `db:"list_id"`
	ProductID        int64           `db:"product_id"`
	Position         int             `db:"position"`
	Quantity         decimal.Decimal `db:"quantity"`
	UnitPrice        decimal.Decimal `db:"unit_price"`
	ProductName      string          `db:"product_name"`
	ProductCategory  *string         `db:"product_category"`
	ProductCreatedAt time.Time       `db:"product_created_at"`
	ProductUpdatedAt time.Time       `db:"product_updated_at"`
}

func (r itemRow) toDomain() domain.ListItem {
	return domain.ListItem{
		ID:        r.ID,
		ListID:    r.ListID,
		ProductID: r.ProductID,
		Position:  r.Position,
		Quantity:  r.Quantity,
		UnitPrice: r.UnitPrice,
		Product: &domain.Product{
			ID:        r.ProductID,
			Name:      r.ProductName,
			Category:  r.ProductCategory,
			CreatedAt: r.ProductCreatedAt,
			UpdatedAt: r.ProductUpdatedAt,
		},
	}
}

// ListByListIDs returns the items of the given lists with their products,
// ordered by list and then by position.
func (r *ItemRepo) ListByListIDs(ctx context.Context, listIDs []int64) ([]domain.ListItem, error) {
	if len(listIDs) == 0 {
		return []domain.ListItem{}, nil
	}

	var rows []itemRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, listByListIDsSQL, listIDs); err != nil {
		return nil, postgres.MapError(err, "list item", 0)
	}

	items := make([]domain.ListItem, len(rows))
	for i, row := range rows {
		items[i] = row.toDomain()
	}
	return items, nil
}

// InsertBatch writes items for listID in one statement. Positions follow
// slice order starting at 0; item ids are assigned by the database.
func (r *ItemRepo) InsertBatch(ctx context.Context, listID int64, items []domain.ListItem) error {
	if len(items) == 0 {
		return nil
	}

	b := postgres.Builder().
		Insert("list_items").
		Columns("list_id", "product_id", "position", "quantity", "unit_price")
	for i, it := range items {
		b = b.Values(listID, it.ProductID, i, it.Quantity, it.UnitPrice)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build insert list items: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "list item", 0)
	}
	return nil
}

// DeleteByListID removes every item of listID and returns how many were removed.
func (r *ItemRepo) DeleteByListID(ctx context.Context, listID int64) (int64, error) {
	query, args, err := postgres.Builder().
		Delete("list_items").
		Where("list_id = ?", listID).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete list items: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return 0, postgres.MapError(err, "list item", 0)
	}
	return tag.RowsAffected(), nil
}
