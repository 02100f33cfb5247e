package postgres

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/shoplist-backend/internal/domain"
)

// Builder returns a squirrel statement builder using PostgreSQL placeholders.
func Builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// FilterFunc narrows a select by a free-text search term.
type FilterFunc func(b sq.SelectBuilder, search string) sq.SelectBuilder

// LoadFunc attaches related data to rows read by a Table. Loaders of the same
// table must write disjoint fields; they may run concurrently.
type LoadFunc[T any] func(ctx context.Context, rows []T) error

// Spec configures a Table for one entity.
type Spec[T any] struct {
	// Entity names the record in error messages ("product").
	Entity string
	Table  string
	// Columns are selected and returned in this order; they must match the
	// db tags of T.
	Columns []string
	// Filter applies a non-empty search term. Nil disables searching.
	Filter FilterFunc
	// DefaultOrder is used when the query has no sort field.
	DefaultOrder []string
	// Sortable maps public sort field names to columns.
	Sortable map[string]string
	Loaders  []LoadFunc[T]
}

// Table is a generic repository over a single table: paged listing with
// search and ordering, get by id, insert, partial update and delete.
// Insert and Update return the bare row; loaders run on List and GetByID.
type Table[T domain.Record] struct {
	db   Querier
	spec Spec[T]
}

// NewTable creates a Table. It panics when spec has no table or columns.
func NewTable[T domain.Record](db Querier, spec Spec[T]) *Table[T] {
	if spec.Table == "" || len(spec.Columns) == 0 {
		panic("postgres: table spec requires a table name and columns")
	}
	if spec.Entity == "" {
		spec.Entity = spec.Table
	}
	return &Table[T]{db: db, spec: spec}
}

// List returns one page of rows matching q and the number of matching rows
// before paging.
func (t *Table[T]) List(ctx context.Context, q domain.ListQuery) ([]T, int, error) {
	order, err := t.orderBy(q)
	if err != nil {
		return nil, 0, err
	}

	base := Builder().Select().From(t.spec.Table)
	if t.spec.Filter != nil && strings.TrimSpace(q.Search) != "" {
		base = t.spec.Filter(base, q.Search)
	}

	querier := QuerierFromCtx(ctx, t.db)

	countSQL, countArgs, err := base.Columns("count(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count %s: %w", t.spec.Table, err)
	}
	var total int
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, MapError(err, t.spec.Entity, 0)
	}

	sel := base.Columns(t.spec.Columns...).OrderBy(order...)
	if q.Paginated() {
		sel = sel.Limit(uint64(q.PageSize)).Offset(q.Offset())
	}
	query, args, err := sel.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list %s: %w", t.spec.Table, err)
	}

	rows := make([]T, 0)
	if err := pgxscan.Select(ctx, querier, &rows, query, args...); err != nil {
		return nil, 0, MapError(err, t.spec.Entity, 0)
	}

	if err := t.load(ctx, rows); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// GetByID returns the row with the given id with related data loaded.
func (t *Table[T]) GetByID(ctx context.Context, id int64) (T, error) {
	row, err := t.get(ctx, id)
	if err != nil {
		return row, err
	}
	rows := []T{row}
	if err := t.load(ctx, rows); err != nil {
		var zero T
		return zero, err
	}
	return rows[0], nil
}

// Insert writes a new row from column values and returns it.
// An empty fields map inserts a row of defaults.
func (t *Table[T]) Insert(ctx context.Context, fields map[string]any) (T, error) {
	var (
		query string
		args  []any
		err   error
	)
	returning := "RETURNING " + strings.Join(t.spec.Columns, ", ")
	if len(fields) == 0 {
		query = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES %s", t.spec.Table, returning)
	} else {
		query, args, err = Builder().Insert(t.spec.Table).SetMap(fields).Suffix(returning).ToSql()
		if err != nil {
			var zero T
			return zero, fmt.Errorf("build insert %s: %w", t.spec.Table, err)
		}
	}

	var row T
	if err := pgxscan.Get(ctx, QuerierFromCtx(ctx, t.db), &row, query, args...); err != nil {
		return row, MapError(err, t.spec.Entity, 0)
	}
	return row, nil
}

// Update applies the given column values to the row with id and returns it.
// With no fields it only verifies the row exists. updated_at is always bumped
// on a real update.
func (t *Table[T]) Update(ctx context.Context, id int64, fields map[string]any) (T, error) {
	if len(fields) == 0 {
		return t.get(ctx, id)
	}
	return t.update(ctx, id, fields)
}

// Touch bumps updated_at of the row with id, for changes that live in
// related tables.
func (t *Table[T]) Touch(ctx context.Context, id int64) (T, error) {
	return t.update(ctx, id, nil)
}

func (t *Table[T]) update(ctx context.Context, id int64, fields map[string]any) (T, error) {
	query, args, err := Builder().Update(t.spec.Table).
		SetMap(fields).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(t.spec.Columns, ", ")).
		ToSql()
	if err != nil {
		var zero T
		return zero, fmt.Errorf("build update %s: %w", t.spec.Table, err)
	}

	var row T
	if err := pgxscan.Get(ctx, QuerierFromCtx(ctx, t.db), &row, query, args...); err != nil {
		return row, MapError(err, t.spec.Entity, id)
	}
	return row, nil
}

// Delete removes the row with id. Dependent rows follow the schema's
// ON DELETE rules.
func (t *Table[T]) Delete(ctx context.Context, id int64) error {
	query, args, err := Builder().Delete(t.spec.Table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete %s: %w", t.spec.Table, err)
	}

	tag, err := QuerierFromCtx(ctx, t.db).Exec(ctx, query, args...)
	if err != nil {
		return MapError(err, t.spec.Entity, id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %d: %w", t.spec.Entity, id, domain.ErrNotFound)
	}
	return nil
}

func (t *Table[T]) get(ctx context.Context, id int64) (T, error) {
	var row T
	query, args, err := Builder().Select(t.spec.Columns...).
		From(t.spec.Table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return row, fmt.Errorf("build get %s: %w", t.spec.Table, err)
	}

	if err := pgxscan.Get(ctx, QuerierFromCtx(ctx, t.db), &row, query, args...); err != nil {
		return row, MapError(err, t.spec.Entity, id)
	}
	return row, nil
}

// load runs every loader over rows. Inside a transaction the loaders share
// one connection, so they run one at a time.
func (t *Table[T]) load(ctx context.Context, rows []T) error {
	if len(rows) == 0 || len(t.spec.Loaders) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if InTx(ctx) {
		g.SetLimit(1)
	}
	for _, fn := range t.spec.Loaders {
		g.Go(func() error {
			return fn(gctx, rows)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load %s relations: %w", t.spec.Entity, err)
	}
	return nil
}

func (t *Table[T]) orderBy(q domain.ListQuery) ([]string, error) {
	if q.SortField == "" {
		if q.SortOrder != "" && len(t.spec.DefaultOrder) > 0 {
			return []string{withDirection(t.spec.DefaultOrder[0], q.SortOrder), "id " + string(q.SortOrder)}, nil
		}
		return t.spec.DefaultOrder, nil
	}

	col, ok := t.spec.Sortable[q.SortField]
	if !ok {
		return nil, domain.NewValidationError("sortField", fmt.Sprintf("cannot sort %s by %q", t.spec.Entity, q.SortField))
	}
	dir := q.SortOrder
	if dir == "" {
		dir = domain.SortAsc
	}
	if col == "id" {
		return []string{"id " + string(dir)}, nil
	}
	return []string{col + " " + string(dir), "id " + string(dir)}, nil
}

// withDirection replaces the direction of an "column DIR" order term.
func withDirection(term string, dir domain.SortOrder) string {
	col, _, _ := strings.Cut(term, " ")
	return col + " " + string(dir)
}

// ILikeFilter matches the search term anywhere in column, case-insensitively.
func ILikeFilter(column string) FilterFunc {
	return func(b sq.SelectBuilder, search string) sq.SelectBuilder {
		return b.Where(sq.ILike{column: "%" + EscapeLike(strings.TrimSpace(search)) + "%"})
	}
}

// EscapeLike escapes LIKE wildcards so the term matches literally.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
