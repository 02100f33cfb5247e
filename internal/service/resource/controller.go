// Package resource provides the generic CRUD controller shared by every
// REST resource. Per-entity behaviour (filtering, ordering, eager loading)
// lives in the store it is configured with, not in subtypes.
package resource

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"unicode/utf8"

	"github.com/heartmarshall/shoplist-backend/internal/domain"
)

// Store persists records of type T. postgres.Table satisfies it.
type Store[T any] interface {
	List(ctx context.Context, q domain.ListQuery) ([]T, int, error)
	GetByID(ctx context.Context, id int64) (T, error)
	Insert(ctx context.Context, fields map[string]any) (T, error)
	Update(ctx context.Context, id int64, fields map[string]any) (T, error)
	Delete(ctx context.Context, id int64) error
}

// Options configures a Controller.
type Options struct {
	// Entity names the resource in logs ("product").
	Entity string
	// MaxPageSize caps the page size a caller may request. 0 means no cap.
	MaxPageSize int
}

// Controller implements list/get/create/update/delete for records of type T
// created from C payloads and patched by U payloads.
type Controller[T domain.Record, C, U domain.Payload] struct {
	store Store[T]
	opts  Options
	log   *slog.Logger
}

// New creates a Controller over st.
func New[T domain.Record, C, U domain.Payload](log *slog.Logger, st Store[T], opts Options) *Controller[T, C, U] {
	return &Controller[T, C, U]{
		store: st,
		opts:  opts,
		log:   log.With("service", opts.Entity),
	}
}

// List returns one page of records matching q. The total is counted before
// paging; a page past the end has no rows.
func (c *Controller[T, C, U]) List(ctx context.Context, q domain.ListQuery) (domain.Page[T], error) {
	if err := c.validateQuery(q); err != nil {
		return domain.Page[T]{}, err
	}

	rows, total, err := c.store.List(ctx, q)
	if err != nil {
		return domain.Page[T]{}, fmt.Errorf("list %s: %w", c.opts.Entity, err)
	}

	return domain.Page[T]{
		Rows:       rows,
		Pagination: domain.Paginate(total, q.Page, q.PageSize),
	}, nil
}

// Get returns the record with id.
func (c *Controller[T, C, U]) Get(ctx context.Context, id int64) (T, error) {
	if err := validateID(id); err != nil {
		var zero T
		return zero, err
	}
	return c.store.GetByID(ctx, id)
}

// Create validates in and inserts a record from it.
func (c *Controller[T, C, U]) Create(ctx context.Context, in C) (T, error) {
	if err := in.Validate(); err != nil {
		var zero T
		return zero, err
	}

	rec, err := c.store.Insert(ctx, in.Fields())
	if err != nil {
		return rec, fmt.Errorf("create %s: %w", c.opts.Entity, err)
	}

	c.log.InfoContext(ctx, c.opts.Entity+" created", slog.Int64("id", rec.RecordID()))
	return rec, nil
}

// Update validates in and applies only the fields it carries.
func (c *Controller[T, C, U]) Update(ctx context.Context, id int64, in U) (T, error) {
	var zero T
	if err := validateID(id); err != nil {
		return zero, err
	}
	if err := in.Validate(); err != nil {
		return zero, err
	}

	rec, err := c.store.Update(ctx, id, in.Fields())
	if err != nil {
		return zero, fmt.Errorf("update %s: %w", c.opts.Entity, err)
	}

	c.log.InfoContext(ctx, c.opts.Entity+" updated", slog.Int64("id", id))
	return rec, nil
}

// Delete removes the record with id.
func (c *Controller[T, C, U]) Delete(ctx context.Context, id int64) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := c.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s: %w", c.opts.Entity, err)
	}

	c.log.InfoContext(ctx, c.opts.Entity+" deleted", slog.Int64("id", id))
	return nil
}

func (c *Controller[T, C, U]) validateQuery(q domain.ListQuery) error {
	var errs []domain.FieldError

	if q.Page < 0 {
		errs = append(errs, domain.FieldError{Field: "page", Message: "must be positive"})
	}
	if q.PageSize < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be positive"})
	}
	if c.opts.MaxPageSize > 0 && q.PageSize > c.opts.MaxPageSize {
		errs = append(errs, domain.FieldError{Field: "limit", Message: fmt.Sprintf("max %d", c.opts.MaxPageSize)})
	}
	if q.PageSize > 0 && q.Page > 1 && uint64(q.Page-1) > math.MaxInt64/uint64(q.PageSize) {
		errs = append(errs, domain.FieldError{Field: "page", Message: "too large"})
	}
	if utf8.RuneCountInString(q.Search) > 200 {
		errs = append(errs, domain.FieldError{Field: "search", Message: "max 200 characters"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func validateID(id int64) error {
	if id <= 0 {
		return domain.NewValidationError("id", "must be a positive integer")
	}
	return nil
}
