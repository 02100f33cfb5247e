package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/heartmarshall/shoplist-backend/internal/domain"
	"github.com/heartmarshall/shoplist-backend/internal/modal"
)

// Resource is the CRUD surface of one REST collection.
type Resource[T any] struct {
	c    *Client
	path string
}

// NewResource binds a collection path, relative to the client base URL.
func NewResource[T any](c *Client, path string) *Resource[T] {
	return &Resource[T]{c: c, path: path}
}

// List returns one page of records. Without a limit in q the server
// returns every match.
func (r *Resource[T]) List(ctx context.Context, q url.Values) ([]T, domain.Pagination, error) {
	env, err := call[[]T](ctx, r.c, http.MethodGet, r.path, q, nil)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	var p domain.Pagination
	if env.Pagination != nil {
		p = *env.Pagination
	}
	return env.Data, p, nil
}

func (r *Resource[T]) Get(ctx context.Context, id int64) (T, error) {
	env, err := call[T](ctx, r.c, http.MethodGet, r.item(id), nil, nil)
	return env.Data, err
}

func (r *Resource[T]) Create(ctx context.Context, body any) (T, error) {
	env, err := call[T](ctx, r.c, http.MethodPost, r.path, nil, body)
	return env.Data, err
}

func (r *Resource[T]) Update(ctx context.Context, id int64, body any) (T, error) {
	env, err := call[T](ctx, r.c, http.MethodPut, r.item(id), nil, body)
	return env.Data, err
}

func (r *Resource[T]) Delete(ctx context.Context, id int64) error {
	_, err := call[struct{}](ctx, r.c, http.MethodDelete, r.item(id), nil, nil)
	return err
}

// Fetch adapts List to a modal fetch function.
func (r *Resource[T]) Fetch(ctx context.Context, p modal.Params) (modal.Result[T], error) {
	rows, pagination, err := r.List(ctx, p.Query())
	if err != nil {
		return modal.Result[T]{}, err
	}
	return modal.Result[T]{Rows: rows, Pagination: pagination}, nil
}

func (r *Resource[T]) item(id int64) string {
	return r.path + "/" + strconv.FormatInt(id, 10)
}
