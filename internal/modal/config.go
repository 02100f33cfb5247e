package modal

import (
	"context"

	"github.com/heartmarshall/shoplist-backend/internal/domain"
)

// DefaultPageSize is used when a config's defaults carry no limit.
const DefaultPageSize = 10

const (
	defaultEmptyMessage       = "No records found"
	defaultSearchEmptyMessage = "No results found"
	defaultSearchPlaceholder  = "Search..."
)

// Column describes one column of the result table.
type Column[T any] struct {
	Title string
	Width int
	Value func(T) string
}

// Result is one page of rows returned by a FetchFunc.
type Result[T any] struct {
	Rows       []T
	Pagination domain.Pagination
}

// FetchFunc loads a page of rows for the given parameters.
type FetchFunc[T any] func(ctx context.Context, p Params) (Result[T], error)

// Messages are shown when a page comes back empty.
type Messages struct {
	Empty       string
	SearchEmpty string
}

// Config describes one selectable entity kind. Configs are registered once
// and never mutated.
type Config[T any] struct {
	Key     string
	Title   string
	Columns []Column[T]
	Fetch   FetchFunc[T]

	// Defaults are the lowest-precedence fetch parameters.
	Defaults Params
	// ContextParams derives fetch parameters from the caller form.
	ContextParams func(form Values) Params
	// Merge projects a selected row onto the form.
	Merge func(item T, form Values) Values
	// Clear returns the patch that removes a previous selection.
	Clear func(form Values) Values

	Messages          Messages
	SearchPlaceholder string
	// ManualLoad skips the fetch normally issued on Open.
	ManualLoad bool
}

// pageSizeOf reads the page size from resolved fetch parameters.
func pageSizeOf(p Params) int {
	if n := p.Int(ParamLimit, 0); n > 0 {
		return n
	}
	return DefaultPageSize
}

func (c Config[T]) emptyMessage(term string) string {
	if term != "" {
		if c.Messages.SearchEmpty != "" {
			return c.Messages.SearchEmpty
		}
		return defaultSearchEmptyMessage
	}
	if c.Messages.Empty != "" {
		return c.Messages.Empty
	}
	return defaultEmptyMessage
}

func (c Config[T]) placeholder() string {
	if c.SearchPlaceholder != "" {
		return c.SearchPlaceholder
	}
	return defaultSearchPlaceholder
}
