package domain

import (
	"fmt"
	"strings"
)

// SortOrder is the direction of a list ordering.
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// ParseSortOrder accepts "asc"/"desc" in any case. An empty string yields "".
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case string(SortAsc):
		return SortAsc, nil
	case string(SortDesc):
		return SortDesc, nil
	default:
		return "", NewValidationError("sortOrder", fmt.Sprintf("must be ASC or DESC, got %q", s))
	}
}

// ListQuery holds the filtering and paging parameters of a list request.
// PageSize 0 means the result is not paginated.
type ListQuery struct {
	Search    string
	Page      int
	PageSize  int
	SortField string
	SortOrder SortOrder
}

// Paginated reports whether a page size was requested.
func (q ListQuery) Paginated() bool { return q.PageSize > 0 }

// Offset is the number of matching rows skipped before the requested page.
// Callers reject pages whose offset does not fit in an int64 before asking.
func (q ListQuery) Offset() uint64 {
	if !q.Paginated() {
		return 0
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	return uint64(page-1) * uint64(q.PageSize)
}

// Page is one page of records plus the metadata describing it.
type Page[T any] struct {
	Rows       []T
	Pagination Pagination
}

// Record is implemented by every persisted entity.
type Record interface {
	RecordID() int64
}

// Payload is a create or partial-update request for a resource.
type Payload interface {
	Validate() error
	// Fields returns column values for the supplied attributes only.
	Fields() map[string]any
}
