package rest

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/heartmarshall/shoplist-backend/internal/domain"
)

// parseListQuery reads search, page, limit, sortField and sortOrder.
// A page without a limit uses defaultPageSize; with neither the result is
// not paginated.
func parseListQuery(r *http.Request, defaultPageSize int) (domain.ListQuery, error) {
	v := r.URL.Query()
	var errs []domain.FieldError

	q := domain.ListQuery{
		Search:    strings.TrimSpace(v.Get("search")),
		SortField: strings.TrimSpace(v.Get("sortField")),
	}

	if s := v.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			errs = append(errs, domain.FieldError{Field: "page", Message: "must be a positive integer"})
		}
		q.Page = n
	}
	if s := v.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			errs = append(errs, domain.FieldError{Field: "limit", Message: "must be a positive integer"})
		}
		q.PageSize = n
	} else if q.Page > 0 {
		q.PageSize = defaultPageSize
	}

	order, err := domain.ParseSortOrder(v.Get("sortOrder"))
	if err != nil {
		errs = append(errs, domain.FieldError{Field: "sortOrder", Message: "must be ASC or DESC"})
	}
	q.SortOrder = order

	if len(errs) > 0 {
		return domain.ListQuery{}, domain.NewValidationErrors(errs)
	}
	return q, nil
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, domain.NewValidationError("id", "must be a positive integer")
	}
	return id, nil
}
