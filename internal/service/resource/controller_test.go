package resource

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/heartmarshall/shoplist-backend/internal/domain"
)

type widget struct {
	ID   int64
	Name string
}

func (w widget) RecordID() int64 { return w.ID }

type widgetInput struct {
	Name *string
}

func (i widgetInput) Validate() error {
	if i.Name != nil && *i.Name == "" {
		return domain.NewValidationError("name", "required")
	}
	return nil
}

func (i widgetInput) Fields() map[string]any {
	f := map[string]any{}
	if i.Name != nil {
		f["name"] = *i.Name
	}
	return f
}

func ptr[T any](v T) *T { return &v }

func newTestController(st *storeMock[widget], maxPageSize int) *Controller[widget, widgetInput, widgetInput] {
	return New[widget, widgetInput, widgetInput](slog.Default(), st, Options{Entity: "widget", MaxPageSize: maxPageSize})
}

func TestList_ComputesPagination(t *testing.T) {
	t.Parallel()

	st := &storeMock[widget]{
		ListFunc: func(_ context.Context, q domain.ListQuery) ([]widget, int, error) {
			return []widget{{ID: 11}, {ID: 12}, {ID: 13}}, 23, nil
		},
	}
	c := newTestController(st, 100)

	page, err := c.List(context.Background(), domain.ListQuery{Page: 3, PageSize: 10, Search: "w"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.Pagination{Page: 3, PageSize: 10, TotalItems: 23, TotalPages: 3}
	if page.Pagination != want {
		t.Errorf("pagination: got %+v, want %+v", page.Pagination, want)
	}
	if len(page.Rows) != 3 {
		t.Errorf("rows: got %d, want 3", len(page.Rows))
	}
	if got := st.ListCalls()[0].Q.Search; got != "w" {
		t.Errorf("search forwarded: got %q, want %q", got, "w")
	}
}

func TestList_WithoutPageSize(t *testing.T) {
	t.Parallel()

	st := &storeMock[widget]{
		ListFunc: func(context.Context, domain.ListQuery) ([]widget, int, error) {
			return []widget{{ID: 1}, {ID: 2}}, 2, nil
		},
	}
	page, err := newTestController(st, 100).List(context.Background(), domain.ListQuery{Page: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.Pagination{Page: 1, PageSize: 2, TotalItems: 2, TotalPages: 1}
	if page.Pagination != want {
		t.Errorf("pagination: got %+v, want %+v", page.Pagination, want)
	}
}

func TestList_RejectsBadPaging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		q    domain.ListQuery
	}{
		{"page size over max", domain.ListQuery{PageSize: 101}},
		{"negative page size", domain.ListQuery{PageSize: -1}},
		{"negative page", domain.ListQuery{Page: -2, PageSize: 10}},
		{"offset wraps to zero", domain.ListQuery{Page: 1<<62 + 1, PageSize: 4}},
		{"offset past int64", domain.ListQuery{Page: math.MaxInt, PageSize: 100}},
		{"search over 200 characters", domain.ListQuery{Search: strings.Repeat("я", 201)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			st := &storeMock[widget]{}
			_, err := newTestController(st, 100).List(context.Background(), tt.q)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
			if len(st.ListCalls()) != 0 {
				t.Error("store must not be called for an invalid query")
			}
		})
	}
}

func TestList_AcceptsBoundaryQueries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		q    domain.ListQuery
	}{
		{"largest page with size one", domain.ListQuery{Page: math.MaxInt64, PageSize: 1}},
		{"200 multi-byte characters", domain.ListQuery{Search: strings.Repeat("я", 200)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			st := &storeMock[widget]{
				ListFunc: func(ctx context.Context, q domain.ListQuery) ([]widget, int, error) {
					return nil, 0, nil
				},
			}
			if _, err := newTestController(st, 100).List(context.Background(), tt.q); err != nil {
				t.Fatalf("List: %v", err)
			}
		})
	}
}

func TestGet_NotFound(t *testing.T) {
	t.Parallel()

	st := &storeMock[widget]{
		GetByIDFunc: func(context.Context, int64) (widget, error) {
			return widget{}, domain.ErrNotFound
		},
	}
	_, err := newTestController(st, 0).Get(context.Background(), 9)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestGet_InvalidID(t *testing.T) {
	t.Parallel()

	st := &storeMock[widget]{}
	if _, err := newTestController(st, 0).Get(context.Background(), 0); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("got %v, want ErrValidation", err)
	}
}

func TestCreate_ValidationBlocksWrite(t *testing.T) {
	t.Parallel()

	st := &storeMock[widget]{}
	_, err := newTestController(st, 0).Create(context.Background(), widgetInput{Name: ptr("")})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
	if len(st.InsertCalls()) != 0 {
		t.Error("Insert must not be called when validation fails")
	}
}

func TestCreate_Success(t *testing.T) {
	t.Parallel()

	st := &storeMock[widget]{
		InsertFunc: func(_ context.Context, fields map[string]any) (widget, error) {
			return widget{ID: 1, Name: fields["name"].(string)}, nil
		},
	}
	got, err := newTestController(st, 0).Create(context.Background(), widgetInput{Name: ptr("gear")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 1 || got.Name != "gear" {
		t.Errorf("got %+v", got)
	}
}

func TestUpdate_OnlySuppliedFields(t *testing.T) {
	t.Parallel()

	st := &storeMock[widget]{
		UpdateFunc: func(_ context.Context, id int64, _ map[string]any) (widget, error) {
			return widget{ID: id, Name: "unchanged"}, nil
		},
	}
	if _, err := newTestController(st, 0).Update(context.Background(), 4, widgetInput{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := st.UpdateCalls()
	if len(calls) != 1 {
		t.Fatalf("Update calls: got %d, want 1", len(calls))
	}
	if len(calls[0].Fields) != 0 {
		t.Errorf("fields: got %v, want none", calls[0].Fields)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	t.Parallel()

	st := &storeMock[widget]{
		UpdateFunc: func(context.Context, int64, map[string]any) (widget, error) {
			return widget{}, domain.ErrNotFound
		},
	}
	_, err := newTestController(st, 0).Update(context.Background(), 4, widgetInput{Name: ptr("x")})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	st := &storeMock[widget]{
		DeleteFunc: func(_ context.Context, id int64) error {
			if id == 404 {
				return domain.ErrNotFound
			}
			return nil
		},
	}
	c := newTestController(st, 0)

	if err := c.Delete(context.Background(), 1); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := c.Delete(context.Background(), 404); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
