package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/heartmarshall/shoplist-backend/internal/domain"
	"github.com/heartmarshall/shoplist-backend/internal/service/product"
)

type productServiceMock struct {
	ListFunc   func(ctx context.Context, q domain.ListQuery) (domain.Page[domain.Product], error)
	GetFunc    func(ctx context.Context, id int64) (domain.Product, error)
	CreateFunc func(ctx context.Context, in product.CreateInput) (domain.Product, error)
	UpdateFunc func(ctx context.Context, id int64, in product.UpdateInput) (domain.Product, error)
	DeleteFunc func(ctx context.Context, id int64) error

	mu        sync.Mutex
	listCalls []domain.ListQuery
}

var _ resourceService[domain.Product, product.CreateInput, product.UpdateInput] = &productServiceMock{}

func (m *productServiceMock) List(ctx context.Context, q domain.ListQuery) (domain.Page[domain.Product], error) {
	m.mu.Lock()
	m.listCalls = append(m.listCalls, q)
	m.mu.Unlock()
	return m.ListFunc(ctx, q)
}

func (m *productServiceMock) ListCalls() []domain.ListQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls
}

func (m *productServiceMock) Get(ctx context.Context, id int64) (domain.Product, error) {
	return m.GetFunc(ctx, id)
}

func (m *productServiceMock) Create(ctx context.Context, in product.CreateInput) (domain.Product, error) {
	return m.CreateFunc(ctx, in)
}

func (m *productServiceMock) Update(ctx context.Context, id int64, in product.UpdateInput) (domain.Product, error) {
	return m.UpdateFunc(ctx, id, in)
}

func (m *productServiceMock) Delete(ctx context.Context, id int64) error {
	return m.DeleteFunc(ctx, id)
}

func newProductMux(svc *productServiceMock) *http.ServeMux {
	mux := http.NewServeMux()
	h := NewResourceHandler[domain.Product, product.CreateInput, product.UpdateInput](
		svc, "product", NewErrorResponder(slog.Default()),
	).WithDefaultPageSize(20)
	h.Register(mux, "/api/products")
	return mux
}

type productEnvelope struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	Data       json.RawMessage     `json:"data"`
	Pagination *domain.Pagination  `json:"pagination"`
	Errors     []domain.FieldError `json:"errors"`
}

func do(t *testing.T, mux http.Handler, method, target, body string) (*httptest.ResponseRecorder, productEnvelope) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var env productEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s %s: %v (body %q)", method, target, err, rec.Body.String())
	}
	return rec, env
}

func TestResourceHandler_List(t *testing.T) {
	t.Parallel()

	svc := &productServiceMock{
		ListFunc: func(_ context.Context, q domain.ListQuery) (domain.Page[domain.Product], error) {
			return domain.Page[domain.Product]{
				Rows:       []domain.Product{{ID: 1, Name: "milk"}},
				Pagination: domain.Paginate(23, q.Page, q.PageSize),
			}, nil
		},
	}
	mux := newProductMux(svc)

	rec, env := do(t, mux, http.MethodGet, "/api/products?search=mi&page=2&limit=10&sortField=name&sortOrder=desc", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if !env.Success {
		t.Error("success: got false")
	}
	want := domain.Pagination{Page: 2, PageSize: 10, TotalItems: 23, TotalPages: 3}
	if env.Pagination == nil || *env.Pagination != want {
		t.Errorf("pagination: got %+v, want %+v", env.Pagination, want)
	}

	q := svc.ListCalls()[0]
	if q.Search != "mi" || q.Page != 2 || q.PageSize != 10 || q.SortField != "name" || q.SortOrder != domain.SortDesc {
		t.Errorf("query: got %+v", q)
	}
}

func TestResourceHandler_ListPageSizeDefaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		target   string
		wantPage int
		wantSize int
	}{
		{target: "/api/products", wantPage: 0, wantSize: 0},
		{target: "/api/products?page=3", wantPage: 3, wantSize: 20},
		{target: "/api/products?limit=5", wantPage: 0, wantSize: 5},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			t.Parallel()

			svc := &productServiceMock{
				ListFunc: func(_ context.Context, q domain.ListQuery) (domain.Page[domain.Product], error) {
					return domain.Page[domain.Product]{Pagination: domain.Paginate(0, q.Page, q.PageSize)}, nil
				},
			}
			rec, _ := do(t, newProductMux(svc), http.MethodGet, tt.target, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d, want 200", rec.Code)
			}
			q := svc.ListCalls()[0]
			if q.Page != tt.wantPage || q.PageSize != tt.wantSize {
				t.Errorf("page/size: got %d/%d, want %d/%d", q.Page, q.PageSize, tt.wantPage, tt.wantSize)
			}
		})
	}
}

func TestResourceHandler_ListEmptyIsArray(t *testing.T) {
	t.Parallel()

	svc := &productServiceMock{
		ListFunc: func(context.Context, domain.ListQuery) (domain.Page[domain.Product], error) {
			return domain.Page[domain.Product]{Pagination: domain.Paginate(0, 1, 0)}, nil
		},
	}
	_, env := do(t, newProductMux(svc), http.MethodGet, "/api/products", "")
	if string(env.Data) != "[]" {
		t.Errorf("data: got %s, want []", env.Data)
	}
}

func TestResourceHandler_ListBadQuery(t *testing.T) {
	t.Parallel()

	svc := &productServiceMock{}
	for _, target := range []string{
		"/api/products?page=0",
		"/api/products?limit=abc",
		"/api/products?sortOrder=up",
	} {
		rec, env := do(t, newProductMux(svc), http.MethodGet, target, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status got %d, want 400", target, rec.Code)
		}
		if env.Success || len(env.Errors) == 0 {
			t.Errorf("%s: envelope got %+v", target, env)
		}
	}
	if len(svc.ListCalls()) != 0 {
		t.Error("service must not be called for a bad query")
	}
}

func TestResourceHandler_GetNotFound(t *testing.T) {
	t.Parallel()

	svc := &productServiceMock{
		GetFunc: func(_ context.Context, id int64) (domain.Product, error) {
			return domain.Product{}, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
		},
	}
	rec, env := do(t, newProductMux(svc), http.MethodGet, "/api/products/42", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", rec.Code)
	}
	if env.Success || env.Message != "product not found" {
		t.Errorf("envelope: got %+v", env)
	}
	if env.Data != nil {
		t.Errorf("data: got %s, want none", env.Data)
	}
}

func TestResourceHandler_GetBadID(t *testing.T) {
	t.Parallel()

	rec, _ := do(t, newProductMux(&productServiceMock{}), http.MethodGet, "/api/products/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestResourceHandler_Create(t *testing.T) {
	t.Parallel()

	var got product.CreateInput
	svc := &productServiceMock{
		CreateFunc: func(_ context.Context, in product.CreateInput) (domain.Product, error) {
			got = in
			return domain.Product{ID: 9, Name: in.Name}, nil
		},
	}
	rec, env := do(t, newProductMux(svc), http.MethodPost, "/api/products", `{"name":"bread","category":"bakery"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201", rec.Code)
	}
	if env.Message != "product created" {
		t.Errorf("message: got %q", env.Message)
	}
	if got.Name != "bread" || got.Category == nil || *got.Category != "bakery" {
		t.Errorf("input: got %+v", got)
	}

	var p domain.Product
	if err := json.Unmarshal(env.Data, &p); err != nil || p.ID != 9 {
		t.Errorf("data: got %s (%v)", env.Data, err)
	}
}

func TestResourceHandler_CreateValidation(t *testing.T) {
	t.Parallel()

	svc := &productServiceMock{
		CreateFunc: func(_ context.Context, in product.CreateInput) (domain.Product, error) {
			return domain.Product{}, in.Validate()
		},
	}
	rec, env := do(t, newProductMux(svc), http.MethodPost, "/api/products", `{"category":"x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
	if env.Message != "name: required" {
		t.Errorf("message: got %q", env.Message)
	}
	if len(env.Errors) != 1 || env.Errors[0].Field != "name" {
		t.Errorf("errors: got %+v", env.Errors)
	}
}

func TestResourceHandler_CreateMalformedJSON(t *testing.T) {
	t.Parallel()

	rec, _ := do(t, newProductMux(&productServiceMock{}), http.MethodPost, "/api/products", `{"name":`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestResourceHandler_UpdateAndDelete(t *testing.T) {
	t.Parallel()

	svc := &productServiceMock{
		UpdateFunc: func(_ context.Context, id int64, in product.UpdateInput) (domain.Product, error) {
			if id == 404 {
				return domain.Product{}, domain.ErrNotFound
			}
			return domain.Product{ID: id, Name: *in.Name}, nil
		},
		DeleteFunc: func(_ context.Context, id int64) error {
			if id == 404 {
				return domain.ErrNotFound
			}
			return nil
		},
	}
	mux := newProductMux(svc)

	rec, env := do(t, mux, http.MethodPut, "/api/products/3", `{"name":"rye bread"}`)
	if rec.Code != http.StatusOK || env.Message != "product updated" {
		t.Errorf("update: got %d %+v", rec.Code, env)
	}
	if rec, _ := do(t, mux, http.MethodPut, "/api/products/404", `{"name":"x"}`); rec.Code != http.StatusNotFound {
		t.Errorf("update missing: got %d, want 404", rec.Code)
	}

	rec, env = do(t, mux, http.MethodDelete, "/api/products/3", "")
	if rec.Code != http.StatusOK || env.Message != "product deleted" || env.Data != nil {
		t.Errorf("delete: got %d %+v", rec.Code, env)
	}
	if rec, _ := do(t, mux, http.MethodDelete, "/api/products/404", ""); rec.Code != http.StatusNotFound {
		t.Errorf("delete missing: got %d, want 404", rec.Code)
	}
}

func TestErrorResponder_Classes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"validation", domain.NewValidationError("x", "bad"), http.StatusBadRequest},
		{"bare validation", fmt.Errorf("wrapped: %w", domain.ErrValidation), http.StatusBadRequest},
		{"conflict", domain.ErrConflict, http.StatusConflict},
		{"already exists", domain.ErrAlreadyExists, http.StatusConflict},
		{"transaction", fmt.Errorf("%w: boom", domain.ErrTransaction), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	responder := NewErrorResponder(slog.Default())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			responder.Respond(rec, httptest.NewRequest(http.MethodGet, "/x", nil), "thing", tt.err)
			if rec.Code != tt.code {
				t.Errorf("status: got %d, want %d", rec.Code, tt.code)
			}
			if tt.code == http.StatusInternalServerError && strings.Contains(rec.Body.String(), "boom") {
				t.Error("internal errors must not leak details")
			}
		})
	}
}
