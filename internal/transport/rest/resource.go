package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/heartmarshall/shoplist-backend/internal/domain"
)

const maxBodyBytes = 1 << 20

type resourceService[T, C, U any] interface {
	List(ctx context.Context, q domain.ListQuery) (domain.Page[T], error)
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, in C) (T, error)
	Update(ctx context.Context, id int64, in U) (T, error)
	Delete(ctx context.Context, id int64) error
}

// ResourceHandler serves the list/get/create/update/delete endpoints of one
// resource over any service with that shape.
type ResourceHandler[T, C, U any] struct {
	svc      resourceService[T, C, U]
	subject  string
	errs     *ErrorResponder
	pageSize int
}

// NewResourceHandler creates a ResourceHandler. subject names one record in
// response messages ("product").
func NewResourceHandler[T, C, U any](svc resourceService[T, C, U], subject string, errs *ErrorResponder) *ResourceHandler[T, C, U] {
	return &ResourceHandler[T, C, U]{
		svc:     svc,
		subject: subject,
		errs:    errs,
	}
}

// WithDefaultPageSize sets the page size used when a list request names a
// page but no limit.
func (h *ResourceHandler[T, C, U]) WithDefaultPageSize(n int) *ResourceHandler[T, C, U] {
	h.pageSize = n
	return h
}

// Register mounts the endpoints under prefix ("/api/products").
func (h *ResourceHandler[T, C, U]) Register(mux *http.ServeMux, prefix string) {
	mux.HandleFunc("GET "+prefix, h.List)
	mux.HandleFunc("POST "+prefix, h.Create)
	mux.HandleFunc("GET "+prefix+"/{id}", h.Get)
	mux.HandleFunc("PUT "+prefix+"/{id}", h.Update)
	mux.HandleFunc("DELETE "+prefix+"/{id}", h.Delete)
}

// List returns a page of records.
// GET /{resource}?search=&page=&limit=&sortField=&sortOrder=
func (h *ResourceHandler[T, C, U]) List(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r, h.pageSize)
	if err != nil {
		h.errs.Respond(w, r, h.subject, err)
		return
	}

	page, err := h.svc.List(r.Context(), q)
	if err != nil {
		h.errs.Respond(w, r, h.subject, err)
		return
	}

	rows := page.Rows
	if rows == nil {
		rows = []T{}
	}
	writeJSON(w, http.StatusOK, Envelope{
		Success:    true,
		Data:       rows,
		Pagination: &page.Pagination,
	})
}

// Get returns one record.
// GET /{resource}/{id}
func (h *ResourceHandler[T, C, U]) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.errs.Respond(w, r, h.subject, err)
		return
	}

	rec, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.errs.Respond(w, r, h.subject, err)
		return
	}

	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: rec})
}

// Create inserts a record from the JSON body.
// POST /{resource}
func (h *ResourceHandler[T, C, U]) Create(w http.ResponseWriter, r *http.Request) {
	var in C
	if err := decodeBody(r, &in); err != nil {
		h.errs.Respond(w, r, h.subject, err)
		return
	}

	rec, err := h.svc.Create(r.Context(), in)
	if err != nil {
		h.errs.Respond(w, r, h.subject, err)
		return
	}

	writeJSON(w, http.StatusCreated, Envelope{
		Success: true,
		Message: h.subject + " created",
		Data:    rec,
	})
}

// Update applies the supplied fields of the JSON body.
// PUT /{resource}/{id}
func (h *ResourceHandler[T, C, U]) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.errs.Respond(w, r, h.subject, err)
		return
	}

	var in U
	if err := decodeBody(r, &in); err != nil {
		h.errs.Respond(w, r, h.subject, err)
		return
	}

	rec, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		h.errs.Respond(w, r, h.subject, err)
		return
	}

	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: h.subject + " updated",
		Data:    rec,
	})
}

// Delete removes a record.
// DELETE /{resource}/{id}
func (h *ResourceHandler[T, C, U]) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.errs.Respond(w, r, h.subject, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.errs.Respond(w, r, h.subject, err)
		return
	}

	writeJSON(w, http.StatusOK, Envelope{Success: true, Message: h.subject + " deleted"})
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.NewValidationError("body", "required")
		}
		return domain.NewValidationError("body", fmt.Sprintf("invalid JSON: %v", err))
	}
	return nil
}
