package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/shoplist-backend/internal/domain"
)

// Envelope is the body of every resource response.
type Envelope struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message,omitempty"`
	Data       any                 `json:"data,omitempty"`
	Pagination *domain.Pagination  `json:"pagination,omitempty"`
	Errors     []domain.FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Envelope{Success: false, Message: message})
}

// ErrorResponder turns service errors into HTTP responses. Every handler
// funnels its errors through it.
type ErrorResponder struct {
	log *slog.Logger
}

// NewErrorResponder creates an ErrorResponder.
func NewErrorResponder(logger *slog.Logger) *ErrorResponder {
	return &ErrorResponder{log: logger.With("handler", "errors")}
}

// Respond writes the response for err. subject names the resource in
// not-found messages ("product").
func (e *ErrorResponder) Respond(w http.ResponseWriter, r *http.Request, subject string, err error) {
	var ve *domain.ValidationError

	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, Envelope{
			Success: false,
			Message: validationMessage(ve),
			Errors:  ve.Errors,
		})
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, subject+" not found")
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, subject+" conflicts with an existing record")
	default:
		e.log.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func validationMessage(ve *domain.ValidationError) string {
	if len(ve.Errors) == 1 {
		return fmt.Sprintf("%s: %s", ve.Errors[0].Field, ve.Errors[0].Message)
	}
	return fmt.Sprintf("validation failed on %d fields", len(ve.Errors))
}
