// Package shoppinglist coordinates writes of the shopping list aggregate:
// a list row plus its replaceable item collection, written in one
// transaction and read back with items and products attached.
//
// There is no version check. Concurrent updates of the same list are
// last-writer-wins.
package shoppinglist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/shoplist-backend/internal/domain"
	"github.com/heartmarshall/shoplist-backend/internal/service/resource"
)

type listRepo interface {
	resource.Store[domain.ShoppingList]
	Touch(ctx context.Context, id int64) (domain.ShoppingList, error)
}

type itemRepo interface {
	InsertBatch(ctx context.Context, listID int64, items []domain.ListItem) error
	DeleteByListID(ctx context.Context, listID int64) (int64, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides shopping list operations. Reads and deletes go through
// the generic resource controller; creates and updates are transactional.
type Service struct {
	*resource.Controller[domain.ShoppingList, CreateInput, UpdateInput]

	lists listRepo
	items itemRepo
	tx    txManager
	log   *slog.Logger
}

// NewService creates a new shopping list service.
func NewService(
	log *slog.Logger,
	lists listRepo,
	items itemRepo,
	tx txManager,
	maxPageSize int,
) *Service {
	return &Service{
		Controller: resource.New[domain.ShoppingList, CreateInput, UpdateInput](log, lists, resource.Options{
			Entity:      "shopping list",
			MaxPageSize: maxPageSize,
		}),
		lists: lists,
		items: items,
		tx:    tx,
		log:   log.With("service", "shoppinglist"),
	}
}

// txFailure classifies an error returned by RunInTx. Validation and
// not-found errors keep their meaning; anything else is a transaction
// failure.
func txFailure(err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %w", domain.ErrTransaction, err)
	}
}
