package shoppinglist

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/shoplist-backend/internal/domain"
)

// Update applies the supplied parent fields and, when Items is supplied,
// replaces the whole item collection with new rows. Item ids are not
// preserved across a replace. Any failure rolls the whole update back.
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (domain.ShoppingList, error) {
	if id <= 0 {
		return domain.ShoppingList{}, domain.NewValidationError("id", "must be a positive integer")
	}
	if err := input.Validate(); err != nil {
		return domain.ShoppingList{}, err
	}

	var removed int64
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		fields := input.Fields()
		if len(fields) == 0 && input.Items != nil {
			// Items-only change: the list row still records the edit.
			if _, err := s.lists.Touch(txCtx, id); err != nil {
				return fmt.Errorf("touch list: %w", err)
			}
		} else if _, err := s.lists.Update(txCtx, id, fields); err != nil {
			return fmt.Errorf("update list: %w", err)
		}

		if input.Items == nil {
			return nil
		}

		var err error
		removed, err = s.items.DeleteByListID(txCtx, id)
		if err != nil {
			return fmt.Errorf("delete items: %w", err)
		}
		if items := *input.Items; len(items) > 0 {
			if err := s.items.InsertBatch(txCtx, id, toItems(items)); err != nil {
				return fmt.Errorf("insert items: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return domain.ShoppingList{}, txFailure(err)
	}

	updated, err := s.lists.GetByID(ctx, id)
	if err != nil {
		return domain.ShoppingList{}, fmt.Errorf("reload list: %w", err)
	}

	attrs := []any{slog.Int64("list_id", id)}
	if input.Items != nil {
		attrs = append(attrs, slog.Int64("items_removed", removed), slog.Int("items_inserted", len(*input.Items)))
	}
	s.log.InfoContext(ctx, "shopping list updated", attrs...)

	return updated, nil
}
