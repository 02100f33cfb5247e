package shoppinglist

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/shoplist-backend/internal/domain"
)

// Create inserts the list and its items in one transaction and returns the
// list as read back, items in issuance order with products attached.
func (s *Service) Create(ctx context.Context, input CreateInput) (domain.ShoppingList, error) {
	if err := input.Validate(); err != nil {
		return domain.ShoppingList{}, err
	}

	var listID int64
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		list, err := s.lists.Insert(txCtx, input.Fields())
		if err != nil {
			return fmt.Errorf("insert list: %w", err)
		}
		listID = list.ID

		if len(input.Items) > 0 {
			if err := s.items.InsertBatch(txCtx, list.ID, toItems(input.Items)); err != nil {
				return fmt.Errorf("insert items: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return domain.ShoppingList{}, txFailure(err)
	}

	created, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return domain.ShoppingList{}, fmt.Errorf("reload list: %w", err)
	}

	s.log.InfoContext(ctx, "shopping list created",
		slog.Int64("list_id", listID),
		slog.Int("items", len(created.Items)),
	)

	return created, nil
}
