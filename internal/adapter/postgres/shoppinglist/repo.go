// Package shoppinglist implements persistence for the shopping list
// aggregate: the list rows and their ordered items.
package shoppinglist

import (
	"context"

	postgres "github.com/heartmarshall/shoplist-backend/internal/adapter/postgres"
	"github.com/heartmarshall/shoplist-backend/internal/domain"
)

// Columns selected for every shopping list row.
var Columns = []string{"id", "name", "completed", "created_at", "updated_at"}

// Repo provides shopping list persistence backed by PostgreSQL.
type Repo = postgres.Table[domain.ShoppingList]

// New creates a shopping list repository. Lists are returned newest first
// with their items eager-loaded through items.
func New(db postgres.Querier, items *ItemRepo) *Repo {
	return postgres.NewTable(db, postgres.Spec[domain.ShoppingList]{
		Entity:       "shopping list",
		Table:        "shopping_lists",
		Columns:      Columns,
		Filter:       postgres.ILikeFilter("name"),
		DefaultOrder: []string{"created_at DESC", "id DESC"},
		Sortable: map[string]string{
			"createdAt": "created_at",
			"name":      "name",
			"id":        "id",
		},
		Loaders: []postgres.LoadFunc[domain.ShoppingList]{items.attach},
	})
}

// attach loads the items of every list in one query and assigns them in
// position order. Lists without items get an empty slice.
func (r *ItemRepo) attach(ctx context.Context, lists []domain.ShoppingList) error {
	ids := make([]int64, len(lists))
	for i := range lists {
		ids[i] = lists[i].ID
	}

	items, err := r.ListByListIDs(ctx, ids)
	if err != nil {
		return err
	}

	byList := make(map[int64][]domain.ListItem, len(lists))
	for _, it := range items {
		byList[it.ListID] = append(byList[it.ListID], it)
	}
	for i := range lists {
		if got, ok := byList[lists[i].ID]; ok {
			lists[i].Items = got
		} else {
			lists[i].Items = []domain.ListItem{}
		}
	}
	return nil
}
