package shoppinglist

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/shoplist-backend/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// recordingTx runs fn with the same context and remembers whether fn failed,
// standing in for a rollback.
type recordingTx struct {
	txManagerMock
	rolledBack bool
}

func newRecordingTx() *recordingTx {
	r := &recordingTx{}
	r.RunInTxFunc = func(ctx context.Context, fn func(context.Context) error) error {
		if err := fn(ctx); err != nil {
			r.rolledBack = true
			return err
		}
		return nil
	}
	return r
}

func newTestService(lists *listRepoMock, items *itemRepoMock, tx txManager) *Service {
	return NewService(slog.Default(), lists, items, tx, 100)
}

func reloadingLists(id int64) *listRepoMock {
	return &listRepoMock{
		InsertFunc: func(_ context.Context, _ map[string]any) (domain.ShoppingList, error) {
			return domain.ShoppingList{ID: id}, nil
		},
		UpdateFunc: func(_ context.Context, gotID int64, _ map[string]any) (domain.ShoppingList, error) {
			return domain.ShoppingList{ID: gotID}, nil
		},
		TouchFunc: func(_ context.Context, gotID int64) (domain.ShoppingList, error) {
			return domain.ShoppingList{ID: gotID}, nil
		},
		GetByIDFunc: func(_ context.Context, gotID int64) (domain.ShoppingList, error) {
			return domain.ShoppingList{ID: gotID, Items: []domain.ListItem{}}, nil
		},
	}
}

func okItems() *itemRepoMock {
	return &itemRepoMock{
		InsertBatchFunc:    func(context.Context, int64, []domain.ListItem) error { return nil },
		DeleteByListIDFunc: func(context.Context, int64) (int64, error) { return 2, nil },
	}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestCreate_WritesListAndItemsThenReloads(t *testing.T) {
	t.Parallel()

	lists := reloadingLists(10)
	items := okItems()
	tx := newRecordingTx()
	svc := newTestService(lists, items, tx)

	got, err := svc.Create(context.Background(), CreateInput{
		Name: ptr(" Weekly "),
		Items: []ItemInput{
			{ProductID: 3, Quantity: dec("2"), UnitPrice: dec("1.50")},
			{ProductID: 1},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 10 {
		t.Errorf("ID: got %d, want 10", got.ID)
	}
	if len(tx.RunInTxCalls()) != 1 {
		t.Errorf("RunInTx calls: got %d, want 1", len(tx.RunInTxCalls()))
	}

	fields := lists.InsertCalls()[0].Fields
	if name := fields["name"].(*string); name == nil || *name != "Weekly" {
		t.Errorf("name field: got %v, want Weekly", fields["name"])
	}
	if fields["completed"] != false {
		t.Errorf("completed field: got %v, want false", fields["completed"])
	}
	if _, ok := fields["created_at"]; ok {
		t.Error("created_at must default in the database when not supplied")
	}

	batch := items.InsertBatchCalls()
	if len(batch) != 1 || batch[0].ListID != 10 {
		t.Fatalf("InsertBatch calls: got %+v", batch)
	}
	if len(batch[0].Items) != 2 || batch[0].Items[0].ProductID != 3 || batch[0].Items[1].ProductID != 1 {
		t.Errorf("items out of order: %+v", batch[0].Items)
	}
	second := batch[0].Items[1]
	if !second.Quantity.Equal(decimal.NewFromInt(1)) || !second.UnitPrice.IsZero() {
		t.Errorf("defaults: got quantity %s price %s, want 1 and 0", second.Quantity, second.UnitPrice)
	}

	if calls := lists.GetByIDCalls(); len(calls) != 1 || calls[0].ID != 10 {
		t.Errorf("reload: got %+v", calls)
	}
}

func TestCreate_NoItemsSkipsBatch(t *testing.T) {
	t.Parallel()

	items := okItems()
	svc := newTestService(reloadingLists(1), items, newRecordingTx())

	if _, err := svc.Create(context.Background(), CreateInput{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items.InsertBatchCalls()) != 0 {
		t.Error("InsertBatch must not be called without items")
	}
}

func TestCreate_UnknownProductRollsBack(t *testing.T) {
	t.Parallel()

	lists := reloadingLists(7)
	items := okItems()
	items.InsertBatchFunc = func(context.Context, int64, []domain.ListItem) error {
		return domain.NewValidationError("list item", `Key (product_id)=(999) is not present in table "products".`)
	}
	tx := newRecordingTx()
	svc := newTestService(lists, items, tx)

	_, err := svc.Create(context.Background(), CreateInput{Items: []ItemInput{{ProductID: 999}}})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
	if errors.Is(err, domain.ErrTransaction) {
		t.Error("a validation failure must not be reported as a transaction failure")
	}
	if !tx.rolledBack {
		t.Error("expected the transaction to roll back")
	}
	if len(lists.GetByIDCalls()) != 0 {
		t.Error("must not reload after a failed write")
	}
}

func TestCreate_StorageFailureIsTransactionError(t *testing.T) {
	t.Parallel()

	lists := reloadingLists(7)
	lists.InsertFunc = func(context.Context, map[string]any) (domain.ShoppingList, error) {
		return domain.ShoppingList{}, errors.New("connection reset")
	}
	svc := newTestService(lists, okItems(), newRecordingTx())

	_, err := svc.Create(context.Background(), CreateInput{})
	if !errors.Is(err, domain.ErrTransaction) {
		t.Errorf("got %v, want ErrTransaction", err)
	}
}

func TestCreate_InvalidInputSkipsTx(t *testing.T) {
	t.Parallel()

	tx := newRecordingTx()
	svc := newTestService(reloadingLists(1), okItems(), tx)

	_, err := svc.Create(context.Background(), CreateInput{Items: []ItemInput{{ProductID: 1, Quantity: dec("0")}}})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
	if len(tx.RunInTxCalls()) != 0 {
		t.Error("RunInTx must not be called for invalid input")
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestUpdate_ItemsOmittedLeavesChildren(t *testing.T) {
	t.Parallel()

	lists := reloadingLists(0)
	items := okItems()
	svc := newTestService(lists, items, newRecordingTx())

	if _, err := svc.Update(context.Background(), 5, UpdateInput{Completed: ptr(true)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items.DeleteByListIDCalls()) != 0 || len(items.InsertBatchCalls()) != 0 {
		t.Error("items must be untouched when omitted")
	}
	if got := lists.UpdateCalls()[0].Fields; got["completed"] != true || len(got) != 1 {
		t.Errorf("fields: got %v, want only completed=true", got)
	}
}

func TestUpdate_EmptyItemsClearsChildren(t *testing.T) {
	t.Parallel()

	items := okItems()
	lists := reloadingLists(0)
	svc := newTestService(lists, items, newRecordingTx())

	if _, err := svc.Update(context.Background(), 5, UpdateInput{Items: &[]ItemInput{}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls := items.DeleteByListIDCalls(); len(calls) != 1 || calls[0].ListID != 5 {
		t.Errorf("DeleteByListID calls: got %+v", calls)
	}
	if len(items.InsertBatchCalls()) != 0 {
		t.Error("InsertBatch must not be called for an empty replacement")
	}
	if calls := lists.TouchCalls(); len(calls) != 1 || calls[0].ID != 5 {
		t.Errorf("Touch calls: got %+v, want one for list 5", calls)
	}
	if len(lists.UpdateCalls()) != 0 {
		t.Error("Update must not be called without parent fields")
	}
}

func TestUpdate_ItemsWithFieldsUpdatesOnce(t *testing.T) {
	t.Parallel()

	lists := reloadingLists(0)
	svc := newTestService(lists, okItems(), newRecordingTx())

	in := UpdateInput{Name: ptr("party"), Items: &[]ItemInput{{ProductID: 1}}}
	if _, err := svc.Update(context.Background(), 5, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lists.UpdateCalls()) != 1 {
		t.Errorf("Update calls: got %d, want 1", len(lists.UpdateCalls()))
	}
	if len(lists.TouchCalls()) != 0 {
		t.Error("Touch is redundant when parent fields are written")
	}
}

func TestUpdate_ReplacesItems(t *testing.T) {
	t.Parallel()

	var order []string
	items := &itemRepoMock{
		DeleteByListIDFunc: func(context.Context, int64) (int64, error) {
			order = append(order, "delete")
			return 2, nil
		},
		InsertBatchFunc: func(context.Context, int64, []domain.ListItem) error {
			order = append(order, "insert")
			return nil
		},
	}
	svc := newTestService(reloadingLists(0), items, newRecordingTx())

	replacement := []ItemInput{{ProductID: 2, Quantity: dec("3")}}
	if _, err := svc.Update(context.Background(), 5, UpdateInput{Items: &replacement}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 || order[0] != "delete" || order[1] != "insert" {
		t.Errorf("call order: got %v, want [delete insert]", order)
	}
	got := items.InsertBatchCalls()[0].Items
	if len(got) != 1 || got[0].ProductID != 2 || got[0].ID != 0 {
		t.Errorf("inserted items: got %+v, want one new row for product 2", got)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	t.Parallel()

	lists := reloadingLists(0)
	lists.TouchFunc = func(context.Context, int64) (domain.ShoppingList, error) {
		return domain.ShoppingList{}, domain.ErrNotFound
	}
	items := okItems()
	tx := newRecordingTx()
	svc := newTestService(lists, items, tx)

	_, err := svc.Update(context.Background(), 404, UpdateInput{Items: &[]ItemInput{{ProductID: 1}}})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if len(items.DeleteByListIDCalls()) != 0 {
		t.Error("items must not be touched when the list does not exist")
	}
	if !tx.rolledBack {
		t.Error("expected the transaction to roll back")
	}
}

func TestUpdate_InsertFailureRollsBack(t *testing.T) {
	t.Parallel()

	items := okItems()
	items.InsertBatchFunc = func(context.Context, int64, []domain.ListItem) error {
		return errors.New("disk full")
	}
	lists := reloadingLists(0)
	tx := newRecordingTx()
	svc := newTestService(lists, items, tx)

	_, err := svc.Update(context.Background(), 5, UpdateInput{Items: &[]ItemInput{{ProductID: 1}}})
	if !errors.Is(err, domain.ErrTransaction) {
		t.Fatalf("got %v, want ErrTransaction", err)
	}
	if !tx.rolledBack {
		t.Error("expected the transaction to roll back")
	}
	if len(lists.GetByIDCalls()) != 0 {
		t.Error("must not reload after a failed write")
	}
}

func TestUpdate_InvalidID(t *testing.T) {
	t.Parallel()

	tx := newRecordingTx()
	svc := newTestService(reloadingLists(0), okItems(), tx)

	if _, err := svc.Update(context.Background(), 0, UpdateInput{}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("got %v, want ErrValidation", err)
	}
	if len(tx.RunInTxCalls()) != 0 {
		t.Error("RunInTx must not be called for an invalid id")
	}
}

// ---------------------------------------------------------------------------
// Reads go through the resource controller
// ---------------------------------------------------------------------------

func TestList_DelegatesToController(t *testing.T) {
	t.Parallel()

	lists := reloadingLists(0)
	lists.ListFunc = func(context.Context, domain.ListQuery) ([]domain.ShoppingList, int, error) {
		return []domain.ShoppingList{{ID: 2}, {ID: 1}}, 2, nil
	}
	svc := newTestService(lists, okItems(), newRecordingTx())

	page, err := svc.List(context.Background(), domain.ListQuery{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Pagination.TotalPages != 1 || len(page.Rows) != 2 {
		t.Errorf("page: got %+v", page)
	}
}
