package shoppinglist

import (
	"context"
	"sync"

	"github.com/heartmarshall/shoplist-backend/internal/domain"
)

var (
	_ listRepo  = &listRepoMock{}
	_ itemRepo  = &itemRepoMock{}
	_ txManager = &txManagerMock{}
)

type listRepoMock struct {
	ListFunc    func(ctx context.Context, q domain.ListQuery) ([]domain.ShoppingList, int, error)
	GetByIDFunc func(ctx context.Context, id int64) (domain.ShoppingList, error)
	InsertFunc  func(ctx context.Context, fields map[string]any) (domain.ShoppingList, error)
	UpdateFunc  func(ctx context.Context, id int64, fields map[string]any) (domain.ShoppingList, error)
	DeleteFunc  func(ctx context.Context, id int64) error
	TouchFunc   func(ctx context.Context, id int64) (domain.ShoppingList, error)

	calls struct {
		GetByID []struct{ ID int64 }
		Touch   []struct{ ID int64 }
		Insert  []struct{ Fields map[string]any }
		Update  []struct {
			ID     int64
			Fields map[string]any
		}
	}
	lock sync.RWMutex
}

func (mock *listRepoMock) List(ctx context.Context, q domain.ListQuery) ([]domain.ShoppingList, int, error) {
	if mock.ListFunc == nil {
		panic("listRepoMock.ListFunc: method is nil but listRepo.List was just called")
	}
	return mock.ListFunc(ctx, q)
}

func (mock *listRepoMock) GetByID(ctx context.Context, id int64) (domain.ShoppingList, error) {
	if mock.GetByIDFunc == nil {
		panic("listRepoMock.GetByIDFunc: method is nil but listRepo.GetByID was just called")
	}
	mock.lock.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, struct{ ID int64 }{ID: id})
	mock.lock.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *listRepoMock) GetByIDCalls() []struct{ ID int64 } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.GetByID
}

func (mock *listRepoMock) Insert(ctx context.Context, fields map[string]any) (domain.ShoppingList, error) {
	if mock.InsertFunc == nil {
		panic("listRepoMock.InsertFunc: method is nil but listRepo.Insert was just called")
	}
	mock.lock.Lock()
	mock.calls.Insert = append(mock.calls.Insert, struct{ Fields map[string]any }{Fields: fields})
	mock.lock.Unlock()
	return mock.InsertFunc(ctx, fields)
}

func (mock *listRepoMock) InsertCalls() []struct{ Fields map[string]any } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Insert
}

func (mock *listRepoMock) Update(ctx context.Context, id int64, fields map[string]any) (domain.ShoppingList, error) {
	if mock.UpdateFunc == nil {
		panic("listRepoMock.UpdateFunc: method is nil but listRepo.Update was just called")
	}
	mock.lock.Lock()
	mock.calls.Update = append(mock.calls.Update, struct {
		ID     int64
		Fields map[string]any
	}{ID: id, Fields: fields})
	mock.lock.Unlock()
	return mock.UpdateFunc(ctx, id, fields)
}

func (mock *listRepoMock) UpdateCalls() []struct {
	ID     int64
	Fields map[string]any
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Update
}

func (mock *listRepoMock) Touch(ctx context.Context, id int64) (domain.ShoppingList, error) {
	if mock.TouchFunc == nil {
		panic("listRepoMock.TouchFunc: method is nil but listRepo.Touch was just called")
	}
	mock.lock.Lock()
	mock.calls.Touch = append(mock.calls.Touch, struct{ ID int64 }{ID: id})
	mock.lock.Unlock()
	return mock.TouchFunc(ctx, id)
}

func (mock *listRepoMock) TouchCalls() []struct{ ID int64 } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Touch
}

func (mock *listRepoMock) Delete(ctx context.Context, id int64) error {
	if mock.DeleteFunc == nil {
		panic("listRepoMock.DeleteFunc: method is nil but listRepo.Delete was just called")
	}
	return mock.DeleteFunc(ctx, id)
}

type itemRepoMock struct {
	InsertBatchFunc    func(ctx context.Context, listID int64, items []domain.ListItem) error
	DeleteByListIDFunc func(ctx context.Context, listID int64) (int64, error)

	calls struct {
		InsertBatch []struct {
			ListID int64
			Items  []domain.ListItem
		}
		DeleteByListID []struct{ ListID int64 }
	}
	lock sync.RWMutex
}

func (mock *itemRepoMock) InsertBatch(ctx context.Context, listID int64, items []domain.ListItem) error {
	if mock.InsertBatchFunc == nil {
		panic("itemRepoMock.InsertBatchFunc: method is nil but itemRepo.InsertBatch was just called")
	}
	mock.lock.Lock()
	mock.calls.InsertBatch = append(mock.calls.InsertBatch, struct {
		ListID int64
		Items  []domain.ListItem
	}{ListID: listID, Items: items})
	mock.lock.Unlock()
	return mock.InsertBatchFunc(ctx, listID, items)
}

func (mock *itemRepoMock) InsertBatchCalls() []struct {
	ListID int64
	Items  []domain.ListItem
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.InsertBatch
}

func (mock *itemRepoMock) DeleteByListID(ctx context.Context, listID int64) (int64, error) {
	if mock.DeleteByListIDFunc == nil {
		panic("itemRepoMock.DeleteByListIDFunc: method is nil but itemRepo.DeleteByListID was just called")
	}
	mock.lock.Lock()
	mock.calls.DeleteByListID = append(mock.calls.DeleteByListID, struct{ ListID int64 }{ListID: listID})
	mock.lock.Unlock()
	return mock.DeleteByListIDFunc(ctx, listID)
}

func (mock *itemRepoMock) DeleteByListIDCalls() []struct{ ListID int64 } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.DeleteByListID
}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error

	calls struct {
		RunInTx []struct{ Ctx context.Context }
	}
	lock sync.RWMutex
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mock.RunInTxFunc == nil {
		panic("txManagerMock.RunInTxFunc: method is nil but txManager.RunInTx was just called")
	}
	mock.lock.Lock()
	mock.calls.RunInTx = append(mock.calls.RunInTx, struct{ Ctx context.Context }{Ctx: ctx})
	mock.lock.Unlock()
	return mock.RunInTxFunc(ctx, fn)
}

func (mock *txManagerMock) RunInTxCalls() []struct{ Ctx context.Context } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.RunInTx
}
