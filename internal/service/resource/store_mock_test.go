package resource

import (
	"context"
	"sync"

	"github.com/heartmarshall/shoplist-backend/internal/domain"
)

var _ Store[widget] = &storeMock[widget]{}

type storeMock[T any] struct {
	ListFunc    func(ctx context.Context, q domain.ListQuery) ([]T, int, error)
	GetByIDFunc func(ctx context.Context, id int64) (T, error)
	InsertFunc  func(ctx context.Context, fields map[string]any) (T, error)
	UpdateFunc  func(ctx context.Context, id int64, fields map[string]any) (T, error)
	DeleteFunc  func(ctx context.Context, id int64) error

	calls struct {
		List    []struct{ Q domain.ListQuery }
		GetByID []struct{ ID int64 }
		Insert  []struct{ Fields map[string]any }
		Update  []struct {
			ID     int64
			Fields map[string]any
		}
		Delete []struct{ ID int64 }
	}
	lock sync.RWMutex
}

func (mock *storeMock[T]) List(ctx context.Context, q domain.ListQuery) ([]T, int, error) {
	if mock.ListFunc == nil {
		panic("storeMock.ListFunc: method is nil but Store.List was just called")
	}
	mock.lock.Lock()
	mock.calls.List = append(mock.calls.List, struct{ Q domain.ListQuery }{Q: q})
	mock.lock.Unlock()
	return mock.ListFunc(ctx, q)
}

func (mock *storeMock[T]) ListCalls() []struct{ Q domain.ListQuery } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.List
}

func (mock *storeMock[T]) GetByID(ctx context.Context, id int64) (T, error) {
	if mock.GetByIDFunc == nil {
		panic("storeMock.GetByIDFunc: method is nil but Store.GetByID was just called")
	}
	mock.lock.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, struct{ ID int64 }{ID: id})
	mock.lock.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *storeMock[T]) GetByIDCalls() []struct{ ID int64 } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.GetByID
}

func (mock *storeMock[T]) Insert(ctx context.Context, fields map[string]any) (T, error) {
	if mock.InsertFunc == nil {
		panic("storeMock.InsertFunc: method is nil but Store.Insert was just called")
	}
	mock.lock.Lock()
	mock.calls.Insert = append(mock.calls.Insert, struct{ Fields map[string]any }{Fields: fields})
	mock.lock.Unlock()
	return mock.InsertFunc(ctx, fields)
}

func (mock *storeMock[T]) InsertCalls() []struct{ Fields map[string]any } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Insert
}

func (mock *storeMock[T]) Update(ctx context.Context, id int64, fields map[string]any) (T, error) {
	if mock.UpdateFunc == nil {
		panic("storeMock.UpdateFunc: method is nil but Store.Update was just called")
	}
	mock.lock.Lock()
	mock.calls.Update = append(mock.calls.Update, struct {
		ID     int64
		Fields map[string]any
	}{ID: id, Fields: fields})
	mock.lock.Unlock()
	return mock.UpdateFunc(ctx, id, fields)
}

func (mock *storeMock[T]) UpdateCalls() []struct {
	ID     int64
	Fields map[string]any
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Update
}

func (mock *storeMock[T]) Delete(ctx context.Context, id int64) error {
	if mock.DeleteFunc == nil {
		panic("storeMock.DeleteFunc: method is nil but Store.Delete was just called")
	}
	mock.lock.Lock()
	mock.calls.Delete = append(mock.calls.Delete, struct{ ID int64 }{ID: id})
	mock.lock.Unlock()
	return mock.DeleteFunc(ctx, id)
}

func (mock *storeMock[T]) DeleteCalls() []struct{ ID int64 } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Delete
}
