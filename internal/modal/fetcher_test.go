package modal

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/heartmarshall/shoplist-backend/internal/domain"
)

type item struct {
	ID   int64
	Name string
}

type fetchReply struct {
	res Result[item]
	err error
}

type fetchCall struct {
	ctx    context.Context
	params Params
	reply  chan fetchReply
}

func (c fetchCall) respond(rows ...item) {
	c.reply <- fetchReply{res: Result[item]{
		Rows:       rows,
		Pagination: domain.Paginate(len(rows), 1, 10),
	}}
}

func (c fetchCall) fail(err error) {
	c.reply <- fetchReply{err: err}
}

// fakeFetcher hands every fetch to the test, which answers it explicitly.
type fakeFetcher struct {
	calls chan fetchCall
	// ignoreCancel makes fetches wait for a reply even after their
	// context is cancelled, like a backend that does not honour it.
	ignoreCancel bool
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{calls: make(chan fetchCall, 16)}
}

func (f *fakeFetcher) fetch(ctx context.Context, p Params) (Result[item], error) {
	call := fetchCall{ctx: ctx, params: p, reply: make(chan fetchReply, 1)}
	f.calls <- call

	if f.ignoreCancel {
		r := <-call.reply
		return r.res, r.err
	}
	select {
	case r := <-call.reply:
		return r.res, r.err
	case <-ctx.Done():
		return Result[item]{}, ctx.Err()
	}
}

func (f *fakeFetcher) next(t *testing.T) fetchCall {
	t.Helper()
	select {
	case c := <-f.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("expected a fetch, got none")
		return fetchCall{}
	}
}

func (f *fakeFetcher) none(t *testing.T) {
	t.Helper()
	select {
	case c := <-f.calls:
		t.Fatalf("unexpected fetch with params %v", c.params)
	case <-time.After(50 * time.Millisecond):
	}
}

func (f *fakeFetcher) config(key string) Config[item] {
	return Config[item]{
		Key:   key,
		Title: "Product",
		Columns: []Column[item]{
			{Title: "Name", Value: func(i item) string { return i.Name }},
		},
		Fetch: f.fetch,
	}
}

type notification struct {
	title   string
	message string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *recordingNotifier) Notify(title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{title: title, message: message})
}

func (n *recordingNotifier) all() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification(nil), n.sent...)
}

// syncBuffer is a bytes.Buffer safe for a logger written from goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
