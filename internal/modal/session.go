// Package modal implements client-side search/select sessions and the
// stack of modals that hosts them.
package modal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/shoplist-backend/internal/domain"
)

// DefaultDebounce is the idle interval after the last keystroke before a
// search is issued.
const DefaultDebounce = 500 * time.Millisecond

var (
	ErrUnknownConfig = errors.New("unknown modal config")
	ErrClosed        = errors.New("search session is closed")
)

// State is the lifecycle state of a search session.
type State int

const (
	StateClosed State = iota
	StateOpening
	StateOpen
	StateSearching
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpening:
		return "opening"
	case StateOpen:
		return "open"
	case StateSearching:
		return "searching"
	default:
		return "state(" + strconv.Itoa(int(s)) + ")"
	}
}

// Notifier receives user-facing failure messages.
type Notifier interface {
	Notify(title, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(title, message string)

func (f NotifierFunc) Notify(title, message string) { f(title, message) }

// Snapshot is the view state of a session at one instant.
type Snapshot[T any] struct {
	State       State
	Key         string
	Title       string
	Placeholder string
	Columns     []Column[T]
	Term        string
	Rows        []T
	Pagination  domain.Pagination
	Loading     bool
	// EmptyMessage is what to show when Rows is empty.
	EmptyMessage string
	// Err is the failure of the last applied fetch, if any.
	Err error
}

// Options configure a SearchController. Zero values pick defaults.
type Options[T any] struct {
	Clock    clockwork.Clock
	Debounce time.Duration
	Notifier Notifier
	Logger   *slog.Logger
	// OnChange is called after every state change, outside the session
	// lock. It may be called from fetch goroutines.
	OnChange func(Snapshot[T])
}

// SearchController drives one search/select session at a time over a set
// of configs for the same row type.
type SearchController[T any] struct {
	configs  map[string]Config[T]
	form     Form
	clock    clockwork.Clock
	debounce time.Duration
	notifier Notifier
	log      *slog.Logger
	onChange func(Snapshot[T])

	mu         sync.Mutex
	cfg        *Config[T]
	ctx        context.Context
	extra      Params
	term       string
	page       int
	pageSize   int
	state      State
	rows       []T
	pagination domain.Pagination
	err        error
	seq        uint64
	cancel     context.CancelFunc
	timer      clockwork.Timer
	timerGen   uint64
	changed    chan struct{}
}

// NewSearchController registers configs and binds them to form.
// It panics on a config without key or fetch, or on a duplicate key.
func NewSearchController[T any](form Form, opts Options[T], configs ...Config[T]) *SearchController[T] {
	byKey := make(map[string]Config[T], len(configs))
	for _, c := range configs {
		if c.Key == "" || c.Fetch == nil {
			panic("modal: config requires Key and Fetch")
		}
		if _, dup := byKey[c.Key]; dup {
			panic(fmt.Sprintf("modal: duplicate config key %q", c.Key))
		}
		byKey[c.Key] = c
	}

	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Notifier == nil {
		opts.Notifier = NotifierFunc(func(string, string) {})
	}

	return &SearchController[T]{
		configs:  byKey,
		form:     form,
		clock:    opts.Clock,
		debounce: opts.Debounce,
		notifier: opts.Notifier,
		log:      opts.Logger.With("component", "modal.search"),
		onChange: opts.OnChange,
		changed:  make(chan struct{}),
	}
}

// Open starts a session for the config under key. Any previous session is
// discarded. Unless the config opts out, the first page is fetched at once.
func (c *SearchController[T]) Open(ctx context.Context, key string, extra Params) error {
	cfg, ok := c.configs[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownConfig, key)
	}

	c.mu.Lock()
	c.resetLocked()
	c.cfg = &cfg
	c.ctx = ctx
	c.extra = extra.Clone()
	c.term = ""
	c.page = 1
	c.pageSize = pageSizeOf(MergeParams(cfg.Defaults, c.formParamsLocked(), c.extra))
	c.rows = nil
	c.pagination = domain.Pagination{Page: 1, PageSize: c.pageSize}
	if cfg.ManualLoad {
		c.state = StateOpen
	} else {
		c.fetchLocked(StateOpening)
	}
	snap := c.commitLocked()
	c.mu.Unlock()

	c.emit(snap)
	return nil
}

// Search records term and schedules a fetch once input has been idle for
// the debounce interval. Each call restarts the timer.
func (c *SearchController[T]) Search(term string) error {
	c.mu.Lock()
	if c.cfg == nil {
		c.mu.Unlock()
		return ErrClosed
	}
	c.stopTimerLocked()
	c.term = term
	c.page = 1
	gen := c.timerGen
	c.timer = c.clock.AfterFunc(c.debounce, func() { c.fire(gen) })
	snap := c.commitLocked()
	c.mu.Unlock()

	c.emit(snap)
	return nil
}

// Submit searches for term immediately, dropping any pending debounce.
func (c *SearchController[T]) Submit(term string) error {
	c.mu.Lock()
	if c.cfg == nil {
		c.mu.Unlock()
		return ErrClosed
	}
	c.stopTimerLocked()
	c.term = term
	c.page = 1
	c.fetchLocked(StateSearching)
	snap := c.commitLocked()
	c.mu.Unlock()

	c.emit(snap)
	return nil
}

// ChangePage fetches page n for the current term and page size.
func (c *SearchController[T]) ChangePage(n int) error {
	c.mu.Lock()
	if c.cfg == nil {
		c.mu.Unlock()
		return ErrClosed
	}
	c.stopTimerLocked()
	c.page = max(n, 1)
	c.fetchLocked(StateSearching)
	snap := c.commitLocked()
	c.mu.Unlock()

	c.emit(snap)
	return nil
}

// Select merges the config's projection of item into the form and closes
// the session. Duplicate selections are not detected.
func (c *SearchController[T]) Select(item T) error {
	c.mu.Lock()
	if c.cfg == nil {
		c.mu.Unlock()
		return ErrClosed
	}
	merge := c.cfg.Merge
	c.mu.Unlock()

	if merge != nil {
		c.form.Update(func(current Values) Values {
			return merge(item, current)
		})
	}

	c.Close()
	return nil
}

// Clear applies the clear patch of the config under key to the form,
// whether or not a session is open.
func (c *SearchController[T]) Clear(key string) error {
	cfg, ok := c.configs[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownConfig, key)
	}
	if cfg.Clear != nil {
		c.form.Update(cfg.Clear)
	}
	return nil
}

// Close ends the session. Pending and in-flight fetches are abandoned.
func (c *SearchController[T]) Close() {
	c.mu.Lock()
	c.resetLocked()
	c.cfg = nil
	c.ctx = nil
	c.extra = nil
	c.term = ""
	c.page = 0
	c.pageSize = 0
	c.rows = nil
	c.pagination = domain.Pagination{}
	c.state = StateClosed
	snap := c.commitLocked()
	c.mu.Unlock()

	c.emit(snap)
}

// Snapshot returns the current view state.
func (c *SearchController[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// WaitIdle blocks until no debounce is pending and no fetch is in flight.
func (c *SearchController[T]) WaitIdle(ctx context.Context) (Snapshot[T], error) {
	for {
		c.mu.Lock()
		if c.timer == nil && !c.loadingLocked() {
			snap := c.snapshotLocked()
			c.mu.Unlock()
			return snap, nil
		}
		changed := c.changed
		c.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return Snapshot[T]{}, ctx.Err()
		}
	}
}

func (c *SearchController[T]) fire(gen uint64) {
	c.mu.Lock()
	if gen != c.timerGen || c.cfg == nil {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.fetchLocked(StateSearching)
	snap := c.commitLocked()
	c.mu.Unlock()

	c.emit(snap)
}

// fetchLocked issues a fetch tagged with a fresh sequence number. Only the
// response carrying the latest number is applied.
func (c *SearchController[T]) fetchLocked(trigger State) {
	if c.cancel != nil {
		c.cancel()
	}
	c.seq++
	seq := c.seq

	ctx, cancel := context.WithCancel(c.ctx)
	c.cancel = cancel
	c.state = trigger

	params := c.paramsLocked()
	cfg := *c.cfg

	go func() {
		res, err := cfg.Fetch(ctx, params)
		c.finish(seq, cfg, params, res, err)
	}()
}

func (c *SearchController[T]) finish(seq uint64, cfg Config[T], params Params, res Result[T], err error) {
	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		c.log.Debug("stale result discarded",
			slog.String("config", cfg.Key),
			slog.Uint64("seq", seq),
		)
		return
	}

	c.cancel()
	c.cancel = nil
	c.state = StateOpen

	notify := false
	switch {
	case errors.Is(err, context.Canceled):
		// Rows and error of the last applied fetch stay as they were.
	case err != nil:
		c.rows = nil
		c.err = err
		c.pagination = domain.Pagination{Page: c.page, PageSize: c.pageSize}
		notify = true
	default:
		c.err = nil
		c.rows = res.Rows
		if c.rows == nil {
			c.rows = []T{}
		}
		c.pagination = res.Pagination
	}
	snap := c.commitLocked()
	c.mu.Unlock()

	if notify {
		c.log.Error("fetch failed",
			slog.String("config", cfg.Key),
			slog.Any("params", params),
			slog.String("error", err.Error()),
		)
		c.notifier.Notify(cfg.Title, err.Error())
	}
	c.emit(snap)
}

func (c *SearchController[T]) formParamsLocked() Params {
	if c.cfg.ContextParams == nil {
		return nil
	}
	return c.cfg.ContextParams(c.form.Values())
}

// paramsLocked layers config defaults, form context, open-time context and
// the session's own search and paging values, later layers winning.
func (c *SearchController[T]) paramsLocked() Params {
	return MergeParams(c.cfg.Defaults, c.formParamsLocked(), c.extra, Params{
		ParamSearch: c.term,
		ParamPage:   strconv.Itoa(c.page),
		ParamLimit:  strconv.Itoa(c.pageSize),
	})
}

func (c *SearchController[T]) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.timerGen++
}

// resetLocked abandons pending and in-flight work of the current session.
func (c *SearchController[T]) resetLocked() {
	c.stopTimerLocked()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.seq++
	c.err = nil
}

func (c *SearchController[T]) loadingLocked() bool {
	return c.state == StateOpening || c.state == StateSearching
}

func (c *SearchController[T]) snapshotLocked() Snapshot[T] {
	snap := Snapshot[T]{
		State:      c.state,
		Title:      "Select",
		Term:       c.term,
		Rows:       c.rows,
		Pagination: c.pagination,
		Loading:    c.loadingLocked(),
		Err:        c.err,
	}
	if c.cfg != nil {
		snap.Key = c.cfg.Key
		snap.Title = "Select " + c.cfg.Title
		snap.Placeholder = c.cfg.placeholder()
		snap.Columns = c.cfg.Columns
		snap.EmptyMessage = c.cfg.emptyMessage(c.term)
	}
	return snap
}

// commitLocked wakes WaitIdle callers and returns the new snapshot.
func (c *SearchController[T]) commitLocked() Snapshot[T] {
	close(c.changed)
	c.changed = make(chan struct{})
	return c.snapshotLocked()
}

func (c *SearchController[T]) emit(snap Snapshot[T]) {
	if c.onChange != nil {
		c.onChange(snap)
	}
}
