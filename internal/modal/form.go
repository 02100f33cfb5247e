package modal

import (
	"maps"
	"sync"
)

// Values is a snapshot of caller form state.
type Values map[string]any

// Merge returns a copy of v with every key of patch applied on top.
// Keys absent from patch keep their value.
func (v Values) Merge(patch Values) Values {
	out := make(Values, len(v)+len(patch))
	maps.Copy(out, v)
	maps.Copy(out, patch)
	return out
}

// Form is the caller-owned state a search session merges selections into.
type Form interface {
	// Values returns a snapshot of the current state.
	Values() Values
	// Update calls fn with the current state and shallow-merges the patch
	// it returns, atomically with respect to other updates.
	Update(fn func(current Values) Values)
}

// MapForm is an in-memory Form safe for concurrent use.
type MapForm struct {
	mu     sync.RWMutex
	values Values
}

// NewMapForm creates a form holding a copy of initial.
func NewMapForm(initial Values) *MapForm {
	return &MapForm{values: Values{}.Merge(initial)}
}

func (f *MapForm) Values() Values {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return maps.Clone(f.values)
}

func (f *MapForm) Update(fn func(current Values) Values) {
	f.mu.Lock()
	defer f.mu.Unlock()
	patch := fn(maps.Clone(f.values))
	f.values = f.values.Merge(patch)
}

// Get returns the value stored under key.
func (f *MapForm) Get(key string) (any, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[key]
	return v, ok
}
