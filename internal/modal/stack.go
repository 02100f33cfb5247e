package modal

import (
	"slices"
	"sync"
)

// Size is a display size hint for a modal.
type Size string

const (
	SizeSmall  Size = "sm"
	SizeMedium Size = "md"
	SizeLarge  Size = "lg"
	SizeXL     Size = "xl"
)

// Descriptor is one entry of the modal stack.
type Descriptor struct {
	ID      string
	Title   string
	Content any
	Size    Size
	// OnClose runs once the descriptor has been removed from the stack.
	OnClose func()
}

// Stack is an ordered set of open modals; the last entry is on top.
// Every entry stays mounted until closed, only the top one is interactive.
type Stack struct {
	mu      sync.Mutex
	entries []Descriptor
}

// NewStack returns an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

// Open pushes d on top of the stack.
func (s *Stack) Open(d Descriptor) {
	s.mu.Lock()
	s.entries = append(s.entries, d)
	s.mu.Unlock()
}

// Close removes the entry with the given id and everything opened after it.
// An empty id closes only the top entry. It reports whether anything was
// removed.
func (s *Stack) Close(id string) bool {
	if id == "" {
		return s.CloseTop()
	}

	s.mu.Lock()
	i := slices.IndexFunc(s.entries, func(d Descriptor) bool { return d.ID == id })
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	removed := s.truncateLocked(i)
	s.mu.Unlock()

	runOnClose(removed)
	return true
}

// CloseTop removes the topmost entry.
func (s *Stack) CloseTop() bool {
	s.mu.Lock()
	if len(s.entries) == 0 {
		s.mu.Unlock()
		return false
	}
	removed := s.truncateLocked(len(s.entries) - 1)
	s.mu.Unlock()

	runOnClose(removed)
	return true
}

// CloseAll empties the stack.
func (s *Stack) CloseAll() {
	s.mu.Lock()
	removed := s.truncateLocked(0)
	s.mu.Unlock()

	runOnClose(removed)
}

// Top returns the interactive entry.
func (s *Stack) Top() (Descriptor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		return Descriptor{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// Len returns the number of open entries.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Entries returns the open entries bottom to top.
func (s *Stack) Entries() []Descriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.entries)
}

// truncateLocked keeps entries[:i] and returns the removed tail, topmost
// first.
func (s *Stack) truncateLocked(i int) []Descriptor {
	removed := slices.Clone(s.entries[i:])
	slices.Reverse(removed)
	clear(s.entries[i:])
	s.entries = s.entries[:i]
	return removed
}

func runOnClose(removed []Descriptor) {
	for _, d := range removed {
		if d.OnClose != nil {
			d.OnClose()
		}
	}
}
