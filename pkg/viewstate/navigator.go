package viewstate

import (
	"net/url"
	"sync"
)

// Navigator abstracts the host's location bar. Current returns the query of
// the URL the view currently shows; Push replaces that query with a new one,
// recording a history entry. A browser embedding would bridge this to the
// History API; servers and tests use MemoryNavigator.
type Navigator interface {
	Current() url.Values
	Push(query url.Values)
}

// MemoryNavigator keeps the query history as an in-memory stack. It is safe
// for concurrent use.
type MemoryNavigator struct {
	mu      sync.Mutex
	history []url.Values
}

// NewMemoryNavigator starts a navigator positioned at the given query. A nil
// initial query behaves like an empty one.
func NewMemoryNavigator(initial url.Values) *MemoryNavigator {
	if initial == nil {
		initial = url.Values{}
	}
	return &MemoryNavigator{history: []url.Values{cloneValues(initial)}}
}

// Current returns a copy of the query on top of the history stack.
func (n *MemoryNavigator) Current() url.Values {
	n.mu.Lock()
	defer n.mu.Unlock()
	return cloneValues(n.history[len(n.history)-1])
}

// Push records query as a new history entry and makes it current.
func (n *MemoryNavigator) Push(query url.Values) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.history = append(n.history, cloneValues(query))
}

// Back pops the current entry, returning false when already at the oldest.
func (n *MemoryNavigator) Back() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.history) < 2 {
		return false
	}
	n.history = n.history[:len(n.history)-1]
	return true
}

// Len reports the number of history entries, the initial one included.
func (n *MemoryNavigator) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.history)
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
