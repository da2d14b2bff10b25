package browse

import (
	"net/url"
	"sync"

	"github.com/penwyp/go-run-history/internal/core/filter"
)

// filterKeys are the hash keys owned by the filter state.
var filterKeys = []string{
	filter.ParamRunName,
	filter.ParamDetectionStatus,
	filter.ParamDetectedAfter,
	filter.ParamDetectedBefore,
	filter.ParamRunTag,
}

// HashState is the navigation state of the results page, kept the way a
// browser keeps it in the URL fragment.
type HashState struct {
	mu     sync.RWMutex
	values url.Values
}

// NewHashState creates empty navigation state.
func NewHashState() *HashState {
	return &HashState{values: url.Values{}}
}

// ParseHashState reads a fragment such as "#run=a&subtab=trend".
func ParseHashState(fragment string) (*HashState, error) {
	if len(fragment) > 0 && fragment[0] == '#' {
		fragment = fragment[1:]
	}
	values, err := url.ParseQuery(fragment)
	if err != nil {
		return nil, err
	}
	return &HashState{values: values}, nil
}

// Set replaces a state value.
func (h *HashState) Set(key, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.values.Set(key, value)
}

// Get returns a state value, "" when absent.
func (h *HashState) Get(key string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.values.Get(key)
}

// ClearState removes a state value.
func (h *HashState) ClearState(key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.values.Del(key)
}

// SyncFilter mirrors a broadcast filter state into the hash. Keys outside
// the filter are kept.
func (h *HashState) SyncFilter(state filter.State) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, key := range filterKeys {
		h.values.Del(key)
	}
	for key, vals := range state.Values() {
		h.values[key] = vals
	}
}

// Encode renders the state as a fragment, "" when empty.
func (h *HashState) Encode() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.values) == 0 {
		return ""
	}
	return "#" + h.values.Encode()
}
