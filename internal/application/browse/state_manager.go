package browse

import (
	"sync"
	"time"

	"github.com/penwyp/go-run-history/internal/core/history"
	"github.com/penwyp/go-run-history/internal/presentation/formatter"
)

// StateManager manages application state in a thread-safe manner
type StateManager struct {
	mu sync.RWMutex

	// Grouped history; kept when a later fetch fails
	buckets *history.DayBuckets

	// Loading state
	isLoading      bool
	loadingMessage string
	lastError      error

	// Last opened entry
	selection *formatter.Selection

	// Time of last successful data update
	lastDataUpdate time.Time
}

// NewStateManager creates a new StateManager instance
func NewStateManager() *StateManager {
	return &StateManager{
		buckets: history.NewDayBuckets(),
	}
}

// GetBuckets returns the current day buckets
func (sm *StateManager) GetBuckets() *history.DayBuckets {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.buckets
}

// SetBuckets replaces the history after a successful fetch and clears the
// last error.
func (sm *StateManager) SetBuckets(buckets *history.DayBuckets) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.buckets = buckets
	sm.lastError = nil
	sm.lastDataUpdate = time.Now()
}

// GetLoadingState returns current loading state and message
func (sm *StateManager) GetLoadingState() (bool, string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.isLoading, sm.loadingMessage
}

// SetLoadingState updates loading state and message
func (sm *StateManager) SetLoadingState(isLoading bool, message string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.isLoading = isLoading
	sm.loadingMessage = message
}

// GetLastError returns the error of the last fetch, nil after a success
func (sm *StateManager) GetLastError() error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.lastError
}

// SetLastError records a failed fetch
func (sm *StateManager) SetLastError(err error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.lastError = err
}

// GetSelection returns the last opened entry, nil if none
func (sm *StateManager) GetSelection() *formatter.Selection {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if sm.selection == nil {
		return nil
	}
	sel := *sm.selection
	return &sel
}

// SetSelection records the last opened entry
func (sm *StateManager) SetSelection(sel formatter.Selection) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.selection = &sel
}

// GetLastDataUpdate returns the time of the last successful data update
func (sm *StateManager) GetLastDataUpdate() time.Time {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.lastDataUpdate
}
