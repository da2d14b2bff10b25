package browse

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/penwyp/go-run-history/internal/core/model"
	"github.com/penwyp/go-run-history/internal/data/source"
	"github.com/penwyp/go-run-history/internal/util"
)

// RefreshController performs history fetches one at a time
type RefreshController struct {
	source source.Source
	query  model.HistoryQuery

	refreshMutex sync.Mutex // Prevent concurrent refreshes
	fetches      int
}

// NewRefreshController creates a new RefreshController instance
func NewRefreshController(src source.Source, query model.HistoryQuery) *RefreshController {
	return &RefreshController{
		source: src,
		query:  query,
	}
}

// Fetch queries the source. A fetch already in progress is waited for
// rather than run concurrently.
func (rc *RefreshController) Fetch(ctx context.Context) ([]model.RunHistoryRecord, error) {
	rc.refreshMutex.Lock()
	defer rc.refreshMutex.Unlock()

	start := time.Now()
	records, err := rc.source.Query(ctx, rc.query)
	rc.fetches++
	if err != nil {
		return nil, fmt.Errorf("fetch history from %s: %w", rc.source.Name(), err)
	}

	util.LogDebug("Fetched run history",
		util.F("source", rc.source.Name()),
		util.F("records", len(records)),
		util.F("elapsed", time.Since(start).String()))
	return records, nil
}

// FetchCount returns how many fetches have been attempted
func (rc *RefreshController) FetchCount() int {
	rc.refreshMutex.Lock()
	defer rc.refreshMutex.Unlock()
	return rc.fetches
}
