package source

import (
	"context"
	"fmt"

	"github.com/penwyp/go-run-history/internal/core/model"
	"github.com/penwyp/go-run-history/internal/util"
)

// CachedSource wraps another source with an on-disk snapshot used when the
// source is unreachable or offline mode is requested.
type CachedSource struct {
	source    Source
	snapshots *SnapshotManager
	offline   bool
}

// NewCachedSource creates a cached source.
func NewCachedSource(src Source, snapshots *SnapshotManager, offline bool) *CachedSource {
	return &CachedSource{
		source:    src,
		snapshots: snapshots,
		offline:   offline,
	}
}

func (c *CachedSource) Name() string {
	if c.offline {
		return fmt.Sprintf("%s-offline", c.source.Name())
	}
	return fmt.Sprintf("%s-cached", c.source.Name())
}

// Unwrap returns the wrapped source.
func (c *CachedSource) Unwrap() Source {
	return c.source
}

func (c *CachedSource) Query(ctx context.Context, q model.HistoryQuery) ([]model.RunHistoryRecord, error) {
	if c.offline {
		return c.fromSnapshot(q)
	}

	records, err := c.source.Query(ctx, q)
	if err != nil {
		if c.snapshots.HasSnapshot() {
			util.LogInfof("History source %s failed, attempting to use cached snapshot: %v", c.source.Name(), err)
			cached, cacheErr := c.fromSnapshot(q)
			if cacheErr == nil {
				return cached, nil
			}
			util.LogDebugf("Failed to load history snapshot: %v", cacheErr)
		}
		return nil, err
	}

	// Only a full, unpaged fetch is a faithful snapshot of the source.
	if isFullFetch(q) {
		if err := c.snapshots.Save(c.source.Name(), records); err != nil {
			util.LogWarnf("Failed to update history snapshot: %v", err)
		}
	}
	return records, nil
}

func (c *CachedSource) fromSnapshot(q model.HistoryQuery) ([]model.RunHistoryRecord, error) {
	snap, err := c.snapshots.Load()
	if err != nil {
		return nil, err
	}
	util.LogDebugf("Using cached history from %s with %d records", snap.Source, len(snap.Records))
	return ApplyQuery(snap.Records, q), nil
}

func isFullFetch(q model.HistoryQuery) bool {
	return len(q.RunIDs) == 0 && q.Limit == 0 && q.Offset == 0
}
