// Package source implements the history service clients that supply run
// history records.
package source

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/penwyp/go-run-history/internal/core/model"
)

var (
	// ErrUnknownSource is returned by New for an unsupported source kind.
	ErrUnknownSource = errors.New("unknown history source")
	// ErrNoSnapshot is returned when no cached history is available.
	ErrNoSnapshot = errors.New("no cached history snapshot")
)

// Source kinds
const (
	KindFile   = "file"
	KindHTTP   = "http"
	KindSQLite = "sqlite"
)

// Source fetches run history records.
type Source interface {
	// Query returns the records selected by q.
	Query(ctx context.Context, q model.HistoryQuery) ([]model.RunHistoryRecord, error)
	// Name identifies the source in logs.
	Name() string
}

// Config selects and configures a Source.
type Config struct {
	Kind     string
	File     string
	URL      string
	DBPath   string
	CacheDir string // empty disables the snapshot cache
	Offline  bool
}

// New creates the configured source, wrapped in a CachedSource when a cache
// directory is set.
func New(cfg Config) (Source, error) {
	var src Source
	switch strings.ToLower(cfg.Kind) {
	case KindFile:
		if cfg.File == "" {
			return nil, fmt.Errorf("file source requires a file path")
		}
		src = NewFileSource(cfg.File)
	case KindHTTP:
		if cfg.URL == "" {
			return nil, fmt.Errorf("http source requires a url")
		}
		src = NewHTTPSource(cfg.URL)
	case KindSQLite:
		store, err := OpenSQLiteStore(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		src = store
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Kind)
	}

	if cfg.CacheDir == "" {
		return src, nil
	}
	snapshots, err := NewSnapshotManager(cfg.CacheDir, src.Name())
	if err != nil {
		return nil, err
	}
	return NewCachedSource(src, snapshots, cfg.Offline), nil
}

// ApplyQuery filters, sorts and pages records in memory. The input slice is
// not modified. Without a sort spec the input order is kept.
func ApplyQuery(records []model.RunHistoryRecord, q model.HistoryQuery) []model.RunHistoryRecord {
	selected := make([]model.RunHistoryRecord, 0, len(records))
	for _, r := range records {
		if q.MatchesRun(r.RunID) {
			selected = append(selected, r)
		}
	}

	if q.Sort != nil {
		less := lessFunc(q.Sort.Field)
		sort.SliceStable(selected, func(i, j int) bool {
			if q.Sort.Desc {
				return less(selected[j], selected[i])
			}
			return less(selected[i], selected[j])
		})
	}

	if q.Offset > 0 {
		if q.Offset >= len(selected) {
			return []model.RunHistoryRecord{}
		}
		selected = selected[q.Offset:]
	}
	if q.Limit > 0 && len(selected) > q.Limit {
		selected = selected[:q.Limit]
	}
	return selected
}

// lessFunc orders by the sort key. Timestamps from the service share one
// fixed-width layout, so textual order after normalizing the separator is
// chronological order.
func lessFunc(field model.SortField) func(a, b model.RunHistoryRecord) bool {
	if field == model.SortByRunName {
		return func(a, b model.RunHistoryRecord) bool {
			if a.RunName != b.RunName {
				return a.RunName < b.RunName
			}
			return sortableTime(a.Time) < sortableTime(b.Time)
		}
	}
	return func(a, b model.RunHistoryRecord) bool {
		return sortableTime(a.Time) < sortableTime(b.Time)
	}
}

func sortableTime(s string) string {
	return strings.Replace(strings.TrimSpace(s), "T", " ", 1)
}
