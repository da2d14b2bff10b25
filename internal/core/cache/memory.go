// Package cache keeps decoded run history in memory between refreshes.
package cache

import (
	"sync"
	"time"

	"github.com/penwyp/go-run-history/internal/core/model"
	"github.com/penwyp/go-run-history/internal/util"
)

// MemoryCacheEntry is the decoded content of one file version.
type MemoryCacheEntry struct {
	Fingerprint  util.FileFingerprint
	Records      []model.RunHistoryRecord
	LastAccessed int64
}

// Stats counts cache lookups.
type Stats struct {
	Entries int
	Hits    int
	Misses  int
}

// MemoryCache maps file paths to their last decoded records.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*MemoryCacheEntry
	hits    int
	misses  int
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*MemoryCacheEntry),
	}
}

// Get returns a copy of the records cached for path when they were decoded
// from the file version fp.
func (mc *MemoryCache) Get(path string, fp util.FileFingerprint) ([]model.RunHistoryRecord, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	entry, ok := mc.entries[path]
	if !ok || entry.Fingerprint != fp {
		mc.misses++
		return nil, false
	}
	mc.hits++
	entry.LastAccessed = time.Now().Unix()
	return cloneRecords(entry.Records), true
}

// Set stores records decoded from the file version fp.
func (mc *MemoryCache) Set(path string, fp util.FileFingerprint, records []model.RunHistoryRecord) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.entries[path] = &MemoryCacheEntry{
		Fingerprint:  fp,
		Records:      cloneRecords(records),
		LastAccessed: time.Now().Unix(),
	}
}

// Invalidate drops the entry of path.
func (mc *MemoryCache) Invalidate(path string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	delete(mc.entries, path)
}

func (mc *MemoryCache) Clear() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.entries = make(map[string]*MemoryCacheEntry)
	util.LogDebug("MemoryCache: cleared")
}

func (mc *MemoryCache) Stats() Stats {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return Stats{Entries: len(mc.entries), Hits: mc.hits, Misses: mc.misses}
}

func cloneRecords(records []model.RunHistoryRecord) []model.RunHistoryRecord {
	out := make([]model.RunHistoryRecord, len(records))
	copy(out, records)
	return out
}
