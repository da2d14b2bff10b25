package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-run-history/internal/core/model"
	"github.com/penwyp/go-run-history/internal/util"
)

// SnapshotManager stores the last full history fetched from a source so it
// can be served offline.
type SnapshotManager struct {
	mu   sync.RWMutex
	file string
}

// Snapshot is the on-disk form of a cached history.
type Snapshot struct {
	Source    string                   `json:"source"`
	UpdatedAt time.Time                `json:"updated_at"`
	Records   []model.RunHistoryRecord `json:"records"`
}

// NewSnapshotManager keeps the snapshot of the named source under dir.
func NewSnapshotManager(dir, sourceName string) (*SnapshotManager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &SnapshotManager{
		file: filepath.Join(dir, snapshotFileName(sourceName)),
	}, nil
}

func snapshotFileName(sourceName string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, sourceName)
	return safe + ".snapshot.json"
}

// Path returns the snapshot file location.
func (m *SnapshotManager) Path() string {
	return m.file
}

// Save replaces the snapshot atomically.
func (m *SnapshotManager) Save(sourceName string, records []model.RunHistoryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		Source:    sourceName,
		UpdatedAt: time.Now(),
		Records:   records,
	}
	data, err := sonic.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history snapshot: %w", err)
	}

	tmpFile := m.file + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}
	if err := os.Rename(tmpFile, m.file); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to rename snapshot file: %w", err)
	}

	util.LogDebugf("Saved %d history records to %s", len(records), m.file)
	return nil
}

// Load reads the snapshot. A missing file yields ErrNoSnapshot.
func (m *SnapshotManager) Load() (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := os.ReadFile(m.file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrNoSnapshot, m.file)
		}
		return nil, fmt.Errorf("failed to read snapshot file %s: %w", m.file, err)
	}

	var snap Snapshot
	if err := sonic.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history snapshot: %w", err)
	}
	if snap.Records == nil {
		snap.Records = []model.RunHistoryRecord{}
	}

	util.LogDebugf("Loaded history snapshot: source=%s, records=%d, updated_at=%s",
		snap.Source, len(snap.Records), snap.UpdatedAt.Format("2006-01-02 15:04:05"))
	return &snap, nil
}

// HasSnapshot reports whether a snapshot file exists.
func (m *SnapshotManager) HasSnapshot() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, err := os.Stat(m.file)
	return err == nil
}

// Age returns how old the snapshot is.
func (m *SnapshotManager) Age() (time.Duration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, err := os.Stat(m.file)
	if err != nil {
		return 0, err
	}
	return time.Since(info.ModTime()), nil
}

// Clear removes the snapshot.
func (m *SnapshotManager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.Remove(m.file); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove snapshot file: %w", err)
	}
	return nil
}
