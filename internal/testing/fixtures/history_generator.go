package fixtures

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-run-history/internal/core/model"
)

// RecordTimeLayout is the service timestamp layout with milliseconds.
const RecordTimeLayout = "2006-01-02 15:04:05.000"

// HistoryGenerator writes run history files for tests.
type HistoryGenerator struct {
	baseDir string
}

// NewHistoryGenerator creates a generator writing below baseDir.
func NewHistoryGenerator(baseDir string) *HistoryGenerator {
	return &HistoryGenerator{baseDir: baseDir}
}

// GetBaseDir returns the base directory for test data
func (g *HistoryGenerator) GetBaseDir() string {
	return g.baseDir
}

// Incremental returns an incremental entry of run at t.
func Incremental(runID int64, runName string, t time.Time) model.RunHistoryRecord {
	return model.RunHistoryRecord{
		RunID:        runID,
		RunName:      runName,
		Time:         t.Format(RecordTimeLayout),
		User:         "ci",
		CheckCommand: "analyze --run " + runName,
	}
}

// Snapshot returns a tagged snapshot entry of run at t.
func Snapshot(runID int64, runName, tag string, t time.Time) model.RunHistoryRecord {
	r := Incremental(runID, runName, t)
	r.VersionTag = tag
	r.User = "release"
	return r
}

// GenerateDays returns perDay incremental entries for each of days
// consecutive days ending on last, oldest first, alternating between two
// runs. The first entry of every day is a snapshot.
func GenerateDays(last time.Time, days, perDay int) []model.RunHistoryRecord {
	records := make([]model.RunHistoryRecord, 0, days*perDay)
	start := last.AddDate(0, 0, -(days - 1))
	for d := 0; d < days; d++ {
		day := start.AddDate(0, 0, d)
		for i := 0; i < perDay; i++ {
			at := day.Add(time.Duration(i) * time.Hour)
			runID := int64(1 + i%2)
			runName := fmt.Sprintf("run-%d", runID)
			if i == 0 {
				records = append(records, Snapshot(runID, runName, fmt.Sprintf("v%d.%d", d+1, i), at))
				continue
			}
			records = append(records, Incremental(runID, runName, at))
		}
	}
	return records
}

// WriteJSON writes records as a JSON array and returns the file path.
func (g *HistoryGenerator) WriteJSON(name string, records []model.RunHistoryRecord) (string, error) {
	if records == nil {
		records = []model.RunHistoryRecord{}
	}
	data, err := sonic.ConfigStd.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", err
	}
	return g.write(name, data)
}

// WriteJSONL writes one record per line and returns the file path.
func (g *HistoryGenerator) WriteJSONL(name string, records []model.RunHistoryRecord) (string, error) {
	var buf bytes.Buffer
	for _, r := range records {
		line, err := sonic.Marshal(r)
		if err != nil {
			return "", err
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return g.write(name, buf.Bytes())
}

// WriteRaw writes content verbatim, e.g. to produce corrupted files.
func (g *HistoryGenerator) WriteRaw(name, content string) (string, error) {
	return g.write(name, []byte(content))
}

func (g *HistoryGenerator) write(name string, data []byte) (string, error) {
	if err := os.MkdirAll(g.baseDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(g.baseDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// CleanupTestData removes all generated test data
func (g *HistoryGenerator) CleanupTestData() error {
	return os.RemoveAll(g.baseDir)
}
