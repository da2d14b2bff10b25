package model

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

// RunHistoryRecord is one history entry of an analysis run as delivered by
// the history service. Records are read-only once received.
type RunHistoryRecord struct {
	RunID        int64  `json:"runId"`
	RunName      string `json:"runName"`
	Time         string `json:"time"` // "2006-01-02 15:04:05[.fff]", space separated
	User         string `json:"user"`
	VersionTag   string `json:"versionTag,omitempty"`
	CheckCommand string `json:"checkCommand,omitempty"`
}

// IsSnapshot reports whether the entry is a tagged, immutable snapshot.
func (r RunHistoryRecord) IsSnapshot() bool {
	return r.VersionTag != ""
}

// CompositeTag returns the "runName:versionTag" selector of a snapshot entry.
func (r RunHistoryRecord) CompositeTag() string {
	return r.RunName + ":" + r.VersionTag
}

// HasCheckCommand reports whether the command line of the run was captured.
func (r RunHistoryRecord) HasCheckCommand() bool {
	return strings.TrimSpace(r.CheckCommand) != ""
}

// DecodeRecords decodes a JSON array of history records.
func DecodeRecords(data []byte) ([]RunHistoryRecord, error) {
	var records []RunHistoryRecord
	if err := sonic.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode run history: %w", err)
	}
	return records, nil
}

// SortField selects the key a history query is ordered by.
type SortField string

const (
	SortByTime    SortField = "time"
	SortByRunName SortField = "run-name"
)

// ParseSortField maps a user supplied sort key to a SortField.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "time", "date":
		return SortByTime, nil
	case "run-name", "run", "name":
		return SortByRunName, nil
	default:
		return "", fmt.Errorf("unsupported sort field: %s", s)
	}
}

// SortSpec is the optional ordering of a history query.
type SortSpec struct {
	Field SortField `json:"field"`
	Desc  bool      `json:"desc"`
}

// HistoryQuery describes one request to the history service.
type HistoryQuery struct {
	RunIDs []int64   `json:"runIds,omitempty"` // empty means all runs
	Limit  int       `json:"limit"`            // 0 means unlimited
	Offset int       `json:"offset"`
	Sort   *SortSpec `json:"sort,omitempty"`
}

// MatchesRun reports whether the query selects the given run.
func (q HistoryQuery) MatchesRun(runID int64) bool {
	if len(q.RunIDs) == 0 {
		return true
	}
	for _, id := range q.RunIDs {
		if id == runID {
			return true
		}
	}
	return false
}
