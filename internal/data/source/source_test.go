package source

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/penwyp/go-run-history/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []model.RunHistoryRecord {
	return []model.RunHistoryRecord{
		{RunID: 1, RunName: "nightly", Time: "2024-06-05 10:15:30", User: "alice"},
		{RunID: 2, RunName: "baseline", Time: "2024-06-03 08:00:00", User: "bob", VersionTag: "v1"},
		{RunID: 1, RunName: "nightly", Time: "2024-06-04 23:59:59.5", User: "alice", CheckCommand: "scan ./..."},
		{RunID: 3, RunName: "adhoc", Time: "2024-06-05T07:00:00", User: "carol"},
	}
}

func runIDs(records []model.RunHistoryRecord) []int64 {
	ids := make([]int64, len(records))
	for i, r := range records {
		ids[i] = r.RunID
	}
	return ids
}

func times(records []model.RunHistoryRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Time
	}
	return out
}

func TestApplyQuery(t *testing.T) {
	tests := []struct {
		name      string
		query     model.HistoryQuery
		wantTimes []string
	}{
		{
			name:      "empty query keeps input order",
			query:     model.HistoryQuery{},
			wantTimes: []string{"2024-06-05 10:15:30", "2024-06-03 08:00:00", "2024-06-04 23:59:59.5", "2024-06-05T07:00:00"},
		},
		{
			name:      "filter by run",
			query:     model.HistoryQuery{RunIDs: []int64{1}},
			wantTimes: []string{"2024-06-05 10:15:30", "2024-06-04 23:59:59.5"},
		},
		{
			name:      "sort by time ascending",
			query:     model.HistoryQuery{Sort: &model.SortSpec{Field: model.SortByTime}},
			wantTimes: []string{"2024-06-03 08:00:00", "2024-06-04 23:59:59.5", "2024-06-05T07:00:00", "2024-06-05 10:15:30"},
		},
		{
			name:      "sort by time descending with limit",
			query:     model.HistoryQuery{Limit: 2, Sort: &model.SortSpec{Field: model.SortByTime, Desc: true}},
			wantTimes: []string{"2024-06-05 10:15:30", "2024-06-05T07:00:00"},
		},
		{
			name:      "sort by run name",
			query:     model.HistoryQuery{Sort: &model.SortSpec{Field: model.SortByRunName}},
			wantTimes: []string{"2024-06-05T07:00:00", "2024-06-03 08:00:00", "2024-06-04 23:59:59.5", "2024-06-05 10:15:30"},
		},
		{
			name:      "offset and limit",
			query:     model.HistoryQuery{Offset: 1, Limit: 2},
			wantTimes: []string{"2024-06-03 08:00:00", "2024-06-04 23:59:59.5"},
		},
		{
			name:      "offset past end",
			query:     model.HistoryQuery{Offset: 10},
			wantTimes: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := sampleRecords()
			got := ApplyQuery(input, tt.query)
			assert.Equal(t, tt.wantTimes, times(got))
			assert.Equal(t, sampleRecords(), input, "input must not be modified")
		})
	}
}

func TestNew(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		cfg      Config
		wantName string
		wantErr  error
	}{
		{name: "file", cfg: Config{Kind: KindFile, File: filepath.Join(dir, "history.json")}, wantName: "file:history.json"},
		{name: "http", cfg: Config{Kind: "HTTP", URL: "http://localhost:8080/"}, wantName: "http:http://localhost:8080"},
		{name: "sqlite", cfg: Config{Kind: KindSQLite, DBPath: filepath.Join(dir, "history.db")}, wantName: "sqlite:history.db"},
		{name: "cached file", cfg: Config{Kind: KindFile, File: filepath.Join(dir, "history.json"), CacheDir: dir}, wantName: "file:history.json-cached"},
		{name: "offline file", cfg: Config{Kind: KindFile, File: filepath.Join(dir, "history.json"), CacheDir: dir, Offline: true}, wantName: "file:history.json-offline"},
		{name: "unknown kind", cfg: Config{Kind: "ftp"}, wantErr: ErrUnknownSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := New(tt.cfg)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, src.Name())
			if store, ok := src.(*SQLiteStore); ok {
				_ = store.Close()
			}
		})
	}
}

func TestNew_MissingSettings(t *testing.T) {
	_, err := New(Config{Kind: KindFile})
	assert.Error(t, err)

	_, err = New(Config{Kind: KindHTTP})
	assert.Error(t, err)

	_, err = New(Config{Kind: KindSQLite})
	assert.Error(t, err)
}

type stubSource struct {
	records []model.RunHistoryRecord
	err     error
	calls   int
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Query(_ context.Context, q model.HistoryQuery) ([]model.RunHistoryRecord, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return ApplyQuery(s.records, q), nil
}
