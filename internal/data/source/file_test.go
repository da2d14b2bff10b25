package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/penwyp/go-run-history/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadRecordsFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantIDs []int64
		wantErr bool
	}{
		{
			name:    "json array",
			file:    "history.json",
			content: `[{"runId":1,"runName":"a","time":"2024-06-05 10:00:00","user":"u"},{"runId":2,"runName":"b","time":"2024-06-04 10:00:00","user":"u","versionTag":"v2"}]`,
			wantIDs: []int64{1, 2},
		},
		{
			name: "jsonl skips invalid lines",
			file: "history.jsonl",
			content: `{"runId":3,"runName":"a","time":"2024-06-05 10:00:00","user":"u"}
not json

{"runId":4,"runName":"b","time":"2024-06-04 10:00:00","user":"u"}
`,
			wantIDs: []int64{3, 4},
		},
		{
			name:    "empty file",
			file:    "empty.json",
			content: "  \n",
			wantIDs: []int64{},
		},
		{
			name:    "broken array",
			file:    "broken.json",
			content: `[{"runId":1,`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			records, err := ReadRecordsFile(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, runIDs(records))
		})
	}
}

func TestReadRecordsFile_Missing(t *testing.T) {
	_, err := ReadRecordsFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestFileSource_Query(t *testing.T) {
	path := writeFile(t, "history.json", `[
		{"runId":1,"runName":"a","time":"2024-06-05 10:00:00","user":"u"},
		{"runId":2,"runName":"b","time":"2024-06-04 10:00:00","user":"u"},
		{"runId":1,"runName":"a","time":"2024-06-03 10:00:00","user":"u"}
	]`)
	src := NewFileSource(path)

	assert.Equal(t, "file:history.json", src.Name())
	assert.Equal(t, path, src.Path())

	records, err := src.Query(context.Background(), model.HistoryQuery{RunIDs: []int64{1}, Limit: 1})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2024-06-05 10:00:00", records[0].Time)
}

func TestFileSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileSource("unused.json").Query(ctx, model.HistoryQuery{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileSource_CachesUntilFileChanges(t *testing.T) {
	path := writeFile(t, "history.jsonl", `{"runId":1,"runName":"a","time":"2024-06-05 10:00:00","user":"u"}`+"\n")
	src := NewFileSource(path)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		records, err := src.Query(ctx, model.HistoryQuery{})
		require.NoError(t, err)
		require.Len(t, records, 1)
	}
	stats := src.CacheStats()
	assert.Equal(t, 2, stats.Hits)
	assert.Equal(t, 1, stats.Misses)

	require.NoError(t, os.WriteFile(path, []byte(
		`{"runId":1,"runName":"a","time":"2024-06-05 10:00:00","user":"u"}`+"\n"+
			`{"runId":2,"runName":"b","time":"2024-06-06 10:00:00","user":"u"}`+"\n"), 0644))

	records, err := src.Query(ctx, model.HistoryQuery{})
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, 2, src.CacheStats().Misses)
}

func TestFileSource_MissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "missing.json")).Query(context.Background(), model.HistoryQuery{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
