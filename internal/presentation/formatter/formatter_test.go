package formatter

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-run-history/internal/core/filter"
	"github.com/penwyp/go-run-history/internal/core/history"
	"github.com/penwyp/go-run-history/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDays(t *testing.T) []history.DayBucket {
	t.Helper()
	records := []model.RunHistoryRecord{
		{RunID: 1, RunName: "nightly", Time: "2024-06-05 10:15:30", User: "alice", CheckCommand: "scan\n  --all ./..."},
		{RunID: 2, RunName: "baseline", Time: "2024-06-05 08:00:00", User: "bob", VersionTag: "v1"},
		{RunID: 1, RunName: "nightly", Time: "2024-06-04 23:59:59", User: "alice"},
	}
	buckets, err := history.NewGrouperInLocation(time.UTC).Group(records)
	require.NoError(t, err)
	return buckets.Buckets()
}

func TestNew(t *testing.T) {
	tests := []struct {
		format  string
		want    interface{}
		wantErr bool
	}{
		{format: "", want: &TableFormatter{}},
		{format: "table", want: &TableFormatter{}},
		{format: "JSON", want: &JSONFormatter{}},
		{format: "csv", want: &CSVFormatter{}},
		{format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			f, err := New(tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, f)
		})
	}
}

func TestRowsAndRecordAt(t *testing.T) {
	days := testDays(t)

	rows := Rows(days)
	require.Len(t, rows, 3)
	assert.Equal(t, 1, rows[0].Index)
	assert.Equal(t, "5 June, 2024", rows[1].Day)
	assert.Equal(t, "4 June, 2024", rows[2].Day)

	r, err := RecordAt(days, 2)
	require.NoError(t, err)
	assert.Equal(t, "baseline", r.RunName)

	_, err = RecordAt(days, 0)
	assert.Error(t, err)
	_, err = RecordAt(days, 4)
	assert.Error(t, err)
}

func TestTableFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter().Format(&buf, testDays(t)))
	out := buf.String()

	for _, want := range []string{
		"5 June, 2024", "4 June, 2024", "10:15:30", "23:59:59",
		"nightly", "baseline", "v1", "scan --all ./...", "3 entries",
	} {
		assert.Contains(t, out, want)
	}
	assert.True(t, strings.HasPrefix(out, "┌"))

	// Every line of the box has the same display width.
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	width := len([]rune(lines[0]))
	for _, line := range lines {
		assert.Equal(t, width, len([]rune(line)), line)
	}
}

func TestTableFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter().Format(&buf, nil))
	assert.Contains(t, buf.String(), "0 entries")
}

func TestClockTime(t *testing.T) {
	assert.Equal(t, "10:15:30", clockTime("2024-06-05 10:15:30"))
	assert.Equal(t, "10:15:30.5", clockTime("2024-06-05T10:15:30.5"))
	assert.Equal(t, "garbage", clockTime("garbage"))
}

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().Format(&buf, testDays(t)))

	var decoded []struct {
		Label   string                   `json:"label"`
		Records []model.RunHistoryRecord `json:"records"`
	}
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "5 June, 2024", decoded[0].Label)
	assert.Len(t, decoded[0].Records, 2)

	buf.Reset()
	require.NoError(t, NewJSONFormatter().Format(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestCSVFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVFormatter().Format(&buf, testDays(t)))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Index", rows[0][0])
	assert.Equal(t, []string{"2", "5 June, 2024", "2", "baseline", "2024-06-05 08:00:00", "bob", "v1", "", "snapshot"}, rows[2])
	assert.Equal(t, "incremental", rows[3][8])
}

func TestSummaryFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewSummaryFormatter().Format(&buf, testDays(t)))
	out := buf.String()

	assert.Contains(t, out, "Days: 5 June, 2024 to 4 June, 2024")
	assert.Contains(t, out, "Entries:     3")
	assert.Contains(t, out, "Snapshots:   1")
	assert.Contains(t, out, "nightly: 2 entries, 0 snapshots")
	assert.Contains(t, out, "baseline: 1 entry, 1 snapshot")

	buf.Reset()
	require.NoError(t, NewSummaryFormatter().Format(&buf, nil))
	assert.Contains(t, buf.String(), "No history to summarize")
}

func TestFilterFormatter_Format(t *testing.T) {
	incremental := Selection{
		View: filter.ViewIncremental,
		Predicates: filter.IncrementalView{
			RunName:       "nightly",
			Statuses:      model.OutstandingStatuses(),
			DetectionDate: "2024-06-05 10:15:30",
		},
		State: filter.State{
			RunNames:      []string{"nightly"},
			DetectionDate: filter.DateRange{From: "2024-06-05 10:15:30", To: "2024-06-05 10:15:30"},
		},
		Hash: "#run=nightly",
	}

	var buf bytes.Buffer
	require.NoError(t, NewFilterFormatter(false).Format(&buf, incremental))
	out := buf.String()
	assert.Contains(t, out, "View:       incremental")
	assert.Contains(t, out, "Statuses:   NEW, UNRESOLVED, REOPENED")
	assert.Contains(t, out, "Hash:       #run=nightly")

	buf.Reset()
	snapshot := Selection{View: filter.ViewSnapshot, Predicates: filter.SnapshotView{Tag: "baseline:v1"}, Hash: "#run-tag=baseline%3Av1"}
	require.NoError(t, NewFilterFormatter(false).Format(&buf, snapshot))
	assert.Contains(t, buf.String(), "Tag:        baseline:v1")
	assert.NotContains(t, buf.String(), "Query:")

	buf.Reset()
	require.NoError(t, NewFilterFormatter(true).Format(&buf, snapshot))
	var decoded map[string]interface{}
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "snapshot", decoded["view"])
	assert.Equal(t, map[string]interface{}{"tag": "baseline:v1"}, decoded["predicates"])
}
