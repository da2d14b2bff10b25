package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-run-history/internal/core/model"
	"github.com/penwyp/go-run-history/internal/data/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	records []model.RunHistoryRecord
	err     error
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Query(_ context.Context, q model.HistoryQuery) ([]model.RunHistoryRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return source.ApplyQuery(s.records, q), nil
}

func testRecords() []model.RunHistoryRecord {
	return []model.RunHistoryRecord{
		{RunID: 1, RunName: "nightly", Time: "2024-06-05 10:15:30.250", User: "alice"},
		{RunID: 2, RunName: "baseline", Time: "2024-06-05 08:00:00", User: "bob", VersionTag: "v1"},
		{RunID: 1, RunName: "nightly", Time: "2024-06-04 09:00:00", User: "alice"},
	}
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := New(&stubSource{}, time.UTC).Handler()

	rec := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","source":"stub"}`, rec.Body.String())
}

func TestListHistory(t *testing.T) {
	h := New(&stubSource{records: testRecords()}, time.UTC).Handler()

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantIDs    []int64
	}{
		{name: "all", target: "/api/history", wantStatus: http.StatusOK, wantIDs: []int64{1, 2, 1}},
		{name: "by run", target: "/api/history?run=2", wantStatus: http.StatusOK, wantIDs: []int64{2}},
		{name: "paged", target: "/api/history?limit=1&offset=1", wantStatus: http.StatusOK, wantIDs: []int64{2}},
		{name: "no match", target: "/api/history?run=9", wantStatus: http.StatusOK, wantIDs: []int64{}},
		{name: "bad limit", target: "/api/history?limit=-4", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.target, "")
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantIDs == nil {
				return
			}
			records, err := model.DecodeRecords(rec.Body.Bytes())
			require.NoError(t, err)
			ids := make([]int64, 0, len(records))
			for _, r := range records {
				ids = append(ids, r.RunID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestListHistory_SourceFailure(t *testing.T) {
	h := New(&stubSource{err: errors.New("down")}, time.UTC).Handler()

	rec := do(t, h, http.MethodGet, "/api/history", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "down")
}

func TestListDays(t *testing.T) {
	h := New(&stubSource{records: testRecords()}, time.UTC).Handler()

	rec := do(t, h, http.MethodGet, "/api/history/days", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var days []struct {
		Label   string                   `json:"label"`
		Records []model.RunHistoryRecord `json:"records"`
	}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &days))
	require.Len(t, days, 2)
	assert.Equal(t, "5 June, 2024", days[0].Label)
	assert.Len(t, days[0].Records, 2)
	assert.Equal(t, "4 June, 2024", days[1].Label)
}

func TestListDays_MalformedHistory(t *testing.T) {
	records := append(testRecords(), model.RunHistoryRecord{RunName: "bad", Time: "soon"})
	h := New(&stubSource{records: records}, time.UTC).Handler()

	rec := do(t, h, http.MethodGet, "/api/history/days", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSelectRecord(t *testing.T) {
	h := New(&stubSource{}, time.UTC).Handler()

	tests := []struct {
		name       string
		target     string
		body       string
		wantStatus int
		wantView   string
		wantHash   string
	}{
		{
			name:       "incremental",
			target:     "/api/history/select",
			body:       `{"runId":1,"runName":"nightly","time":"2024-06-05 10:15:30.250","user":"alice"}`,
			wantStatus: http.StatusOK,
			wantView:   "incremental",
			wantHash: "#detection-status=NEW&detection-status=UNRESOLVED&detection-status=REOPENED" +
				"&first-detection-date=2024-06-05+10%3A15%3A31&fix-date=2024-06-05+10%3A15%3A31&run=nightly",
		},
		{
			name:       "snapshot drops subtab and keeps other state",
			target:     "/api/history/select?hash=" + "%23page%3Dresults%26subtab%3Dtrend%26run%3Dold",
			body:       `{"runId":2,"runName":"baseline","time":"garbage","user":"bob","versionTag":"v1"}`,
			wantStatus: http.StatusOK,
			wantView:   "snapshot",
			wantHash:   "#page=results&run-tag=baseline%3Av1",
		},
		{
			name:       "malformed time",
			target:     "/api/history/select",
			body:       `{"runId":1,"runName":"nightly","time":"yesterday","user":"alice"}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "invalid json",
			target:     "/api/history/select",
			body:       `{"runId":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.target, tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp struct {
				View string `json:"view"`
				Hash string `json:"hash"`
			}
			require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantView, resp.View)
			assert.Equal(t, tt.wantHash, resp.Hash)
		})
	}
}

func TestServer_WorksWithHTTPSource(t *testing.T) {
	ts := httptest.NewServer(New(&stubSource{records: testRecords()}, time.UTC).Handler())
	defer ts.Close()

	records, err := source.NewHTTPSource(ts.URL).Query(context.Background(), model.HistoryQuery{
		RunIDs: []int64{1},
		Sort:   &model.SortSpec{Field: model.SortByTime},
	})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2024-06-04 09:00:00", records[0].Time)
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(&stubSource{}, time.UTC).ListenAndServe(ctx, "127.0.0.1:0")
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
