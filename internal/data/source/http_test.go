package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/penwyp/go-run-history/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPSource(t *testing.T) {
	src := NewHTTPSource("http://history.local/")

	assert.Equal(t, "http:http://history.local", src.Name())
	assert.Equal(t, 30*time.Second, src.httpClient.Timeout)
}

func TestEncodeDecodeQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   model.HistoryQuery
		encoded string
	}{
		{name: "empty", query: model.HistoryQuery{}, encoded: ""},
		{
			name:    "runs and paging",
			query:   model.HistoryQuery{RunIDs: []int64{7, 9}, Limit: 10, Offset: 20},
			encoded: "limit=10&offset=20&run=7&run=9",
		},
		{
			name:    "sorted",
			query:   model.HistoryQuery{Sort: &model.SortSpec{Field: model.SortByRunName, Desc: true}},
			encoded: "order=desc&sort=run-name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := EncodeQuery(tt.query)
			assert.Equal(t, tt.encoded, values.Encode())

			decoded, err := DecodeQuery(values)
			require.NoError(t, err)
			assert.Equal(t, tt.query, decoded)
		})
	}
}

func TestDecodeQuery_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
	}{
		{name: "bad run id", values: url.Values{ParamRun: {"abc"}}},
		{name: "negative limit", values: url.Values{ParamLimit: {"-1"}}},
		{name: "bad offset", values: url.Values{ParamOffset: {"x"}}},
		{name: "bad sort", values: url.Values{ParamSort: {"size"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeQuery(tt.values)
			assert.Error(t, err)
		})
	}
}

func TestHTTPSource_Query(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, HistoryPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"runId":5,"runName":"nightly","time":"2024-06-05 10:15:30","user":"alice","versionTag":"v3"}]`))
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL)
	records, err := src.Query(context.Background(), model.HistoryQuery{RunIDs: []int64{5}, Limit: 3})
	require.NoError(t, err)

	assert.Equal(t, []string{"5"}, gotQuery[ParamRun])
	assert.Equal(t, "3", gotQuery.Get(ParamLimit))
	require.Len(t, records, 1)
	assert.Equal(t, model.RunHistoryRecord{
		RunID: 5, RunName: "nightly", Time: "2024-06-05 10:15:30", User: "alice", VersionTag: "v3",
	}, records[0])
}

func TestHTTPSource_QueryErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "invalid body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"not":"an array"`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := NewHTTPSource(server.URL).Query(context.Background(), model.HistoryQuery{})
			assert.Error(t, err)
		})
	}
}
