package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-run-history/internal/application/browse"
	"github.com/penwyp/go-run-history/internal/core/filter"
	"github.com/penwyp/go-run-history/internal/core/history"
	"github.com/penwyp/go-run-history/internal/core/model"
	"github.com/penwyp/go-run-history/internal/data/source"
	"github.com/penwyp/go-run-history/internal/presentation/formatter"
	"github.com/penwyp/go-run-history/internal/util"
)

// maxBodyBytes bounds the size of a posted record.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := sonic.Marshal(v)
	if err != nil {
		util.LogErrorf("Failed to encode response: %v", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"source": s.source.Name(),
	})
}

func (s *Server) fetch(w http.ResponseWriter, r *http.Request) ([]model.RunHistoryRecord, bool) {
	q, err := source.DecodeQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	records, err := s.source.Query(r.Context(), q)
	if err != nil {
		util.LogWarnf("History query failed: %v", err)
		writeError(w, http.StatusBadGateway, err)
		return nil, false
	}
	return records, true
}

func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	records, ok := s.fetch(w, r)
	if !ok {
		return
	}
	if records == nil {
		records = []model.RunHistoryRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) listDays(w http.ResponseWriter, r *http.Request) {
	records, ok := s.fetch(w, r)
	if !ok {
		return
	}
	buckets, err := history.NewGrouperInLocation(s.location).Group(records)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, buckets)
}

// selectRecord applies a posted record to a fresh filter. The optional
// "hash" query parameter carries the caller's current navigation state.
func (s *Server) selectRecord(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var record model.RunHistoryRecord
	if err := sonic.Unmarshal(body, &record); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	nav, err := browse.ParseHashState(r.URL.Query().Get("hash"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	filters := filter.NewStore()
	filters.Subscribe(nav.SyncFilter)

	set, err := filter.NewProjector(filters, nav, s.location).Select(record)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, history.ErrMalformedTimestamp) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err)
		return
	}

	writeJSON(w, http.StatusOK, formatter.Selection{
		View:       set.Kind(),
		Predicates: set,
		State:      filters.State(),
		Hash:       nav.Encode(),
	})
}
