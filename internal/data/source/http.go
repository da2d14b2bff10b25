package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/penwyp/go-run-history/internal/core/model"
	"github.com/penwyp/go-run-history/internal/util"
)

// HistoryPath is the endpoint serving raw run history.
const HistoryPath = "/api/history"

// Query parameters of the history endpoint
const (
	ParamRun    = "run"
	ParamLimit  = "limit"
	ParamOffset = "offset"
	ParamSort   = "sort"
	ParamOrder  = "order"
)

// HTTPSource fetches history from a remote history service.
type HTTPSource struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPSource creates a source for the service at baseURL.
func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *HTTPSource) Name() string {
	return "http:" + s.baseURL
}

// EncodeQuery renders q as history endpoint parameters.
func EncodeQuery(q model.HistoryQuery) url.Values {
	values := url.Values{}
	for _, id := range q.RunIDs {
		values.Add(ParamRun, strconv.FormatInt(id, 10))
	}
	if q.Limit > 0 {
		values.Set(ParamLimit, strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		values.Set(ParamOffset, strconv.Itoa(q.Offset))
	}
	if q.Sort != nil {
		values.Set(ParamSort, string(q.Sort.Field))
		order := "asc"
		if q.Sort.Desc {
			order = "desc"
		}
		values.Set(ParamOrder, order)
	}
	return values
}

// DecodeQuery parses history endpoint parameters.
func DecodeQuery(values url.Values) (model.HistoryQuery, error) {
	var q model.HistoryQuery
	for _, raw := range values[ParamRun] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return q, fmt.Errorf("invalid run id %q", raw)
		}
		q.RunIDs = append(q.RunIDs, id)
	}

	var err error
	if q.Limit, err = nonNegative(values.Get(ParamLimit), ParamLimit); err != nil {
		return q, err
	}
	if q.Offset, err = nonNegative(values.Get(ParamOffset), ParamOffset); err != nil {
		return q, err
	}

	if values.Get(ParamSort) != "" || values.Get(ParamOrder) != "" {
		field, err := model.ParseSortField(values.Get(ParamSort))
		if err != nil {
			return q, err
		}
		q.Sort = &model.SortSpec{
			Field: field,
			Desc:  strings.EqualFold(values.Get(ParamOrder), "desc"),
		}
	}
	return q, nil
}

func nonNegative(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return n, nil
}

func (s *HTTPSource) Query(ctx context.Context, q model.HistoryQuery) ([]model.RunHistoryRecord, error) {
	endpoint := s.baseURL + HistoryPath
	if encoded := EncodeQuery(q).Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	util.LogDebug(fmt.Sprintf("Fetching run history from %s", endpoint))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch run history: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	records, err := model.DecodeRecords(body)
	if err != nil {
		return nil, err
	}

	util.LogDebug(fmt.Sprintf("Fetched %d history records from %s", len(records), s.baseURL))
	return records, nil
}
