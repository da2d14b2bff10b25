package source

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-run-history/internal/core/cache"
	"github.com/penwyp/go-run-history/internal/core/model"
	"github.com/penwyp/go-run-history/internal/util"
)

// FileSource reads history from a JSON array file or a JSONL file. The
// decoded records are kept in memory until the file changes.
type FileSource struct {
	path  string
	cache *cache.MemoryCache
}

// NewFileSource creates a source reading path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path, cache: cache.NewMemoryCache()}
}

func (s *FileSource) Name() string {
	return "file:" + filepath.Base(s.path)
}

// Path returns the file the source reads.
func (s *FileSource) Path() string {
	return s.path
}

func (s *FileSource) Query(ctx context.Context, q model.HistoryQuery) ([]model.RunHistoryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fp, err := util.CalculateFileFingerprint(s.path)
	if err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}
	records, ok := s.cache.Get(s.path, fp)
	if !ok {
		records, err = ReadRecordsFile(s.path)
		if err != nil {
			s.cache.Invalidate(s.path)
			return nil, err
		}
		s.cache.Set(s.path, fp, records)
	}
	return ApplyQuery(records, q), nil
}

// CacheStats reports how often queries were served without decoding.
func (s *FileSource) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// ReadRecordsFile decodes a .json array or a .jsonl file. Content starting
// with "[" is always treated as an array.
func ReadRecordsFile(path string) ([]model.RunHistoryRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []model.RunHistoryRecord{}, nil
	}
	if trimmed[0] == '[' {
		return model.DecodeRecords(trimmed)
	}
	if !strings.EqualFold(filepath.Ext(path), ".jsonl") {
		util.LogDebugf("History file %s is not a JSON array, reading it as JSONL", path)
	}
	return decodeLines(path, trimmed)
}

func decodeLines(path string, data []byte) ([]model.RunHistoryRecord, error) {
	var records []model.RunHistoryRecord
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	lineCount := 0
	for scanner.Scan() {
		lineCount++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var record model.RunHistoryRecord
		if err := sonic.Unmarshal(line, &record); err != nil {
			util.LogDebug(fmt.Sprintf("Skip invalid JSON line %s:%d - %v", path, lineCount, err))
			continue
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan history file: %w", err)
	}

	util.LogDebugf("Read %d history records from %d lines of %s", len(records), lineCount, path)
	return records, nil
}
