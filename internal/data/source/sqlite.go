package source

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/penwyp/go-run-history/internal/core/model"
	"github.com/penwyp/go-run-history/internal/util"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// SQLiteStore keeps run history in a local SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

func buildDSN(path string) string {
	params := url.Values{}
	params.Set("_journal_mode", "WAL")
	params.Set("_busy_timeout", "5000")
	params.Set("_foreign_keys", "on")
	return path + "?" + params.Encode()
}

// OpenSQLiteStore opens (creating if needed) and migrates the database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite source requires a database path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", buildDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	util.LogDebugf("Opened history database %s", path)
	return &SQLiteStore{db: db, path: path}, nil
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Name() string {
	return "sqlite:" + filepath.Base(s.path)
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Insert appends records in one transaction and returns how many were stored.
func (s *SQLiteStore) Insert(ctx context.Context, records []model.RunHistoryRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_history
		(run_id, run_name, time, user_name, version_tag, check_command)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.RunID, r.RunName, r.Time, r.User, r.VersionTag, r.CheckCommand); err != nil {
			return 0, fmt.Errorf("insert history of run %q: %w", r.RunName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert: %w", err)
	}
	return len(records), nil
}

// buildSelect renders q as SQL. Without a sort spec rows come back in
// insertion order.
func buildSelect(q model.HistoryQuery) (string, []any) {
	var b strings.Builder
	var args []any

	b.WriteString(`SELECT run_id, run_name, time, user_name, version_tag, check_command FROM run_history`)

	if len(q.RunIDs) > 0 {
		placeholders := make([]string, len(q.RunIDs))
		for i, id := range q.RunIDs {
			placeholders[i] = "?"
			args = append(args, id)
		}
		b.WriteString(" WHERE run_id IN (" + strings.Join(placeholders, ", ") + ")")
	}

	order := "id"
	if q.Sort != nil {
		dir := "ASC"
		if q.Sort.Desc {
			dir = "DESC"
		}
		switch q.Sort.Field {
		case model.SortByRunName:
			order = fmt.Sprintf("run_name %s, REPLACE(time, 'T', ' ') %s, id", dir, dir)
		default:
			order = fmt.Sprintf("REPLACE(time, 'T', ' ') %s, id", dir)
		}
	}
	b.WriteString(" ORDER BY " + order)

	limit := -1
	if q.Limit > 0 {
		limit = q.Limit
	}
	b.WriteString(" LIMIT ? OFFSET ?")
	args = append(args, limit, q.Offset)

	return b.String(), args
}

func (s *SQLiteStore) Query(ctx context.Context, q model.HistoryQuery) ([]model.RunHistoryRecord, error) {
	query, args := buildSelect(q)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query run history: %w", err)
	}
	defer rows.Close()

	records := make([]model.RunHistoryRecord, 0)
	for rows.Next() {
		var r model.RunHistoryRecord
		if err := rows.Scan(&r.RunID, &r.RunName, &r.Time, &r.User, &r.VersionTag, &r.CheckCommand); err != nil {
			return nil, fmt.Errorf("scan run history: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run history: %w", err)
	}
	return records, nil
}
