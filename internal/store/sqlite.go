// Package store persists history records in SQLite and answers the list,
// search and count queries the search front-ends issue.
package store

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"
	_ "modernc.org/sqlite"

	rwerrors "github.com/chazuruo/rewind/internal/errors"
	"github.com/chazuruo/rewind/internal/history"
)

const schema = `
CREATE TABLE IF NOT EXISTS history (
	id        TEXT PRIMARY KEY,
	timestamp INTEGER NOT NULL,
	duration  INTEGER NOT NULL,
	exit      INTEGER NOT NULL,
	command   TEXT NOT NULL,
	cwd       TEXT NOT NULL,
	session   TEXT NOT NULL,
	hostname  TEXT NOT NULL,
	UNIQUE(timestamp, cwd, command)
);

CREATE INDEX IF NOT EXISTS idx_history_timestamp ON history(timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_history_command ON history(command);
`

// Newest row per distinct command. SQLite fills the bare columns from the
// row that produced MAX(timestamp).
const selectUnique = `
SELECT id, MAX(timestamp) AS timestamp, duration, exit, command, cwd, session, hostname
FROM history
`

const selectAll = `
SELECT id, timestamp, duration, exit, command, cwd, session, hostname
FROM history
`

// SQLite is a history.Store backed by a SQLite database file.
type SQLite struct {
	conn   *sql.DB
	logger *slog.Logger
}

var _ history.Store = (*SQLite)(nil)

// Open opens or creates the database at path and initializes the schema.
// Pass ":memory:" for an in-memory database.
func Open(path string, logger *slog.Logger) (*SQLite, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, &rwerrors.StoreError{Op: "open", Err: err}
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &rwerrors.StoreError{Op: "open", Err: err}
	}
	if path == ":memory:" {
		// Each pooled connection would otherwise get its own empty database
		conn.SetMaxOpenConns(1)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = conn.Close()
		return nil, &rwerrors.StoreError{Op: "enable WAL", Err: err}
	}

	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, &rwerrors.StoreError{Op: "init schema", Err: err}
	}

	logger.Debug("store opened", "path", path)
	return &SQLite{conn: conn, logger: logger}, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// List returns up to limit records, newest first.
func (s *SQLite) List(ctx context.Context, limit int, unique bool) ([]history.History, error) {
	query := selectAll + "ORDER BY timestamp DESC LIMIT ?"
	if unique {
		query = selectUnique + "GROUP BY command ORDER BY timestamp DESC LIMIT ?"
	}

	start := time.Now()
	rows, err := s.conn.QueryContext(ctx, query, sqlLimit(limit))
	if err != nil {
		return nil, &rwerrors.StoreError{Op: "list", Err: err}
	}
	defer func() { _ = rows.Close() }()

	records, err := scanHistory(rows)
	if err != nil {
		return nil, &rwerrors.StoreError{Op: "list", Err: err}
	}

	s.logger.Debug("list", "limit", limit, "unique", unique, "rows", len(records), "elapsed", time.Since(start))
	return records, nil
}

// Search returns the newest record per distinct command matching query.
// Prefix and full-text results are ordered newest first; fuzzy results are
// ranked by match score with ties broken by recency.
func (s *SQLite) Search(ctx context.Context, mode history.SearchMode, query string, limit int) ([]history.History, error) {
	var pattern string
	switch mode {
	case history.SearchModePrefix:
		pattern = escapeLike(query) + "%"
	case history.SearchModeFullText:
		pattern = "%" + escapeLike(query) + "%"
	case history.SearchModeFuzzy:
		pattern = fuzzyPattern(query)
	default:
		return nil, &rwerrors.StoreError{Op: "search", Err: rwerrors.Newf("unsupported search mode %s", mode)}
	}

	sqlQuery := selectUnique + `WHERE command LIKE ? ESCAPE '\' GROUP BY command ORDER BY timestamp DESC LIMIT ?`

	// Fuzzy ranking reorders candidates, so the limit applies afterwards
	prefilterLimit := limit
	if mode == history.SearchModeFuzzy {
		prefilterLimit = 0
	}

	start := time.Now()
	rows, err := s.conn.QueryContext(ctx, sqlQuery, pattern, sqlLimit(prefilterLimit))
	if err != nil {
		return nil, &rwerrors.StoreError{Op: "search", Err: err}
	}
	defer func() { _ = rows.Close() }()

	records, err := scanHistory(rows)
	if err != nil {
		return nil, &rwerrors.StoreError{Op: "search", Err: err}
	}

	if mode == history.SearchModeFuzzy {
		records = rankFuzzy(query, records)
		if limit > 0 && len(records) > limit {
			records = records[:limit]
		}
	}

	s.logger.Debug("search",
		"mode", mode.String(),
		"query", query,
		"limit", limit,
		"rows", len(records),
		"elapsed", time.Since(start),
	)
	return records, nil
}

// Count returns the total number of stored records.
func (s *SQLite) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.conn.QueryRowContext(ctx, "SELECT COUNT(1) FROM history").Scan(&n); err != nil {
		return 0, &rwerrors.StoreError{Op: "count", Err: err}
	}
	return n, nil
}

// Insert stores records in one transaction, ignoring any that duplicate an
// existing (timestamp, cwd, command) triple. It returns how many were added.
func (s *SQLite) Insert(ctx context.Context, records []history.History) (int64, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, &rwerrors.StoreError{Op: "insert", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO history (id, timestamp, duration, exit, command, cwd, session, hostname)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, &rwerrors.StoreError{Op: "insert", Err: err}
	}
	defer func() { _ = stmt.Close() }()

	var inserted int64
	for _, h := range records {
		res, err := stmt.ExecContext(ctx,
			h.ID,
			h.Timestamp.UnixNano(),
			h.Duration,
			h.Exit,
			h.Command,
			h.Cwd,
			h.Session,
			h.Hostname,
		)
		if err != nil {
			return 0, &rwerrors.StoreError{Op: "insert", Err: err}
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, &rwerrors.StoreError{Op: "insert", Err: err}
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, &rwerrors.StoreError{Op: "insert", Err: err}
	}

	s.logger.Debug("insert", "records", len(records), "inserted", inserted)
	return inserted, nil
}

func scanHistory(rows *sql.Rows) ([]history.History, error) {
	var records []history.History
	for rows.Next() {
		var h history.History
		var ts int64
		if err := rows.Scan(&h.ID, &ts, &h.Duration, &h.Exit, &h.Command, &h.Cwd, &h.Session, &h.Hostname); err != nil {
			return nil, err
		}
		h.Timestamp = time.Unix(0, ts).UTC()
		records = append(records, h)
	}
	return records, rows.Err()
}

// sqlLimit maps "no limit" onto SQLite's LIMIT -1.
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// fuzzyPattern turns "gst" into "%g%s%t%", which preselects every command
// containing the query's characters in order.
func fuzzyPattern(query string) string {
	var b strings.Builder
	b.WriteByte('%')
	for _, r := range query {
		b.WriteString(escapeLike(string(r)))
		b.WriteByte('%')
	}
	return b.String()
}

type commandSource []history.History

func (c commandSource) String(i int) string { return c[i].Command }
func (c commandSource) Len() int            { return len(c) }

// rankFuzzy orders candidates by fuzzy score. The sort is stable, so equal
// scores keep the incoming newest-first order.
func rankFuzzy(query string, candidates []history.History) []history.History {
	if query == "" || len(candidates) == 0 {
		return candidates
	}
	matches := fuzzy.FindFrom(query, commandSource(candidates))

	ranked := make([]history.History, 0, len(matches))
	for _, m := range matches {
		ranked = append(ranked, candidates[m.Index])
	}
	return ranked
}
