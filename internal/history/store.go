package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrEmpty is returned by Latest when nothing has been recorded yet.
var ErrEmpty = errors.New("no submissions recorded")

// Entry is one recorded submission.
type Entry struct {
	ID           int64     `json:"id"`
	RequestID    string    `json:"requestId"`
	PipelineID   string    `json:"pipelineId,omitempty"`
	Chief        string    `json:"chief"`
	PackageURL   string    `json:"packageUrl"`
	SourceURL    string    `json:"sourceUrl,omitempty"`
	Experimental bool      `json:"experimental"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

// Store persists submissions in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the history database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts a submission and returns it with ID and timestamp filled in.
func (s *Store) Record(ctx context.Context, entry Entry) (Entry, error) {
	if strings.TrimSpace(entry.PackageURL) == "" {
		return Entry{}, errors.New("record submission: package url is required")
	}
	if entry.SubmittedAt.IsZero() {
		entry.SubmittedAt = time.Now()
	}
	entry.SubmittedAt = entry.SubmittedAt.UTC()

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO submissions (
            request_id, pipeline_id, chief, package_url, source_url, experimental, submitted_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.RequestID,
		nullableString(entry.PipelineID),
		entry.Chief,
		entry.PackageURL,
		nullableString(entry.SourceURL),
		boolToInt(entry.Experimental),
		entry.SubmittedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert submission: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("last insert id: %w", err)
	}
	entry.ID = id
	return entry, nil
}

// List returns the most recent submissions, newest first. A limit <= 0
// returns every row.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, request_id, pipeline_id, chief, package_url, source_url, experimental, submitted_at
        FROM submissions ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return entries, nil
}

// Latest returns the most recent submission or ErrEmpty.
func (s *Store) Latest(ctx context.Context) (Entry, error) {
	entries, err := s.List(ctx, 1)
	if err != nil {
		return Entry{}, err
	}
	if len(entries) == 0 {
		return Entry{}, ErrEmpty
	}
	return entries[0], nil
}

// LatestPipeline returns the most recent submission the chief assigned a
// pipeline ID to, or ErrEmpty.
func (s *Store) LatestPipeline(ctx context.Context) (Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, request_id, pipeline_id, chief, package_url, source_url, experimental, submitted_at
        FROM submissions WHERE pipeline_id IS NOT NULL AND pipeline_id <> ''
        ORDER BY id DESC LIMIT 1`)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrEmpty
	}
	if err != nil {
		return Entry{}, err
	}
	return entry, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		entry        Entry
		pipelineID   sql.NullString
		sourceURL    sql.NullString
		experimental int
		submittedAt  string
	)
	if err := row.Scan(
		&entry.ID,
		&entry.RequestID,
		&pipelineID,
		&entry.Chief,
		&entry.PackageURL,
		&sourceURL,
		&experimental,
		&submittedAt,
	); err != nil {
		return Entry{}, fmt.Errorf("scan submission: %w", err)
	}
	entry.PipelineID = pipelineID.String
	entry.SourceURL = sourceURL.String
	entry.Experimental = experimental != 0
	ts, err := time.Parse(time.RFC3339Nano, submittedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("parse submitted_at %q: %w", submittedAt, err)
	}
	entry.SubmittedAt = ts
	return entry, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
