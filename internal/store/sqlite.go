package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/fehu/internal/apperr"
	"github.com/starford/fehu/internal/checksum"
	"github.com/starford/fehu/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS artifacts (
	id           TEXT PRIMARY KEY,
	filename     TEXT NOT NULL,
	content_type TEXT NOT NULL,
	data         BLOB NOT NULL,
	source_data  TEXT,
	checksum     TEXT NOT NULL DEFAULT '',
	created_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_artifacts_created ON artifacts(created_at);
`

// SQLite implements Provider on a local SQLite database.
type SQLite struct {
	conn *sql.DB
}

// OpenSQLite opens (or creates) the database and applies the schema.
func OpenSQLite(dsn string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &SQLite{conn: conn}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.conn.Close()
}

// Ping implements Provider.
func (s *SQLite) Ping(ctx context.Context) error {
	if err := s.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrUnavailable, err)
	}
	return nil
}

// Put inserts the artifact in a single transaction; readers never observe a
// partial write.
func (s *SQLite) Put(ctx context.Context, in PutInput) (uuid.UUID, error) {
	id := uuid.New()
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	var source any
	if len(in.SourceData) > 0 {
		source = string(in.SourceData)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO artifacts (id, filename, content_type, data, source_data, checksum, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id.String(), in.Filename, in.ContentType, in.Data, source, checksum.Sum(in.Data), time.Now().UTC())
	if err != nil {
		return uuid.Nil, fmt.Errorf("store: insert artifact: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("store: commit: %w", err)
	}
	return id, nil
}

// Get implements Provider.
func (s *SQLite) Get(ctx context.Context, id uuid.UUID) (*models.Artifact, error) {
	row := s.conn.QueryRowContext(ctx, `
		SELECT filename, content_type, data, source_data, checksum, created_at
		FROM artifacts WHERE id = ?
	`, id.String())

	a := models.Artifact{ID: id}
	var source sql.NullString
	if err := row.Scan(&a.Filename, &a.ContentType, &a.Data, &source, &a.Checksum, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("store: get artifact: %w", err)
	}
	if source.Valid {
		a.SourceData = []byte(source.String)
	}
	if !checksum.Verify(a.Data, a.Checksum) {
		return nil, fmt.Errorf("store: artifact %s failed checksum verification", id)
	}
	return &a, nil
}

// List implements Provider. The data column is never selected.
func (s *SQLite) List(ctx context.Context) ([]models.ArtifactSummary, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, filename, created_at FROM artifacts ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list artifacts: %w", err)
	}
	defer rows.Close()

	out := []models.ArtifactSummary{}
	for rows.Next() {
		var raw string
		var item models.ArtifactSummary
		if err := rows.Scan(&raw, &item.Filename, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan summary: %w", err)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("store: corrupt id %q: %w", raw, err)
		}
		item.ID = id
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list artifacts: %w", err)
	}
	return out, nil
}

var _ Provider = (*SQLite)(nil)
