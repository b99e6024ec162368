package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/smallnest/graphwalk/store"
)

// SqliteRunStore implements store.RunStore using SQLite
type SqliteRunStore struct {
	db        *sql.DB
	tableName string
}

// SqliteOptions configuration for SQLite connection
type SqliteOptions struct {
	Path      string
	TableName string // Default "walk_runs"
}

// NewSqliteRunStore opens the database at opts.Path and creates the table if needed
func NewSqliteRunStore(opts SqliteOptions) (*SqliteRunStore, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "walk_runs"
	}

	s := &SqliteRunStore{
		db:        db,
		tableName: tableName,
	}

	if err := s.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// InitSchema creates the necessary table if it doesn't exist
func (s *SqliteRunStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			artifact_path TEXT NOT NULL,
			nodes INTEGER NOT NULL,
			walks INTEGER NOT NULL,
			num_walks INTEGER NOT NULL,
			walk_length INTEGER NOT NULL,
			shortfall INTEGER NOT NULL,
			duration_ns INTEGER NOT NULL,
			metadata TEXT,
			timestamp DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%s_session_id ON %s (session_id);
	`, s.tableName, s.tableName, s.tableName)

	_, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SqliteRunStore) Close() error {
	return s.db.Close()
}

// Save stores a record
func (s *SqliteRunStore) Save(ctx context.Context, record *store.RunRecord) error {
	metadataJSON, err := json.Marshal(record.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, session_id, artifact_path, nodes, walks, num_walks, walk_length, shortfall, duration_ns, metadata, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			session_id = excluded.session_id,
			artifact_path = excluded.artifact_path,
			nodes = excluded.nodes,
			walks = excluded.walks,
			num_walks = excluded.num_walks,
			walk_length = excluded.walk_length,
			shortfall = excluded.shortfall,
			duration_ns = excluded.duration_ns,
			metadata = excluded.metadata,
			timestamp = excluded.timestamp
	`, s.tableName)

	_, err = s.db.ExecContext(ctx, query,
		record.ID,
		record.SessionID,
		record.ArtifactPath,
		record.Nodes,
		record.Walks,
		record.NumWalks,
		record.WalkLength,
		record.Shortfall,
		int64(record.Duration),
		string(metadataJSON),
		record.Timestamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save run record: %w", err)
	}

	return nil
}

const columns = "id, session_id, artifact_path, nodes, walks, num_walks, walk_length, shortfall, duration_ns, metadata, timestamp"

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*store.RunRecord, error) {
	var rec store.RunRecord
	var durationNs int64
	var metadataJSON sql.NullString

	err := row.Scan(
		&rec.ID,
		&rec.SessionID,
		&rec.ArtifactPath,
		&rec.Nodes,
		&rec.Walks,
		&rec.NumWalks,
		&rec.WalkLength,
		&rec.Shortfall,
		&durationNs,
		&metadataJSON,
		&rec.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	rec.Duration = time.Duration(durationNs)

	if metadataJSON.Valid && metadataJSON.String != "" {
		if err := json.Unmarshal([]byte(metadataJSON.String), &rec.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}
	return &rec, nil
}

// Load retrieves a record by ID
func (s *SqliteRunStore) Load(ctx context.Context, id string) (*store.RunRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", columns, s.tableName)

	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", store.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to load run record: %w", err)
	}
	return rec, nil
}

// List returns all records of a session, oldest first
func (s *SqliteRunStore) List(ctx context.Context, sessionID string) ([]*store.RunRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE session_id = ? ORDER BY timestamp ASC, id ASC", columns, s.tableName)

	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list run records: %w", err)
	}
	defer rows.Close()

	records := []*store.RunRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run record row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run record rows: %w", err)
	}

	return records, nil
}

// Delete removes a record
func (s *SqliteRunStore) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.tableName)
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete run record: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}
	return nil
}

// Clear removes all records of a session
func (s *SqliteRunStore) Clear(ctx context.Context, sessionID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE session_id = ?", s.tableName)
	_, err := s.db.ExecContext(ctx, query, sessionID)
	if err != nil {
		return fmt.Errorf("failed to clear run records: %w", err)
	}
	return nil
}
