package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smallnest/graphwalk/store"
)

// DBPool defines the interface for database connection pool
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresRunStore implements store.RunStore using PostgreSQL
type PostgresRunStore struct {
	pool      DBPool
	tableName string
}

// PostgresOptions configuration for Postgres connection
type PostgresOptions struct {
	ConnString string
	TableName  string // Default "walk_runs"
}

// NewPostgresRunStore creates a new Postgres run store
func NewPostgresRunStore(ctx context.Context, opts PostgresOptions) (*PostgresRunStore, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	return NewPostgresRunStoreWithPool(pool, opts.TableName), nil
}

// NewPostgresRunStoreWithPool creates a new Postgres run store with an existing pool
// Useful for testing with mocks
func NewPostgresRunStoreWithPool(pool DBPool, tableName string) *PostgresRunStore {
	if tableName == "" {
		tableName = "walk_runs"
	}
	return &PostgresRunStore{
		pool:      pool,
		tableName: tableName,
	}
}

// InitSchema creates the necessary table if it doesn't exist
func (s *PostgresRunStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			artifact_path TEXT NOT NULL,
			nodes INTEGER NOT NULL,
			walks BIGINT NOT NULL,
			num_walks INTEGER NOT NULL,
			walk_length INTEGER NOT NULL,
			shortfall BIGINT NOT NULL,
			duration_ns BIGINT NOT NULL,
			metadata JSONB,
			timestamp TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%s_session_id ON %s (session_id);
	`, s.tableName, s.tableName, s.tableName)

	_, err := s.pool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (s *PostgresRunStore) Close() error {
	s.pool.Close()
	return nil
}

// Save stores a record
func (s *PostgresRunStore) Save(ctx context.Context, record *store.RunRecord) error {
	metadataJSON, err := json.Marshal(record.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, session_id, artifact_path, nodes, walks, num_walks, walk_length, shortfall, duration_ns, metadata, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			session_id = EXCLUDED.session_id,
			artifact_path = EXCLUDED.artifact_path,
			nodes = EXCLUDED.nodes,
			walks = EXCLUDED.walks,
			num_walks = EXCLUDED.num_walks,
			walk_length = EXCLUDED.walk_length,
			shortfall = EXCLUDED.shortfall,
			duration_ns = EXCLUDED.duration_ns,
			metadata = EXCLUDED.metadata,
			timestamp = EXCLUDED.timestamp
	`, s.tableName)

	_, err = s.pool.Exec(ctx, query,
		record.ID,
		record.SessionID,
		record.ArtifactPath,
		record.Nodes,
		record.Walks,
		record.NumWalks,
		record.WalkLength,
		record.Shortfall,
		int64(record.Duration),
		metadataJSON,
		record.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to save run record: %w", err)
	}

	return nil
}

const columns = "id, session_id, artifact_path, nodes, walks, num_walks, walk_length, shortfall, duration_ns, metadata, timestamp"

func scanRecord(row pgx.Row) (*store.RunRecord, error) {
	var rec store.RunRecord
	var durationNs int64
	var metadataJSON []byte

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

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &rec.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}
	return &rec, nil
}

// Load retrieves a record by ID
func (s *PostgresRunStore) Load(ctx context.Context, id string) (*store.RunRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", columns, s.tableName)

	rec, err := scanRecord(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", store.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to load run record: %w", err)
	}
	return rec, nil
}

// List returns all records of a session, oldest first
func (s *PostgresRunStore) List(ctx context.Context, sessionID string) ([]*store.RunRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE session_id = $1 ORDER BY timestamp ASC, id ASC", columns, s.tableName)

	rows, err := s.pool.Query(ctx, query, sessionID)
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
func (s *PostgresRunStore) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.tableName)
	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete run record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}
	return nil
}

// Clear removes all records of a session
func (s *PostgresRunStore) Clear(ctx context.Context, sessionID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE session_id = $1", s.tableName)
	_, err := s.pool.Exec(ctx, query, sessionID)
	if err != nil {
		return fmt.Errorf("failed to clear run records: %w", err)
	}
	return nil
}
