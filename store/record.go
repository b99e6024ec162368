package store

import (
	"context"
	"errors"
	"slices"
	"time"
)

// ErrNotFound is returned by Load and Delete for an unknown record ID.
var ErrNotFound = errors.New("run record not found")

// RunRecord describes one walk-generation request and the artifact it produced
type RunRecord struct {
	ID           string         `json:"id"`
	SessionID    string         `json:"session_id"`
	ArtifactPath string         `json:"artifact_path"`
	Nodes        int            `json:"nodes"`
	Walks        int64          `json:"walks"`
	NumWalks     int            `json:"num_walks"`
	WalkLength   int            `json:"walk_length"`
	Shortfall    int64          `json:"shortfall"`
	Duration     time.Duration  `json:"duration"`
	Timestamp    time.Time      `json:"timestamp"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// RunStore defines the interface for run record persistence
type RunStore interface {
	// Save stores a record, replacing any record with the same ID
	Save(ctx context.Context, record *RunRecord) error

	// Load retrieves a record by ID
	Load(ctx context.Context, id string) (*RunRecord, error)

	// List returns all records of a session, oldest first
	List(ctx context.Context, sessionID string) ([]*RunRecord, error)

	// Delete removes a record
	Delete(ctx context.Context, id string) error

	// Clear removes all records of a session
	Clear(ctx context.Context, sessionID string) error
}

// SortByTimestamp orders records oldest first, breaking ties by ID.
func SortByTimestamp(records []*RunRecord) {
	slices.SortFunc(records, func(a, b *RunRecord) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
}
