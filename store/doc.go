// Package store persists run records of the walk server.
//
// Every request served by the server produces one CSV artifact. A RunRecord
// captures where the artifact went and what was asked for: the requested
// walks per node and walk length, the number of start nodes in the batch, the
// walks written and the distinct-walk shortfall. Records are grouped by a
// session ID, one per server process unless configured otherwise.
//
// # Implementations
//
//   - store/memory: process-local map, the default
//   - store/file: one JSON file per record in a directory
//   - store/sqlite: single-file database via mattn/go-sqlite3
//   - store/postgres: pgx connection pool
//   - store/redis: go-redis, with optional TTL
//
// All implementations satisfy RunStore:
//
//	rec := &store.RunRecord{
//	    ID:           uuid.NewString(),
//	    SessionID:    session,
//	    ArtifactPath: path,
//	    Walks:        res.Walks,
//	    Timestamp:    time.Now(),
//	}
//	if err := s.Save(ctx, rec); err != nil {
//	    return err
//	}
//
//	history, err := s.List(ctx, session)
//
// Load and Delete return an error wrapping ErrNotFound for unknown IDs.
package store
