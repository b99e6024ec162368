// Package sqlite provides a SQLite-backed store.RunStore using
// github.com/mattn/go-sqlite3.
//
// One table (default "walk_runs") holds a row per run record, indexed by
// session. Durations are stored in nanoseconds and metadata as JSON text.
//
//	s, err := sqlite.NewSqliteRunStore(sqlite.SqliteOptions{
//		Path: "./graphwalk.db",
//	})
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
// The driver requires cgo.
package sqlite
