package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/smallnest/graphwalk/store"
)

func TestMemoryRunStore_New(t *testing.T) {
	t.Parallel()

	ms := NewMemoryRunStore()

	if ms == nil {
		t.Fatal("Store should not be nil")
	}

	// Verify it implements the interface
	var _ store.RunStore = ms
}

func TestMemoryRunStore_BasicOperations(t *testing.T) {
	t.Parallel()

	t.Run("save and load", func(t *testing.T) {
		t.Parallel()

		ms := NewMemoryRunStore()
		ctx := context.Background()

		rec := &store.RunRecord{
			ID:           "run-123",
			SessionID:    "sess-abc",
			ArtifactPath: "/data/walks_output/walks_1700000000000_a1b2c3d4.csv",
			Nodes:        100,
			Walks:        987,
			NumWalks:     10,
			WalkLength:   15,
			Shortfall:    13,
			Duration:     1500 * time.Millisecond,
			Timestamp:    time.Now(),
			Metadata: map[string]any{
				"remote_addr": "10.0.0.45:51234",
			},
		}

		if err := ms.Save(ctx, rec); err != nil {
			t.Fatalf("Failed to save: %v", err)
		}

		loaded, err := ms.Load(ctx, rec.ID)
		if err != nil {
			t.Fatalf("Failed to load: %v", err)
		}

		if loaded.ArtifactPath != rec.ArtifactPath {
			t.Errorf("ArtifactPath mismatch: got %s, want %s", loaded.ArtifactPath, rec.ArtifactPath)
		}
		if loaded.Walks != rec.Walks || loaded.Shortfall != rec.Shortfall {
			t.Errorf("Counters mismatch: got %d/%d, want %d/%d", loaded.Walks, loaded.Shortfall, rec.Walks, rec.Shortfall)
		}
		if loaded.Duration != rec.Duration {
			t.Errorf("Duration mismatch: got %v, want %v", loaded.Duration, rec.Duration)
		}
		if addr, ok := loaded.Metadata["remote_addr"].(string); !ok || addr != "10.0.0.45:51234" {
			t.Error("Metadata not preserved correctly")
		}
	})

	t.Run("load missing returns ErrNotFound", func(t *testing.T) {
		t.Parallel()

		ms := NewMemoryRunStore()

		_, err := ms.Load(context.Background(), "does-not-exist")
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("save without ID fails", func(t *testing.T) {
		t.Parallel()

		ms := NewMemoryRunStore()
		if err := ms.Save(context.Background(), &store.RunRecord{}); err == nil {
			t.Error("Expected error for record without ID")
		}
	})

	t.Run("overwrite works", func(t *testing.T) {
		t.Parallel()

		ms := NewMemoryRunStore()
		ctx := context.Background()

		if err := ms.Save(ctx, &store.RunRecord{ID: "overwrite", Walks: 1}); err != nil {
			t.Fatalf("Failed to save v1: %v", err)
		}
		if err := ms.Save(ctx, &store.RunRecord{ID: "overwrite", Walks: 2}); err != nil {
			t.Fatalf("Failed to save v2: %v", err)
		}

		loaded, err := ms.Load(ctx, "overwrite")
		if err != nil {
			t.Fatalf("Failed to load: %v", err)
		}
		if loaded.Walks != 2 {
			t.Errorf("Expected overwritten record, got Walks=%d", loaded.Walks)
		}
	})

	t.Run("stored copy is isolated from caller", func(t *testing.T) {
		t.Parallel()

		ms := NewMemoryRunStore()
		ctx := context.Background()

		rec := &store.RunRecord{ID: "isolated", Walks: 5, Metadata: map[string]any{"k": "v"}}
		if err := ms.Save(ctx, rec); err != nil {
			t.Fatalf("Failed to save: %v", err)
		}
		rec.Walks = 99
		rec.Metadata["k"] = "changed"

		loaded, _ := ms.Load(ctx, "isolated")
		if loaded.Walks != 5 || loaded.Metadata["k"] != "v" {
			t.Error("Store must keep its own copy of the record")
		}
	})
}

func TestMemoryRunStore_List(t *testing.T) {
	t.Parallel()

	ms := NewMemoryRunStore()
	ctx := context.Background()
	base := time.Now()

	for i, id := range []string{"third", "first", "second"} {
		offset := []int{3, 1, 2}[i]
		err := ms.Save(ctx, &store.RunRecord{
			ID:        id,
			SessionID: "server-1",
			Timestamp: base.Add(time.Duration(offset) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Failed to save %s: %v", id, err)
		}
	}
	if err := ms.Save(ctx, &store.RunRecord{ID: "other", SessionID: "server-2", Timestamp: base}); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	results, err := ms.List(ctx, "server-1")
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 records for session, got %d", len(results))
	}
	for i, want := range []string{"first", "second", "third"} {
		if results[i].ID != want {
			t.Errorf("results[%d] = %s, want %s", i, results[i].ID, want)
		}
	}

	empty, err := ms.List(ctx, "no-such-session")
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", empty)
	}
}

func TestMemoryRunStore_Delete(t *testing.T) {
	t.Parallel()

	ms := NewMemoryRunStore()
	ctx := context.Background()

	if err := ms.Save(ctx, &store.RunRecord{ID: "to-delete", SessionID: "s"}); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	if err := ms.Delete(ctx, "to-delete"); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}
	if _, err := ms.Load(ctx, "to-delete"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if err := ms.Delete(ctx, "to-delete"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestMemoryRunStore_Clear(t *testing.T) {
	t.Parallel()

	ms := NewMemoryRunStore()
	ctx := context.Background()

	for i := range 4 {
		session := "keep"
		if i%2 == 0 {
			session = "drop"
		}
		if err := ms.Save(ctx, &store.RunRecord{ID: fmt.Sprintf("rec-%d", i), SessionID: session}); err != nil {
			t.Fatalf("Failed to save: %v", err)
		}
	}

	if err := ms.Clear(ctx, "drop"); err != nil {
		t.Fatalf("Failed to clear: %v", err)
	}

	dropped, _ := ms.List(ctx, "drop")
	kept, _ := ms.List(ctx, "keep")
	if len(dropped) != 0 {
		t.Errorf("Expected cleared session to be empty, got %d", len(dropped))
	}
	if len(kept) != 2 {
		t.Errorf("Expected other session untouched, got %d", len(kept))
	}
}

func TestMemoryRunStore_ThreadSafety(t *testing.T) {
	t.Parallel()

	ms := NewMemoryRunStore()
	ctx := context.Background()

	numGoroutines := 10
	recordsPerGoroutine := 5

	done := make(chan bool, numGoroutines)
	errs := make(chan error, numGoroutines)

	for i := range numGoroutines {
		go func(workerID int) {
			defer func() { done <- true }()

			for j := range recordsPerGoroutine {
				rec := &store.RunRecord{
					ID:        fmt.Sprintf("worker-%d-run-%d", workerID, j),
					SessionID: "concurrent",
					Walks:     int64(j),
					Timestamp: time.Now(),
				}

				if err := ms.Save(ctx, rec); err != nil {
					errs <- fmt.Errorf("worker %d save %d failed: %v", workerID, j, err)
					return
				}

				loaded, err := ms.Load(ctx, rec.ID)
				if err != nil {
					errs <- fmt.Errorf("worker %d load %d failed: %v", workerID, j, err)
					return
				}
				if loaded.ID != rec.ID {
					errs <- fmt.Errorf("worker %d run %d ID mismatch", workerID, j)
					return
				}
			}
		}(i)
	}

	for range numGoroutines {
		select {
		case <-done:
		case err := <-errs:
			t.Errorf("Worker error: %v", err)
		case <-time.After(10 * time.Second):
			t.Fatal("Test timed out")
		}
	}

	all, err := ms.List(ctx, "concurrent")
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(all) != numGoroutines*recordsPerGoroutine {
		t.Errorf("Expected %d records, got %d", numGoroutines*recordsPerGoroutine, len(all))
	}
}
