package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	_ "modernc.org/sqlite"

	"lab-dispatch-service/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	return db
}

func TestSqliteActionStoreAppendAndListOrder(t *testing.T) {
	ctx := context.Background()
	store := NewSqliteActionStore(openTestDB(t))

	// Appended out of timestamp order; pending listing must be oldest first.
	for _, a := range []domain.QueuedAction{
		{ActionType: "B", Payload: json.RawMessage(`{"n":2}`), Timestamp: 2000, Status: domain.ActionPending, MaxRetries: 3},
		{ActionType: "A", Payload: json.RawMessage(`{"n":1}`), Timestamp: 1000, Status: domain.ActionPending, MaxRetries: 3},
		{ActionType: "C", Payload: json.RawMessage(`{"n":3}`), Timestamp: 3000, Status: domain.ActionPending, MaxRetries: 3},
	} {
		if _, err := store.Append(ctx, a); err != nil {
			t.Fatalf("append %q: %v", a.ActionType, err)
		}
	}

	pending, err := store.ListPending(ctx)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("got %d pending, want 3", len(pending))
	}

	wantOrder := []string{"A", "B", "C"}
	for i, want := range wantOrder {
		if pending[i].ActionType != want {
			t.Errorf("pending[%d] = %q, want %q", i, pending[i].ActionType, want)
		}
	}
	if string(pending[0].Payload) != `{"n":1}` {
		t.Errorf("payload round trip = %s", pending[0].Payload)
	}
}

func TestSqliteActionStoreUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	store := NewSqliteActionStore(openTestDB(t))

	id, err := store.Append(ctx, domain.QueuedAction{
		ActionType: "A", Timestamp: 1000, Status: domain.ActionPending, MaxRetries: 3,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	completedAt := int64(5000)
	err = store.Update(ctx, domain.QueuedAction{
		ID: id, Status: domain.ActionFailed, Retries: 3,
		Error: "backend unreachable", CompletedAt: &completedAt,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	pending, err := store.ListPending(ctx)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("failed entry still listed as pending: %+v", pending)
	}

	if err := store.Update(ctx, domain.QueuedAction{ID: 999}); err == nil {
		t.Fatal("update of missing entry succeeded, want error")
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestSqliteActionStorePurgeOlderThan(t *testing.T) {
	ctx := context.Background()
	store := NewSqliteActionStore(openTestDB(t))

	entries := []domain.QueuedAction{
		{ActionType: "old-failed", Timestamp: 100, Status: domain.ActionFailed},
		{ActionType: "old-completed", Timestamp: 200, Status: domain.ActionCompleted},
		{ActionType: "old-pending", Timestamp: 300, Status: domain.ActionPending},
		{ActionType: "fresh-failed", Timestamp: 9000, Status: domain.ActionFailed},
	}
	for _, a := range entries {
		if _, err := store.Append(ctx, a); err != nil {
			t.Fatalf("append %q: %v", a.ActionType, err)
		}
	}

	n, err := store.PurgeOlderThan(ctx, 5000)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 2 {
		t.Fatalf("purged %d entries, want 2", n)
	}

	pending, err := store.ListPending(ctx)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ActionType != "old-pending" {
		t.Fatalf("pending after purge = %+v, want the old pending entry", pending)
	}
}
