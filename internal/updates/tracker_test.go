package updates

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/harborlight/dayroster/internal/database"
	"github.com/harborlight/dayroster/internal/kv"
	"github.com/harborlight/dayroster/internal/model"
)

func setupTracker(t *testing.T) (*Tracker, kv.Store) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := kv.NewSQLiteStore(db)
	return NewTracker(store, logger), store
}

func TestRecordCategoryNewestFirst(t *testing.T) {
	tr, _ := setupTracker(t)

	base := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	tick := 0
	tr.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	if err := tr.RecordCategory("2026-08-24", model.CategoryChores, model.ActionCreated); err != nil {
		t.Fatalf("record chores: %v", err)
	}
	if err := tr.RecordCategory("2026-08-24", model.CategoryFrontRoom, model.ActionCreated); err != nil {
		t.Fatalf("record front room: %v", err)
	}

	log := tr.CategoryUpdates("2026-08-24")
	if len(log) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(log))
	}
	if log[0].Category != model.CategoryFrontRoom {
		t.Errorf("newest entry category = %v, want front room", log[0].Category)
	}
	if log[1].Category != model.CategoryChores {
		t.Errorf("oldest entry category = %v, want chores", log[1].Category)
	}
}

func TestRecordCategoryReplacesPerCategory(t *testing.T) {
	tr, _ := setupTracker(t)

	if err := tr.RecordCategory("2026-08-24", model.CategoryChores, model.ActionCreated); err != nil {
		t.Fatalf("first record: %v", err)
	}
	if err := tr.RecordCategory("2026-08-24", model.CategoryChores, model.ActionUpdated); err != nil {
		t.Fatalf("second record: %v", err)
	}

	log := tr.CategoryUpdates("2026-08-24")
	if len(log) != 1 {
		t.Fatalf("expected 1 entry per category, got %d", len(log))
	}
	if log[0].Action != model.ActionUpdated {
		t.Errorf("action = %q, want updated", log[0].Action)
	}
}

func TestRecordCategoryRejectsUnknown(t *testing.T) {
	tr, _ := setupTracker(t)

	if err := tr.RecordCategory("2026-08-24", model.Category(42), model.ActionCreated); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestCategoryUpdatesScopedByDate(t *testing.T) {
	tr, _ := setupTracker(t)

	if err := tr.RecordCategory("2026-08-24", model.CategoryChores, model.ActionCreated); err != nil {
		t.Fatalf("record: %v", err)
	}
	if got := tr.CategoryUpdates("2026-08-25"); len(got) != 0 {
		t.Errorf("expected empty log for the other date, got %d entries", len(got))
	}
}

func TestCorruptCategoryLogDiscarded(t *testing.T) {
	tr, store := setupTracker(t)

	key := kv.CategoryUpdatesKey("2026-08-24")
	if err := store.Set(key, "{broken"); err != nil {
		t.Fatalf("set corrupt: %v", err)
	}

	if got := tr.CategoryUpdates("2026-08-24"); got != nil {
		t.Errorf("expected nil log after discarding corruption, got %v", got)
	}
	if _, ok, _ := store.Get(key); ok {
		t.Error("expected corrupted log key to be removed")
	}
}

func TestRecordCriticalFlipsFlag(t *testing.T) {
	tr, store := setupTracker(t)

	if err := tr.RecordCritical("staff"); err != nil {
		t.Fatalf("record: %v", err)
	}

	flag, ok, err := store.Get(kv.KeyHasNewUpdates)
	if err != nil {
		t.Fatalf("get flag: %v", err)
	}
	if !ok || flag != "true" {
		t.Errorf("flag = %q (exists=%v), want \"true\"", flag, ok)
	}

	log := tr.CriticalUpdates()
	if len(log) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(log))
	}
	if log[0].Type != "staff" || log[0].Version != CurrentVersion {
		t.Errorf("entry = %+v, want type=staff version=%s", log[0], CurrentVersion)
	}
}

func TestCriticalLogCapped(t *testing.T) {
	tr, _ := setupTracker(t)

	for i := 0; i < maxCriticalUpdates+25; i++ {
		if err := tr.RecordCritical("schedule"); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	log := tr.CriticalUpdates()
	if len(log) != maxCriticalUpdates {
		t.Errorf("log length = %d, want %d", len(log), maxCriticalUpdates)
	}
}

func TestHasNewUpdatesOnFreshStore(t *testing.T) {
	tr, _ := setupTracker(t)

	// This build's version was never acknowledged
	if !tr.HasNewUpdates() {
		t.Error("expected new updates on a fresh store")
	}
}

func TestAcknowledgeClearsBanner(t *testing.T) {
	tr, _ := setupTracker(t)

	if err := tr.RecordCritical("staff"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := tr.Acknowledge(); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	if tr.HasNewUpdates() {
		t.Error("expected banner cleared after acknowledge")
	}

	// A later critical update lights it again
	if err := tr.RecordCritical("chores"); err != nil {
		t.Fatalf("record again: %v", err)
	}
	if !tr.HasNewUpdates() {
		t.Error("expected banner after a new critical update")
	}
}

func TestHasNewUpdatesOnVersionMismatch(t *testing.T) {
	tr, store := setupTracker(t)

	if err := store.Set(kv.KeyLastViewedVersion, "1.0.0"); err != nil {
		t.Fatalf("set old version: %v", err)
	}
	if !tr.HasNewUpdates() {
		t.Error("expected new updates when the viewed version is older")
	}
}
