package updates

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/harborlight/dayroster/internal/kv"
	"github.com/harborlight/dayroster/internal/model"
)

// CurrentVersion is compared against the persisted last-viewed version to
// decide whether the "what's new" banner should show.
const CurrentVersion = "2.4.0"

// maxCriticalUpdates caps the global change log so it cannot grow without bound.
const maxCriticalUpdates = 200

// Tracker records per-date category change timestamps and the global
// critical-update log that drives the new-updates banner.
type Tracker struct {
	store  kv.Store
	logger *slog.Logger
	now    func() time.Time
}

func NewTracker(store kv.Store, logger *slog.Logger) *Tracker {
	return &Tracker{store: store, logger: logger, now: time.Now}
}

// RecordCategory logs a change to one category of a date's schedule. A date's
// log keeps at most one entry per category, newest first.
func (t *Tracker) RecordCategory(date string, cat model.Category, action model.UpdateAction) error {
	if !cat.Valid() {
		return fmt.Errorf("unknown category %d", int(cat))
	}

	key := kv.CategoryUpdatesKey(date)
	existing := t.loadCategoryLog(key)

	entries := make([]model.CategoryUpdate, 0, len(existing)+1)
	entries = append(entries, model.CategoryUpdate{
		Category:  cat,
		Timestamp: t.now().UTC(),
		Action:    action,
	})
	for _, e := range existing {
		if e.Category != cat {
			entries = append(entries, e)
		}
	}

	if err := kv.SetJSON(t.store, key, entries); err != nil {
		return fmt.Errorf("record category update: %w", err)
	}
	return nil
}

// CategoryUpdates returns a date's change log, newest first. A corrupted log
// is deleted and reported as empty; this never fails the caller.
func (t *Tracker) CategoryUpdates(date string) []model.CategoryUpdate {
	return t.loadCategoryLog(kv.CategoryUpdatesKey(date))
}

func (t *Tracker) loadCategoryLog(key string) []model.CategoryUpdate {
	entries, ok, err := kv.GetJSON[[]model.CategoryUpdate](t.store, key)
	if errors.Is(err, kv.ErrCorrupt) {
		t.logger.Warn("discarding corrupted category log", "key", key, "error", err)
		if rmErr := t.store.Remove(key); rmErr != nil {
			t.logger.Error("remove corrupted category log", "key", key, "error", rmErr)
		}
		return nil
	}
	if err != nil || !ok {
		return nil
	}
	return entries
}

// RecordCritical appends to the global change log and flips the new-updates
// flag. Reference-list edits and schedule saves both land here, so any of
// them lights the same banner.
func (t *Tracker) RecordCritical(changeType string) error {
	entries, _, err := kv.GetJSON[[]model.CriticalUpdate](t.store, kv.KeyCriticalUpdates)
	if err != nil {
		if !errors.Is(err, kv.ErrCorrupt) {
			return fmt.Errorf("load critical updates: %w", err)
		}
		t.logger.Warn("discarding corrupted critical update log", "error", err)
		entries = nil
	}

	entries = append(entries, model.CriticalUpdate{
		Type:      changeType,
		Timestamp: t.now().UTC(),
		Version:   CurrentVersion,
	})
	if len(entries) > maxCriticalUpdates {
		entries = entries[len(entries)-maxCriticalUpdates:]
	}

	if err := kv.SetJSON(t.store, kv.KeyCriticalUpdates, entries); err != nil {
		return fmt.Errorf("save critical updates: %w", err)
	}
	if err := t.store.Set(kv.KeyHasNewUpdates, "true"); err != nil {
		return fmt.Errorf("set new-updates flag: %w", err)
	}
	return nil
}

// CriticalUpdates returns the global change log, oldest first.
func (t *Tracker) CriticalUpdates() []model.CriticalUpdate {
	entries, _, err := kv.GetJSON[[]model.CriticalUpdate](t.store, kv.KeyCriticalUpdates)
	if err != nil {
		t.logger.Warn("load critical updates", "error", err)
		return nil
	}
	return entries
}

// HasNewUpdates reports whether the banner should show: either this build's
// version has not been acknowledged yet, or a critical update arrived since
// the last acknowledgement.
func (t *Tracker) HasNewUpdates() bool {
	viewed, ok, err := t.store.Get(kv.KeyLastViewedVersion)
	if err != nil {
		t.logger.Warn("read last viewed version", "error", err)
		return false
	}
	if !ok || viewed != CurrentVersion {
		return true
	}

	flag, _, err := t.store.Get(kv.KeyHasNewUpdates)
	if err != nil {
		t.logger.Warn("read new-updates flag", "error", err)
		return false
	}
	return flag == "true"
}

// Acknowledge clears the banner by persisting the current version as viewed.
func (t *Tracker) Acknowledge() error {
	if err := t.store.Set(kv.KeyLastViewedVersion, CurrentVersion); err != nil {
		return fmt.Errorf("save viewed version: %w", err)
	}
	if err := t.store.Remove(kv.KeyHasNewUpdates); err != nil {
		return fmt.Errorf("clear new-updates flag: %w", err)
	}
	return nil
}
