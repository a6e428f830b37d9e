package integrity

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/harborlight/dayroster/internal/kv"
	"github.com/harborlight/dayroster/internal/model"
)

// Checker validates the shape of every persisted blob and offers the blunt
// factory reset used when damage is found. Re-entering reference lists is
// cheap; partial repair of a broken store is not worth its complexity.
type Checker struct {
	store  kv.Store
	logger *slog.Logger
}

func NewChecker(store kv.Store, logger *slog.Logger) *Checker {
	return &Checker{store: store, logger: logger}
}

// Check attempts to decode each persisted collection and returns a
// human-readable issue per failure. It never mutates storage.
func (c *Checker) Check() []string {
	var issues []string

	issues = append(issues, checkBlob[[]model.Staff](c, kv.KeyStaff, "staff list")...)
	issues = append(issues, checkBlob[[]model.Participant](c, kv.KeyParticipants, "participant list")...)
	issues = append(issues, checkBlob[[]model.Chore](c, kv.KeyChores, "chore list")...)
	issues = append(issues, checkBlob[[]model.ChecklistItem](c, kv.KeyChecklist, "checklist")...)
	issues = append(issues, checkBlob[[]model.Schedule](c, kv.KeySchedules, "schedule collection")...)
	issues = append(issues, checkBlob[[]model.CriticalUpdate](c, kv.KeyCriticalUpdates, "critical update log")...)
	issues = append(issues, checkBlob[[]model.ActiveCode](c, kv.KeyActiveCodes, "active sharing codes")...)

	keys, err := c.store.Keys()
	if err != nil {
		issues = append(issues, fmt.Sprintf("could not list storage keys: %v", err))
		return issues
	}
	for _, key := range keys {
		switch {
		case strings.HasPrefix(key, kv.PrefixCategoryUpdates):
			issues = append(issues, checkBlob[[]model.CategoryUpdate](c, key, "change log "+key)...)
		case strings.HasPrefix(key, kv.PrefixWeekChores):
			issues = append(issues, checkBlob[model.WeekChores](c, key, "chore history "+key)...)
		case strings.HasPrefix(key, kv.PrefixShared):
			issues = append(issues, checkBlob[model.SharedSchedule](c, key, "shared snapshot "+key)...)
		}
	}

	return issues
}

func checkBlob[T any](c *Checker, key, label string) []string {
	_, _, err := kv.GetJSON[T](c.store, key)
	if err != nil {
		return []string{fmt.Sprintf("%s is unreadable: %v", label, err)}
	}
	return nil
}

// Reset unconditionally deletes every known key: the reference lists, the
// schedule collection, all per-date change logs, chore history, sharing
// snapshots, and the version markers. The next loads fall back to defaults.
func (c *Checker) Reset() error {
	fixed := []string{
		kv.KeyStaff,
		kv.KeyParticipants,
		kv.KeyChores,
		kv.KeyChecklist,
		kv.KeySchedules,
		kv.KeyCriticalUpdates,
		kv.KeyActiveCodes,
		kv.KeyLastViewedVersion,
		kv.KeyHasNewUpdates,
	}
	for _, key := range fixed {
		if err := c.store.Remove(key); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
	}

	keys, err := c.store.Keys()
	if err != nil {
		return fmt.Errorf("reset: list keys: %w", err)
	}
	for _, key := range keys {
		if strings.HasPrefix(key, kv.PrefixCategoryUpdates) ||
			strings.HasPrefix(key, kv.PrefixWeekChores) ||
			strings.HasPrefix(key, kv.PrefixShared) {
			if err := c.store.Remove(key); err != nil {
				return fmt.Errorf("reset: %w", err)
			}
		}
	}

	c.logger.Info("storage reset to defaults")
	return nil
}
