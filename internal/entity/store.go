package entity

import (
	"fmt"
	"log/slog"

	"github.com/harborlight/dayroster/internal/kv"
	"github.com/harborlight/dayroster/internal/model"
	"github.com/harborlight/dayroster/internal/updates"
)

// Store holds the canonical reference lists: staff, participants, chores and
// the lock-up checklist. Loads never fail — a missing or corrupted blob is
// discarded and replaced by the compiled-in default list, because reference
// data is cheap to re-enter and must never block startup.
type Store struct {
	store   kv.Store
	tracker *updates.Tracker
	logger  *slog.Logger
}

func NewStore(store kv.Store, tracker *updates.Tracker, logger *slog.Logger) *Store {
	return &Store{store: store, tracker: tracker, logger: logger}
}

func loadList[T any](s *Store, key string, defaults func() []T) []T {
	list, found, err := kv.GetJSON[[]T](s.store, key)
	if err != nil {
		s.logger.Warn("discarding unreadable reference list", "key", key, "error", err)
		if rmErr := s.store.Remove(key); rmErr != nil {
			s.logger.Error("remove unreadable reference list", "key", key, "error", rmErr)
		}
		return defaults()
	}
	if !found || list == nil {
		// A stored JSON null decodes to a nil slice; treat it like corruption.
		if found {
			s.logger.Warn("discarding null reference list", "key", key)
			if rmErr := s.store.Remove(key); rmErr != nil {
				s.logger.Error("remove null reference list", "key", key, "error", rmErr)
			}
		}
		return defaults()
	}
	return list
}

func saveList[T any](s *Store, key string, list []T) error {
	if list == nil {
		list = []T{}
	}
	if err := kv.SetJSON(s.store, key, list); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	if err := s.tracker.RecordCritical(key); err != nil {
		s.logger.Error("record critical update", "key", key, "error", err)
	}
	return nil
}

func (s *Store) LoadStaff() []model.Staff {
	return loadList(s, kv.KeyStaff, defaultStaff)
}

func (s *Store) LoadParticipants() []model.Participant {
	return loadList(s, kv.KeyParticipants, defaultParticipants)
}

func (s *Store) LoadChores() []model.Chore {
	return loadList(s, kv.KeyChores, defaultChores)
}

func (s *Store) LoadChecklist() []model.ChecklistItem {
	return loadList(s, kv.KeyChecklist, defaultChecklist)
}

func (s *Store) SaveStaff(list []model.Staff) error {
	return saveList(s, kv.KeyStaff, list)
}

func (s *Store) SaveParticipants(list []model.Participant) error {
	return saveList(s, kv.KeyParticipants, list)
}

func (s *Store) SaveChores(list []model.Chore) error {
	return saveList(s, kv.KeyChores, list)
}

func (s *Store) SaveChecklist(list []model.ChecklistItem) error {
	return saveList(s, kv.KeyChecklist, list)
}
