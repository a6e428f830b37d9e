package schedule

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/harborlight/dayroster/internal/chores"
	"github.com/harborlight/dayroster/internal/entity"
	"github.com/harborlight/dayroster/internal/kv"
	"github.com/harborlight/dayroster/internal/model"
	"github.com/harborlight/dayroster/internal/roster"
	"github.com/harborlight/dayroster/internal/updates"
)

// Store owns the date-keyed schedule collection. Writes go through
// read-verify-write: after persisting, the blob is re-read and re-decoded and
// a failure surfaces to the caller — losing a day's schedule silently would
// be unacceptable, unlike the cheap reference lists.
type Store struct {
	mu          sync.Mutex
	store       kv.Store
	entities    *entity.Store
	choreEngine *chores.Engine
	tracker     *updates.Tracker
	slots       []model.TimeSlot
	rng         *rand.Rand
	logger      *slog.Logger
}

func NewStore(store kv.Store, entities *entity.Store, choreEngine *chores.Engine, tracker *updates.Tracker, rng *rand.Rand, logger *slog.Logger) *Store {
	return &Store{
		store:       store,
		entities:    entities,
		choreEngine: choreEngine,
		tracker:     tracker,
		slots:       model.DefaultTimeSlots(),
		rng:         rng,
		logger:      logger,
	}
}

// Create runs both assignment engines for the date, assembles the schedule
// and upserts it into the collection, replacing any schedule already stored
// for that date.
func (s *Store) Create(date string, workingStaffIDs, attendingIDs []string, assignments []model.Assignment, finalChecklistStaffID string) (*model.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	allStaff := s.entities.LoadStaff()
	allParticipants := s.entities.LoadParticipants()
	choreList := s.entities.LoadChores()

	working := filterByID(allStaff, workingStaffIDs, func(st model.Staff) string { return st.ID })
	attending := filterByID(allParticipants, attendingIDs, func(p model.Participant) string { return p.ID })

	rosters := roster.Build(working, attending, s.slots, s.rng)
	choreAssignments := s.choreEngine.Assign(working, choreList, date, false)

	sched := &model.Schedule{
		ID:                      model.ScheduleID(date),
		Date:                    date,
		WorkingStaffIDs:         workingStaffIDs,
		AttendingParticipantIDs: attendingIDs,
		Assignments:             assignments,
		FrontRoomSlots:          rosters.FrontRoom,
		ScottySlots:             rosters.Scotty,
		TwinsSlots:              rosters.Twins,
		ChoreAssignments:        choreAssignments,
		FinalChecklistStaffID:   finalChecklistStaffID,
		DropOffs:                []model.TransportAssignment{},
		Pickups:                 []model.TransportAssignment{},
	}

	if err := s.upsert(sched); err != nil {
		return nil, err
	}

	if err := s.tracker.RecordCritical("schedule"); err != nil {
		s.logger.Error("record critical update", "error", err)
	}
	return sched, nil
}

// Save upserts a schedule assembled elsewhere, such as one imported from a
// sharing code. Same verify-and-propagate semantics as Create.
func (s *Store) Save(sched *model.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.upsert(sched); err != nil {
		return err
	}
	if err := s.tracker.RecordCritical("schedule"); err != nil {
		s.logger.Error("record critical update", "error", err)
	}
	return nil
}

// GetForDate returns the schedule stored for the exact date, or nil.
func (s *Store) GetForDate(date string) (*model.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadAll()
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Date == date {
			return &all[i], nil
		}
	}
	return nil, nil
}

// List returns every stored schedule.
func (s *Store) List() ([]model.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadAll()
}

// UpdateCategory persists the whole schedule after one category was edited
// and records the change in the date's update log. Callers hand over the full
// aggregate; concurrent edits to other categories are last-write-wins.
func (s *Store) UpdateCategory(cat model.Category, sched *model.Schedule) error {
	switch cat {
	case model.CategoryWorkingStaff, model.CategoryAttendance, model.CategoryAssignments,
		model.CategoryFrontRoom, model.CategoryScotty, model.CategoryTwins,
		model.CategoryChores, model.CategoryChecklist, model.CategoryDropOffs,
		model.CategoryPickups:
	default:
		return fmt.Errorf("unknown category %d", int(cat))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.upsert(sched); err != nil {
		return err
	}

	action := model.ActionCreated
	for _, u := range s.tracker.CategoryUpdates(sched.Date) {
		if u.Category == cat {
			action = model.ActionUpdated
			break
		}
	}
	if err := s.tracker.RecordCategory(sched.Date, cat, action); err != nil {
		s.logger.Error("record category update", "date", sched.Date, "category", cat.String(), "error", err)
	}
	if err := s.tracker.RecordCritical("schedule"); err != nil {
		s.logger.Error("record critical update", "error", err)
	}
	return nil
}

// upsert replaces the schedule for sched.Date or appends it, then verifies
// the write by re-reading. Callers hold the mutex.
func (s *Store) upsert(sched *model.Schedule) error {
	all, err := s.loadAll()
	if err != nil {
		return err
	}

	replaced := false
	for i := range all {
		if all[i].Date == sched.Date {
			all[i] = *sched
			replaced = true
			break
		}
	}
	if !replaced {
		all = append(all, *sched)
	}

	if err := kv.SetJSON(s.store, kv.KeySchedules, all); err != nil {
		return fmt.Errorf("save schedules: %w", err)
	}

	// Verify the write landed before reporting success.
	stored, found, err := kv.GetJSON[[]model.Schedule](s.store, kv.KeySchedules)
	if err != nil {
		return fmt.Errorf("verify schedules write: %w", err)
	}
	if !found {
		return errors.New("verify schedules write: blob missing after write")
	}
	for i := range stored {
		if stored[i].Date == sched.Date {
			return nil
		}
	}
	return fmt.Errorf("verify schedules write: schedule for %s missing after write", sched.Date)
}

// loadAll reads the collection. A corrupted blob is discarded and reported
// as empty; the integrity checker surfaces the damage separately.
func (s *Store) loadAll() ([]model.Schedule, error) {
	all, found, err := kv.GetJSON[[]model.Schedule](s.store, kv.KeySchedules)
	if errors.Is(err, kv.ErrCorrupt) {
		s.logger.Warn("discarding corrupted schedule collection", "error", err)
		if rmErr := s.store.Remove(kv.KeySchedules); rmErr != nil {
			return nil, fmt.Errorf("remove corrupted schedules: %w", rmErr)
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load schedules: %w", err)
	}
	if !found {
		return nil, nil
	}
	return all, nil
}

func filterByID[T any](items []T, ids []string, idOf func(T) string) []T {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make([]T, 0, len(ids))
	for _, item := range items {
		if want[idOf(item)] {
			out = append(out, item)
		}
	}
	return out
}
