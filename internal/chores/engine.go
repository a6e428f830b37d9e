package chores

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/harborlight/dayroster/internal/kv"
	"github.com/harborlight/dayroster/internal/model"
)

// keepWeeks is how many past weeks of chore history survive pruning.
const keepWeeks = 8

// Engine assigns each chore to exactly one staff member per day, keeping a
// week-scoped history so the same person does not repeat a chore within the
// week unless there is no alternative.
type Engine struct {
	mu     sync.Mutex
	store  kv.Store
	rng    *rand.Rand
	logger *slog.Logger
}

func NewEngine(store kv.Store, rng *rand.Rand, logger *slog.Logger) *Engine {
	return &Engine{store: store, rng: rng, logger: logger}
}

// WeekStart returns the ISO date of the Monday starting the week containing
// date, and the 0-based day index within that week (Monday=0 .. Sunday=6).
func WeekStart(date string) (string, int, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", 0, fmt.Errorf("parse date %q: %w", date, err)
	}
	wd := int(t.Weekday())
	if wd == 0 {
		// Sunday belongs to the week that started six days earlier.
		return t.AddDate(0, 0, -6).Format("2006-01-02"), 6, nil
	}
	return t.AddDate(0, 0, 1-wd).Format("2006-01-02"), wd - 1, nil
}

// Assign produces today's chore roster for the given working staff and
// persists the updated week history. With force set, any existing assignments
// for today are regenerated while the rest of the week's history is kept.
// Storage problems degrade to a history-free assignment; this never fails.
func (e *Engine) Assign(workingStaff []model.Staff, choreList []model.Chore, date string, force bool) []model.ChoreAssignment {
	e.mu.Lock()
	defer e.mu.Unlock()

	eligible := make([]model.Staff, 0, len(workingStaff))
	for _, s := range workingStaff {
		if s.IsAssignable && !s.IsChoreExempt {
			eligible = append(eligible, s)
		}
	}
	if len(eligible) == 0 || len(choreList) == 0 {
		return nil
	}

	weekStart, dayIdx, err := WeekStart(date)
	if err != nil {
		e.logger.Warn("chore week lookup failed, assigning without history", "date", date, "error", err)
		return e.fallback(eligible, choreList)
	}

	key := kv.WeekChoresKey(weekStart)
	week, found, err := kv.GetJSON[model.WeekChores](e.store, key)
	if err != nil {
		e.logger.Warn("chore history unreadable, assigning without history", "key", key, "error", err)
		return e.fallback(eligible, choreList)
	}
	if !found || week == nil {
		week = make(model.WeekChores, len(choreList))
	}

	// Process chores in random order so a fixed chore does not always win
	// ties for the best-rested staff member.
	order := make([]model.Chore, len(choreList))
	copy(order, choreList)
	e.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	usedToday := make(map[string]bool)
	countsToday := make(map[string]int)
	assigned := make(map[string]string, len(order))

	for _, chore := range order {
		days := week[chore.ID]

		if days[dayIdx] != "" && !force {
			assigned[chore.ID] = days[dayIdx]
			usedToday[days[dayIdx]] = true
			countsToday[days[dayIdx]]++
			continue
		}

		staffID, ok := e.selectStaff(eligible, days, dayIdx, usedToday, countsToday)
		if !ok {
			continue
		}

		assigned[chore.ID] = staffID
		usedToday[staffID] = true
		countsToday[staffID]++
		days[dayIdx] = staffID
		week[chore.ID] = days
	}

	if err := kv.SetJSON(e.store, key, week); err != nil {
		e.logger.Error("save chore history", "key", key, "error", err)
	}
	e.pruneOldWeeks(weekStart)

	result := make([]model.ChoreAssignment, 0, len(assigned))
	for _, chore := range choreList {
		if staffID, ok := assigned[chore.ID]; ok {
			result = append(result, model.ChoreAssignment{ChoreID: chore.ID, StaffID: staffID})
		}
	}
	return result
}

// selectStaff picks via a three-tier fallback: first staff who have neither
// done this chore this week nor been used today, then anyone unused today,
// and as a last resort the least-loaded staff member even if that means a
// second chore.
func (e *Engine) selectStaff(eligible []model.Staff, days [7]string, dayIdx int, usedToday map[string]bool, countsToday map[string]int) (string, bool) {
	var fresh, unused []string
	for _, s := range eligible {
		if usedToday[s.ID] {
			continue
		}
		unused = append(unused, s.ID)
		didThisWeek := false
		for d, staffID := range days {
			if d != dayIdx && staffID == s.ID {
				didThisWeek = true
				break
			}
		}
		if !didThisWeek {
			fresh = append(fresh, s.ID)
		}
	}

	if len(fresh) > 0 {
		return fresh[e.rng.Intn(len(fresh))], true
	}
	if len(unused) > 0 {
		return unused[e.rng.Intn(len(unused))], true
	}

	// More chores than staff: spread the excess to the least-loaded.
	var leastLoaded []string
	best := -1
	for _, s := range eligible {
		c := countsToday[s.ID]
		switch {
		case best == -1 || c < best:
			best = c
			leastLoaded = leastLoaded[:0]
			leastLoaded = append(leastLoaded, s.ID)
		case c == best:
			leastLoaded = append(leastLoaded, s.ID)
		}
	}
	if len(leastLoaded) == 0 {
		return "", false
	}
	return leastLoaded[e.rng.Intn(len(leastLoaded))], true
}

// fallback shuffles chores and deals them round-robin across distinct staff,
// doubling up only when chores outnumber staff. Used when the week history
// cannot be read; nothing is persisted.
func (e *Engine) fallback(eligible []model.Staff, choreList []model.Chore) []model.ChoreAssignment {
	order := make([]model.Chore, len(choreList))
	copy(order, choreList)
	e.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	staff := make([]model.Staff, len(eligible))
	copy(staff, eligible)
	e.rng.Shuffle(len(staff), func(i, j int) { staff[i], staff[j] = staff[j], staff[i] })

	assigned := make(map[string]string, len(order))
	for i, chore := range order {
		assigned[chore.ID] = staff[i%len(staff)].ID
	}

	result := make([]model.ChoreAssignment, 0, len(assigned))
	for _, chore := range choreList {
		result = append(result, model.ChoreAssignment{ChoreID: chore.ID, StaffID: assigned[chore.ID]})
	}
	return result
}

// pruneOldWeeks drops week histories older than keepWeeks before the current
// week. History has no other cleanup path, so this bounds its growth.
func (e *Engine) pruneOldWeeks(currentWeekStart string) {
	cutoffDate, err := time.Parse("2006-01-02", currentWeekStart)
	if err != nil {
		return
	}
	cutoff := cutoffDate.AddDate(0, 0, -7*keepWeeks)

	keys, err := e.store.Keys()
	if err != nil {
		e.logger.Warn("list keys for chore history pruning", "error", err)
		return
	}
	for _, key := range keys {
		if len(key) <= len(kv.PrefixWeekChores) || key[:len(kv.PrefixWeekChores)] != kv.PrefixWeekChores {
			continue
		}
		start, err := time.Parse("2006-01-02", key[len(kv.PrefixWeekChores):])
		if err != nil {
			continue
		}
		if start.Before(cutoff) {
			if err := e.store.Remove(key); err != nil {
				e.logger.Warn("prune chore history", "key", key, "error", err)
			}
		}
	}
}
