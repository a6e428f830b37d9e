package chores

import (
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/harborlight/dayroster/internal/database"
	"github.com/harborlight/dayroster/internal/kv"
	"github.com/harborlight/dayroster/internal/model"
)

func setupEngine(t *testing.T, seed int64) (*Engine, kv.Store) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := kv.NewSQLiteStore(db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEngine(store, rand.New(rand.NewSource(seed)), logger), store
}

func testEligibleStaff(n int) []model.Staff {
	all := []model.Staff{
		{ID: "s1", Name: "Rachel", IsAssignable: true},
		{ID: "s2", Name: "Marcus", IsAssignable: true},
		{ID: "s3", Name: "Priya", IsAssignable: true},
		{ID: "s4", Name: "Dana", IsAssignable: true},
		{ID: "s5", Name: "Tom", IsAssignable: true},
	}
	return all[:n]
}

func testChores(n int) []model.Chore {
	all := []model.Chore{
		{ID: "c1", Name: "Dishes"},
		{ID: "c2", Name: "Kitchen"},
		{ID: "c3", Name: "Vacuum"},
		{ID: "c4", Name: "Bathrooms"},
		{ID: "c5", Name: "Trash"},
	}
	return all[:n]
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		date      string
		wantStart string
		wantIdx   int
	}{
		{"2026-08-24", "2026-08-24", 0}, // Monday
		{"2026-08-26", "2026-08-24", 2}, // Wednesday
		{"2026-08-29", "2026-08-24", 5}, // Saturday
		{"2026-08-30", "2026-08-24", 6}, // Sunday belongs to the prior Monday
		{"2026-08-31", "2026-08-31", 0}, // next Monday
	}
	for _, tt := range tests {
		start, idx, err := WeekStart(tt.date)
		if err != nil {
			t.Fatalf("WeekStart(%q): %v", tt.date, err)
		}
		if start != tt.wantStart || idx != tt.wantIdx {
			t.Errorf("WeekStart(%q) = (%q, %d), want (%q, %d)", tt.date, start, idx, tt.wantStart, tt.wantIdx)
		}
	}
}

func TestWeekStartBadDate(t *testing.T) {
	if _, _, err := WeekStart("yesterday"); err == nil {
		t.Error("expected error for unparseable date")
	}
}

func TestEveryChoreAssignedOnce(t *testing.T) {
	e, _ := setupEngine(t, 1)

	got := e.Assign(testEligibleStaff(5), testChores(5), "2026-08-24", false)
	if len(got) != 5 {
		t.Fatalf("expected 5 assignments, got %d", len(got))
	}

	seen := make(map[string]bool)
	for _, a := range got {
		if seen[a.ChoreID] {
			t.Errorf("chore %s assigned twice", a.ChoreID)
		}
		seen[a.ChoreID] = true
		if a.StaffID == "" {
			t.Errorf("chore %s has empty staff", a.ChoreID)
		}
	}
}

func TestDistinctStaffWhenEnough(t *testing.T) {
	e, _ := setupEngine(t, 2)

	got := e.Assign(testEligibleStaff(5), testChores(5), "2026-08-24", false)
	used := make(map[string]bool)
	for _, a := range got {
		if used[a.StaffID] {
			t.Errorf("staff %s got a second chore with others still free", a.StaffID)
		}
		used[a.StaffID] = true
	}
}

func TestMoreChoresThanStaff(t *testing.T) {
	e, _ := setupEngine(t, 3)

	got := e.Assign(testEligibleStaff(2), testChores(3), "2026-08-24", false)
	if len(got) != 3 {
		t.Fatalf("expected 3 assignments, got %d", len(got))
	}

	counts := make(map[string]int)
	for _, a := range got {
		counts[a.StaffID]++
	}
	for staffID, c := range counts {
		if c > 2 {
			t.Errorf("staff %s carries %d chores, want at most 2", staffID, c)
		}
	}
}

func TestSameDayAssignmentIsStable(t *testing.T) {
	e, _ := setupEngine(t, 4)

	first := e.Assign(testEligibleStaff(4), testChores(4), "2026-08-25", false)
	second := e.Assign(testEligibleStaff(4), testChores(4), "2026-08-25", false)

	byChore := func(as []model.ChoreAssignment) map[string]string {
		m := make(map[string]string)
		for _, a := range as {
			m[a.ChoreID] = a.StaffID
		}
		return m
	}
	f, s := byChore(first), byChore(second)
	for choreID, staffID := range f {
		if s[choreID] != staffID {
			t.Errorf("chore %s moved from %s to %s without force", choreID, staffID, s[choreID])
		}
	}
}

func TestForceRegeneratesButKeepsRestOfWeek(t *testing.T) {
	e, store := setupEngine(t, 5)

	e.Assign(testEligibleStaff(4), testChores(4), "2026-08-24", false) // Monday
	e.Assign(testEligibleStaff(4), testChores(4), "2026-08-25", false) // Tuesday
	e.Assign(testEligibleStaff(4), testChores(4), "2026-08-25", true)  // regenerate Tuesday

	week, found, err := kv.GetJSON[model.WeekChores](store, kv.WeekChoresKey("2026-08-24"))
	if err != nil || !found {
		t.Fatalf("load week history: found=%v err=%v", found, err)
	}
	for choreID, days := range week {
		if days[0] == "" {
			t.Errorf("chore %s lost its Monday assignment after forcing Tuesday", choreID)
		}
	}
}

func TestNoRepeatWithinWeek(t *testing.T) {
	e, _ := setupEngine(t, 6)

	staff := testEligibleStaff(5)
	choreList := testChores(1)

	// One chore, five staff, five weekdays: nobody should repeat.
	dates := []string{"2026-08-24", "2026-08-25", "2026-08-26", "2026-08-27", "2026-08-28"}
	used := make(map[string]bool)
	for _, date := range dates {
		got := e.Assign(staff, choreList, date, false)
		if len(got) != 1 {
			t.Fatalf("%s: expected 1 assignment, got %d", date, len(got))
		}
		if used[got[0].StaffID] {
			t.Errorf("%s: staff %s repeated the chore within the week", date, got[0].StaffID)
		}
		used[got[0].StaffID] = true
	}
}

func TestChoreExemptAndUnassignableSkipped(t *testing.T) {
	e, _ := setupEngine(t, 7)

	staff := []model.Staff{
		{ID: "s1", Name: "Rachel", IsAssignable: true},
		{ID: "lead", Name: "Lena", IsAssignable: true, IsChoreExempt: true},
		{ID: "ph", Name: "Everyone"},
	}
	got := e.Assign(staff, testChores(3), "2026-08-24", false)
	for _, a := range got {
		if a.StaffID != "s1" {
			t.Errorf("chore %s went to %s, want s1", a.ChoreID, a.StaffID)
		}
	}
}

func TestCorruptHistoryFallsBack(t *testing.T) {
	e, store := setupEngine(t, 8)

	if err := store.Set(kv.WeekChoresKey("2026-08-24"), "{broken"); err != nil {
		t.Fatalf("set corrupt history: %v", err)
	}

	got := e.Assign(testEligibleStaff(3), testChores(3), "2026-08-26", false)
	if len(got) != 3 {
		t.Fatalf("expected 3 assignments from fallback, got %d", len(got))
	}
	used := make(map[string]bool)
	for _, a := range got {
		if used[a.StaffID] {
			t.Errorf("fallback doubled up staff %s with others free", a.StaffID)
		}
		used[a.StaffID] = true
	}
}

func TestNoEligibleStaff(t *testing.T) {
	e, _ := setupEngine(t, 9)

	staff := []model.Staff{{ID: "ph", Name: "Everyone"}}
	if got := e.Assign(staff, testChores(2), "2026-08-24", false); got != nil {
		t.Errorf("expected nil assignments with no eligible staff, got %v", got)
	}
}

func TestPruneOldWeeks(t *testing.T) {
	e, store := setupEngine(t, 10)

	old := model.WeekChores{"c1": {0: "s1"}}
	if err := kv.SetJSON(store, kv.WeekChoresKey("2026-01-05"), old); err != nil {
		t.Fatalf("seed old week: %v", err)
	}
	recent := model.WeekChores{"c1": {0: "s2"}}
	if err := kv.SetJSON(store, kv.WeekChoresKey("2026-08-17"), recent); err != nil {
		t.Fatalf("seed recent week: %v", err)
	}

	e.Assign(testEligibleStaff(2), testChores(2), "2026-08-24", false)

	if _, ok, _ := store.Get(kv.WeekChoresKey("2026-01-05")); ok {
		t.Error("expected week far past retention to be pruned")
	}
	if _, ok, _ := store.Get(kv.WeekChoresKey("2026-08-17")); !ok {
		t.Error("expected recent week to survive pruning")
	}
}
