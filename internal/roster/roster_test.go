package roster

import (
	"math/rand"
	"testing"

	"github.com/harborlight/dayroster/internal/model"
)

func testStaff() []model.Staff {
	return []model.Staff{
		{ID: "s1", Name: "Rachel", IsAssignable: true},
		{ID: "s2", Name: "Marcus", IsAssignable: true},
		{ID: "s3", Name: "Priya", IsAssignable: true},
		{ID: "s4", Name: "Dana", IsAssignable: true},
		{ID: "s5", Name: "Tom", IsAssignable: true},
		{ID: "s6", Name: "Lena", IsTeamLeader: true, IsAssignable: true},
	}
}

func twinAttending() []model.Participant {
	return []model.Participant{
		{ID: "p1", Name: "Scotty"},
		{ID: "p2", Name: "Jesse", IsTwin: true},
	}
}

// slotHoldings flattens all three tracks into staffID -> held slot IDs.
func slotHoldings(r Rosters) map[string][]int {
	held := make(map[string][]int)
	for _, track := range [][]model.TimeSlotAssignment{r.FrontRoom, r.Scotty, r.Twins} {
		for _, a := range track {
			held[a.StaffID] = append(held[a.StaffID], a.TimeSlotID)
		}
	}
	return held
}

func TestNoDoubleBookingAcrossCategories(t *testing.T) {
	slots := model.DefaultTimeSlots()

	for seed := int64(0); seed < 25; seed++ {
		rng := rand.New(rand.NewSource(seed))
		r := Build(testStaff(), twinAttending(), slots, rng)

		for staffID, ids := range slotHoldings(r) {
			seen := make(map[int]bool)
			for _, id := range ids {
				if seen[id] {
					t.Fatalf("seed %d: staff %s holds slot %d twice", seed, staffID, id)
				}
				seen[id] = true
			}
		}
	}
}

func TestNoAdjacentSlots(t *testing.T) {
	slots := model.DefaultTimeSlots()

	for seed := int64(0); seed < 25; seed++ {
		rng := rand.New(rand.NewSource(seed))
		r := Build(testStaff(), twinAttending(), slots, rng)

		for staffID, ids := range slotHoldings(r) {
			held := make(map[int]bool)
			for _, id := range ids {
				held[id] = true
			}
			for id := range held {
				if held[id+1] {
					t.Fatalf("seed %d: staff %s holds adjacent slots %d and %d", seed, staffID, id, id+1)
				}
			}
		}
	}
}

func TestTeamLeaderOnlyLastTwoSlots(t *testing.T) {
	slots := model.DefaultTimeSlots()
	lastTwo := map[int]bool{slots[len(slots)-2].ID: true, slots[len(slots)-1].ID: true}

	for seed := int64(0); seed < 25; seed++ {
		rng := rand.New(rand.NewSource(seed))
		r := Build(testStaff(), twinAttending(), slots, rng)

		for _, id := range slotHoldings(r)["s6"] {
			if !lastTwo[id] {
				t.Fatalf("seed %d: team leader assigned slot %d outside the last two", seed, id)
			}
		}
	}
}

func TestTwinsTrackOnlyWhenTwinAttending(t *testing.T) {
	slots := model.DefaultTimeSlots()

	noTwins := []model.Participant{{ID: "p1", Name: "Scotty"}}
	rng := rand.New(rand.NewSource(1))
	r := Build(testStaff(), noTwins, slots, rng)
	if len(r.Twins) != 0 {
		t.Errorf("expected empty twins track with no twin attending, got %d assignments", len(r.Twins))
	}

	rng = rand.New(rand.NewSource(1))
	r = Build(testStaff(), twinAttending(), slots, rng)
	if len(r.Twins) == 0 {
		t.Error("expected twins track to be generated with a twin attending")
	}
}

func TestUnassignableStaffNeverRostered(t *testing.T) {
	slots := model.DefaultTimeSlots()
	staff := append(testStaff(), model.Staff{ID: "s7", Name: "Everyone"})

	for seed := int64(0); seed < 10; seed++ {
		rng := rand.New(rand.NewSource(seed))
		r := Build(staff, twinAttending(), slots, rng)
		if _, ok := slotHoldings(r)["s7"]; ok {
			t.Fatalf("seed %d: unassignable staff was rostered", seed)
		}
	}
}

func TestEmptyStaffYieldsEmptyRosters(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	r := Build(nil, twinAttending(), model.DefaultTimeSlots(), rng)
	if len(r.FrontRoom) != 0 || len(r.Scotty) != 0 || len(r.Twins) != 0 {
		t.Error("expected empty rosters with no staff")
	}
}

// With three staff where one is a team leader, the adjacency rule makes the
// two regular staff alternate: each slot's two tracks need two distinct
// people, and slots are adjacent, so most slots go unfilled. Generation must
// still not fail and must respect every rule.
func TestSparseStaffDegradesWithoutViolations(t *testing.T) {
	staff := []model.Staff{
		{ID: "a", Name: "A", IsTeamLeader: true, IsAssignable: true},
		{ID: "b", Name: "B", IsAssignable: true},
		{ID: "c", Name: "C", IsAssignable: true},
	}
	slots := model.DefaultTimeSlots()

	for seed := int64(0); seed < 25; seed++ {
		rng := rand.New(rand.NewSource(seed))
		r := Build(staff, nil, slots, rng)

		for staffID, ids := range slotHoldings(r) {
			held := make(map[int]bool)
			for _, id := range ids {
				if held[id] {
					t.Fatalf("seed %d: staff %s double-booked in slot %d", seed, staffID, id)
				}
				held[id] = true
			}
			for id := range held {
				if held[id+1] {
					t.Fatalf("seed %d: staff %s holds adjacent slots", seed, staffID)
				}
			}
		}
	}
}

func TestLoadBalancing(t *testing.T) {
	slots := model.DefaultTimeSlots()

	// Five equivalent staff, two tracks, nine slots: 18 assignments minus
	// whatever adjacency blocks. Nobody should carry more than twice the
	// lightest load under min-count selection.
	staff := []model.Staff{
		{ID: "s1", IsAssignable: true},
		{ID: "s2", IsAssignable: true},
		{ID: "s3", IsAssignable: true},
		{ID: "s4", IsAssignable: true},
		{ID: "s5", IsAssignable: true},
	}

	rng := rand.New(rand.NewSource(7))
	r := Build(staff, nil, slots, rng)

	counts := make(map[string]int)
	for staffID, ids := range slotHoldings(r) {
		counts[staffID] = len(ids)
	}

	min, max := -1, -1
	for _, s := range staff {
		c := counts[s.ID]
		if min == -1 || c < min {
			min = c
		}
		if c > max {
			max = c
		}
	}
	if max-min > 2 {
		t.Errorf("load spread too wide: min=%d max=%d", min, max)
	}
}
