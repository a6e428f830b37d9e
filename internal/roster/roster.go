package roster

import (
	"math/rand"

	"github.com/harborlight/dayroster/internal/model"
)

// Rosters holds the three parallel duty tracks for one day. A slot with no
// eligible staff is simply absent from its track; generation never fails.
type Rosters struct {
	FrontRoom []model.TimeSlotAssignment `json:"front_room"`
	Scotty    []model.TimeSlotAssignment `json:"scotty"`
	Twins     []model.TimeSlotAssignment `json:"twins"`
}

type category int

const (
	frontRoom category = iota
	scotty
	twins
)

// teamLeaderSlots is how many trailing slots of the day a team leader may
// cover: with the standard nine-slot layout that is 13:30 onward.
const teamLeaderSlots = 2

// Build produces the day's duty rosters for the given working staff. Slots
// are filled in temporal order, interleaving the three categories at each
// slot, under these rules:
//
//   - unassignable (placeholder) staff never appear;
//   - team leaders are only eligible for the last two slots of the day;
//   - the twins track is generated only when a twin participant is attending;
//   - a staff member holds at most one category per slot, and never two
//     adjacent slots in any combination of categories;
//   - ties between least-loaded candidates break uniformly at random.
func Build(workingStaff []model.Staff, attending []model.Participant, slots []model.TimeSlot, rng *rand.Rand) Rosters {
	var r Rosters

	eligible := make([]model.Staff, 0, len(workingStaff))
	for _, s := range workingStaff {
		if s.IsAssignable {
			eligible = append(eligible, s)
		}
	}

	twinsAttending := false
	for _, p := range attending {
		if p.IsTwin {
			twinsAttending = true
			break
		}
	}

	categories := []category{frontRoom, scotty}
	if twinsAttending {
		categories = append(categories, twins)
	}

	// Slot IDs a staff member already holds, across all categories.
	booked := make(map[string]map[int]bool, len(eligible))
	counts := make(map[string]int, len(eligible))

	for idx, slot := range slots {
		for _, cat := range categories {
			staffID, ok := pick(eligible, booked, counts, slot.ID, idx, len(slots), rng)
			if !ok {
				continue
			}

			a := model.TimeSlotAssignment{TimeSlotID: slot.ID, StaffID: staffID}
			switch cat {
			case frontRoom:
				r.FrontRoom = append(r.FrontRoom, a)
			case scotty:
				r.Scotty = append(r.Scotty, a)
			case twins:
				r.Twins = append(r.Twins, a)
			}

			if booked[staffID] == nil {
				booked[staffID] = make(map[int]bool)
			}
			booked[staffID][slot.ID] = true
			counts[staffID]++
		}
	}

	return r
}

// pick selects the least-loaded staff member who can take the slot, breaking
// ties uniformly at random. Returns false when nobody is eligible.
func pick(eligible []model.Staff, booked map[string]map[int]bool, counts map[string]int, slotID, slotIdx, slotCount int, rng *rand.Rand) (string, bool) {
	var candidates []string
	best := -1

	for _, s := range eligible {
		if s.IsTeamLeader && slotIdx < slotCount-teamLeaderSlots {
			continue
		}
		held := booked[s.ID]
		if held[slotID] || held[slotID-1] || held[slotID+1] {
			continue
		}

		c := counts[s.ID]
		switch {
		case best == -1 || c < best:
			best = c
			candidates = candidates[:0]
			candidates = append(candidates, s.ID)
		case c == best:
			candidates = append(candidates, s.ID)
		}
	}

	if len(candidates) == 0 {
		return "", false
	}
	return candidates[rng.Intn(len(candidates))], true
}
