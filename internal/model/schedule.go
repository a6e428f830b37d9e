package model

import "time"

// Assignment is one staff member's full-day group of participants.
type Assignment struct {
	StaffID        string   `json:"staff_id"`
	ParticipantIDs []string `json:"participant_ids"`
}

// TimeSlotAssignment is one staff member covering one slot in one duty category.
type TimeSlotAssignment struct {
	TimeSlotID int    `json:"time_slot_id"`
	StaffID    string `json:"staff_id"`
}

type ChoreAssignment struct {
	ChoreID string `json:"chore_id"`
	StaffID string `json:"staff_id"`
}

// TransportAssignment records drop-off or pickup responsibility for a participant.
type TransportAssignment struct {
	ParticipantID string `json:"participant_id"`
	StaffID       string `json:"staff_id"`
	Location      string `json:"location,omitempty"`
}

// Schedule is the full aggregate for one calendar date. The persisted
// collection holds at most one Schedule per Date.
type Schedule struct {
	ID                      string                `json:"id"`
	Date                    string                `json:"date"`
	WorkingStaffIDs         []string              `json:"working_staff_ids"`
	AttendingParticipantIDs []string              `json:"attending_participant_ids"`
	Assignments             []Assignment          `json:"assignments"`
	FrontRoomSlots          []TimeSlotAssignment  `json:"front_room_slots"`
	ScottySlots             []TimeSlotAssignment  `json:"scotty_slots"`
	TwinsSlots              []TimeSlotAssignment  `json:"twins_slots"`
	ChoreAssignments        []ChoreAssignment     `json:"chore_assignments"`
	FinalChecklistStaffID   string                `json:"final_checklist_staff_id"`
	DropOffs                []TransportAssignment `json:"drop_offs"`
	Pickups                 []TransportAssignment `json:"pickups"`
}

// ScheduleID derives the deterministic Schedule ID for a date.
func ScheduleID(date string) string {
	return "schedule-" + date
}

// SharedSchedule is an immutable snapshot of one Schedule keyed by a random
// 6-digit code, exchanged asynchronously between app instances.
type SharedSchedule struct {
	Code      string    `json:"code"`
	Schedule  Schedule  `json:"schedule"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ActiveCode is one entry in the active sharing code index, kept so expired
// snapshots can be swept without scanning every key.
type ActiveCode struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// WeekChores maps a chore ID to its staff assignment for each day of one
// Monday-starting week. Empty string means unassigned.
type WeekChores map[string][7]string
