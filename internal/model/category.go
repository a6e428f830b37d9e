package model

import (
	"fmt"
	"time"
)

// Category identifies one editable section of a Schedule. Updates are tagged
// with a Category so consumers can show per-section "changed" badges.
type Category int

const (
	CategoryWorkingStaff Category = iota
	CategoryAttendance
	CategoryAssignments
	CategoryFrontRoom
	CategoryScotty
	CategoryTwins
	CategoryChores
	CategoryChecklist
	CategoryDropOffs
	CategoryPickups
)

var categoryNames = map[Category]string{
	CategoryWorkingStaff: "working_staff",
	CategoryAttendance:   "attendance",
	CategoryAssignments:  "assignments",
	CategoryFrontRoom:    "front_room",
	CategoryScotty:       "scotty",
	CategoryTwins:        "twins",
	CategoryChores:       "chores",
	CategoryChecklist:    "checklist",
	CategoryDropOffs:     "drop_offs",
	CategoryPickups:      "pickups",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// ParseCategory maps a category name back to its Category value.
func ParseCategory(name string) (Category, error) {
	for c, n := range categoryNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", name)
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("unknown category %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UpdateAction distinguishes a first write of a category from later edits.
type UpdateAction string

const (
	ActionCreated UpdateAction = "created"
	ActionUpdated UpdateAction = "updated"
)

// CategoryUpdate is one entry in a date's change log. A date's log holds at
// most one live entry per category; a newer update replaces the older one.
type CategoryUpdate struct {
	Category  Category     `json:"category"`
	Timestamp time.Time    `json:"timestamp"`
	Action    UpdateAction `json:"action"`
}

// CriticalUpdate is one entry in the global append-only change log written
// whenever reference lists or a schedule change.
type CriticalUpdate struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}
