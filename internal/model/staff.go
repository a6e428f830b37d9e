package model

type Staff struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Color        string `json:"color"`
	IsTeamLeader bool   `json:"is_team_leader"`
	// IsAssignable is false for administrative placeholder rows (e.g. the
	// "Everyone" and "Drive/Outing" entries) that must never receive duty
	// slots or chores.
	IsAssignable  bool `json:"is_assignable"`
	IsChoreExempt bool `json:"is_chore_exempt"`
}

type Participant struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	IsTwin          bool   `json:"is_twin"`
	HasDropOff      bool   `json:"has_drop_off"`
	DropOffLocation string `json:"drop_off_location,omitempty"`
}

type Chore struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ChecklistItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
