package entity

import "github.com/harborlight/dayroster/internal/model"

// Compiled-in reference lists used whenever a persisted list is missing or
// corrupted. The administrative placeholder rows stay unassignable so the
// engines never roster them.

func defaultStaff() []model.Staff {
	return []model.Staff{
		{ID: "staff-rachel", Name: "Rachel", Color: "#E57373", IsAssignable: true},
		{ID: "staff-marcus", Name: "Marcus", Color: "#64B5F6", IsAssignable: true},
		{ID: "staff-priya", Name: "Priya", Color: "#81C784", IsAssignable: true},
		{ID: "staff-dana", Name: "Dana", Color: "#FFD54F", IsAssignable: true},
		{ID: "staff-tom", Name: "Tom", Color: "#BA68C8", IsAssignable: true},
		{ID: "staff-lena", Name: "Lena", Color: "#4DB6AC", IsTeamLeader: true, IsAssignable: true, IsChoreExempt: true},
		{ID: "staff-everyone", Name: "Everyone", Color: "#90A4AE"},
		{ID: "staff-drive-outing", Name: "Drive/Outing", Color: "#A1887F"},
		{ID: "staff-audit", Name: "Audit", Color: "#B0BEC5"},
	}
}

func defaultParticipants() []model.Participant {
	return []model.Participant{
		{ID: "part-scotty", Name: "Scotty"},
		{ID: "part-jesse", Name: "Jesse", IsTwin: true},
		{ID: "part-jamie", Name: "Jamie", IsTwin: true},
		{ID: "part-oliver", Name: "Oliver", HasDropOff: true, DropOffLocation: "Maple St"},
		{ID: "part-grace", Name: "Grace"},
		{ID: "part-henry", Name: "Henry", HasDropOff: true, DropOffLocation: "Community Center"},
	}
}

func defaultChores() []model.Chore {
	return []model.Chore{
		{ID: "chore-dishes", Name: "Dishes"},
		{ID: "chore-kitchen", Name: "Wipe kitchen surfaces"},
		{ID: "chore-vacuum", Name: "Vacuum front room"},
		{ID: "chore-bathrooms", Name: "Check bathrooms"},
		{ID: "chore-trash", Name: "Take out trash"},
	}
}

func defaultChecklist() []model.ChecklistItem {
	return []model.ChecklistItem{
		{ID: "check-windows", Name: "Windows closed"},
		{ID: "check-appliances", Name: "Appliances off"},
		{ID: "check-heaters", Name: "Heaters off"},
		{ID: "check-doors", Name: "Doors locked"},
		{ID: "check-alarm", Name: "Alarm set"},
	}
}
