package kv

// Logical keys for the persisted blobs. Date- and code-scoped keys are built
// with the prefix helpers so sweepers can find them via Keys().
const (
	KeyStaff             = "staff"
	KeyParticipants      = "participants"
	KeyChores            = "chores"
	KeyChecklist         = "checklist"
	KeySchedules         = "schedules"
	KeyCriticalUpdates   = "critical_updates"
	KeyActiveCodes       = "active_sharing_codes"
	KeyLastViewedVersion = "last_viewed_version"
	KeyHasNewUpdates     = "has_new_updates"
	KeyAdminPINHash      = "admin_pin_hash"

	PrefixCategoryUpdates = "category_updates_"
	PrefixWeekChores      = "weekly_chore_assignments_"
	PrefixShared          = "shared_"
)

// CategoryUpdatesKey returns the per-date change log key.
func CategoryUpdatesKey(date string) string {
	return PrefixCategoryUpdates + date
}

// WeekChoresKey returns the weekly chore history key for a week-start date.
func WeekChoresKey(weekStart string) string {
	return PrefixWeekChores + weekStart
}

// SharedKey returns the snapshot key for a sharing code.
func SharedKey(code string) string {
	return PrefixShared + code
}
