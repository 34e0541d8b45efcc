package domain

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DaysNever is the days-since-backup value for users who never backed up.
// It marshals as a large integer rather than a JSON-unfriendly infinity.
const DaysNever = int(^uint32(0) >> 1)

// ReminderPayload is the computed suggestion that a local-only user
// should back up their data. Never persisted; consumed to produce a
// system notification.
type ReminderPayload struct {
	DaysSinceBackup int      `json:"days_since_backup"`
	NewEntries      int      `json:"new_entries"`
	TotalSize       string   `json:"total_size"`
	Priority        Priority `json:"priority"`
}

// NeverBackedUp reports whether the payload carries the never-backed-up
// sentinel.
func (p ReminderPayload) NeverBackedUp() bool {
	return p.DaysSinceBackup == DaysNever
}

// Evaluate decides whether a backup reminder should fire. Pure function:
// the clock is injected through now.
//
// Priority thresholds and the trigger thresholds below are independent
// axes inherited from the product's first release: 8 days with no new
// entries triggers a reminder yet rates only "low". Kept as-is and
// pinned by tests.
func Evaluate(lastBackup *time.Time, newEntries int, totalSize string, localOnly bool, now time.Time) *ReminderPayload {
	if !localOnly {
		return nil
	}

	if lastBackup == nil {
		return &ReminderPayload{
			DaysSinceBackup: DaysNever,
			NewEntries:      newEntries,
			TotalSize:       totalSize,
			Priority:        PriorityHigh,
		}
	}

	days := int(now.Sub(*lastBackup).Hours() / 24)
	if days < 0 {
		days = 0
	}

	priority := PriorityLow
	switch {
	case days > 30 || newEntries > 50:
		priority = PriorityHigh
	case days > 14 || newEntries > 20:
		priority = PriorityMedium
	}

	if days < 7 && newEntries < 10 {
		return nil
	}

	return &ReminderPayload{
		DaysSinceBackup: days,
		NewEntries:      newEntries,
		TotalSize:       totalSize,
		Priority:        priority,
	}
}

// Message renders the payload as notification title and body text.
func (p ReminderPayload) Message() (title, message string) {
	title = "Time to back up your data"
	if p.NeverBackedUp() {
		return title, "You have never backed up your applications. Export a backup now to keep your data safe."
	}

	switch p.Priority {
	case PriorityHigh:
		message = "Your last backup is badly out of date. Export a backup now to keep your data safe."
	case PriorityMedium:
		message = "Your last backup is getting stale. Consider exporting a fresh backup."
	default:
		message = "A new backup is recommended."
	}
	return title, message
}
