package models

import (
	"time"

	"github.com/google/uuid"
)

// LogEntry is one attendance record. PhotoRef and LocationRef both start
// null-able; the reconciler may fill LocationRef on the newest entry within
// the merge window, otherwise entries are append-only.
type LogEntry struct {
	ID          int64     `json:"id" db:"id"`
	StaffID     uuid.UUID `json:"staff_id" db:"staff_id"`
	LoggedAt    time.Time `json:"logged_at" db:"logged_at"`
	PhotoRef    *string   `json:"photo_ref" db:"photo_ref"`
	LocationRef *string   `json:"location_ref" db:"location_ref"`
}

// LastEntry pairs a staff member with the time of their newest log entry.
type LastEntry struct {
	StaffID  uuid.UUID `db:"staff_id"`
	LoggedAt time.Time `db:"logged_at"`
}

// PresenceSnapshot is the point-in-time present/absent split for an owner's
// staff, re-evaluated on every dashboard poll.
type PresenceSnapshot struct {
	Date    string        `json:"date"`
	Present []StaffMember `json:"present"`
	Absent  []StaffMember `json:"absent"`
}

// PayrollSummary is the monthly payroll result for one staff member.
// Days counts distinct calendar dates with at least one log entry.
type PayrollSummary struct {
	StaffID   uuid.UUID `json:"staff_id"`
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	Days      int       `json:"days"`
	DailyRate float64   `json:"daily_rate"`
	Total     float64   `json:"total"`
}
