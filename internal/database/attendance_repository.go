package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/silvercase/attendance-backend/internal/models"
)

// AttendanceRepository handles attendance log database operations.
//
// The log for a staff member is append-only with one exception: a location
// event arriving inside the merge window fills location_ref on the newest
// entry. That fill is a single conditional UPDATE so two racing events for
// the same staff member cannot lose a write.
type AttendanceRepository struct {
	db DB
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db DB) *AttendanceRepository {
	return &AttendanceRepository{
		db: db,
	}
}

// AppendPhoto appends a new photo-only log entry. Photo events never merge
// into prior entries.
func (r *AttendanceRepository) AppendPhoto(staffID uuid.UUID, photoRef string, at time.Time) (*models.LogEntry, error) {
	entry := &models.LogEntry{
		StaffID:  staffID,
		LoggedAt: at,
		PhotoRef: &photoRef,
	}

	query := `
		INSERT INTO attendance_logs (staff_id, logged_at, photo_ref)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRow(query, staffID, at, photoRef).Scan(&entry.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to append photo entry: %w", err)
	}

	return entry, nil
}

// FillLocationWithinWindow sets location_ref on the newest log entry iff that
// entry has no location yet and is younger than the merge window. Returns
// true when an entry was updated, false when the caller should append a new
// location-only entry instead. Only the newest entry is ever considered.
func (r *AttendanceRepository) FillLocationWithinWindow(staffID uuid.UUID, locationRef string, at time.Time, window time.Duration) (bool, error) {
	query := `
		UPDATE attendance_logs
		SET location_ref = $1
		WHERE id = (
			SELECT id FROM attendance_logs
			WHERE staff_id = $2
			ORDER BY logged_at DESC, id DESC
			LIMIT 1
		)
		  AND location_ref IS NULL
		  AND logged_at > $3
	`

	result, err := r.db.Exec(query, locationRef, staffID, at.Add(-window))
	if err != nil {
		return false, fmt.Errorf("failed to fill location on last entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// AppendLocation appends a new location-only log entry.
func (r *AttendanceRepository) AppendLocation(staffID uuid.UUID, locationRef string, at time.Time) (*models.LogEntry, error) {
	entry := &models.LogEntry{
		StaffID:     staffID,
		LoggedAt:    at,
		LocationRef: &locationRef,
	}

	query := `
		INSERT INTO attendance_logs (staff_id, logged_at, location_ref)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRow(query, staffID, at, locationRef).Scan(&entry.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to append location entry: %w", err)
	}

	return entry, nil
}

// LastEntryTimes returns the newest log entry time for every staff member of
// an owner. Staff with empty logs are absent from the result.
func (r *AttendanceRepository) LastEntryTimes(ownerID string) ([]models.LastEntry, error) {
	entries := []models.LastEntry{}

	query := `
		SELECT DISTINCT ON (l.staff_id) l.staff_id, l.logged_at
		FROM attendance_logs l
		JOIN staff_members s ON s.id = l.staff_id
		WHERE s.owner_id = $1
		ORDER BY l.staff_id, l.logged_at DESC, l.id DESC
	`

	err := r.db.Select(&entries, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get last entry times: %w", err)
	}

	return entries, nil
}

// EntriesBetween returns all entries for a staff member in [from, to), in
// log order.
func (r *AttendanceRepository) EntriesBetween(staffID uuid.UUID, from, to time.Time) ([]models.LogEntry, error) {
	entries := []models.LogEntry{}

	query := `
		SELECT id, staff_id, logged_at, photo_ref, location_ref
		FROM attendance_logs
		WHERE staff_id = $1 AND logged_at >= $2 AND logged_at < $3
		ORDER BY logged_at ASC, id ASC
	`

	err := r.db.Select(&entries, query, staffID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries: %w", err)
	}

	return entries, nil
}

// WorkedDays counts the distinct calendar dates with at least one log entry
// in [from, to). Multiple check-ins on the same date count once.
func (r *AttendanceRepository) WorkedDays(staffID uuid.UUID, from, to time.Time) (int, error) {
	var days int

	query := `
		SELECT COUNT(DISTINCT logged_at::date)
		FROM attendance_logs
		WHERE staff_id = $1 AND logged_at >= $2 AND logged_at < $3
	`

	err := r.db.QueryRow(query, staffID, from, to).Scan(&days)
	if err != nil {
		return 0, fmt.Errorf("failed to count worked days: %w", err)
	}

	return days, nil
}
