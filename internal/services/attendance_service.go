package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/silvercase/attendance-backend/internal/models"
)

type attendanceQueryStore interface {
	LastEntryTimes(ownerID string) ([]models.LastEntry, error)
	EntriesBetween(staffID uuid.UUID, from, to time.Time) ([]models.LogEntry, error)
	WorkedDays(staffID uuid.UUID, from, to time.Time) (int, error)
}

type attendanceStaffStore interface {
	GetByID(id uuid.UUID) (*models.StaffMember, error)
	ListByOwner(ownerID string) ([]models.StaffMember, error)
}

// AttendanceService derives presence snapshots and payroll figures from the
// raw attendance log. Day boundaries follow the server's local timezone.
type AttendanceService struct {
	log    attendanceQueryStore
	staff  attendanceStaffStore
	logger *logrus.Logger
	now    func() time.Time
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(log attendanceQueryStore, staff attendanceStaffStore, logger *logrus.Logger) *AttendanceService {
	return &AttendanceService{
		log:    log,
		staff:  staff,
		logger: logger,
		now:    time.Now,
	}
}

// PresenceToday splits an owner's staff into present and absent buckets.
// A member is present when their newest log entry falls on today's date;
// members with no entries at all are absent.
func (s *AttendanceService) PresenceToday(ownerID string) (*models.PresenceSnapshot, error) {
	members, err := s.staff.ListByOwner(ownerID)
	if err != nil {
		return nil, err
	}

	lastEntries, err := s.log.LastEntryTimes(ownerID)
	if err != nil {
		return nil, err
	}

	lastByStaff := make(map[uuid.UUID]time.Time, len(lastEntries))
	for _, e := range lastEntries {
		lastByStaff[e.StaffID] = e.LoggedAt
	}

	today := s.now().In(time.Local)
	ty, tm, td := today.Date()

	snapshot := &models.PresenceSnapshot{
		Date:    today.Format("2006-01-02"),
		Present: []models.StaffMember{},
		Absent:  []models.StaffMember{},
	}

	for _, m := range members {
		last, ok := lastByStaff[m.ID]
		if !ok {
			snapshot.Absent = append(snapshot.Absent, m)
			continue
		}

		ly, lm, ld := last.In(time.Local).Date()
		if ly == ty && lm == tm && ld == td {
			snapshot.Present = append(snapshot.Present, m)
		} else {
			snapshot.Absent = append(snapshot.Absent, m)
		}
	}

	return snapshot, nil
}

// DayEntries returns a staff member's log entries for one calendar day,
// oldest first.
func (s *AttendanceService) DayEntries(staffID uuid.UUID, day time.Time) ([]models.LogEntry, error) {
	if _, err := s.staff.GetByID(staffID); err != nil {
		return nil, err
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 0, 1)

	return s.log.EntriesBetween(staffID, start, end)
}

// MonthlyPayroll counts the distinct days a staff member logged anything in
// the given month and multiplies by their daily rate. A day with a single
// unmerged location entry pays the same as a fully merged day.
func (s *AttendanceService) MonthlyPayroll(staffID uuid.UUID, year int, month time.Month) (*models.PayrollSummary, error) {
	member, err := s.staff.GetByID(staffID)
	if err != nil {
		return nil, err
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)

	days, err := s.log.WorkedDays(staffID, start, end)
	if err != nil {
		return nil, err
	}

	return &models.PayrollSummary{
		StaffID:   staffID,
		Year:      year,
		Month:     int(month),
		Days:      days,
		DailyRate: member.DailyRate,
		Total:     float64(days) * member.DailyRate,
	}, nil
}
