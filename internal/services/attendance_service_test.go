package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/silvercase/attendance-backend/internal/models"
)

type fakeAttendanceQueryStore struct {
	lastEntries []models.LastEntry
	entries     []models.LogEntry
	workedDays  int
}

func (f *fakeAttendanceQueryStore) LastEntryTimes(ownerID string) ([]models.LastEntry, error) {
	return f.lastEntries, nil
}

func (f *fakeAttendanceQueryStore) EntriesBetween(staffID uuid.UUID, from, to time.Time) ([]models.LogEntry, error) {
	return f.entries, nil
}

func (f *fakeAttendanceQueryStore) WorkedDays(staffID uuid.UUID, from, to time.Time) (int, error) {
	return f.workedDays, nil
}

type fakeAttendanceStaffStore struct {
	members map[uuid.UUID]*models.StaffMember
	list    []models.StaffMember
}

func (f *fakeAttendanceStaffStore) GetByID(id uuid.UUID) (*models.StaffMember, error) {
	member, ok := f.members[id]
	if !ok {
		return nil, ErrStaffNotFound
	}
	return member, nil
}

func (f *fakeAttendanceStaffStore) ListByOwner(ownerID string) ([]models.StaffMember, error) {
	return f.list, nil
}

func TestPresenceToday(t *testing.T) {
	present := models.StaffMember{ID: uuid.New(), Name: "Anusha"}
	stale := models.StaffMember{ID: uuid.New(), Name: "Kumari"}
	silent := models.StaffMember{ID: uuid.New(), Name: "Dilani"}

	now := time.Date(2026, 8, 30, 14, 0, 0, 0, time.Local)

	log := &fakeAttendanceQueryStore{
		lastEntries: []models.LastEntry{
			{StaffID: present.ID, LoggedAt: now.Add(-2 * time.Hour)},
			{StaffID: stale.ID, LoggedAt: now.AddDate(0, 0, -1)},
		},
	}
	staff := &fakeAttendanceStaffStore{list: []models.StaffMember{present, stale, silent}}

	svc := &AttendanceService{
		log:    log,
		staff:  staff,
		logger: testLogger(),
		now:    func() time.Time { return now },
	}

	snapshot, err := svc.PresenceToday("owner-1")
	require.NoError(t, err)

	assert.Equal(t, "2026-08-30", snapshot.Date)

	require.Len(t, snapshot.Present, 1)
	assert.Equal(t, present.ID, snapshot.Present[0].ID)

	// Yesterday's entry and no entry at all both count as absent.
	require.Len(t, snapshot.Absent, 2)
	assert.Equal(t, stale.ID, snapshot.Absent[0].ID)
	assert.Equal(t, silent.ID, snapshot.Absent[1].ID)
}

func TestPresenceTodayAllAbsent(t *testing.T) {
	member := models.StaffMember{ID: uuid.New(), Name: "Anusha"}

	svc := &AttendanceService{
		log:    &fakeAttendanceQueryStore{},
		staff:  &fakeAttendanceStaffStore{list: []models.StaffMember{member}},
		logger: testLogger(),
		now:    time.Now,
	}

	snapshot, err := svc.PresenceToday("owner-1")
	require.NoError(t, err)
	assert.Empty(t, snapshot.Present)
	assert.Len(t, snapshot.Absent, 1)
}

func TestDayEntries(t *testing.T) {
	id := uuid.New()
	photo := "/uploads/selfie_1.jpg"

	log := &fakeAttendanceQueryStore{
		entries: []models.LogEntry{{ID: 1, StaffID: id, PhotoRef: &photo}},
	}
	staff := &fakeAttendanceStaffStore{members: map[uuid.UUID]*models.StaffMember{
		id: {ID: id},
	}}

	svc := &AttendanceService{log: log, staff: staff, logger: testLogger(), now: time.Now}

	entries, err := svc.DayEntries(id, time.Date(2026, 8, 30, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	_, err = svc.DayEntries(uuid.New(), time.Now())
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestMonthlyPayroll(t *testing.T) {
	id := uuid.New()

	log := &fakeAttendanceQueryStore{workedDays: 2}
	staff := &fakeAttendanceStaffStore{members: map[uuid.UUID]*models.StaffMember{
		id: {ID: id, DailyRate: 500},
	}}

	svc := &AttendanceService{log: log, staff: staff, logger: testLogger(), now: time.Now}

	summary, err := svc.MonthlyPayroll(id, 2026, time.August)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Days)
	assert.Equal(t, 500.0, summary.DailyRate)
	assert.Equal(t, 1000.0, summary.Total)
	assert.Equal(t, 2026, summary.Year)
	assert.Equal(t, 8, summary.Month)
}

func TestMonthlyPayrollUnknownStaff(t *testing.T) {
	svc := &AttendanceService{
		log:    &fakeAttendanceQueryStore{},
		staff:  &fakeAttendanceStaffStore{},
		logger: testLogger(),
		now:    time.Now,
	}

	_, err := svc.MonthlyPayroll(uuid.New(), 2026, time.August)
	assert.ErrorIs(t, err, ErrStaffNotFound)
}
