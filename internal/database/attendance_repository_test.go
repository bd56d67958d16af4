package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendPhoto(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := newMockDatabase(db)
	repo := NewAttendanceRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		staffID := uuid.New()
		at := time.Now()

		mock.ExpectQuery(`INSERT INTO attendance_logs`).
			WithArgs(staffID, at, "/uploads/selfie_1700000000000.jpg").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

		entry, err := repo.AppendPhoto(staffID, "/uploads/selfie_1700000000000.jpg", at)
		require.NoError(t, err)
		assert.Equal(t, int64(7), entry.ID)
		require.NotNil(t, entry.PhotoRef)
		assert.Equal(t, "/uploads/selfie_1700000000000.jpg", *entry.PhotoRef)
		assert.Nil(t, entry.LocationRef)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		staffID := uuid.New()

		mock.ExpectQuery(`INSERT INTO attendance_logs`).
			WillReturnError(fmt.Errorf("database error"))

		entry, err := repo.AppendPhoto(staffID, "/uploads/x.jpg", time.Now())
		assert.Error(t, err)
		assert.Nil(t, entry)
		assert.Contains(t, err.Error(), "failed to append photo entry")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFillLocationWithinWindow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := newMockDatabase(db)
	repo := NewAttendanceRepository(mockDB)

	staffID := uuid.New()
	window := 5 * time.Minute

	t.Run("Merges Into Newest Entry", func(t *testing.T) {
		at := time.Now()

		mock.ExpectExec(`UPDATE attendance_logs`).
			WithArgs("6.9271,79.8612", staffID, at.Add(-window)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		merged, err := repo.FillLocationWithinWindow(staffID, "6.9271,79.8612", at, window)
		require.NoError(t, err)
		assert.True(t, merged)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No Eligible Entry", func(t *testing.T) {
		at := time.Now()

		mock.ExpectExec(`UPDATE attendance_logs`).
			WithArgs("6.9271,79.8612", staffID, at.Add(-window)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		merged, err := repo.FillLocationWithinWindow(staffID, "6.9271,79.8612", at, window)
		require.NoError(t, err)
		assert.False(t, merged)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAppendLocation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := newMockDatabase(db)
	repo := NewAttendanceRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		staffID := uuid.New()
		at := time.Now()

		mock.ExpectQuery(`INSERT INTO attendance_logs`).
			WithArgs(staffID, at, "6.9271,79.8612").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

		entry, err := repo.AppendLocation(staffID, "6.9271,79.8612", at)
		require.NoError(t, err)
		assert.Equal(t, int64(9), entry.ID)
		assert.Nil(t, entry.PhotoRef)
		require.NotNil(t, entry.LocationRef)
		assert.Equal(t, "6.9271,79.8612", *entry.LocationRef)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLastEntryTimes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := newMockDatabase(db)
	repo := NewAttendanceRepository(mockDB)

	t.Run("One Row Per Staff", func(t *testing.T) {
		staffA := uuid.New()
		staffB := uuid.New()
		now := time.Now()

		mock.ExpectQuery(`SELECT DISTINCT ON \(l.staff_id\)`).
			WithArgs("owner-1").
			WillReturnRows(sqlmock.NewRows([]string{"staff_id", "logged_at"}).
				AddRow(staffA, now).
				AddRow(staffB, now.Add(-24*time.Hour)))

		entries, err := repo.LastEntryTimes("owner-1")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, staffA, entries[0].StaffID)
		assert.Equal(t, staffB, entries[1].StaffID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty Log", func(t *testing.T) {
		mock.ExpectQuery(`SELECT DISTINCT ON \(l.staff_id\)`).
			WithArgs("owner-2").
			WillReturnRows(sqlmock.NewRows([]string{"staff_id", "logged_at"}))

		entries, err := repo.LastEntryTimes("owner-2")
		require.NoError(t, err)
		assert.Empty(t, entries)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEntriesBetween(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := newMockDatabase(db)
	repo := NewAttendanceRepository(mockDB)

	t.Run("Half Open Range", func(t *testing.T) {
		staffID := uuid.New()
		from := time.Date(2026, 8, 30, 0, 0, 0, 0, time.Local)
		to := from.AddDate(0, 0, 1)
		photo := "/uploads/selfie_1.jpg"

		mock.ExpectQuery(`SELECT id, staff_id, logged_at, photo_ref, location_ref`).
			WithArgs(staffID, from, to).
			WillReturnRows(sqlmock.NewRows([]string{"id", "staff_id", "logged_at", "photo_ref", "location_ref"}).
				AddRow(int64(1), staffID, from.Add(8*time.Hour), photo, nil))

		entries, err := repo.EntriesBetween(staffID, from, to)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		require.NotNil(t, entries[0].PhotoRef)
		assert.Equal(t, photo, *entries[0].PhotoRef)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestWorkedDays(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := newMockDatabase(db)
	repo := NewAttendanceRepository(mockDB)

	t.Run("Distinct Dates Only", func(t *testing.T) {
		staffID := uuid.New()
		from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.Local)
		to := from.AddDate(0, 1, 0)

		mock.ExpectQuery(`SELECT COUNT\(DISTINCT logged_at::date\)`).
			WithArgs(staffID, from, to).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

		days, err := repo.WorkedDays(staffID, from, to)
		require.NoError(t, err)
		assert.Equal(t, 12, days)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
