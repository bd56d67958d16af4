package services

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/silvercase/attendance-backend/internal/models"
	"github.com/silvercase/attendance-backend/pkg/validator"
)

type fakeLinkStaffStore struct {
	byChat  map[int64]*models.StaffMember
	byPhone map[string]*models.StaffMember
	linked  map[uuid.UUID]int64
}

func newFakeLinkStaffStore() *fakeLinkStaffStore {
	return &fakeLinkStaffStore{
		byChat:  map[int64]*models.StaffMember{},
		byPhone: map[string]*models.StaffMember{},
		linked:  map[uuid.UUID]int64{},
	}
}

func (f *fakeLinkStaffStore) GetByChatLink(chatID int64) (*models.StaffMember, error) {
	return f.byChat[chatID], nil
}

func (f *fakeLinkStaffStore) GetByPhone(phone string) (*models.StaffMember, error) {
	return f.byPhone[phone], nil
}

func (f *fakeLinkStaffStore) SetChatLink(id uuid.UUID, chatID int64) error {
	f.linked[id] = chatID
	return nil
}

type appendedEntry struct {
	staffID uuid.UUID
	ref     string
	at      time.Time
}

type fakeLogStore struct {
	mergeResult bool
	mergeCalls  []appendedEntry
	photos      []appendedEntry
	locations   []appendedEntry
}

func (f *fakeLogStore) AppendPhoto(staffID uuid.UUID, photoRef string, at time.Time) (*models.LogEntry, error) {
	f.photos = append(f.photos, appendedEntry{staffID, photoRef, at})
	return &models.LogEntry{ID: int64(len(f.photos)), StaffID: staffID, LoggedAt: at, PhotoRef: &photoRef}, nil
}

func (f *fakeLogStore) FillLocationWithinWindow(staffID uuid.UUID, locationRef string, at time.Time, window time.Duration) (bool, error) {
	f.mergeCalls = append(f.mergeCalls, appendedEntry{staffID, locationRef, at})
	return f.mergeResult, nil
}

func (f *fakeLogStore) AppendLocation(staffID uuid.UUID, locationRef string, at time.Time) (*models.LogEntry, error) {
	f.locations = append(f.locations, appendedEntry{staffID, locationRef, at})
	return &models.LogEntry{ID: int64(len(f.locations)), StaffID: staffID, LoggedAt: at, LocationRef: &locationRef}, nil
}

type fakeSelfieStore struct {
	saved []string
	fail  bool
}

func (f *fakeSelfieStore) SaveSelfie(r io.Reader) (string, error) {
	if f.fail {
		return "", fmt.Errorf("disk full")
	}
	data, _ := io.ReadAll(r)
	ref := fmt.Sprintf("/uploads/selfie_%d.jpg", len(f.saved)+1)
	f.saved = append(f.saved, string(data))
	return ref, nil
}

type fakeGateway struct {
	sent  []string
	files map[string]string
}

func (f *fakeGateway) SendText(chatID int64, text string) error {
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeGateway) FetchFile(fileID string) (io.ReadCloser, error) {
	content, ok := f.files[fileID]
	if !ok {
		return nil, fmt.Errorf("unknown file %s", fileID)
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestReconciler(staff *fakeLinkStaffStore, log *fakeLogStore, blobs *fakeSelfieStore, gw *fakeGateway) *ReconcilerService {
	return &ReconcilerService{
		staff:       staff,
		log:         log,
		blobs:       blobs,
		gateway:     gw,
		phones:      validator.NewPhoneValidator(),
		mergeWindow: 5 * time.Minute,
		logger:      testLogger(),
		now:         time.Now,
	}
}

func TestHandleStart(t *testing.T) {
	gw := &fakeGateway{}
	svc := newTestReconciler(newFakeLinkStaffStore(), &fakeLogStore{}, &fakeSelfieStore{}, gw)

	require.NoError(t, svc.HandleStart(42))
	require.Len(t, gw.sent, 1)
	assert.Contains(t, gw.sent[0], "phone number")
}

func TestHandleLinkAttempt(t *testing.T) {
	t.Run("Known Phone Links Chat", func(t *testing.T) {
		staff := newFakeLinkStaffStore()
		member := &models.StaffMember{ID: uuid.New(), Name: "Anusha", Phone: "0771234567"}
		staff.byPhone["0771234567"] = member

		gw := &fakeGateway{}
		svc := newTestReconciler(staff, &fakeLogStore{}, &fakeSelfieStore{}, gw)

		require.NoError(t, svc.HandleLinkAttempt(42, "077-123 4567"))

		assert.Equal(t, int64(42), staff.linked[member.ID])
		require.Len(t, gw.sent, 1)
		assert.Contains(t, gw.sent[0], "Anusha")
	})

	t.Run("Unknown Phone Gets Denial", func(t *testing.T) {
		staff := newFakeLinkStaffStore()
		gw := &fakeGateway{}
		svc := newTestReconciler(staff, &fakeLogStore{}, &fakeSelfieStore{}, gw)

		require.NoError(t, svc.HandleLinkAttempt(42, "0000000000"))

		assert.Empty(t, staff.linked)
		require.Len(t, gw.sent, 1)
		assert.Contains(t, gw.sent[0], "not found")
	})
}

func TestHandlePhoto(t *testing.T) {
	t.Run("Photo Always Appends", func(t *testing.T) {
		staff := newFakeLinkStaffStore()
		member := &models.StaffMember{ID: uuid.New(), Name: "Anusha"}
		staff.byChat[42] = member

		log := &fakeLogStore{}
		blobs := &fakeSelfieStore{}
		gw := &fakeGateway{files: map[string]string{"file-1": "jpegbytes", "file-2": "jpegbytes"}}
		svc := newTestReconciler(staff, log, blobs, gw)

		require.NoError(t, svc.HandlePhoto(42, "file-1"))
		require.NoError(t, svc.HandlePhoto(42, "file-2"))

		// Two photos, two entries, no merge attempted.
		assert.Len(t, log.photos, 2)
		assert.Empty(t, log.mergeCalls)
		assert.Len(t, gw.sent, 2)
		assert.Contains(t, gw.sent[0], "Selfie")
	})

	t.Run("Unlinked Chat Is Silently Dropped", func(t *testing.T) {
		log := &fakeLogStore{}
		gw := &fakeGateway{files: map[string]string{"file-1": "jpegbytes"}}
		svc := newTestReconciler(newFakeLinkStaffStore(), log, &fakeSelfieStore{}, gw)

		require.NoError(t, svc.HandlePhoto(42, "file-1"))

		assert.Empty(t, log.photos)
		assert.Empty(t, gw.sent)
	})

	t.Run("Storage Failure Surfaces", func(t *testing.T) {
		staff := newFakeLinkStaffStore()
		staff.byChat[42] = &models.StaffMember{ID: uuid.New()}

		log := &fakeLogStore{}
		gw := &fakeGateway{files: map[string]string{"file-1": "jpegbytes"}}
		svc := newTestReconciler(staff, log, &fakeSelfieStore{fail: true}, gw)

		assert.Error(t, svc.HandlePhoto(42, "file-1"))
		assert.Empty(t, log.photos)
		assert.Empty(t, gw.sent)
	})
}

func TestHandleLocation(t *testing.T) {
	t.Run("Merges Into Recent Photo Entry", func(t *testing.T) {
		staff := newFakeLinkStaffStore()
		member := &models.StaffMember{ID: uuid.New()}
		staff.byChat[42] = member

		log := &fakeLogStore{mergeResult: true}
		gw := &fakeGateway{}
		svc := newTestReconciler(staff, log, &fakeSelfieStore{}, gw)

		require.NoError(t, svc.HandleLocation(42, 6.9271, 79.8612))

		require.Len(t, log.mergeCalls, 1)
		assert.Equal(t, "6.9271,79.8612", log.mergeCalls[0].ref)
		assert.Empty(t, log.locations)
		require.Len(t, gw.sent, 1)
		assert.Contains(t, gw.sent[0], "Attendance marked")
	})

	t.Run("Appends When Merge Declined", func(t *testing.T) {
		staff := newFakeLinkStaffStore()
		member := &models.StaffMember{ID: uuid.New()}
		staff.byChat[42] = member

		log := &fakeLogStore{mergeResult: false}
		gw := &fakeGateway{}
		svc := newTestReconciler(staff, log, &fakeSelfieStore{}, gw)

		require.NoError(t, svc.HandleLocation(42, 6.9271, 79.8612))

		require.Len(t, log.mergeCalls, 1)
		require.Len(t, log.locations, 1)
		assert.Equal(t, "6.9271,79.8612", log.locations[0].ref)
	})

	t.Run("Unlinked Chat Is Silently Dropped", func(t *testing.T) {
		log := &fakeLogStore{}
		gw := &fakeGateway{}
		svc := newTestReconciler(newFakeLinkStaffStore(), log, &fakeSelfieStore{}, gw)

		require.NoError(t, svc.HandleLocation(42, 6.9271, 79.8612))

		assert.Empty(t, log.mergeCalls)
		assert.Empty(t, log.locations)
		assert.Empty(t, gw.sent)
	})
}

func TestFormatLocation(t *testing.T) {
	assert.Equal(t, "6.9271,79.8612", FormatLocation(6.9271, 79.8612))
	assert.Equal(t, "0,0", FormatLocation(0, 0))
	assert.Equal(t, "-33.8688,151.2093", FormatLocation(-33.8688, 151.2093))
}
