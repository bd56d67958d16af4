package services

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/silvercase/attendance-backend/internal/models"
	"github.com/silvercase/attendance-backend/pkg/telegram"
	"github.com/silvercase/attendance-backend/pkg/validator"
)

// Bot reply texts.
const (
	replyGreeting = "Welcome to Silver Case! 🏥\nPlease reply with your phone number so I can link you to your agency."
	replyLinked   = "✅ Profile linked! Hi %s.\n\nWhen you reach work, send me a selfie and your location."
	replyNotFound = "❌ Phone number not found. Ask your admin to add you first."
	replySelfie   = "📸 Selfie received!"
	replyLocation = "📍 Location received! Attendance marked. ✅"
)

// linkStaffStore is the slice of the staff repository the reconciler needs.
type linkStaffStore interface {
	GetByChatLink(chatID int64) (*models.StaffMember, error)
	GetByPhone(phone string) (*models.StaffMember, error)
	SetChatLink(id uuid.UUID, chatID int64) error
}

// attendanceLogStore appends and merges log entries.
type attendanceLogStore interface {
	AppendPhoto(staffID uuid.UUID, photoRef string, at time.Time) (*models.LogEntry, error)
	FillLocationWithinWindow(staffID uuid.UUID, locationRef string, at time.Time, window time.Duration) (bool, error)
	AppendLocation(staffID uuid.UUID, locationRef string, at time.Time) (*models.LogEntry, error)
}

// selfieStore persists check-in photos.
type selfieStore interface {
	SaveSelfie(r io.Reader) (string, error)
}

// ReconcilerService merges asynchronous photo and location events from the
// bot into daily attendance log entries.
//
// A photo always appends a new entry. A location folds into the newest entry
// when that entry has no location yet and is younger than the merge window;
// otherwise it appends its own entry. The merge never looks past the newest
// entry and never runs in the photo direction.
type ReconcilerService struct {
	staff       linkStaffStore
	log         attendanceLogStore
	blobs       selfieStore
	gateway     telegram.Gateway
	phones      *validator.PhoneValidator
	mergeWindow time.Duration
	logger      *logrus.Logger
	now         func() time.Time
}

// NewReconcilerService creates a new reconciler service
func NewReconcilerService(staff linkStaffStore, log attendanceLogStore, blobs selfieStore, gateway telegram.Gateway, phones *validator.PhoneValidator, mergeWindow time.Duration, logger *logrus.Logger) *ReconcilerService {
	return &ReconcilerService{
		staff:       staff,
		log:         log,
		blobs:       blobs,
		gateway:     gateway,
		phones:      phones,
		mergeWindow: mergeWindow,
		logger:      logger,
		now:         time.Now,
	}
}

// HandleStart greets a chat and asks for the phone handshake.
func (s *ReconcilerService) HandleStart(chatID int64) error {
	return s.gateway.SendText(chatID, replyGreeting)
}

// HandleLinkAttempt processes a numeric text message as a phone handshake.
// The lookup is unscoped by owner: any owner's staff can link from any chat.
// An unknown phone gets a denial reply and the chat stays unlinked.
func (s *ReconcilerService) HandleLinkAttempt(chatID int64, code string) error {
	phone := s.phones.Sanitize(code)

	staff, err := s.staff.GetByPhone(phone)
	if err != nil {
		return err
	}

	if staff == nil {
		return s.gateway.SendText(chatID, replyNotFound)
	}

	if err := s.staff.SetChatLink(staff.ID, chatID); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"staff_id": staff.ID,
		"chat_id":  chatID,
	}).Info("Staff member linked to chat")

	return s.gateway.SendText(chatID, fmt.Sprintf(replyLinked, staff.Name))
}

// HandlePhoto ingests a selfie. Events from unlinked chats are dropped
// silently; unsolicited bot traffic is expected and is not an error.
func (s *ReconcilerService) HandlePhoto(chatID int64, fileID string) error {
	staff, err := s.staff.GetByChatLink(chatID)
	if err != nil {
		return err
	}
	if staff == nil {
		return nil
	}

	body, err := s.gateway.FetchFile(fileID)
	if err != nil {
		return err
	}
	defer body.Close()

	ref, err := s.blobs.SaveSelfie(body)
	if err != nil {
		return err
	}

	// Photos never merge: each selfie starts a fresh entry.
	if _, err := s.log.AppendPhoto(staff.ID, ref, s.now()); err != nil {
		return err
	}

	return s.gateway.SendText(chatID, replySelfie)
}

// HandleLocation ingests a location share, folding it into the newest
// photo-only entry inside the merge window, or appending a standalone entry
// otherwise (including when the log is empty).
func (s *ReconcilerService) HandleLocation(chatID int64, latitude, longitude float64) error {
	staff, err := s.staff.GetByChatLink(chatID)
	if err != nil {
		return err
	}
	if staff == nil {
		return nil
	}

	loc := FormatLocation(latitude, longitude)

	merged, err := s.log.FillLocationWithinWindow(staff.ID, loc, s.now(), s.mergeWindow)
	if err != nil {
		return err
	}

	if !merged {
		if _, err := s.log.AppendLocation(staff.ID, loc, s.now()); err != nil {
			return err
		}
	}

	return s.gateway.SendText(chatID, replyLocation)
}

// FormatLocation renders coordinates as the "lat,lng" reference stored on
// log entries.
func FormatLocation(latitude, longitude float64) string {
	return strconv.FormatFloat(latitude, 'f', -1, 64) + "," + strconv.FormatFloat(longitude, 'f', -1, 64)
}
