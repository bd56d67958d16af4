package services

import (
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/silvercase/attendance-backend/internal/models"
	"github.com/silvercase/attendance-backend/pkg/validator"
)

// directoryStaffStore is the slice of the staff repository the directory needs.
type directoryStaffStore interface {
	CreateStaff(ownerID, name, phone string, dailyRate float64, profilePictureRef *string) (*models.StaffMember, error)
	GetByOwnerAndPhone(ownerID, phone string) (*models.StaffMember, error)
	GetByID(id uuid.UUID) (*models.StaffMember, error)
	ListByOwner(ownerID string) ([]models.StaffMember, error)
	UpdateStaff(id uuid.UUID, name, phone string, dailyRate float64) error
	Delete(id uuid.UUID) error
}

type directoryDocumentStore interface {
	ListByStaff(staffID uuid.UUID) ([]models.Document, error)
}

type directoryBlobStore interface {
	Delete(ref string) error
}

// DirectoryService manages the owner-facing staff directory.
type DirectoryService struct {
	staff  directoryStaffStore
	docs   directoryDocumentStore
	blobs  directoryBlobStore
	phones *validator.PhoneValidator
	logger *logrus.Logger
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(staff directoryStaffStore, docs directoryDocumentStore, blobs directoryBlobStore, phones *validator.PhoneValidator, logger *logrus.Logger) *DirectoryService {
	return &DirectoryService{
		staff:  staff,
		docs:   docs,
		blobs:  blobs,
		phones: phones,
		logger: logger,
	}
}

// AddStaff creates a staff member, idempotent on (ownerID, phone). When a
// record already exists for the pair it is returned unchanged.
func (s *DirectoryService) AddStaff(input models.AddStaffInput) (*models.StaffMember, error) {
	phone, err := s.phones.Normalize(input.Phone)
	if err != nil {
		return nil, err
	}

	if input.DailyRate < 0 {
		return nil, validator.ErrInvalidFormat
	}

	existing, err := s.staff.GetByOwnerAndPhone(input.OwnerID, phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	return s.staff.CreateStaff(input.OwnerID, input.Name, phone, input.DailyRate, input.ProfilePictureRef)
}

// UpdateStaff patches name, phone and daily rate.
func (s *DirectoryService) UpdateStaff(id uuid.UUID, input models.UpdateStaffInput) (*models.StaffMember, error) {
	phone, err := s.phones.Normalize(input.Phone)
	if err != nil {
		return nil, err
	}

	if input.DailyRate < 0 {
		return nil, validator.ErrInvalidFormat
	}

	if err := s.staff.UpdateStaff(id, input.Name, phone, input.DailyRate); err != nil {
		return nil, err
	}

	return s.staff.GetByID(id)
}

// GetStaff fetches a single staff member.
func (s *DirectoryService) GetStaff(id uuid.UUID) (*models.StaffMember, error) {
	return s.staff.GetByID(id)
}

// ListStaff returns all staff for an owner, newest first.
func (s *DirectoryService) ListStaff(ownerID string) ([]models.StaffMember, error) {
	return s.staff.ListByOwner(ownerID)
}

// RemoveStaff deletes a staff member. Document blobs are removed eagerly
// (missing files are tolerated); selfie blobs are left for the orphan sweep.
// Document rows and log entries go with the row via cascade.
func (s *DirectoryService) RemoveStaff(id uuid.UUID) error {
	docs, err := s.docs.ListByStaff(id)
	if err != nil {
		return err
	}

	for _, doc := range docs {
		if err := s.blobs.Delete(doc.BlobRef); err != nil && !os.IsNotExist(err) {
			s.logger.WithError(err).Warnf("Failed to delete blob %s for staff %s", doc.BlobRef, id)
		}
	}

	return s.staff.Delete(id)
}
