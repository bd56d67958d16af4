package services

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/silvercase/attendance-backend/internal/models"
)

type documentStore interface {
	Insert(staffID uuid.UUID, name, blobRef string) (*models.Document, error)
	GetByID(staffID uuid.UUID, docID uuid.UUID) (*models.Document, error)
	ListByStaff(staffID uuid.UUID) ([]models.Document, error)
	Delete(staffID uuid.UUID, docID uuid.UUID) error
}

type documentStaffStore interface {
	GetByID(id uuid.UUID) (*models.StaffMember, error)
}

type documentBlobStore interface {
	SaveDocument(originalName string, r io.Reader) (string, error)
	Delete(ref string) error
}

// DocumentService manages per-staff document uploads (contracts, IDs,
// certificates).
type DocumentService struct {
	docs   documentStore
	staff  documentStaffStore
	blobs  documentBlobStore
	logger *logrus.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(docs documentStore, staff documentStaffStore, blobs documentBlobStore, logger *logrus.Logger) *DocumentService {
	return &DocumentService{
		docs:   docs,
		staff:  staff,
		blobs:  blobs,
		logger: logger,
	}
}

// Upload stores the file and records a document row against the staff member.
// The blob keeps the uploaded file name; the row carries the display name,
// which the owner may set independently of the file.
func (s *DocumentService) Upload(staffID uuid.UUID, name, fileName string, r io.Reader) (*models.Document, error) {
	if _, err := s.staff.GetByID(staffID); err != nil {
		return nil, err
	}

	ref, err := s.blobs.SaveDocument(fileName, r)
	if err != nil {
		return nil, err
	}

	doc, err := s.docs.Insert(staffID, name, ref)
	if err != nil {
		// The blob is now orphaned; the nightly sweep reclaims it.
		return nil, err
	}

	return doc, nil
}

// List returns a staff member's documents, oldest first.
func (s *DocumentService) List(staffID uuid.UUID) ([]models.Document, error) {
	if _, err := s.staff.GetByID(staffID); err != nil {
		return nil, err
	}
	return s.docs.ListByStaff(staffID)
}

// Delete removes the document row and its blob. A missing blob file is
// tolerated so a stale reference cannot wedge the delete.
func (s *DocumentService) Delete(staffID uuid.UUID, docID uuid.UUID) error {
	doc, err := s.docs.GetByID(staffID, docID)
	if err != nil {
		return err
	}

	if err := s.docs.Delete(staffID, docID); err != nil {
		return err
	}

	if err := s.blobs.Delete(doc.BlobRef); err != nil && !os.IsNotExist(err) {
		s.logger.WithError(err).Warnf("Failed to delete blob %s for document %s", doc.BlobRef, docID)
	}

	return nil
}
