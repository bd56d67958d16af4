package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/silvercase/attendance-backend/internal/models"
)

// ErrDocumentNotFound indicates the document does not exist for the staff member.
var ErrDocumentNotFound = fmt.Errorf("document not found")

// DocumentRepository handles document database operations
type DocumentRepository struct {
	db DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db DB) *DocumentRepository {
	return &DocumentRepository{
		db: db,
	}
}

// Insert appends a document record for a staff member.
func (r *DocumentRepository) Insert(staffID uuid.UUID, name, blobRef string) (*models.Document, error) {
	doc := &models.Document{
		ID:         uuid.New(),
		StaffID:    staffID,
		Name:       name,
		BlobRef:    blobRef,
		UploadedAt: time.Now(),
	}

	query := `
		INSERT INTO documents (id, staff_id, name, blob_ref, uploaded_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(query, doc.ID, doc.StaffID, doc.Name, doc.BlobRef, doc.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert document: %w", err)
	}

	return doc, nil
}

// GetByID retrieves a document scoped to its staff member.
func (r *DocumentRepository) GetByID(staffID, docID uuid.UUID) (*models.Document, error) {
	var doc models.Document

	query := `
		SELECT id, staff_id, name, blob_ref, uploaded_at
		FROM documents
		WHERE id = $1 AND staff_id = $2
	`

	err := r.db.Get(&doc, query, docID, staffID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return &doc, nil
}

// ListByStaff returns all documents for a staff member in upload order.
func (r *DocumentRepository) ListByStaff(staffID uuid.UUID) ([]models.Document, error) {
	docs := []models.Document{}

	query := `
		SELECT id, staff_id, name, blob_ref, uploaded_at
		FROM documents
		WHERE staff_id = $1
		ORDER BY uploaded_at ASC, id ASC
	`

	err := r.db.Select(&docs, query, staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	return docs, nil
}

// Delete removes a document row.
func (r *DocumentRepository) Delete(staffID, docID uuid.UUID) error {
	query := `DELETE FROM documents WHERE id = $1 AND staff_id = $2`

	result, err := r.db.Exec(query, docID, staffID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrDocumentNotFound
	}

	return nil
}
