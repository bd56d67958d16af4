package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/silvercase/attendance-backend/internal/models"
)

// ErrStaffNotFound indicates the staff member does not exist.
var ErrStaffNotFound = fmt.Errorf("staff member not found")

const staffColumns = `id, owner_id, name, phone, daily_rate, profile_picture_ref,
	       chat_link_id, linked_at, created_at, updated_at`

// StaffRepository handles staff member database operations
type StaffRepository struct {
	db DB
}

// NewStaffRepository creates a new staff repository
func NewStaffRepository(db DB) *StaffRepository {
	return &StaffRepository{
		db: db,
	}
}

// CreateStaff inserts a new staff member. Phone must already be normalized.
func (r *StaffRepository) CreateStaff(ownerID, name, phone string, dailyRate float64, profilePictureRef *string) (*models.StaffMember, error) {
	staff := &models.StaffMember{
		ID:                uuid.New(),
		OwnerID:           ownerID,
		Name:              name,
		Phone:             phone,
		DailyRate:         dailyRate,
		ProfilePictureRef: profilePictureRef,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}

	query := `
		INSERT INTO staff_members (
			id, owner_id, name, phone, daily_rate,
			profile_picture_ref, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(
		query,
		staff.ID,
		staff.OwnerID,
		staff.Name,
		staff.Phone,
		staff.DailyRate,
		staff.ProfilePictureRef,
		staff.CreatedAt,
		staff.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create staff member: %w", err)
	}

	return staff, nil
}

// GetByOwnerAndPhone retrieves a staff member by the (owner, phone) pair.
// Returns nil without error when no record exists.
func (r *StaffRepository) GetByOwnerAndPhone(ownerID, phone string) (*models.StaffMember, error) {
	var staff models.StaffMember

	query := `
		SELECT ` + staffColumns + `
		FROM staff_members
		WHERE owner_id = $1 AND phone = $2
	`

	err := r.db.Get(&staff, query, ownerID, phone)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get staff by owner and phone: %w", err)
	}

	return &staff, nil
}

// GetByID retrieves a staff member by ID.
func (r *StaffRepository) GetByID(id uuid.UUID) (*models.StaffMember, error) {
	var staff models.StaffMember

	query := `
		SELECT ` + staffColumns + `
		FROM staff_members
		WHERE id = $1
	`

	err := r.db.Get(&staff, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStaffNotFound
		}
		return nil, fmt.Errorf("failed to get staff by ID: %w", err)
	}

	return &staff, nil
}

// GetByPhone retrieves a staff member by normalized phone, unscoped by owner.
// The chat-link handshake resolves phones across all owners. Returns nil
// without error when no record exists.
func (r *StaffRepository) GetByPhone(phone string) (*models.StaffMember, error) {
	var staff models.StaffMember

	query := `
		SELECT ` + staffColumns + `
		FROM staff_members
		WHERE phone = $1
		ORDER BY created_at ASC
		LIMIT 1
	`

	err := r.db.Get(&staff, query, phone)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get staff by phone: %w", err)
	}

	return &staff, nil
}

// GetByChatLink resolves a chat identifier to a staff member. When a phone
// has been reused across records the most recently linked one wins. Returns
// nil without error when the chat is unlinked.
func (r *StaffRepository) GetByChatLink(chatID int64) (*models.StaffMember, error) {
	var staff models.StaffMember

	query := `
		SELECT ` + staffColumns + `
		FROM staff_members
		WHERE chat_link_id = $1
		ORDER BY linked_at DESC
		LIMIT 1
	`

	err := r.db.Get(&staff, query, chatID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get staff by chat link: %w", err)
	}

	return &staff, nil
}

// SetChatLink records the chat identifier for a staff member after a
// successful phone handshake.
func (r *StaffRepository) SetChatLink(id uuid.UUID, chatID int64) error {
	query := `
		UPDATE staff_members
		SET chat_link_id = $1,
		    linked_at = $2,
		    updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.Exec(query, chatID, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set chat link: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrStaffNotFound
	}

	return nil
}

// ListByOwner retrieves all staff for an owner, newest first.
func (r *StaffRepository) ListByOwner(ownerID string) ([]models.StaffMember, error) {
	staff := []models.StaffMember{}

	query := `
		SELECT ` + staffColumns + `
		FROM staff_members
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	err := r.db.Select(&staff, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}

	return staff, nil
}

// UpdateStaff patches name, phone and daily rate only. Link state and the
// attendance log are never modified through this path.
func (r *StaffRepository) UpdateStaff(id uuid.UUID, name, phone string, dailyRate float64) error {
	query := `
		UPDATE staff_members
		SET name = $1,
		    phone = $2,
		    daily_rate = $3,
		    updated_at = $4
		WHERE id = $5
	`

	result, err := r.db.Exec(query, name, phone, dailyRate, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update staff member: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrStaffNotFound
	}

	return nil
}

// Delete removes a staff member by ID. Log entries and document rows are
// removed by the schema's cascade rules.
func (r *StaffRepository) Delete(id uuid.UUID) error {
	query := `DELETE FROM staff_members WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete staff member: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrStaffNotFound
	}

	return nil
}
