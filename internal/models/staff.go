package models

import (
	"time"

	"github.com/google/uuid"
)

// StaffMember represents a tracked worker (a nurse) managed by an agency owner.
// Phone is stored digits-only; it is the join key for chat linking.
type StaffMember struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	OwnerID           string     `json:"owner_id" db:"owner_id"`
	Name              string     `json:"name" db:"name"`
	Phone             string     `json:"phone" db:"phone"`
	DailyRate         float64    `json:"daily_rate" db:"daily_rate"`
	ProfilePictureRef *string    `json:"profile_picture_ref,omitempty" db:"profile_picture_ref"`
	ChatLinkID        *int64     `json:"chat_link_id,omitempty" db:"chat_link_id"`
	LinkedAt          *time.Time `json:"linked_at,omitempty" db:"linked_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`

	// Populated on demand by handlers, not stored on the row itself.
	Documents []Document `json:"documents,omitempty" db:"-"`
}

// Linked reports whether the staff member has completed the phone handshake.
func (s *StaffMember) Linked() bool {
	return s.ChatLinkID != nil
}

// Document is an owner-managed named file attached to a staff member.
type Document struct {
	ID         uuid.UUID `json:"id" db:"id"`
	StaffID    uuid.UUID `json:"staff_id" db:"staff_id"`
	Name       string    `json:"name" db:"name"`
	BlobRef    string    `json:"blob_ref" db:"blob_ref"`
	UploadedAt time.Time `json:"uploaded_at" db:"uploaded_at"`
}

// AddStaffInput represents input for creating a staff member.
type AddStaffInput struct {
	OwnerID   string  `json:"ownerId" form:"ownerId" binding:"required"`
	Name      string  `json:"name" form:"name" binding:"required"`
	Phone     string  `json:"phone" form:"phone" binding:"required"`
	DailyRate float64 `json:"dailyRate" form:"dailyRate"`

	// Set by the handler after storing the uploaded picture, if any.
	ProfilePictureRef *string `json:"-" form:"-"`
}

// UpdateStaffInput represents input for patching a staff member.
// Link state and the attendance log are never touched through this path.
type UpdateStaffInput struct {
	Name      string  `json:"name" binding:"required"`
	Phone     string  `json:"phone" binding:"required"`
	DailyRate float64 `json:"dailyRate"`
}
