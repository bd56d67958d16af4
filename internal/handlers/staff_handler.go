package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/silvercase/attendance-backend/internal/middleware"
	"github.com/silvercase/attendance-backend/internal/models"
	"github.com/silvercase/attendance-backend/internal/services"
	"github.com/silvercase/attendance-backend/internal/storage"
)

// StaffHandler handles staff directory HTTP requests
type StaffHandler struct {
	directory *services.DirectoryService
	documents *services.DocumentService
	audit     *services.AuditService
	blobs     *storage.FileStore
	logger    *logrus.Logger
}

// NewStaffHandler creates a new staff handler
func NewStaffHandler(directory *services.DirectoryService, documents *services.DocumentService, audit *services.AuditService, blobs *storage.FileStore, logger *logrus.Logger) *StaffHandler {
	return &StaffHandler{
		directory: directory,
		documents: documents,
		audit:     audit,
		blobs:     blobs,
		logger:    logger,
	}
}

// List returns all staff for the acting owner, newest first. A missing owner
// yields an empty list rather than an error.
func (h *StaffHandler) List(c *gin.Context) {
	ownerID := middleware.OwnerID(c)
	if ownerID == "" {
		c.JSON(http.StatusOK, []models.StaffMember{})
		return
	}

	members, err := h.directory.ListStaff(ownerID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list staff")
		respondError(c, err)
		return
	}

	for i := range members {
		docs, err := h.documents.List(members[i].ID)
		if err != nil {
			h.logger.WithError(err).Warnf("Failed to load documents for staff %s", members[i].ID)
			continue
		}
		members[i].Documents = docs
	}

	c.JSON(http.StatusOK, members)
}

// Create adds a staff member (idempotent on owner + phone). Accepts
// multipart form data with an optional profilePicture file. Replies 200
// whether the record was created or already existed; callers cannot tell the
// two apart, which is what makes retried submissions safe.
func (h *StaffHandler) Create(c *gin.Context) {
	var input models.AddStaffInput
	if err := c.ShouldBind(&input); err != nil {
		respondBadRequest(c, "ownerId, name and phone are required")
		return
	}

	if ownerID := middleware.OwnerID(c); ownerID != "" {
		input.OwnerID = ownerID
	}

	if file, err := c.FormFile("profilePicture"); err == nil {
		src, err := file.Open()
		if err != nil {
			respondBadRequest(c, "Unreadable profile picture")
			return
		}
		defer src.Close()

		ref, err := h.blobs.SaveDocument(file.Filename, src)
		if err != nil {
			h.logger.WithError(err).Error("Failed to store profile picture")
			respondError(c, err)
			return
		}
		input.ProfilePictureRef = &ref
	}

	member, err := h.directory.AddStaff(input)
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit.LogStaffCreated(requestMeta(c), member.ID.String(), member.Name)

	c.JSON(http.StatusOK, member)
}

// Get returns one staff member with their documents.
func (h *StaffHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid staff ID")
		return
	}

	member, err := h.directory.GetStaff(id)
	if err != nil {
		respondError(c, err)
		return
	}

	docs, err := h.documents.List(member.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	member.Documents = docs

	c.JSON(http.StatusOK, member)
}

// Update patches name, phone and daily rate.
func (h *StaffHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid staff ID")
		return
	}

	var input models.UpdateStaffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "name and phone are required")
		return
	}

	member, err := h.directory.UpdateStaff(id, input)
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit.LogStaffUpdated(requestMeta(c), member.ID.String())

	c.JSON(http.StatusOK, member)
}

// Delete removes a staff member along with their log entries and documents.
func (h *StaffHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid staff ID")
		return
	}

	if err := h.directory.RemoveStaff(id); err != nil {
		respondError(c, err)
		return
	}

	h.audit.LogStaffDeleted(requestMeta(c), id.String())

	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

func requestMeta(c *gin.Context) services.RequestMeta {
	return services.RequestMeta{
		OwnerID:   middleware.OwnerID(c),
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}
