package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/silvercase/attendance-backend/internal/services"
)

// DocumentHandler handles staff document HTTP requests
type DocumentHandler struct {
	documents *services.DocumentService
	audit     *services.AuditService
	logger    *logrus.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documents *services.DocumentService, audit *services.AuditService, logger *logrus.Logger) *DocumentHandler {
	return &DocumentHandler{
		documents: documents,
		audit:     audit,
		logger:    logger,
	}
}

// Upload attaches a document file to a staff member.
func (h *DocumentHandler) Upload(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid staff ID")
		return
	}

	file, err := c.FormFile("document")
	if err != nil {
		respondBadRequest(c, "A document file is required")
		return
	}

	// Optional display name; falls back to the uploaded file's name.
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		name = file.Filename
	}

	src, err := file.Open()
	if err != nil {
		respondBadRequest(c, "Unreadable document file")
		return
	}
	defer src.Close()

	doc, err := h.documents.Upload(id, name, file.Filename, src)
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit.LogDocumentUploaded(requestMeta(c), doc.ID.String(), doc.Name)

	c.JSON(http.StatusCreated, doc)
}

// Delete removes a document and its stored file.
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid staff ID")
		return
	}

	docID, err := uuid.Parse(c.Param("docId"))
	if err != nil {
		respondBadRequest(c, "Invalid document ID")
		return
	}

	if err := h.documents.Delete(id, docID); err != nil {
		respondError(c, err)
		return
	}

	h.audit.LogDocumentDeleted(requestMeta(c), docID.String())

	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}
