package services

import (
	"encoding/json"

	"github.com/sirupsen/logrus"
	"github.com/silvercase/attendance-backend/internal/database"
	"github.com/silvercase/attendance-backend/internal/utils"
)

// AuditService records owner actions against the directory. Audit writes are
// best-effort: a failed insert is logged and never fails the request. The
// whole trail can be switched off via ENABLE_AUDIT_LOGGING.
type AuditService struct {
	db      database.DB
	enabled bool
	logger  *logrus.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(db database.DB, enabled bool, logger *logrus.Logger) *AuditService {
	return &AuditService{
		db:      db,
		enabled: enabled,
		logger:  logger,
	}
}

// RequestMeta carries the request context recorded with every audit event.
type RequestMeta struct {
	OwnerID   string
	IPAddress string
	UserAgent string
}

// LogStaffCreated records a staff creation.
func (s *AuditService) LogStaffCreated(meta RequestMeta, staffID string, name string) {
	s.logEvent(meta, "create", "staff", staffID, map[string]interface{}{"name": name})
}

// LogStaffUpdated records a staff update.
func (s *AuditService) LogStaffUpdated(meta RequestMeta, staffID string) {
	s.logEvent(meta, "update", "staff", staffID, nil)
}

// LogStaffDeleted records a staff deletion.
func (s *AuditService) LogStaffDeleted(meta RequestMeta, staffID string) {
	s.logEvent(meta, "delete", "staff", staffID, nil)
}

// LogDocumentUploaded records a document upload.
func (s *AuditService) LogDocumentUploaded(meta RequestMeta, docID string, fileName string) {
	s.logEvent(meta, "upload", "document", docID, map[string]interface{}{"file_name": fileName})
}

// LogDocumentDeleted records a document deletion.
func (s *AuditService) LogDocumentDeleted(meta RequestMeta, docID string) {
	s.logEvent(meta, "delete", "document", docID, nil)
}

func (s *AuditService) logEvent(meta RequestMeta, action, entityType, entityID string, extra map[string]interface{}) {
	if !s.enabled {
		return
	}

	details := map[string]interface{}{
		"device": utils.ParseUserAgent(meta.UserAgent),
	}
	for k, v := range extra {
		details[k] = v
	}

	detailsJSON, err := json.Marshal(details)
	if err != nil {
		s.logger.WithError(err).Error("Failed to marshal audit details")
		detailsJSON = []byte("{}")
	}

	query := `
		INSERT INTO audit_logs (owner_id, action, entity_type, entity_id, ip_address, user_agent, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if _, err := s.db.Exec(query, meta.OwnerID, action, entityType, entityID, meta.IPAddress, meta.UserAgent, detailsJSON); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"action":      action,
			"entity_type": entityType,
			"entity_id":   entityID,
		}).Error("Failed to write audit log")
	}
}
