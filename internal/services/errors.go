package services

import (
	"github.com/silvercase/attendance-backend/internal/database"
)

// Re-exported so handlers can map repository misses to HTTP statuses without
// importing the database package directly.
var (
	ErrStaffNotFound    = database.ErrStaffNotFound
	ErrDocumentNotFound = database.ErrDocumentNotFound
)
