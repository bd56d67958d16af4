package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// migrationStatements are executed in order at startup. Every statement is
// idempotent so restarts are safe.
var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS staff_members (
		id UUID PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		phone TEXT NOT NULL,
		daily_rate NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (daily_rate >= 0),
		profile_picture_ref TEXT,
		chat_link_id BIGINT,
		linked_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_staff_members_owner_phone
		ON staff_members (owner_id, phone)`,
	`CREATE INDEX IF NOT EXISTS idx_staff_members_phone
		ON staff_members (phone)`,
	`CREATE INDEX IF NOT EXISTS idx_staff_members_chat_link
		ON staff_members (chat_link_id)`,

	`CREATE TABLE IF NOT EXISTS attendance_logs (
		id BIGSERIAL PRIMARY KEY,
		staff_id UUID NOT NULL REFERENCES staff_members(id) ON DELETE CASCADE,
		logged_at TIMESTAMPTZ NOT NULL,
		photo_ref TEXT,
		location_ref TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attendance_logs_staff_time
		ON attendance_logs (staff_id, logged_at DESC)`,

	`CREATE TABLE IF NOT EXISTS documents (
		id UUID PRIMARY KEY,
		staff_id UUID NOT NULL REFERENCES staff_members(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		blob_ref TEXT NOT NULL,
		uploaded_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_staff
		ON documents (staff_id)`,

	`CREATE TABLE IF NOT EXISTS audit_logs (
		id BIGSERIAL PRIMARY KEY,
		owner_id TEXT,
		action TEXT NOT NULL,
		entity_type TEXT NOT NULL,
		entity_id TEXT,
		ip_address TEXT,
		user_agent TEXT,
		details JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_logs_owner
		ON audit_logs (owner_id, created_at DESC)`,
}

// RunMigrations applies the schema at startup.
func RunMigrations(db DB, logger *logrus.Logger) error {
	for i, stmt := range migrationStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration statement %d failed: %w", i+1, err)
		}
	}
	logger.Infof("Applied %d migration statements", len(migrationStatements))
	return nil
}
