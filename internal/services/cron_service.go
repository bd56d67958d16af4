package services

import (
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/silvercase/attendance-backend/internal/database"
)

// orphanMinAge keeps the sweep from racing an in-flight upload whose row has
// not committed yet.
const orphanMinAge = 24 * time.Hour

// CronService runs the nightly orphan-blob sweep: files in the uploads
// directory that no database row references anymore are removed.
type CronService struct {
	cron      *cron.Cron
	db        database.DB
	uploadDir string
	logger    *logrus.Logger
}

// NewCronService creates a new cron service
func NewCronService(db database.DB, uploadDir string, logger *logrus.Logger) *CronService {
	return &CronService{
		cron:      cron.New(),
		db:        db,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

// Start schedules the sweep and starts the scheduler.
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc("0 3 * * *", func() {
		if err := s.SweepOrphanBlobs(); err != nil {
			s.logger.WithError(err).Error("Orphan blob sweep failed")
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("Cron scheduler started")
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron scheduler stopped")
}

// SweepOrphanBlobs removes upload files older than 24h that are not
// referenced by any attendance entry, document, or profile picture.
func (s *CronService) SweepOrphanBlobs() error {
	referenced, err := s.referencedBlobs()
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(s.uploadDir)
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-orphanMinAge)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := referenced[entry.Name()]; ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		if err := os.Remove(filepath.Join(s.uploadDir, entry.Name())); err != nil {
			s.logger.WithError(err).Warnf("Failed to remove orphan blob %s", entry.Name())
			continue
		}
		removed++
	}

	s.logger.WithFields(logrus.Fields{
		"scanned": len(entries),
		"removed": removed,
	}).Info("Orphan blob sweep completed")

	return nil
}

// referencedBlobs returns the set of upload file names still referenced by
// the database, keyed by base name.
func (s *CronService) referencedBlobs() (map[string]struct{}, error) {
	refs := []string{}

	query := `
		SELECT photo_ref FROM attendance_logs WHERE photo_ref IS NOT NULL
		UNION
		SELECT blob_ref FROM documents
		UNION
		SELECT profile_picture_ref FROM staff_members WHERE profile_picture_ref IS NOT NULL
	`

	if err := s.db.Select(&refs, query); err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		set[path.Base(ref)] = struct{}{}
	}
	return set, nil
}
