package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// FileStore writes selfies and documents to a local uploads directory and
// hands back URL-style references under a public prefix. Collision avoidance
// relies on millisecond timestamps in the file name, not content hashing.
type FileStore struct {
	dir          string
	publicPrefix string
	now          func() time.Time
}

// NewFileStore creates the uploads directory if missing.
func NewFileStore(dir, publicPrefix string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &FileStore{
		dir:          dir,
		publicPrefix: strings.TrimRight(publicPrefix, "/"),
		now:          time.Now,
	}, nil
}

// Dir returns the backing directory, for static serving and the orphan sweep.
func (s *FileStore) Dir() string {
	return s.dir
}

// SaveSelfie stores a check-in photo as selfie_{timestamp}.jpg and returns
// its public reference.
func (s *FileStore) SaveSelfie(r io.Reader) (string, error) {
	name := fmt.Sprintf("selfie_%d.jpg", s.now().UnixMilli())
	return s.save(name, r)
}

// SaveDocument stores a named upload as {timestamp}-{originalName} and
// returns its public reference.
func (s *FileStore) SaveDocument(originalName string, r io.Reader) (string, error) {
	name := fmt.Sprintf("%d-%s", s.now().UnixMilli(), sanitizeName(originalName))
	return s.save(name, r)
}

func (s *FileStore) save(name string, r io.Reader) (string, error) {
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create blob %s: %w", name, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write blob %s: %w", name, err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close blob %s: %w", name, err)
	}

	return s.publicPrefix + "/" + name, nil
}

// Delete removes the blob behind a reference. Returns an error satisfying
// os.IsNotExist when the file is already gone; callers decide whether that
// is tolerable.
func (s *FileStore) Delete(ref string) error {
	name := path.Base(ref)
	if name == "." || name == "/" || name == "" {
		return fmt.Errorf("invalid blob reference %q", ref)
	}
	return os.Remove(filepath.Join(s.dir, name))
}

// sanitizeName strips any path components from a client-supplied file name.
func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	return name
}
