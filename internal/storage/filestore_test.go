package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()

	store, err := NewFileStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	return store
}

func TestSaveSelfie(t *testing.T) {
	store := newTestStore(t)
	store.now = func() time.Time { return time.UnixMilli(1700000000000) }

	ref, err := store.SaveSelfie(strings.NewReader("jpegbytes"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/selfie_1700000000000.jpg", ref)

	data, err := os.ReadFile(filepath.Join(store.Dir(), "selfie_1700000000000.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpegbytes", string(data))
}

func TestSaveDocument(t *testing.T) {
	store := newTestStore(t)
	store.now = func() time.Time { return time.UnixMilli(1700000000000) }

	t.Run("Prefixes Timestamp", func(t *testing.T) {
		ref, err := store.SaveDocument("contract.pdf", strings.NewReader("pdfbytes"))
		require.NoError(t, err)
		assert.Equal(t, "/uploads/1700000000000-contract.pdf", ref)
	})

	t.Run("Strips Path Components", func(t *testing.T) {
		ref, err := store.SaveDocument("../../etc/passwd", strings.NewReader("x"))
		require.NoError(t, err)
		assert.Equal(t, "/uploads/1700000000000-passwd", ref)
	})

	t.Run("Empty Name Falls Back", func(t *testing.T) {
		ref, err := store.SaveDocument("", strings.NewReader("x"))
		require.NoError(t, err)
		assert.Equal(t, "/uploads/1700000000000-file", ref)
	})
}

func TestDeleteBlob(t *testing.T) {
	store := newTestStore(t)

	ref, err := store.SaveSelfie(strings.NewReader("jpegbytes"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ref))

	err = store.Delete(ref)
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteRejectsBadReference(t *testing.T) {
	store := newTestStore(t)

	assert.Error(t, store.Delete(""))
	assert.Error(t, store.Delete("/"))
}
