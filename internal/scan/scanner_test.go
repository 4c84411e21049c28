package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quietfile/declutter/internal/model"
)

func TestScan(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Report.PDF"), []byte("content"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "photo.jpg"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "subdir"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "subdir", "nested.txt"), []byte("x"), 0644))

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 3, "dotfiles and directories are skipped, nesting is not descended")

	byName := make(map[string]model.File)
	for _, f := range files {
		byName[f.Name] = f
	}

	pdf, ok := byName["Report.PDF"]
	require.True(t, ok)
	assert.Equal(t, "pdf", pdf.Extension, "extensions are lowercased")
	assert.Equal(t, int64(7), pdf.SizeBytes)
	assert.Equal(t, model.StatusPending, pdf.Status)
	assert.Nil(t, pdf.Destination)
	assert.False(t, pdf.ModifiedAt.IsZero())
	assert.Equal(t, pdf.ModifiedAt, pdf.CreatedAt)

	noExt, ok := byName["README"]
	require.True(t, ok)
	assert.Empty(t, noExt.Extension)
}

func TestScan_MissingDirectory(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}

func TestLocationKindForPath(t *testing.T) {
	tests := []struct {
		path string
		want model.LocationKind
	}{
		{"/home/u/Downloads/file.pdf", model.LocationDownloads},
		{"/home/u/Desktop/file.pdf", model.LocationDesktop},
		{"/home/u/Documents/taxes/file.pdf", model.LocationDocuments},
		{"/Volumes/USB/file.pdf", model.LocationExternal},
		{"/media/usb/file.pdf", model.LocationExternal},
		{"/mnt/backup/file.pdf", model.LocationExternal},
		{"/home/u/projects/file.pdf", model.LocationOther},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LocationKindForPath(tt.path), "path %s", tt.path)
	}
}
