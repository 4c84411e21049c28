// Package scan walks directories and produces File records for
// classification. It fills in metadata only; decision fields stay empty.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quietfile/declutter/internal/model"
)

// Scan reads the immediate entries of dir and builds a File record per
// regular file. Subdirectories are not descended into: organization operates
// on the files sitting loose in a folder, not on its structure.
func Scan(dir string) ([]model.File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []model.File
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Entry vanished between ReadDir and stat; skip it.
			continue
		}

		path := filepath.Join(dir, entry.Name())
		modTime := info.ModTime()
		files = append(files, model.File{
			Name:      entry.Name(),
			Path:      path,
			Extension: extensionOf(entry.Name()),
			// Creation and access times are not portable across
			// filesystems; the modification time stands in for both.
			CreatedAt:      modTime,
			ModifiedAt:     modTime,
			AccessedAt:     modTime,
			SizeBytes:      info.Size(),
			SourceLocation: LocationKindForPath(path),
			Status:         model.StatusPending,
		})
	}
	return files, nil
}

func extensionOf(name string) string {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	return strings.ToLower(ext)
}

// LocationKindForPath infers where a file lives from its path components.
func LocationKindForPath(path string) model.LocationKind {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		switch strings.ToLower(part) {
		case "downloads":
			return model.LocationDownloads
		case "desktop":
			return model.LocationDesktop
		case "documents":
			return model.LocationDocuments
		}
	}
	slashed := filepath.ToSlash(path)
	for _, prefix := range []string{"/volumes/", "/media/", "/mnt/"} {
		if strings.HasPrefix(strings.ToLower(slashed), prefix) {
			return model.LocationExternal
		}
	}
	return model.LocationOther
}
