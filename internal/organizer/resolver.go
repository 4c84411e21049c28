// Package organizer carries out ready classifications on disk and records
// each action in the activity log.
package organizer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/quietfile/declutter/internal/config"
)

// FolderResolver resolves destination display paths against the local
// filesystem. The returned token is the absolute directory path. Relative
// display paths resolve under BaseDir; when Create is set, missing
// directories are created on demand.
type FolderResolver struct {
	BaseDir string
	Create  bool
}

// Resolve implements engine.DestinationResolver.
func (r FolderResolver) Resolve(displayPath string) (string, error) {
	expanded := config.ExpandPath(displayPath)
	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(r.BaseDir, expanded)
	}

	if r.Create {
		if err := os.MkdirAll(expanded, 0750); err != nil {
			return "", fmt.Errorf("failed to create destination %s: %w", displayPath, err)
		}
		return expanded, nil
	}

	info, err := os.Stat(expanded)
	if err != nil {
		return "", fmt.Errorf("destination %s not accessible: %w", displayPath, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("destination %s is not a directory", displayPath)
	}
	return expanded, nil
}
