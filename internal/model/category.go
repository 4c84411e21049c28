package model

import (
	"path/filepath"
	"strings"
	"time"
)

// CategoryScope restricts the folders a category's rules evaluate against.
// A zero Folders list means the category is globally scoped.
type CategoryScope struct {
	Folders []string `json:"folders,omitempty"`
}

// IsGlobal reports whether the scope covers every location.
func (s CategoryScope) IsGlobal() bool {
	return len(s.Folders) == 0
}

// Contains reports whether the given file path falls under one of the
// scope's folders. Global scopes contain everything.
func (s CategoryScope) Contains(path string) bool {
	if s.IsGlobal() {
		return true
	}
	cleaned := filepath.Clean(path)
	for _, folder := range s.Folders {
		prefix := filepath.Clean(folder)
		if cleaned == prefix || strings.HasPrefix(cleaned, prefix+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Category groups rules and optionally restricts them to specific source
// folders. A disabled category makes every rule referencing it non-matching
// until re-enabled.
type Category struct {
	CreatedAt time.Time     `json:"created_at"`
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Scope     CategoryScope `json:"scope"`
	IsEnabled bool          `json:"is_enabled"`
}
