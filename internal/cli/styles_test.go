package cli

import (
	"strings"
	"testing"
)

func TestFormatHelpers(t *testing.T) {
	tests := []struct {
		format func(string) string
		name   string
		icon   string
	}{
		{FormatSuccess, "success", SuccessIcon},
		{FormatError, "error", ErrorIcon},
		{FormatWarning, "warning", WarningIcon},
		{FormatTitle, "title", FolderIcon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.format("database is unreadable")
			if !strings.Contains(out, "database is unreadable") {
				t.Errorf("formatted output %q lost the message", out)
			}
			if !strings.Contains(out, tt.icon) {
				t.Errorf("formatted output %q lost the icon", out)
			}
		})
	}
}
