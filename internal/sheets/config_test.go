package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "no credentials",
			mutate:  func(_ *Config) {},
			wantErr: true,
		},
		{
			name: "service account only",
			mutate: func(c *Config) {
				c.ServiceAccountPath = "/etc/declutter/sa.json"
			},
			wantErr: false,
		},
		{
			name: "complete oauth credentials",
			mutate: func(c *Config) {
				c.ClientID = "id"
				c.ClientSecret = "secret"
				c.RefreshToken = "token"
			},
			wantErr: false,
		},
		{
			name: "partial oauth credentials",
			mutate: func(c *Config) {
				c.ClientID = "id"
				c.ClientSecret = "secret"
			},
			wantErr: true,
		},
		{
			name: "zero batch size",
			mutate: func(c *Config) {
				c.ServiceAccountPath = "/etc/declutter/sa.json"
				c.BatchSize = 0
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "env-id")
	t.Setenv("GOOGLE_SHEETS_SPREADSHEET_ID", "env-sheet")

	cfg := DefaultConfig()
	cfg.LoadFromEnv()

	assert.Equal(t, "env-id", cfg.ClientID)
	assert.Equal(t, "env-sheet", cfg.SpreadsheetID)
	assert.Equal(t, "Declutter Report", cfg.SpreadsheetName, "defaults survive when env is unset")
}
