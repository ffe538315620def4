package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/PROGPA/gpacalculaters/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("GPA_TEST_DIR", "/srv/gpa")
	t.Setenv("GPA_TEST_HOME_DB", "~/grades/gpa.db")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "tilde only", in: "~", want: home},
		{name: "tilde prefix", in: "~/grades/gpa.db", want: filepath.Join(home, "grades/gpa.db")},
		{name: "env var", in: "$GPA_TEST_DIR/gpa.db", want: "/srv/gpa/gpa.db"},
		{name: "absolute", in: "/tmp/gpa.db", want: "/tmp/gpa.db"},
		{name: "env var holding tilde", in: "$GPA_TEST_HOME_DB", want: filepath.Join(home, "grades/gpa.db")},
		{name: "tilde user form untouched", in: "~alice/gpa.db", want: "~alice/gpa.db"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestDatabasePath(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("GPA_TEST_DIR", "/srv/gpa")

	viper.Set("database.path", ":memory:")
	assert.Equal(t, ":memory:", DatabasePath())

	viper.Set("database.path", "$GPA_TEST_DIR/./sessions.db")
	assert.Equal(t, "/srv/gpa/sessions.db", DatabasePath())
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/etc/xdg")

	dir, err := ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, "/etc/xdg/gpa", dir)

	token, err := TokenFile()
	require.NoError(t, err)
	assert.Equal(t, "/etc/xdg/gpa/sheets-token.json", token)

	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	dir, err = ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "gpa"), dir)
}

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultLogLevel, cfg.Logging.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Logging.Format)
	assert.Equal(t, DefaultServerAddress, cfg.Server.Address)
	assert.Equal(t, DefaultFinalTarget, cfg.Targets.FinalTarget)
	assert.Equal(t, DefaultFinalWeight, cfg.Targets.FinalWeight)
	assert.Equal(t, DefaultPlanTarget, cfg.Targets.PlanTarget)
	assert.Equal(t, DefaultFutureCredits, cfg.Targets.FutureCredits)
	assert.True(t, filepath.IsAbs(cfg.Database.Path))
	assert.Equal(t, "gpa.db", filepath.Base(cfg.Database.Path))
}

func TestLoad_Overrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("database.path", ":memory:")
	viper.Set("final.weight", 40)
	viper.Set("planning.future_credits", 12)
	viper.Set("server.address", "127.0.0.1:9000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, 40.0, cfg.Targets.FinalWeight)
	assert.Equal(t, 12.0, cfg.Targets.FutureCredits)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Address)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value any
	}{
		{"final.weight", 0},
		{"final.weight", 120},
		{"final.target", -1},
		{"planning.target", 5},
		{"planning.future_credits", 0},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)
			viper.Set(tt.key, tt.value)

			_, err := Load()
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}
}

func TestLoadSheetsConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	for _, k := range []string{
		"GOOGLE_SHEETS_CLIENT_ID", "GOOGLE_SHEETS_CLIENT_SECRET", "GOOGLE_SHEETS_REFRESH_TOKEN",
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "GOOGLE_SHEETS_SPREADSHEET_ID", "GOOGLE_SHEETS_SPREADSHEET_NAME",
	} {
		t.Setenv(k, "")
	}

	_, err := LoadSheetsConfig()
	require.Error(t, err, "no credentials configured")

	viper.Set("sheets.client_id", "id")
	viper.Set("sheets.client_secret", "secret")
	t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "refresh")
	t.Setenv("GOOGLE_SHEETS_SPREADSHEET_NAME", "Spring Grades")

	cfg, err := LoadSheetsConfig()
	require.NoError(t, err)
	assert.Equal(t, "id", cfg.ClientID)
	assert.Equal(t, "refresh", cfg.RefreshToken)
	assert.Equal(t, "Spring Grades", cfg.SpreadsheetName)
}
