// Package config loads the application's settings and resolves the paths it
// reads and writes.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// AppName names the per-user configuration directory.
const AppName = "gpa"

// ExpandPath expands $VARS and then a leading ~, so a variable may itself hold
// a home-relative path. Other paths are returned unchanged.
func ExpandPath(path string) string {
	path = os.ExpandEnv(path)
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// DatabasePath returns the session database location from database.path.
// ":memory:" is passed through untouched.
func DatabasePath() string {
	path := viper.GetString("database.path")
	switch path {
	case "":
		path = DefaultDatabasePath
	case ":memory:":
		return path
	}
	return filepath.Clean(ExpandPath(path))
}

// ConfigDir returns $XDG_CONFIG_HOME/gpa, falling back to ~/.config/gpa.
func ConfigDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// TokenFile returns where the Google Sheets OAuth2 token is cached.
func TokenFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sheets-token.json"), nil
}
