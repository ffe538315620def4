package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs cmd with args and stdin, returning everything it printed.
func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// useTempDB points the database configuration at a fresh file.
func useTempDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gpa.db")
	viper.Set("database.path", path)
	t.Cleanup(viper.Reset)
	return path
}

func TestRootCommands(t *testing.T) {
	want := []string{
		"calc", "target", "convert", "scale", "session", "import",
		"export", "serve", "tui", "migrate", "version",
	}
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range want {
		assert.True(t, names[name], "missing command %q", name)
	}
}

func TestSubcommands(t *testing.T) {
	tests := []struct {
		name string
		cmd  *cobra.Command
		want []string
	}{
		{name: "target", cmd: targetCmd(), want: []string{"final", "gpa"}},
		{name: "session", cmd: sessionCmd(), want: []string{
			"new", "list", "show", "delete", "add-entry", "update-entry",
			"remove-entry", "add-group", "remove-group", "prior",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, c := range tt.cmd.Commands() {
				got = append(got, c.Name())
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, versionCmd(), "")
	require.NoError(t, err)
	assert.Equal(t, "gpa version dev\n", out)
}

func TestMigrateCommand(t *testing.T) {
	useTempDB(t)

	out, err := execute(t, migrateCmd(), "", "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "Current version: 0")

	out, err = execute(t, migrateCmd(), "")
	require.NoError(t, err)
	assert.Contains(t, out, "migrated from version 0 to 2")

	out, err = execute(t, migrateCmd(), "")
	require.NoError(t, err)
	assert.Contains(t, out, "already at version 2")

	out, err = execute(t, migrateCmd(), "", "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "Current version: 2")
	assert.Contains(t, out, "Sessions: 0")
}
