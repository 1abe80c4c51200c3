package main

import (
	"bytes"
	"testing"

	"github.com/deppfellow/gastro-routes/internal/database"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootHelpListsCommands(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"--help"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())

	for _, name := range []string{"serve", "migrate"} {
		assert.Contains(t, buf.String(), name)
	}
}

func TestServeFlags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("skip-migrations")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

func TestMigrateRejectsArgs(t *testing.T) {
	assert.Error(t, migrateCmd.Args(migrateCmd, []string{"up"}))
}

func TestPrintMigration(t *testing.T) {
	tests := []struct {
		name   string
		result database.MigrationResult
		want   []string
	}{
		{
			name:   "applied",
			result: database.MigrationResult{From: 2, To: 4, ActivityColumns: []string{"id", "name", "is_active"}, ActivityCount: 12},
			want:   []string{"from version 2 to 4", "id, name, is_active", "Activities: 12"},
		},
		{
			name:   "up to date",
			result: database.MigrationResult{From: 4, To: 4},
			want:   []string{"up to date at version 4", "Activities: 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			cmd := &cobra.Command{}
			cmd.SetOut(buf)

			printMigration(cmd, &tt.result)

			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}
