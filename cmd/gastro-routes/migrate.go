package main

import (
	"fmt"
	"strings"

	"github.com/deppfellow/gastro-routes/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long: `Applies every pending migration and reports the schema version, the
columns of the activities table and how many activities exist.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, loggerService, err := bootstrap()
		if err != nil {
			return err
		}
		defer loggerService.Shutdown()

		result, err := database.Migrate(cmd.Context(), log, cfg)
		if err != nil {
			return err
		}

		printMigration(cmd, result)
		return nil
	},
}

func printMigration(cmd *cobra.Command, result *database.MigrationResult) {
	out := cmd.OutOrStdout()
	if result.From == result.To {
		fmt.Fprintf(out, "Schema up to date at version %d\n", result.To)
	} else {
		fmt.Fprintf(out, "Migrated schema from version %d to %d\n", result.From, result.To)
	}
	fmt.Fprintf(out, "Activity columns: %s\n", strings.Join(result.ActivityColumns, ", "))
	fmt.Fprintf(out, "Activities: %d\n", result.ActivityCount)
}
