package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gastro-routes",
	Short: "Gastronomic tour booking backend for Querétaro",
	Long: `Serves the users, activities and appointments API together with the
server rendered pages, backed by PostgreSQL.

Configuration is read from GASTRO_ prefixed environment variables, and a
.env file in the working directory is loaded first when present.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}
