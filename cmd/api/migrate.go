package main

import (
	"fmt"

	"github.com/Dan9191/mealmate/internal/migrations"
	"github.com/spf13/cobra"
)

var (
	// Migrate flags
	steps int
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
	Long: `Apply or revert the embedded schema migrations.

Subcommands:
  up       - Apply pending migrations
  down     - Revert migrations
  version  - Show the applied version`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		dsn, err := postgresDSN()
		if err != nil {
			return err
		}
		if err := migrations.Up(dsn); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert migrations",
	Long: `Revert applied migrations.

Examples:
  mealmate migrate down --steps 1   # Revert the last migration
  mealmate migrate down             # Revert everything`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dsn, err := postgresDSN()
		if err != nil {
			return err
		}
		if err := migrations.Down(dsn, steps); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrations reverted")
		return nil
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the applied schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		dsn, err := postgresDSN()
		if err != nil {
			return err
		}
		version, dirty, err := migrations.Version(dsn)
		if err != nil {
			return err
		}
		if dirty {
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty)\n", version)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "version %d\n", version)
		return nil
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&steps, "steps", 0, "Number of migrations to revert (0 = all)")

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}

func postgresDSN() (string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	if cfg.UseMemoryStore() {
		return "", fmt.Errorf("migrations need a Postgres DB_CONN, not %q", cfg.DBConn)
	}
	return cfg.DBConn, nil
}
