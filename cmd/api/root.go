package main

import (
	"fmt"
	"os"

	"github.com/Dan9191/mealmate/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	dbConn string
)

var rootCmd = &cobra.Command{
	Use:   "mealmate",
	Short: "MealMate recipe and meal planning API",
	Long: `MealMate serves a JSON API for user accounts, recipes and planned meals.

Commands:
  serve    - Run the HTTP server
  migrate  - Manage the database schema`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbConn, "db", "", "Database connection string, or \"memory\" (overrides DB_CONN)")
}

// loadConfig reads the environment and applies command line overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dbConn != "" {
		cfg.DBConn = dbConn
	}
	return cfg, nil
}

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	return logger
}
