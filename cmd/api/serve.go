package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/mealmate/internal/config"
	"github.com/Dan9191/mealmate/internal/database"
	"github.com/Dan9191/mealmate/internal/handler"
	"github.com/Dan9191/mealmate/internal/metrics"
	"github.com/Dan9191/mealmate/internal/middleware"
	"github.com/Dan9191/mealmate/internal/migrations"
	"github.com/Dan9191/mealmate/internal/notify"
	"github.com/Dan9191/mealmate/internal/reminder"
	"github.com/Dan9191/mealmate/internal/repository"
	"github.com/Dan9191/mealmate/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Serve flags
	port         string
	migrateFirst bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Run the HTTP server until SIGINT or SIGTERM.

Examples:
  mealmate serve                     # Use DB_CONN and PORT from the environment
  mealmate serve --db memory         # Keep everything in memory
  mealmate serve --migrate --port 9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&port, "port", "", "Listen port (overrides PORT)")
	serveCmd.Flags().BoolVar(&migrateFirst, "migrate", false, "Apply pending migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port != "" {
		cfg.Port = port
	}
	logger := newLogger(cfg.LogLevel)

	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// Initialize layers
	var mailer service.Mailer
	sender := notify.NewSender(cfg, logger)
	if sender.Enabled() {
		mailer = sender
	}
	svc := service.NewService(store, logger, mailer)
	h := handler.NewHandler(svc, logger)
	m := metrics.New("mealmate")

	var root http.Handler = handler.NewRouter(h, m)
	if cfg.RateLimitRPS > 0 {
		root = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, logger).Handler(root)
	}
	root = middleware.NewCORSMiddleware(cfg.AllowedOrigins).Handler(root)
	root = middleware.RequestLogger(logger)(root)

	if cfg.ReminderSchedule != "" {
		scheduler := reminder.NewScheduler(store, sender, logger)
		if err := scheduler.Start(cfg.ReminderSchedule); err != nil {
			return err
		}
		defer scheduler.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      root,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// storage is what both the service and the reminder scheduler read from
type storage interface {
	service.Store
	reminder.Store
}

func openStore(cfg *config.Config, logger *logrus.Logger) (storage, func(), error) {
	if cfg.UseMemoryStore() {
		logger.Warn("Using in-memory store; data is lost on exit")
		return repository.NewMemory(), func() {}, nil
	}

	if migrateFirst {
		if err := migrations.Up(cfg.DBConn); err != nil {
			return nil, nil, err
		}
		logger.Info("Migrations applied")
	}

	db, err := database.Open(cfg.DBConn, logger)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			logger.Errorf("Failed to close database: %v", err)
		}
	}
	return repository.NewRepository(db.Gorm), closeDB, nil
}
