package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/gastro-routes/internal/database"
	"github.com/deppfellow/gastro-routes/internal/handler"
	"github.com/deppfellow/gastro-routes/internal/repository"
	"github.com/deppfellow/gastro-routes/internal/router"
	"github.com/deppfellow/gastro-routes/internal/server"
	"github.com/deppfellow/gastro-routes/internal/service"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var skipMigrations bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Applies pending migrations, then serves the API and pages until
SIGINT or SIGTERM is received. In-flight requests get the configured
shutdown timeout to finish.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "start without applying pending migrations")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, loggerService, err := bootstrap()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !skipMigrations {
		if _, err := database.Migrate(ctx, log, cfg); err != nil {
			loggerService.Shutdown()
			return errors.Wrap(err, "running migrations")
		}
	}

	srv, err := server.New(cfg, log, loggerService)
	if err != nil {
		loggerService.Shutdown()
		return err
	}

	services, err := service.NewService(srv, repository.NewRepositories(srv))
	if err != nil {
		return shutdownWith(srv, cfg.Server.ShutdownTimeout, errors.Wrap(err, "creating services"))
	}

	r, err := router.NewRouter(srv, handler.NewHandlers(srv, services))
	if err != nil {
		return shutdownWith(srv, cfg.Server.ShutdownTimeout, errors.Wrap(err, "creating router"))
	}

	srv.SetupHTTPServer(r)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	select {
	case err := <-serveErr:
		return shutdownWith(srv, cfg.Server.ShutdownTimeout, err)
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	if err := shutdownWith(srv, cfg.Server.ShutdownTimeout, nil); err != nil {
		return err
	}

	log.Info().Msg("server exited properly")
	return nil
}

// shutdownWith stops srv within timeout seconds and returns cause, or the
// shutdown error when cause is nil.
func shutdownWith(srv *server.Server, timeout int, cause error) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		if cause != nil {
			srv.Logger.Error().Err(err).Msg("shutdown failed")
			return cause
		}
		return err
	}
	return cause
}
