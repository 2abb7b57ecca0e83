// Package server wires the idea bank together: it opens the Record Store
// and the File Mirror selected by configuration, builds the services and
// runs the HTTP server until a shutdown signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/ideabank/internal/logging"
	"github.com/dmitrijs2005/ideabank/internal/server/config"
	"github.com/dmitrijs2005/ideabank/internal/server/httpapi"
	"github.com/dmitrijs2005/ideabank/internal/server/metrics"
	"github.com/dmitrijs2005/ideabank/internal/server/mirror"
	"github.com/dmitrijs2005/ideabank/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ideabank/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.RepositoryManager
	mirror mirror.Mirror
	server *httpapi.HTTPServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogLevel, c.LogFormat)

	repos, err := OpenStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close(ctx)
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	m, err := NewMirror(ctx, c)
	if err != nil {
		_ = repos.Close(ctx)
		return nil, fmt.Errorf("mirror init error: %w", err)
	}

	if len(c.Admins) == 0 {
		logger.Warn(ctx, "no administrators configured, admin routes will reject every login")
	}

	return newApp(c, logger, repos, m), nil
}

func newApp(c *config.Config, logger logging.Logger, repos repomanager.RepositoryManager, m mirror.Mirror) *App {
	mt := metrics.New()

	ss := services.NewSubmissionService(repos, m, c.MirrorFolder, logger, mt)
	ds := services.NewDashboardService(repos)
	as := services.NewAuthService(c.Admins, c.SecretKey, c.AccessTokenValidityDuration, logger)

	srv := httpapi.NewHTTPServer(c.HTTPAddr, logger, ss, ds, as, repos, mt, httpapi.Options{
		CORSOrigins:     c.CORSOrigins,
		ShutdownTimeout: c.ShutdownTimeout,
	})

	return &App{config: c, logger: logger, repos: repos, mirror: m, server: srv}
}

func (app *App) initSignalHandler(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
}

// Run serves until ctx is cancelled or a shutdown signal arrives, then
// releases the store and the mirror.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := app.initSignalHandler(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "store", app.config.StoreDriver, "mirror", app.mirror.Name())

	runErr := app.server.Run(ctx)
	if runErr != nil {
		app.logger.Error(ctx, "http server stopped", "error", runErr)
	}

	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := CloseMirror(app.mirror); err != nil {
		app.logger.Warn(closeCtx, "mirror close failed", "error", err)
	}
	if err := app.repos.Close(closeCtx); err != nil {
		app.logger.Warn(closeCtx, "store close failed", "error", err)
	}

	app.logger.Info(closeCtx, "App stopped")
	return runErr
}
