// Package server wires the wallet account service together: storage,
// services, the disclosure controller and both transports. It runs
// migrations on start and shuts everything down on SIGINT/SIGTERM.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/walletkeeper/internal/logging"
	"github.com/dmitrijs2005/walletkeeper/internal/server/config"
	"github.com/dmitrijs2005/walletkeeper/internal/server/disclosure"
	"github.com/dmitrijs2005/walletkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/walletkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/walletkeeper/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/walletkeeper/internal/server/grpc"
)

// sweepInterval is how often idle disclosure sessions are dropped.
const sweepInterval = time.Minute

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	disclosure  *disclosure.Controller
	httpServer  *httpapi.HTTPServer
	grpcServer  *gs.GRPCServer
}

func NewApp(c *config.Config) (*App, error) {
	return NewAppWithLogger(c, logging.NewJSONLogger(os.Stdout, c.LogLevel))
}

func NewAppWithLogger(c *config.Config, logger logging.Logger) (*App, error) {

	rm, err := repomanager.New(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	as, err := services.NewAccountService(rm, c, nil, logger)
	if err != nil {
		_ = rm.Close()
		return nil, err
	}
	dc := disclosure.NewController(as, nil, logger)

	app := &App{config: c, logger: logger, repomanager: rm, disclosure: dc}
	if c.EndpointAddrHTTP != "" {
		app.httpServer = httpapi.NewHTTPServer(c.EndpointAddrHTTP, logger, as, dc, c.ShutdownTimeout)
	}
	if c.EndpointAddrGRPC != "" {
		app.grpcServer = gs.NewGRPCServer(c.EndpointAddrGRPC, logger, as, dc)
	}
	return app, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case sig := <-sigs:
			app.logger.Info(ctx, "Signal received", "signal", sig.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run migrates the store and serves until ctx is cancelled, a signal
// arrives or a transport fails.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	if err := app.repomanager.RunMigrations(ctx); err != nil {
		_ = app.repomanager.Close()
		return fmt.Errorf("migrations: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	if app.httpServer != nil {
		g.Go(func() error { return app.httpServer.Run(ctx) })
	}
	if app.grpcServer != nil {
		g.Go(func() error { return app.grpcServer.Run(ctx) })
	}
	g.Go(func() error {
		app.disclosure.Run(ctx, sweepInterval)
		return nil
	})

	err := g.Wait()
	app.logger.Info(context.WithoutCancel(ctx), "App stopped")

	return errors.Join(err, app.repomanager.Close())
}
