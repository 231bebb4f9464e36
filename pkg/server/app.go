package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"avesto/pkg/config"
	xhttp "avesto/pkg/http"
	applogger "avesto/pkg/logger"
)

// App encapsulates the application lifecycle: one HTTP server plus the
// resources that must be released on shutdown, in registration order.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	handler    xhttp.Handler
	httpServer *xhttp.Server
	closers    []io.Closer
}

// New creates the application. Closers are closed on shutdown in the order
// given; pass the analysis recorder before the cache it may still be using.
func New(cfg *config.Config, log *applogger.Logger, handler xhttp.Handler, closers ...io.Closer) *App {
	return &App{
		cfg:     cfg,
		log:     log,
		handler: handler,
		closers: closers,
	}
}

// Run starts the HTTP server and blocks until interrupted.
func (a *App) Run() error {
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("server started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("environment", a.cfg.Environment))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.log.Warn("close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
