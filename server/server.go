package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"VitalsHub/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

var notifyContext = signal.NotifyContext

type Options struct {
	WebServerEnabled bool
	WebServerPort    string
	ShutdownTimeout  time.Duration
	Logger           zerolog.Logger

	MigrationEnabled bool
	MigrationHandler func() error

	JobsEnabled bool
	JobsHandler func() (stop func(), err error)

	WebServerPreHandler func(r *gin.Engine)
}

func GetDefaultOptions() Options {
	return Options{
		WebServerEnabled: true,
		WebServerPort:    "3000",
		ShutdownTimeout:  10 * time.Second,
		Logger:           zerolog.Nop(),
	}
}

// NewEngine builds the gin engine with the common middleware stack and hands
// it to pre for CORS and routes.
func NewEngine(logger zerolog.Logger, pre func(r *gin.Engine)) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(logger), middleware.Recovery(logger))
	if pre != nil {
		pre(r)
	}
	return r
}

/*
* Run migrations, start jobs
* Serve until SIGINT/SIGTERM, then drain with the shutdown timeout
* Without the web server, running jobs keep the process up until the signal
 */
func Start(opts Options) error {
	logger := opts.Logger

	if opts.MigrationEnabled && opts.MigrationHandler != nil {
		if err := opts.MigrationHandler(); err != nil {
			return err
		}
	}

	ctx, stop := notifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jobsRunning := false
	if opts.JobsEnabled && opts.JobsHandler != nil {
		stopJobs, err := opts.JobsHandler()
		if err != nil {
			return err
		}
		if stopJobs != nil {
			defer stopJobs()
		}
		jobsRunning = true
	}
	if !opts.WebServerEnabled {
		if jobsRunning {
			logger.Info().Msg("web server disabled, running jobs until shutdown signal")
			<-ctx.Done()
			logger.Info().Msg("shutdown signal received: stopping jobs")
		}
		return nil
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort("", opts.WebServerPort),
		Handler:           NewEngine(logger, opts.WebServerPreHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("Server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutdown signal received: closing HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info().Msg("HTTP server closed")
	return nil
}
