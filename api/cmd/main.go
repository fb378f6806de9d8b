package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecomm-platform/auth-gateway/internal/bootstrap"
	"github.com/ecomm-platform/auth-gateway/internal/logger"
)

const shutdownTimeout = 15 * time.Second

// httpServer is the minimal server surface Run needs, so tests can
// substitute a fake.
type httpServer interface {
	Addr() string
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

type realServer struct{ srv *http.Server }

func (s realServer) Addr() string                      { return s.srv.Addr }
func (s realServer) ListenAndServe() error             { return s.srv.ListenAndServe() }
func (s realServer) Shutdown(ctx context.Context) error { return s.srv.Shutdown(ctx) }

// serverBuilder constructs the server plus its cleanup function.
type serverBuilder func() (httpServer, func(), error)

func buildFromBootstrap() (httpServer, func(), error) {
	srv, cleanup, err := bootstrap.NewServer()
	if err != nil {
		return nil, nil, err
	}
	return realServer{srv: srv}, cleanup, nil
}

// Run starts the server and blocks until a signal arrives or the
// listener fails. It returns the process exit code.
func Run(build serverBuilder, sigCh <-chan os.Signal, lg zerolog.Logger) int {
	srv, cleanup, err := build()
	if err != nil {
		lg.Error().Err(err).Msg("failed to initialize server")
		return 1
	}
	defer cleanup()

	errCh := make(chan error, 1)
	go func() {
		lg.Info().Str("addr", srv.Addr()).Msg("auth gateway listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error().Err(err).Msg("server failed")
			return 1
		}
		return 0

	case sig := <-sigCh:
		lg.Info().Str("signal", sig.String()).Msg("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			lg.Error().Err(err).Msg("graceful shutdown failed")
			return 1
		}

		lg.Info().Msg("server stopped")
		return 0
	}
}

func main() {
	logger.Init()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	os.Exit(Run(buildFromBootstrap, sigCh, logger.Logger))
}
