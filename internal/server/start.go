package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

const shutdownTimeout = 10 * time.Second

// Start runs the HTTP server until an interrupt or terminate signal, then
// drains in-flight requests and closes the application services.
func (s *Server) Start() error {
	if err := s.deps.Start(context.Background()); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.E.Start(s.Cfg.GetAppAddr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
	case <-shutdownSignal():
		slog.Info("Shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return errors.Join(serveErr, s.E.Shutdown(ctx), s.deps.Close(ctx))
}
