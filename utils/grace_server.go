package utils

import (
	"context"
	"errors"
	"net/http"
	"time"
)

const (
	defaultReadTimeout  = 60 * time.Second
	defaultWriteTimeout = defaultReadTimeout
	shutdownTimeout     = 30 * time.Second
)

// GraceServer serves HTTP until ctx is cancelled, then drains in-flight
// requests before returning. The trigger engine is stopped by the caller
// after this returns so an in-progress dispatch batch can finish its current
// recipient.
func GraceServer(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	Sugar.Info("shutdown signal received, draining HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		Sugar.Errorf("HTTP server shutdown error: %v", err)
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	Sugar.Info("HTTP server shutdown success")
	return nil
}
