package api

import (
	"errors"
	"log/slog"
	"time"
)

// HTTPServerConfig configures the development API server.
type HTTPServerConfig struct {
	// ListenAddr is the address the install API listens on.
	ListenAddr string

	// MetricsAddr is the Prometheus listener. Empty disables it.
	MetricsAddr string

	// EnablePprof mounts /debug/pprof on the API router.
	EnablePprof bool

	Log *slog.Logger

	// DrainDuration is how long /drain waits before reporting the drain
	// period as complete, giving load balancers time to notice.
	DrainDuration time.Duration

	// GracefulShutdownDuration bounds how long Shutdown waits for
	// in-flight requests.
	GracefulShutdownDuration time.Duration

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultHTTPServerConfig returns the timeouts used by cmd/devserver.
func DefaultHTTPServerConfig(listenAddr string, log *slog.Logger) *HTTPServerConfig {
	return &HTTPServerConfig{
		ListenAddr:               listenAddr,
		Log:                      log,
		DrainDuration:            45 * time.Second,
		GracefulShutdownDuration: 30 * time.Second,
		ReadTimeout:              60 * time.Second,
		WriteTimeout:             30 * time.Second,
	}
}

// Validate checks the fields every server needs.
func (c *HTTPServerConfig) Validate() error {
	if c.ListenAddr == "" {
		return errors.New("listen address is required")
	}
	if c.Log == nil {
		return errors.New("logger is required")
	}
	if c.GracefulShutdownDuration <= 0 {
		return errors.New("graceful shutdown duration must be positive")
	}
	return nil
}
