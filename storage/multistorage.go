package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/data-forge-services/service-provisioning/interfaces"
)

// MultiMirror implements interfaces.ConfigMirror by storing to every backend.
type MultiMirror struct {
	backends []interfaces.ConfigMirror
	log      *slog.Logger
}

// NewMultiMirror creates a mirror fanning out to backends in order.
func NewMultiMirror(backends []interfaces.ConfigMirror, logger *slog.Logger) *MultiMirror {
	if logger == nil {
		logger = slog.Default()
	}

	return &MultiMirror{
		backends: backends,
		log:      logger,
	}
}

// Store saves data to all backends sequentially. Every backend is attempted;
// the returned error joins the failures of those that did not succeed.
func (m *MultiMirror) Store(ctx context.Context, service string, data []byte) error {
	start := time.Now()
	var errs []error

	for _, backend := range m.backends {
		if err := backend.Store(ctx, service, data); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", backend.Name(), err))
			m.log.Debug("Failed to mirror to backend",
				slog.String("backend_name", backend.Name()),
				"err", err)
		}
	}

	if len(errs) > 0 {
		m.log.Warn("Some mirrors failed",
			slog.String("serviceName", service),
			slog.Int("failed_backends", len(errs)),
			slog.Int("total_backends", len(m.backends)),
			slog.Duration("duration", time.Since(start)))
		return errors.Join(errs...)
	}

	return nil
}

// Backends returns the wrapped backends.
func (m *MultiMirror) Backends() []interfaces.ConfigMirror {
	return m.backends
}

// Name returns the name of this backend.
func (m *MultiMirror) Name() string {
	return "multi-mirror"
}

// LocationURI returns a combined URI of all backends.
func (m *MultiMirror) LocationURI() string {
	var locations []string
	for _, backend := range m.backends {
		locations = append(locations, backend.LocationURI())
	}

	return "multi:[" + strings.Join(locations, ",") + "]"
}
