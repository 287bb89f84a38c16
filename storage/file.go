package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/data-forge-services/service-provisioning/configfile"
)

// FileBackend mirrors service configs into a local directory, one file per
// service named <service>.config.js.
type FileBackend struct {
	baseDir     string
	log         *slog.Logger
	locationURI string
}

// NewFileBackend creates a file mirror rooted at baseDir, creating it if needed.
func NewFileBackend(baseDir string, log *slog.Logger) (*FileBackend, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &FileBackend{
		baseDir:     baseDir,
		log:         log,
		locationURI: fmt.Sprintf("file://%s", baseDir),
	}, nil
}

// Store writes data to <baseDir>/<service>.config.js, overwriting prior content.
func (b *FileBackend) Store(ctx context.Context, service string, data []byte) error {
	filePath := b.PathFor(service)
	if err := configfile.WriteRendered(filePath, data); err != nil {
		return err
	}

	b.log.Debug("Mirrored service config to file",
		slog.String("path", filePath),
		slog.Int("size", len(data)))
	return nil
}

// PathFor returns the file a service config is mirrored to.
func (b *FileBackend) PathFor(service string) string {
	return filepath.Join(b.baseDir, service+".config.js")
}

// Name returns a unique identifier for this backend.
func (b *FileBackend) Name() string {
	return fmt.Sprintf("file-%s", filepath.Base(b.baseDir))
}

// LocationURI returns the URI that identifies this backend.
func (b *FileBackend) LocationURI() string {
	return b.locationURI
}
