package storage

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/data-forge-services/service-provisioning/interfaces"
)

// MirrorFactory creates config mirrors from location URIs.
type MirrorFactory struct {
	log *slog.Logger
}

// NewMirrorFactory creates a new factory instance.
func NewMirrorFactory(logger *slog.Logger) *MirrorFactory {
	return &MirrorFactory{log: logger}
}

// MirrorFor creates a mirror from a location URI.
// The URI format should be [scheme]://[auth@]host[:port][/path][?params]
//
// Supported schemes:
//   - file:// - Local directory
//   - s3:// - Amazon S3 or compatible object storage
//   - vault:// - HashiCorp Vault KV v2
func (mf *MirrorFactory) MirrorFor(location interfaces.MirrorLocation) (interfaces.ConfigMirror, error) {
	switch strings.ToLower(location.Scheme) {
	case "file":
		return mf.createFileBackend(location)
	case "s3":
		return mf.createS3Backend(location)
	case "vault":
		return mf.createVaultBackend(location)
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", interfaces.ErrInvalidLocationURI, location.Scheme)
	}
}

// CreateMultiMirror creates a mirror storing to every location. Any invalid
// location fails the whole call.
func (mf *MirrorFactory) CreateMultiMirror(locations []interfaces.MirrorLocation) (interfaces.ConfigMirror, error) {
	backends := make([]interfaces.ConfigMirror, 0, len(locations))

	for _, location := range locations {
		backend, err := mf.MirrorFor(location)
		if err != nil {
			return nil, fmt.Errorf("could not create mirror %s: %w", redact(location), err)
		}
		backends = append(backends, backend)
	}

	if len(backends) == 0 {
		return nil, fmt.Errorf("no mirror locations provided")
	}

	return NewMultiMirror(backends, mf.log), nil
}

// ParseMirrorLocations parses raw URIs into locations.
func ParseMirrorLocations(uris []string) ([]interfaces.MirrorLocation, error) {
	locations := make([]interfaces.MirrorLocation, 0, len(uris))
	for _, uri := range uris {
		location, err := interfaces.NewMirrorLocation(uri)
		if err != nil {
			return nil, err
		}
		locations = append(locations, location)
	}
	return locations, nil
}

// createFileBackend creates a local directory mirror.
// URI format: file:///absolute/path/ or file://./relative/path/
func (mf *MirrorFactory) createFileBackend(location interfaces.MirrorLocation) (interfaces.ConfigMirror, error) {
	mf.log.Debug("Creating file mirror", slog.String("uri", location.String()))

	path := location.Path
	if location.Host != "" {
		path = location.Host + "/" + strings.TrimPrefix(path, "/")
	}

	if path == "" {
		return nil, fmt.Errorf("%w: empty path in file URI: %s", interfaces.ErrInvalidLocationURI, location.String())
	}

	return NewFileBackend(path, mf.log)
}

// createS3Backend creates an S3 or S3-compatible mirror.
// URI format: s3://[ACCESS_KEY:SECRET_KEY@]bucket-name/prefix/?region=us-west-2&endpoint=https://minio:9000
func (mf *MirrorFactory) createS3Backend(location interfaces.MirrorLocation) (interfaces.ConfigMirror, error) {
	mf.log.Debug("Creating S3 mirror", slog.String("uri", redact(location)))

	if location.Host == "" {
		return nil, fmt.Errorf("%w: missing bucket in S3 URI", interfaces.ErrInvalidLocationURI)
	}

	region := location.GetParam("region")
	if region == "" {
		region = "us-east-1"
	}

	var accessKey, secretKey string
	if location.Auth != "" {
		accessKey, secretKey, _ = strings.Cut(location.Auth, ":")
		mf.log.Debug("Using embedded credentials for S3 mirror")
	}

	return NewS3Backend(location.Host, strings.TrimPrefix(location.Path, "/"), region, location.GetParam("endpoint"), accessKey, secretKey, mf.log)
}

// createVaultBackend creates a Vault KV v2 mirror.
// URI format: vault://[TOKEN@]host:port/mount/path?tls=false
// The first path segment is the mount, the rest is the data path.
func (mf *MirrorFactory) createVaultBackend(location interfaces.MirrorLocation) (interfaces.ConfigMirror, error) {
	mf.log.Debug("Creating Vault mirror", slog.String("uri", redact(location)))

	if location.Host == "" {
		return nil, fmt.Errorf("%w: missing host in Vault URI", interfaces.ErrInvalidLocationURI)
	}

	mountPath, dataPath, _ := strings.Cut(strings.TrimPrefix(location.Path, "/"), "/")
	if mountPath == "" {
		mountPath = "secret"
	}

	scheme := "https"
	if location.Query.Has("tls") && !location.GetParamBool("tls") {
		scheme = "http"
	}

	return NewVaultBackend(fmt.Sprintf("%s://%s", scheme, location.Host), mountPath, dataPath, location.Auth, mf.log)
}

// redact returns the location without its credentials.
func redact(location interfaces.MirrorLocation) string {
	if location.Auth == "" {
		return location.Raw
	}
	return strings.Replace(location.Raw, location.Auth+"@", "***@", 1)
}
