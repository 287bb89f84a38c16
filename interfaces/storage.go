package interfaces

import (
	"context"
	"fmt"
	"net/url"
)

// MirrorLocation represents the URI of a config mirror backend.
type MirrorLocation struct {
	Raw    string     // Original URI
	Scheme string     // Protocol
	Host   string     // Hostname
	Path   string     // Resource path
	Query  url.Values // Query parameters
	Auth   string     // Authentication info
}

// NewMirrorLocation creates a mirror location from a URI string with validation.
func NewMirrorLocation(uri string) (MirrorLocation, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return MirrorLocation{}, fmt.Errorf("%w: %v", ErrInvalidLocationURI, err)
	}

	switch parsed.Scheme {
	case "file", "s3", "vault":
	default:
		return MirrorLocation{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidLocationURI, parsed.Scheme)
	}

	var auth string
	if parsed.User != nil {
		auth = parsed.User.String()
	}

	return MirrorLocation{
		Raw:    uri,
		Scheme: parsed.Scheme,
		Host:   parsed.Host,
		Path:   parsed.Path,
		Query:  parsed.Query(),
		Auth:   auth,
	}, nil
}

// String returns the original URI string.
func (loc MirrorLocation) String() string {
	return loc.Raw
}

// GetParam returns a query parameter value.
func (loc MirrorLocation) GetParam(name string) string {
	return loc.Query.Get(name)
}

// GetParamBool returns a boolean query parameter value.
func (loc MirrorLocation) GetParamBool(name string) bool {
	value := loc.Query.Get(name)
	return value == "true" || value == "1" || value == "yes"
}

// ConfigMirror stores copies of rendered service configs.
type ConfigMirror interface {
	// Store saves the rendered config of the named service.
	Store(ctx context.Context, service string, data []byte) error

	// Name returns identifier for logging.
	Name() string

	// LocationURI returns URI identifying this backend, credentials redacted.
	LocationURI() string
}

// ConfigMirrorFactory creates mirrors.
type ConfigMirrorFactory interface {
	// MirrorFor creates a backend from a URI. Supports file://, s3://, vault://
	MirrorFor(location MirrorLocation) (ConfigMirror, error)

	// CreateMultiMirror creates an aggregated mirror.
	CreateMultiMirror(locations []MirrorLocation) (ConfigMirror, error)
}
