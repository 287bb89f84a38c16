package interfaces

import "errors"

var (
	// ErrNetwork is returned when the provisioning endpoint could not be reached
	// or the request timed out.
	ErrNetwork = errors.New("provisioning endpoint unreachable")

	// ErrProvisioning is returned when the endpoint responded without a usable
	// token: a non-2xx status, an undecodable body or a missing token field.
	ErrProvisioning = errors.New("provisioning failed")

	// ErrFilesystem is returned when a config directory or file cannot be written.
	ErrFilesystem = errors.New("filesystem error")

	// ErrMalformedConfig is returned when a persisted config file cannot be parsed.
	ErrMalformedConfig = errors.New("malformed service config")

	// ErrServiceNotConfigured is returned when a config lacks the requested service.
	ErrServiceNotConfigured = errors.New("service not configured")

	// ErrInvalidDescriptor is returned for empty or duplicate service declarations.
	ErrInvalidDescriptor = errors.New("invalid service descriptor")

	// ErrInvalidLocationURI is returned when a mirror location URI is malformed or unsupported.
	// URIs must follow the format: [scheme]://[auth@]host[:port][/path][?params]
	ErrInvalidLocationURI = errors.New("invalid mirror location URI")

	// ErrBackendUnavailable is returned when a mirror backend is not accessible.
	ErrBackendUnavailable = errors.New("mirror backend unavailable")
)
