// Package interfaces defines the core types and capabilities of the service
// provisioning system, separating interface definitions from implementations.
//
// # Provisioning
//
// TokenProvider: requests an access token for a named service from the
// remote provisioning endpoint (POST /api/guest-task/Services/Install).
//
// ServiceDescriptor, ProvisionRequest and ProvisionResponse describe one
// provisioning exchange. ServiceConfig is the record persisted for consumers:
// a mapping from service name to its token and endpoint.
//
// # Mirrors
//
// ConfigMirror: a secondary sink receiving a copy of each rendered service
// config (local directory, Vault KV, S3-compatible object storage).
//
// ConfigMirrorFactory: creates mirrors from location URIs.
//
// # Errors
//
// Errors are classified with sentinel values and wrapped with %w, so callers
// match them with errors.Is:
//
//   - ErrNetwork: the endpoint could not be reached
//   - ErrProvisioning: the endpoint answered without a usable token
//   - ErrFilesystem: the config file or its directory could not be written
//   - ErrMalformedConfig, ErrServiceNotConfigured: consumer-side load failures
package interfaces
