package interfaces

import (
	"context"
	"fmt"
)

const (
	// DefaultEndpoint is the Data Forge API base URL.
	DefaultEndpoint = "https://api.data-forge.tech"

	// DefaultSubtype is the client flavour reported when installing a service.
	DefaultSubtype = "vue"

	// DefaultVersion is the package version reported when installing a service.
	DefaultVersion = "0.1.1"

	// InstallPath is the provisioning route relative to the endpoint.
	InstallPath = "/api/guest-task/Services/Install"

	// StatusPath answers with the service bound to the bearer token.
	StatusPath = "/api/guest-task/Services/Status"
)

// ServiceDescriptor declares a service to provision and where its config goes.
type ServiceDescriptor struct {
	// Name identifies the service, e.g. "locationSelector". Unique per run.
	Name string `yaml:"name" json:"name"`

	// Target is the destination config file path.
	Target string `yaml:"target" json:"target"`
}

func (d ServiceDescriptor) String() string {
	return fmt.Sprintf("%s -> %s", d.Name, d.Target)
}

// ProvisionRequest is the JSON body sent to the Install endpoint.
type ProvisionRequest struct {
	Subtype string `json:"subtype"`
	Source  string `json:"source"`
	Version string `json:"version"`
}

// ProvisionResponse is the Install endpoint answer. Token is an opaque credential.
type ProvisionResponse struct {
	Token string `json:"token"`
}

// ServiceStatus is returned by the Status endpoint for an authenticated client.
type ServiceStatus struct {
	Source  string `json:"source"`
	Subtype string `json:"subtype"`
	Version string `json:"version"`
}

// ServiceEntry is the credential record a consumer needs to call the API.
// Field order is significant: it is the order the config file is rendered in.
type ServiceEntry struct {
	Token    string `json:"token"`
	Endpoint string `json:"endpoint"`
}

// ServiceConfig maps service names to their credential records.
type ServiceConfig map[string]ServiceEntry

// NewServiceConfig returns a config holding exactly one entry.
func NewServiceConfig(name, token, endpoint string) ServiceConfig {
	return ServiceConfig{
		name: {Token: token, Endpoint: endpoint},
	}
}

// Entry returns the record for the named service. It fails when the key is
// absent or the record lacks a token or an endpoint.
func (c ServiceConfig) Entry(name string) (ServiceEntry, error) {
	entry, found := c[name]
	if !found {
		return ServiceEntry{}, fmt.Errorf("%w: %q", ErrServiceNotConfigured, name)
	}
	if entry.Token == "" {
		return ServiceEntry{}, fmt.Errorf("%w: %q has no token", ErrServiceNotConfigured, name)
	}
	if entry.Endpoint == "" {
		return ServiceEntry{}, fmt.Errorf("%w: %q has no endpoint", ErrServiceNotConfigured, name)
	}
	return entry, nil
}

// TokenProvider requests access tokens from the provisioning endpoint.
type TokenProvider interface {
	// Install registers the service described by req and returns its token.
	// Errors wrap ErrNetwork or ErrProvisioning.
	Install(ctx context.Context, req ProvisionRequest) (*ProvisionResponse, error)

	// Endpoint returns the base URL tokens are valid for.
	Endpoint() string
}
