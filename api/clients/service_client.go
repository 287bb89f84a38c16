package clients

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/data-forge-services/service-provisioning/configfile"
	"github.com/data-forge-services/service-provisioning/interfaces"
	"github.com/go-resty/resty/v2"
)

// ServiceClient is an authenticated API client for one provisioned service.
// The bearer token lives on this client only; nothing is shared globally.
type ServiceClient struct {
	entry  interfaces.ServiceEntry
	client *resty.Client
}

// NewServiceClient builds a client from a persisted credential record.
func NewServiceClient(entry interfaces.ServiceEntry, hc *http.Client) (*ServiceClient, error) {
	if entry.Token == "" || entry.Endpoint == "" {
		return nil, fmt.Errorf("%w: token and endpoint are required", interfaces.ErrServiceNotConfigured)
	}
	if hc == nil {
		hc = &http.Client{}
	}

	client := resty.NewWithClient(hc).
		SetBaseURL(strings.TrimSuffix(entry.Endpoint, "/")).
		SetAuthToken(entry.Token).
		SetHeader("Accept", "application/json")

	return &ServiceClient{entry: entry, client: client}, nil
}

// NewServiceClientFromFile loads the config file at path and builds a client
// for the named service. It fails if the file is missing or lacks the service.
func NewServiceClientFromFile(path, service string, hc *http.Client) (*ServiceClient, error) {
	entry, err := configfile.LoadEntry(path, service)
	if err != nil {
		return nil, err
	}
	return NewServiceClient(entry, hc)
}

// Endpoint returns the API base URL.
func (c *ServiceClient) Endpoint() string {
	return c.entry.Endpoint
}

// R returns a request builder carrying the bearer token.
func (c *ServiceClient) R() *resty.Request {
	return c.client.R()
}

// Status asks the API which service the token belongs to.
func (c *ServiceClient) Status(ctx context.Context) (*interfaces.ServiceStatus, error) {
	var status interfaces.ServiceStatus
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&status).
		Get(interfaces.StatusPath)
	if err != nil {
		return nil, fmt.Errorf("%w: could not request status endpoint: %v", interfaces.ErrNetwork, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: status endpoint returned error %d: %s", interfaces.ErrProvisioning, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	return &status, nil
}
