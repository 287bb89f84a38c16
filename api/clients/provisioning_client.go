package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/data-forge-services/service-provisioning/interfaces"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/mock"
)

// ProvisioningClient implements interfaces.TokenProvider over HTTP against
// the Data Forge provisioning endpoint.
type ProvisioningClient struct {
	endpoint string
	client   *resty.Client
}

// NewProvisioningClient creates a client for the endpoint base URL using hc
// as transport. A nil hc gets a fresh client without a request timeout.
func NewProvisioningClient(endpoint string, hc *http.Client) *ProvisioningClient {
	if hc == nil {
		hc = &http.Client{}
	}
	endpoint = strings.TrimSuffix(endpoint, "/")

	client := resty.NewWithClient(hc).
		SetBaseURL(endpoint).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	return &ProvisioningClient{
		endpoint: endpoint,
		client:   client,
	}
}

// Endpoint returns the base URL the client talks to.
func (p *ProvisioningClient) Endpoint() string {
	return p.endpoint
}

// Install sends req to POST {endpoint}/api/guest-task/Services/Install.
// Transport failures wrap ErrNetwork. Any non-2xx status, undecodable body or
// empty token wraps ErrProvisioning.
func (p *ProvisioningClient) Install(ctx context.Context, req interfaces.ProvisionRequest) (*interfaces.ProvisionResponse, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(req).
		Post(interfaces.InstallPath)
	if err != nil {
		return nil, fmt.Errorf("%w: could not request install endpoint: %v", interfaces.ErrNetwork, err)
	}

	if !resp.IsSuccess() {
		body := strings.TrimSpace(resp.String())
		if body == "" {
			return nil, fmt.Errorf("%w: install endpoint returned non-2xx response: %d", interfaces.ErrProvisioning, resp.StatusCode())
		}
		return nil, fmt.Errorf("%w: install endpoint returned error %d: %s", interfaces.ErrProvisioning, resp.StatusCode(), body)
	}

	var parsedResponse interfaces.ProvisionResponse
	if err := json.Unmarshal(resp.Body(), &parsedResponse); err != nil {
		return nil, fmt.Errorf("%w: could not parse install response: %v", interfaces.ErrProvisioning, err)
	}
	if parsedResponse.Token == "" {
		return nil, fmt.Errorf("%w: install response has no token", interfaces.ErrProvisioning)
	}

	return &parsedResponse, nil
}

// MockTokenProvider implements a mock TokenProvider for testing.
type MockTokenProvider struct {
	mock.Mock
}

// Install implements the TokenProvider interface for testing.
func (m *MockTokenProvider) Install(ctx context.Context, req interfaces.ProvisionRequest) (*interfaces.ProvisionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.ProvisionResponse), args.Error(1)
}

// Endpoint implements the TokenProvider interface for testing.
func (m *MockTokenProvider) Endpoint() string {
	args := m.Called()
	return args.String(0)
}
