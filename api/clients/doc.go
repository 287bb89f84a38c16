/*
Package clients provides HTTP clients for the Data Forge service API.

# Client Types

  - ProvisioningClient - requests service tokens from the Install endpoint
    and implements interfaces.TokenProvider
  - ServiceClient - an authenticated client built from a persisted service
    config record, sending the token as a bearer header
  - MockTokenProvider - testify mock of interfaces.TokenProvider

Both clients are built on resty and take an *http.Client, so transports,
proxies and test servers are injected explicitly instead of configured on
shared defaults.

# Error Classification

Transport failures wrap interfaces.ErrNetwork. Responses that are not 2xx,
cannot be decoded or carry no token wrap interfaces.ErrProvisioning.

# Example Usage

	provider := clients.NewProvisioningClient("https://api.data-forge.tech", nil)
	resp, err := provider.Install(ctx, interfaces.ProvisionRequest{
	    Subtype: "vue",
	    Source:  "locationSelector",
	    Version: "0.1.1",
	})

	// Later, in a consumer
	api, err := clients.NewServiceClientFromFile(
	    "src/location-selector/services.config.js",
	    "locationSelector",
	    nil,
	)
	status, err := api.Status(ctx)
*/
package clients
