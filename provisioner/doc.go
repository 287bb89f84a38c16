/*
Package provisioner drives token provisioning for declared services.

For every ServiceDescriptor, in declaration order, the Orchestrator:

 1. Sends an install request ({subtype, source, version}) through the
    injected interfaces.TokenProvider
 2. Builds a ServiceConfig {name: {token, endpoint}} from the answer
 3. Renders and writes it to the descriptor's target file, creating
    parent directories
 4. Optionally stores a copy to the configured mirror

Services are processed sequentially and independently. A network,
provisioning or filesystem failure is logged with the service name,
recorded in the Report and the run continues with the next service.
Mirror failures are logged as warnings and do not fail the service.

Targets are overwritten on every run unless Options.SkipExisting is set.

# Example Usage

	provider := clients.NewProvisioningClient(interfaces.DefaultEndpoint, nil)
	orchestrator, err := provisioner.NewOrchestrator(provider, nil, provisioner.Options{}, logger)
	if err != nil {
	    return err
	}
	report := orchestrator.Run(ctx, provisioner.DefaultServices())
	for _, failed := range report.Failed() {
	    fmt.Println(failed.Service, failed.Err)
	}
*/
package provisioner
