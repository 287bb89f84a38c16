/*
Package servers implements the HTTP server hosting the local install API.

# Server Lifecycle

  - New builds a chi router, mounts every RouteRegistrar and the health
    endpoints, and wraps them in request logging
  - RunInBackground starts the API listener and, if MetricsAddr is set,
    the Prometheus listener
  - Shutdown stops both gracefully within GracefulShutdownDuration

# Health Endpoints

  - GET /livez - always 200 while the process serves requests
  - GET /readyz - 200 when ready, 503 while draining
  - GET /drain, /undrain - toggle readiness for load balancer rotation

# Example Usage

	metricsSrv, _ := metrics.New(common.PackageName, cfg.MetricsAddr)
	installMetrics, _ := metrics.NewInstallMetrics(common.PackageName, metricsSrv.Registry())
	handler := installhandler.NewHandler(installMetrics, logger)

	server, err := servers.New(cfg, metricsSrv, handler)
	if err != nil {
	    return err
	}
	server.RunInBackground()
	defer server.Shutdown()
*/
package servers
