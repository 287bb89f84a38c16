package main

import (
	"log"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/data-forge-services/service-provisioning/api/installhandler"
	"github.com/data-forge-services/service-provisioning/api/servers"
	"github.com/data-forge-services/service-provisioning/cmd/flags"
	"github.com/data-forge-services/service-provisioning/common"
	"github.com/data-forge-services/service-provisioning/metrics"
	"github.com/urfave/cli/v2"
)

var flagListenAddr = &cli.StringFlag{
	Name:  "listen-addr",
	Value: "127.0.0.1:8080",
	Usage: "address to listen on for API",
}

func main() {
	app := &cli.App{
		Name:  "provisioning-devserver",
		Usage: "Serve a local service Install endpoint for development and tests",
		Flags: slices.Concat(
			[]cli.Flag{flagListenAddr},
			flags.ServerFlags,
			flags.LogFlags("provisioning-devserver"),
		),
		Action: func(cCtx *cli.Context) error {
			logger := flags.SetupLogger(cCtx)
			cfg := flags.ConfigureServer(cCtx, logger, cCtx.String(flagListenAddr.Name))

			metricsSrv, err := metrics.New(common.PackageName, cfg.MetricsAddr)
			if err != nil {
				logger.Error("Failed to create metrics server", "err", err)
				return err
			}

			installMetrics, err := metrics.NewInstallMetrics(metricsSrv.Namespace(), metricsSrv.Registry())
			if err != nil {
				logger.Error("Failed to register install metrics", "err", err)
				return err
			}

			handler := installhandler.NewHandler(installMetrics, logger)

			server, err := servers.New(cfg, metricsSrv, handler)
			if err != nil {
				logger.Error("Failed to create server", "err", err)
				return err
			}

			logger.Info("Starting server")
			server.RunInBackground()

			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

			logger.Info("Server is running, press Ctrl+C to stop")
			<-exit
			logger.Info("Shutdown signal received")

			server.Shutdown()
			logger.Info("Server shutdown complete", "tokensIssued", handler.Len())
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
