package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/data-forge-services/service-provisioning/api/clients"
	"github.com/data-forge-services/service-provisioning/cmd/flags"
	"github.com/data-forge-services/service-provisioning/interfaces"
	"github.com/data-forge-services/service-provisioning/provisioner"
	"github.com/data-forge-services/service-provisioning/storage"
	"github.com/urfave/cli/v2"
)

var flagEndpoint = &cli.StringFlag{
	Name:    "endpoint",
	Value:   interfaces.DefaultEndpoint,
	Usage:   "Data Forge API base URL to provision tokens from",
	EnvVars: []string{"DATAFORGE_ENDPOINT"},
}
var flagVersion = &cli.StringFlag{
	Name:    "version",
	Value:   interfaces.DefaultVersion,
	Usage:   "package version reported in install requests",
	EnvVars: []string{"DATAFORGE_VERSION"},
}
var flagSubtype = &cli.StringFlag{
	Name:  "subtype",
	Value: interfaces.DefaultSubtype,
	Usage: "client flavour reported in install requests",
}
var flagServicesFile = &cli.StringFlag{
	Name:    "services-file",
	Usage:   "YAML manifest declaring the services to provision",
	EnvVars: []string{"DATAFORGE_SERVICES_FILE"},
}
var flagService = &cli.StringSliceFlag{
	Name:  "service",
	Usage: "service to provision as name=target, repeatable. Overrides --services-file",
}

var flagMirror = &cli.StringSliceFlag{
	Name:    "mirror",
	Usage:   "additional location to store each config at: file://, s3:// or vault:// URI, repeatable",
	EnvVars: []string{"DATAFORGE_MIRRORS"},
}
var flagSkipExisting = &cli.BoolFlag{
	Name:  "skip-existing",
	Usage: "do not re-provision services whose target file already exists",
}
var flagStrict = &cli.BoolFlag{
	Name:  "strict",
	Usage: "exit non-zero if any service fails",
}

// serviceFlags select the services and the install request settings. They
// are accepted both before and after the command name.
var serviceFlags = []cli.Flag{flagEndpoint, flagVersion, flagSubtype, flagServicesFile, flagService}

var installFlags = []cli.Flag{flagMirror, flagSkipExisting, flagStrict}

const usage string = `Service token provisioning tool
Requests an access token for every declared service and writes it,
together with the API endpoint, to the service's config file:

  export default { "<service>": { "token": "...", "endpoint": "..." } }

Failures are reported per service; the remaining services are still attempted.
Running without a command is the same as running install.`

func newApp() *cli.App {
	logFlags := flags.LogFlags("provision")

	return &cli.App{
		Name:   "provision",
		Usage:  usage,
		Flags:  slices.Concat(serviceFlags, installFlags, logFlags),
		Action: runInstall,
		Commands: []*cli.Command{
			{
				Name:   "install",
				Usage:  "provision tokens and write service config files",
				Flags:  slices.Concat(serviceFlags, installFlags, logFlags),
				Action: runInstall,
			},
			{
				Name:   "verify",
				Usage:  "load service config files and check their tokens against the API",
				Flags:  slices.Concat(serviceFlags, logFlags),
				Action: runVerify,
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func stringFlag(cCtx *cli.Context, name string) string {
	return flags.Lookup(cCtx, name).String(name)
}

func stringSliceFlag(cCtx *cli.Context, name string) []string {
	return flags.Lookup(cCtx, name).StringSlice(name)
}

func boolFlag(cCtx *cli.Context, name string) bool {
	return flags.Lookup(cCtx, name).Bool(name)
}

func isSet(cCtx *cli.Context, name string) bool {
	return flags.Lookup(cCtx, name).IsSet(name)
}

// Settings is the resolved run configuration.
type Settings struct {
	Endpoint string
	Subtype  string
	Version  string
	Services []interfaces.ServiceDescriptor
}

// ResolveSettings merges, in increasing priority: built-in defaults, the
// services manifest, and explicitly set flags.
func ResolveSettings(cCtx *cli.Context) (*Settings, error) {
	settings := &Settings{
		Endpoint: stringFlag(cCtx, flagEndpoint.Name),
		Subtype:  stringFlag(cCtx, flagSubtype.Name),
		Version:  stringFlag(cCtx, flagVersion.Name),
		Services: provisioner.DefaultServices(),
	}

	if path := stringFlag(cCtx, flagServicesFile.Name); path != "" {
		manifest, err := provisioner.LoadManifest(path)
		if err != nil {
			return nil, err
		}
		settings.Services = manifest.Services
		if manifest.Endpoint != "" && !isSet(cCtx, flagEndpoint.Name) {
			settings.Endpoint = manifest.Endpoint
		}
		if manifest.Subtype != "" && !isSet(cCtx, flagSubtype.Name) {
			settings.Subtype = manifest.Subtype
		}
		if manifest.Version != "" && !isSet(cCtx, flagVersion.Name) {
			settings.Version = manifest.Version
		}
	}

	if values := stringSliceFlag(cCtx, flagService.Name); len(values) > 0 {
		services := make([]interfaces.ServiceDescriptor, 0, len(values))
		for _, value := range values {
			service, err := provisioner.ParseServiceFlag(value)
			if err != nil {
				return nil, err
			}
			services = append(services, service)
		}
		settings.Services = services
	}

	if err := provisioner.ValidateDescriptors(settings.Services); err != nil {
		return nil, err
	}
	if err := provisioner.ValidateVersion(settings.Version); err != nil {
		return nil, err
	}
	return settings, nil
}

func runInstall(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx)

	settings, err := ResolveSettings(cCtx)
	if err != nil {
		return err
	}

	var mirror interfaces.ConfigMirror
	if uris := stringSliceFlag(cCtx, flagMirror.Name); len(uris) > 0 {
		locations, err := storage.ParseMirrorLocations(uris)
		if err != nil {
			return err
		}
		mirror, err = storage.NewMirrorFactory(logger).CreateMultiMirror(locations)
		if err != nil {
			return err
		}
		logger.Info("Mirroring service configs", "mirror", mirror.LocationURI())
	}

	provider := clients.NewProvisioningClient(settings.Endpoint, nil)
	orchestrator, err := provisioner.NewOrchestrator(provider, mirror, provisioner.Options{
		Subtype:      settings.Subtype,
		Version:      settings.Version,
		SkipExisting: boolFlag(cCtx, flagSkipExisting.Name),
	}, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cCtx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Provisioning services",
		slog.String("endpoint", settings.Endpoint),
		slog.String("packageVersion", settings.Version),
		slog.Int("services", len(settings.Services)))

	report := orchestrator.Run(ctx, settings.Services)
	if boolFlag(cCtx, flagStrict.Name) {
		return report.Err()
	}
	return nil
}

func runVerify(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx)

	settings, err := ResolveSettings(cCtx)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cCtx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var errs []error
	for _, service := range settings.Services {
		if err := verifyService(ctx, service); err != nil {
			logger.Error("Service config invalid", "serviceName", service.Name, "target", service.Target, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", service.Name, err))
			continue
		}
		logger.Info("Service config valid", "serviceName", service.Name, "target", service.Target)
	}
	return errors.Join(errs...)
}

func verifyService(ctx context.Context, service interfaces.ServiceDescriptor) error {
	client, err := clients.NewServiceClientFromFile(service.Target, service.Name, nil)
	if err != nil {
		return err
	}

	status, err := client.Status(ctx)
	if err != nil {
		return err
	}
	if status.Source != service.Name {
		return fmt.Errorf("token belongs to %q", status.Source)
	}
	return nil
}
