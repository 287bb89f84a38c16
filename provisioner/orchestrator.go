package provisioner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/data-forge-services/service-provisioning/configfile"
	"github.com/data-forge-services/service-provisioning/interfaces"
	"golang.org/x/mod/semver"
)

// Options parameterizes the install request and the overwrite policy.
type Options struct {
	// Subtype is reported as the client flavour. Defaults to "vue".
	Subtype string

	// Version is the semantic version reported for every service.
	// Defaults to interfaces.DefaultVersion.
	Version string

	// SkipExisting leaves services whose target file already exists untouched.
	// When false every run re-provisions and overwrites.
	SkipExisting bool
}

// Orchestrator provisions declared services one after another.
type Orchestrator struct {
	provider interfaces.TokenProvider
	mirror   interfaces.ConfigMirror
	opts     Options
	log      *slog.Logger
}

// NewOrchestrator creates an orchestrator requesting tokens from provider.
// mirror is optional and receives a copy of every written config.
func NewOrchestrator(provider interfaces.TokenProvider, mirror interfaces.ConfigMirror, opts Options, log *slog.Logger) (*Orchestrator, error) {
	if provider == nil {
		return nil, errors.New("token provider is required")
	}
	if opts.Subtype == "" {
		opts.Subtype = interfaces.DefaultSubtype
	}
	if opts.Version == "" {
		opts.Version = interfaces.DefaultVersion
	}
	if err := ValidateVersion(opts.Version); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}

	return &Orchestrator{
		provider: provider,
		mirror:   mirror,
		opts:     opts,
		log:      log,
	}, nil
}

// ValidateVersion checks that version is a semantic version such as "0.1.1".
func ValidateVersion(version string) error {
	if !semver.IsValid("v" + version) {
		return fmt.Errorf("invalid version %q: expected a semantic version such as 0.1.1", version)
	}
	return nil
}

// Run provisions services in declaration order. A failing service is logged
// and recorded; it never stops the remaining services from being attempted.
// An invalid service list fails every service without any install request.
func (o *Orchestrator) Run(ctx context.Context, services []interfaces.ServiceDescriptor) *Report {
	start := time.Now()
	report := &Report{Results: make([]ServiceResult, 0, len(services))}

	if err := ValidateDescriptors(services); err != nil {
		o.log.Error("Invalid service list", "err", err)
		for _, service := range services {
			report.Results = append(report.Results, ServiceResult{
				Service: service.Name,
				Target:  service.Target,
				Status:  StatusFailed,
				Err:     err,
			})
		}
		return report
	}

	for _, service := range services {
		report.Results = append(report.Results, o.Provision(ctx, service))
	}

	o.log.Info("Provisioning finished",
		slog.Int("services", len(services)),
		slog.Int("succeeded", report.Succeeded()),
		slog.Int("skipped", report.Skipped()),
		slog.Int("failed", len(report.Failed())),
		slog.Duration("duration", time.Since(start)))

	return report
}

// Provision runs the full flow for a single service.
func (o *Orchestrator) Provision(ctx context.Context, service interfaces.ServiceDescriptor) ServiceResult {
	result := ServiceResult{Service: service.Name, Target: service.Target}
	log := o.log.With(slog.String("serviceName", service.Name))

	if o.opts.SkipExisting && configfile.Exists(service.Target) {
		log.Info("Service already configured, skipping", slog.String("target", service.Target))
		result.Status = StatusSkipped
		return result
	}

	data, err := o.provision(ctx, service)
	if err != nil {
		log.Error("Failed to provision service", "err", err)
		result.Status = StatusFailed
		result.Err = err
		return result
	}

	result.Status = StatusProvisioned
	log.Info("Token written", slog.String("target", service.Target))

	if o.mirror != nil {
		if err := o.mirror.Store(ctx, service.Name, data); err != nil {
			log.Warn("Failed to mirror service config", slog.String("mirror", o.mirror.LocationURI()), "err", err)
			result.MirrorErr = err
		}
	}

	return result
}

func (o *Orchestrator) provision(ctx context.Context, service interfaces.ServiceDescriptor) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrNetwork, err)
	}

	resp, err := o.provider.Install(ctx, interfaces.ProvisionRequest{
		Subtype: o.opts.Subtype,
		Source:  service.Name,
		Version: o.opts.Version,
	})
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Token == "" {
		return nil, fmt.Errorf("%w: install response has no token", interfaces.ErrProvisioning)
	}

	cfg := interfaces.NewServiceConfig(service.Name, resp.Token, o.provider.Endpoint())
	data, err := configfile.Render(cfg)
	if err != nil {
		return nil, err
	}
	if err := configfile.WriteRendered(service.Target, data); err != nil {
		return nil, err
	}
	return data, nil
}
