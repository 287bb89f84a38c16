package provisioner

import (
	"fmt"
	"os"
	"strings"

	"github.com/data-forge-services/service-provisioning/interfaces"
	"gopkg.in/yaml.v3"
)

// DefaultServices is the built-in service list used when none is declared.
func DefaultServices() []interfaces.ServiceDescriptor {
	return []interfaces.ServiceDescriptor{
		{Name: "locationSelector", Target: "src/location-selector/services.config.js"},
	}
}

// Manifest declares the services to provision and optional request settings.
//
//	endpoint: https://api.data-forge.tech
//	version: 0.1.1
//	services:
//	  - name: locationSelector
//	    target: packages/location-selector/src/services.config.js
type Manifest struct {
	Endpoint string                         `yaml:"endpoint"`
	Subtype  string                         `yaml:"subtype"`
	Version  string                         `yaml:"version"`
	Services []interfaces.ServiceDescriptor `yaml:"services"`
}

// LoadManifest reads and validates a YAML manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read services manifest: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("could not parse services manifest %s: %w", path, err)
	}

	if err := ValidateDescriptors(manifest.Services); err != nil {
		return nil, err
	}
	return &manifest, nil
}

// ParseServiceFlag parses a "name=target" pair.
func ParseServiceFlag(value string) (interfaces.ServiceDescriptor, error) {
	name, target, found := strings.Cut(value, "=")
	name = strings.TrimSpace(name)
	target = strings.TrimSpace(target)
	if !found || name == "" || target == "" {
		return interfaces.ServiceDescriptor{}, fmt.Errorf("%w: %q, expected name=target", interfaces.ErrInvalidDescriptor, value)
	}
	return interfaces.ServiceDescriptor{Name: name, Target: target}, nil
}

// ValidateDescriptors rejects an empty list, empty fields, names that are not
// a single path element and duplicate names.
func ValidateDescriptors(services []interfaces.ServiceDescriptor) error {
	if len(services) == 0 {
		return fmt.Errorf("%w: no services declared", interfaces.ErrInvalidDescriptor)
	}

	seen := make(map[string]struct{}, len(services))
	for i, service := range services {
		if service.Name == "" {
			return fmt.Errorf("%w: service #%d has no name", interfaces.ErrInvalidDescriptor, i)
		}
		if strings.ContainsAny(service.Name, `/\`) || service.Name == "." || service.Name == ".." {
			return fmt.Errorf("%w: service name %q must not contain path separators", interfaces.ErrInvalidDescriptor, service.Name)
		}
		if service.Target == "" {
			return fmt.Errorf("%w: service %q has no target", interfaces.ErrInvalidDescriptor, service.Name)
		}
		if _, dup := seen[service.Name]; dup {
			return fmt.Errorf("%w: service %q declared twice", interfaces.ErrInvalidDescriptor, service.Name)
		}
		seen[service.Name] = struct{}{}
	}
	return nil
}
