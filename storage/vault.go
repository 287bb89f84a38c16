package storage

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/data-forge-services/service-provisioning/configfile"
	"github.com/data-forge-services/service-provisioning/interfaces"
	"github.com/hashicorp/vault/api"
)

// VaultBackend mirrors service configs into a HashiCorp Vault KV v2 engine.
// Each service is written to <mount>/data/<path>/<service> with the rendered
// file as "content" and, when the file parses, its token and endpoint as
// separate fields.
type VaultBackend struct {
	client      *api.Client
	mountPath   string
	dataPath    string
	log         *slog.Logger
	locationURI string
}

// NewVaultBackend creates a Vault mirror. The token is taken from the
// environment (VAULT_TOKEN) unless token is non-empty.
//
// Parameters:
//   - address: Vault server address (e.g. https://vault.example.com:8200)
//   - mountPath: KV v2 mount path (e.g. "secret")
//   - dataPath: Path within the mount (e.g. "dataforge/services")
//   - token: Vault token, optional
//   - log: Structured logger for operational insights
func NewVaultBackend(address, mountPath, dataPath, token string, log *slog.Logger) (*VaultBackend, error) {
	config := api.DefaultConfig()
	config.Address = address
	config.HttpClient = &http.Client{
		Timeout: 30 * time.Second,
	}

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	if token != "" {
		client.SetToken(token)
	}

	mountPath = strings.Trim(mountPath, "/")
	dataPath = strings.Trim(dataPath, "/")

	return &VaultBackend{
		client:      client,
		mountPath:   mountPath,
		dataPath:    dataPath,
		log:         log,
		locationURI: fmt.Sprintf("vault://%s/%s/%s", strings.TrimPrefix(strings.TrimPrefix(address, "https://"), "http://"), mountPath, dataPath),
	}, nil
}

// SecretPath returns the KV v2 API path a service is written to.
func (b *VaultBackend) SecretPath(service string) string {
	if b.dataPath == "" {
		return fmt.Sprintf("%s/data/%s", b.mountPath, service)
	}
	return fmt.Sprintf("%s/data/%s/%s", b.mountPath, b.dataPath, service)
}

// Store writes the rendered config of service to Vault.
func (b *VaultBackend) Store(ctx context.Context, service string, data []byte) error {
	start := time.Now()
	path := b.SecretPath(service)

	fields := map[string]interface{}{
		"content": string(data),
	}
	if cfg, err := configfile.Parse(data); err == nil {
		if entry, err := cfg.Entry(service); err == nil {
			fields["token"] = entry.Token
			fields["endpoint"] = entry.Endpoint
		}
	}

	_, err := b.client.Logical().WriteWithContext(ctx, path, map[string]interface{}{
		"data": fields,
	})
	if err != nil {
		b.log.Error("Failed to write to Vault",
			slog.String("path", path),
			slog.String("serviceName", service),
			"err", err)
		return fmt.Errorf("%w: %v", interfaces.ErrBackendUnavailable, err)
	}

	b.log.Info("Mirrored service config to Vault",
		slog.String("path", path),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// Name returns a unique identifier for this backend.
func (b *VaultBackend) Name() string {
	return fmt.Sprintf("vault-%s-%s", b.mountPath, b.dataPath)
}

// LocationURI returns the URI that identifies this backend.
func (b *VaultBackend) LocationURI() string {
	return b.locationURI
}
