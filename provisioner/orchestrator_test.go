package provisioner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/data-forge-services/service-provisioning/api/clients"
	"github.com/data-forge-services/service-provisioning/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testEndpoint = "https://api.data-forge.tech"

// MockConfigMirror implements interfaces.ConfigMirror for testing
type MockConfigMirror struct {
	mock.Mock
}

func (m *MockConfigMirror) Store(ctx context.Context, service string, data []byte) error {
	args := m.Called(ctx, service, data)
	return args.Error(0)
}

func (m *MockConfigMirror) Name() string        { return "mock" }
func (m *MockConfigMirror) LocationURI() string { return "mock:" }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func installRequest(source string) interfaces.ProvisionRequest {
	return interfaces.ProvisionRequest{Subtype: "vue", Source: source, Version: "0.1.1"}
}

func TestOrchestrator_LocationSelectorScenario(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "src", "location-selector", "services.config.js")

	provider := new(clients.MockTokenProvider)
	provider.On("Endpoint").Return(testEndpoint)
	provider.On("Install", mock.Anything, installRequest("locationSelector")).
		Return(&interfaces.ProvisionResponse{Token: "abc123"}, nil).Once()

	orchestrator, err := NewOrchestrator(provider, nil, Options{}, testLogger())
	require.NoError(t, err)

	report := orchestrator.Run(context.Background(), []interfaces.ServiceDescriptor{
		{Name: "locationSelector", Target: target},
	})
	require.NoError(t, report.Err())
	assert.Equal(t, 1, report.Succeeded())

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "export default {\n  \"locationSelector\": {\n    \"token\": \"abc123\",\n    \"endpoint\": \"https://api.data-forge.tech\"\n  }\n}\n", string(data))

	provider.AssertExpectations(t)
}

func TestOrchestrator_CallsProviderOncePerServiceInOrder(t *testing.T) {
	root := t.TempDir()
	var services []interfaces.ServiceDescriptor
	for i := 0; i < 5; i++ {
		services = append(services, interfaces.ServiceDescriptor{
			Name:   fmt.Sprintf("service%d", i),
			Target: filepath.Join(root, fmt.Sprintf("service%d", i), "services.config.js"),
		})
	}

	var order []string
	provider := new(clients.MockTokenProvider)
	provider.On("Endpoint").Return(testEndpoint)
	provider.On("Install", mock.Anything, mock.AnythingOfType("interfaces.ProvisionRequest")).
		Run(func(args mock.Arguments) {
			order = append(order, args.Get(1).(interfaces.ProvisionRequest).Source)
		}).
		Return(&interfaces.ProvisionResponse{Token: "t"}, nil)

	orchestrator, err := NewOrchestrator(provider, nil, Options{}, testLogger())
	require.NoError(t, err)

	report := orchestrator.Run(context.Background(), services)
	assert.Equal(t, 5, report.Succeeded())
	assert.Equal(t, []string{"service0", "service1", "service2", "service3", "service4"}, order)
	provider.AssertNumberOfCalls(t, "Install", 5)

	for i, result := range report.Results {
		assert.Equal(t, services[i].Name, result.Service)
		assert.Equal(t, StatusProvisioned, result.Status)
	}
}

func TestOrchestrator_FailureIsolation(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	services := []interfaces.ServiceDescriptor{
		{Name: "network", Target: filepath.Join(root, "network", "services.config.js")},
		{Name: "provisioning", Target: filepath.Join(root, "provisioning", "services.config.js")},
		{Name: "filesystem", Target: filepath.Join(blocker, "nested", "services.config.js")},
		{Name: "healthy", Target: filepath.Join(root, "healthy", "services.config.js")},
	}

	provider := new(clients.MockTokenProvider)
	provider.On("Endpoint").Return(testEndpoint)
	provider.On("Install", mock.Anything, installRequest("network")).
		Return(nil, fmt.Errorf("%w: connection refused", interfaces.ErrNetwork))
	provider.On("Install", mock.Anything, installRequest("provisioning")).
		Return(&interfaces.ProvisionResponse{}, nil)
	provider.On("Install", mock.Anything, installRequest("filesystem")).
		Return(&interfaces.ProvisionResponse{Token: "fs"}, nil)
	provider.On("Install", mock.Anything, installRequest("healthy")).
		Return(&interfaces.ProvisionResponse{Token: "ok"}, nil)

	orchestrator, err := NewOrchestrator(provider, nil, Options{}, testLogger())
	require.NoError(t, err)

	report := orchestrator.Run(context.Background(), services)
	require.Len(t, report.Results, 4)

	assert.ErrorIs(t, report.Results[0].Err, interfaces.ErrNetwork)
	assert.ErrorIs(t, report.Results[1].Err, interfaces.ErrProvisioning)
	assert.ErrorIs(t, report.Results[2].Err, interfaces.ErrFilesystem)
	assert.Equal(t, StatusProvisioned, report.Results[3].Status)
	assert.Len(t, report.Failed(), 3)
	assert.Error(t, report.Err())

	_, err = os.Stat(services[0].Target)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	_, err = os.Stat(services[1].Target)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	data, err := os.ReadFile(services[3].Target)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"token": "ok"`)
}

func TestOrchestrator_IdempotentOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "services.config.js")
	services := []interfaces.ServiceDescriptor{{Name: "locationSelector", Target: target}}

	provider := new(clients.MockTokenProvider)
	provider.On("Endpoint").Return(testEndpoint)
	provider.On("Install", mock.Anything, installRequest("locationSelector")).
		Return(&interfaces.ProvisionResponse{Token: "abc123"}, nil)

	orchestrator, err := NewOrchestrator(provider, nil, Options{}, testLogger())
	require.NoError(t, err)

	orchestrator.Run(context.Background(), services)
	first, err := os.ReadFile(target)
	require.NoError(t, err)

	orchestrator.Run(context.Background(), services)
	second, err := os.ReadFile(target)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	provider.AssertNumberOfCalls(t, "Install", 2)
}

func TestOrchestrator_SkipExisting(t *testing.T) {
	root := t.TempDir()
	existing := filepath.Join(root, "existing.config.js")
	fresh := filepath.Join(root, "fresh.config.js")
	require.NoError(t, os.WriteFile(existing, []byte("export default {}\n"), 0644))

	provider := new(clients.MockTokenProvider)
	provider.On("Endpoint").Return(testEndpoint)
	provider.On("Install", mock.Anything, installRequest("fresh")).
		Return(&interfaces.ProvisionResponse{Token: "new"}, nil).Once()

	orchestrator, err := NewOrchestrator(provider, nil, Options{SkipExisting: true}, testLogger())
	require.NoError(t, err)

	report := orchestrator.Run(context.Background(), []interfaces.ServiceDescriptor{
		{Name: "existing", Target: existing},
		{Name: "fresh", Target: fresh},
	})
	assert.Equal(t, StatusSkipped, report.Results[0].Status)
	assert.Equal(t, StatusProvisioned, report.Results[1].Status)
	assert.Equal(t, 1, report.Skipped())

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "export default {}\n", string(data))
	provider.AssertExpectations(t)
}

func TestOrchestrator_Mirror(t *testing.T) {
	root := t.TempDir()
	mirrorErr := errors.New("vault sealed")

	provider := new(clients.MockTokenProvider)
	provider.On("Endpoint").Return(testEndpoint)
	provider.On("Install", mock.Anything, mock.Anything).Return(&interfaces.ProvisionResponse{Token: "t"}, nil)

	var mirrored []byte
	mirror := new(MockConfigMirror)
	mirror.On("Store", mock.Anything, "a", mock.Anything).
		Run(func(args mock.Arguments) { mirrored = args.Get(2).([]byte) }).
		Return(nil).Once()
	mirror.On("Store", mock.Anything, "b", mock.Anything).Return(mirrorErr).Once()

	orchestrator, err := NewOrchestrator(provider, mirror, Options{}, testLogger())
	require.NoError(t, err)

	report := orchestrator.Run(context.Background(), []interfaces.ServiceDescriptor{
		{Name: "a", Target: filepath.Join(root, "a.config.js")},
		{Name: "b", Target: filepath.Join(root, "b.config.js")},
	})

	assert.Equal(t, 2, report.Succeeded())
	assert.NoError(t, report.Results[0].MirrorErr)
	assert.ErrorIs(t, report.Results[1].MirrorErr, mirrorErr)

	written, err := os.ReadFile(filepath.Join(root, "a.config.js"))
	require.NoError(t, err)
	assert.Equal(t, written, mirrored)
	mirror.AssertExpectations(t)
}

func TestOrchestrator_CanceledContext(t *testing.T) {
	provider := new(clients.MockTokenProvider)
	provider.On("Endpoint").Return(testEndpoint)

	orchestrator, err := NewOrchestrator(provider, nil, Options{}, testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := orchestrator.Run(ctx, []interfaces.ServiceDescriptor{
		{Name: "a", Target: filepath.Join(t.TempDir(), "a.config.js")},
	})
	assert.ErrorIs(t, report.Results[0].Err, interfaces.ErrNetwork)
	provider.AssertNotCalled(t, "Install", mock.Anything, mock.Anything)
}

func TestOrchestrator_InvalidServiceList(t *testing.T) {
	provider := new(clients.MockTokenProvider)

	orchestrator, err := NewOrchestrator(provider, nil, Options{}, testLogger())
	require.NoError(t, err)

	root := t.TempDir()
	report := orchestrator.Run(context.Background(), []interfaces.ServiceDescriptor{
		{Name: "a", Target: filepath.Join(root, "a.config.js")},
		{Name: "a", Target: filepath.Join(root, "b.config.js")},
	})

	require.Len(t, report.Results, 2)
	for _, result := range report.Results {
		assert.Equal(t, StatusFailed, result.Status)
		assert.ErrorIs(t, result.Err, interfaces.ErrInvalidDescriptor)
	}
	assert.ErrorIs(t, report.Err(), interfaces.ErrInvalidDescriptor)
	assert.NoFileExists(t, filepath.Join(root, "a.config.js"))
	provider.AssertNotCalled(t, "Install", mock.Anything, mock.Anything)

	report = orchestrator.Run(context.Background(), nil)
	assert.Empty(t, report.Results)
	assert.NoError(t, report.Err())
}

func TestNewOrchestrator_Options(t *testing.T) {
	provider := new(clients.MockTokenProvider)

	_, err := NewOrchestrator(nil, nil, Options{}, testLogger())
	assert.Error(t, err)

	_, err = NewOrchestrator(provider, nil, Options{Version: "latest"}, testLogger())
	assert.Error(t, err)

	orchestrator, err := NewOrchestrator(provider, nil, Options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "vue", orchestrator.opts.Subtype)
	assert.Equal(t, interfaces.DefaultVersion, orchestrator.opts.Version)

	orchestrator, err = NewOrchestrator(provider, nil, Options{Subtype: "react", Version: "0.1.0"}, testLogger())
	require.NoError(t, err)
	assert.Equal(t, "react", orchestrator.opts.Subtype)
	assert.Equal(t, "0.1.0", orchestrator.opts.Version)
}

// End-to-end against an HTTP endpoint: A fails with 500, B declared after A still gets written.
func TestOrchestrator_WithProvisioningClient(t *testing.T) {
	var mu sync.Mutex
	var sources []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req interfaces.ProvisionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		mu.Lock()
		sources = append(sources, req.Source)
		mu.Unlock()

		if req.Source == "serviceA" {
			http.Error(w, "no capacity", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(interfaces.ProvisionResponse{Token: "token-" + req.Source})
	}))
	defer srv.Close()

	root := t.TempDir()
	services := []interfaces.ServiceDescriptor{
		{Name: "serviceA", Target: filepath.Join(root, "a", "services.config.js")},
		{Name: "serviceB", Target: filepath.Join(root, "b", "services.config.js")},
	}

	orchestrator, err := NewOrchestrator(clients.NewProvisioningClient(srv.URL, srv.Client()), nil, Options{}, testLogger())
	require.NoError(t, err)

	report := orchestrator.Run(context.Background(), services)
	assert.ErrorIs(t, report.Results[0].Err, interfaces.ErrProvisioning)
	assert.Equal(t, StatusProvisioned, report.Results[1].Status)
	assert.Equal(t, []string{"serviceA", "serviceB"}, sources)

	data, err := os.ReadFile(services[1].Target)
	require.NoError(t, err)
	expected := fmt.Sprintf("export default {\n  \"serviceB\": {\n    \"token\": \"token-serviceB\",\n    \"endpoint\": %q\n  }\n}\n", srv.URL)
	assert.Equal(t, expected, string(data))
}
