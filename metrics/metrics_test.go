package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServer_ExposesInstallMetrics(t *testing.T) {
	srv, err := New("test", "127.0.0.1:0")
	require.NoError(t, err)

	m, err := NewInstallMetrics(srv.Namespace(), srv.Registry())
	require.NoError(t, err)
	m.TokensIssued.WithLabelValues("vue").Inc()
	m.TokensIssued.WithLabelValues("vue").Inc()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.TokensIssued.WithLabelValues("vue")))

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(w.Result().Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(body), `test_tokens_issued_total{subtype="vue"} 2`)
}

func TestNewInstallMetrics_DuplicateRegistration(t *testing.T) {
	srv, err := New("test", "127.0.0.1:0")
	require.NoError(t, err)

	_, err = NewInstallMetrics("test", srv.Registry())
	require.NoError(t, err)

	_, err = NewInstallMetrics("test", srv.Registry())
	assert.Error(t, err)

	_, err = NewInstallMetrics("test", nil)
	assert.NoError(t, err)
}
