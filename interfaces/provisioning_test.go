package interfaces

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceConfig_Entry(t *testing.T) {
	cfg := ServiceConfig{
		"locationSelector": {Token: "abc123", Endpoint: DefaultEndpoint},
		"noToken":          {Endpoint: DefaultEndpoint},
		"noEndpoint":       {Token: "abc123"},
	}

	entry, err := cfg.Entry("locationSelector")
	require.NoError(t, err)
	assert.Equal(t, ServiceEntry{Token: "abc123", Endpoint: DefaultEndpoint}, entry)

	for _, name := range []string{"missing", "noToken", "noEndpoint"} {
		_, err := cfg.Entry(name)
		assert.ErrorIs(t, err, ErrServiceNotConfigured, name)
	}
}

func TestNewMirrorLocation(t *testing.T) {
	loc, err := NewMirrorLocation("vault://s.token@vault.internal:8200/secret/widgets?tls=false")
	require.NoError(t, err)
	assert.Equal(t, "vault", loc.Scheme)
	assert.Equal(t, "vault.internal:8200", loc.Host)
	assert.Equal(t, "/secret/widgets", loc.Path)
	assert.Equal(t, "s.token", loc.Auth)
	assert.False(t, loc.GetParamBool("tls"))
	assert.Equal(t, "false", loc.GetParam("tls"))

	loc, err = NewMirrorLocation("s3://KEY:SECRET@bucket/prefix?region=eu-west-1")
	require.NoError(t, err)
	assert.Equal(t, "KEY:SECRET", loc.Auth)
	assert.Equal(t, "eu-west-1", loc.GetParam("region"))

	for _, uri := range []string{"ipfs://host/cid", "https://example.com", "://broken"} {
		_, err := NewMirrorLocation(uri)
		assert.ErrorIs(t, err, ErrInvalidLocationURI, uri)
	}
}
