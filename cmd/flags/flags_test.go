package flags

import (
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func newContext(t *testing.T, flags []cli.Flag, args []string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range flags {
		require.NoError(t, f.Apply(set))
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestConfigureServer(t *testing.T) {
	flags := append(LogFlags("test"), ServerFlags...)
	cCtx := newContext(t, flags, []string{"--pprof", "--drain-seconds", "5", "--metrics-addr", ""})

	logger := SetupLogger(cCtx)
	cfg := ConfigureServer(cCtx, logger, "127.0.0.1:8080")

	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.True(t, cfg.EnablePprof)
	assert.Equal(t, 5*time.Second, cfg.DrainDuration)
	assert.Empty(t, cfg.MetricsAddr)
	assert.Equal(t, 30*time.Second, cfg.GracefulShutdownDuration)
	assert.NoError(t, cfg.Validate())
}

func TestLookup_FlagsOnEitherSideOfCommand(t *testing.T) {
	appCtx := newContext(t, LogFlags("test"), []string{"--log-service", "from-app"})

	set := flag.NewFlagSet("install", flag.ContinueOnError)
	for _, f := range LogFlags("test") {
		require.NoError(t, f.Apply(set))
	}
	require.NoError(t, set.Parse([]string{"--log-debug"}))
	cmdCtx := cli.NewContext(appCtx.App, set, appCtx)

	assert.Equal(t, "from-app", Lookup(cmdCtx, "log-service").String("log-service"))
	assert.True(t, Lookup(cmdCtx, LogDebugFlag.Name).Bool(LogDebugFlag.Name))
	assert.False(t, Lookup(cmdCtx, LogJsonFlag.Name).Bool(LogJsonFlag.Name))
	assert.Same(t, cmdCtx, Lookup(cmdCtx, LogJsonFlag.Name))
}
