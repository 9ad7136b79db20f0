package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("HOME", t.TempDir())

	require.NoError(t, Load(t.TempDir()))
	s := Current()

	assert.Equal(t, 60, s.FPS)
	assert.Equal(t, int64(0), s.Seed)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "0.0.0.0:2222", s.SSH.Address)
	assert.Equal(t, 10*time.Minute, s.SSH.IdleTimeout)
	assert.Equal(t, "scores.db", filepath.Base(s.DBPath))
	assert.False(t, s.Metrics.Enabled)
	assert.Equal(t, time.Minute, s.Metrics.Interval)
}

func TestLoad_Metrics(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := "metrics:\n  enabled: true\n  path: /tmp/arcade-metrics.json\n  interval: 15s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "arcade.yaml"), []byte(cfg), 0644))

	require.NoError(t, Load(dir))
	s := Current()

	assert.True(t, s.Metrics.Enabled)
	assert.Equal(t, "/tmp/arcade-metrics.json", s.Metrics.Path)
	assert.Equal(t, 15*time.Second, s.Metrics.Interval)
}

func TestLoad_File(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := "fps: 30\nlog_level: debug\nssh:\n  address: 127.0.0.1:2300\n  idle_timeout: 90s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "arcade.yaml"), []byte(cfg), 0644))

	require.NoError(t, Load(dir))
	s := Current()

	assert.Equal(t, 30, s.FPS)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, "127.0.0.1:2300", s.SSH.Address)
	assert.Equal(t, 90*time.Second, s.SSH.IdleTimeout)
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "arcade.yaml"), []byte("fps: [1,\n"), 0644))

	err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings: read")
}

func TestLoad_Environment(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("ARCADE_FPS", "45")
	t.Setenv("ARCADE_SSH_ADDRESS", ":2022")

	require.NoError(t, Load(t.TempDir()))
	s := Current()

	assert.Equal(t, 45, s.FPS)
	assert.Equal(t, ":2022", s.SSH.Address)
}

func TestBindFlags_OverrideEnvironment(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("ARCADE_FPS", "45")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("fps", 60, "")
	fs.Int64("seed", 0, "")
	require.NoError(t, fs.Parse([]string{"--fps=20", "--seed=9"}))

	require.NoError(t, Load(t.TempDir()))
	require.NoError(t, BindFlags(fs))
	s := Current()

	assert.Equal(t, 20, s.FPS)
	assert.Equal(t, int64(9), s.Seed)
}

func TestCurrent_ClampsFPS(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set(KeyFPS, -1)

	assert.Equal(t, 60, Current().FPS)
}
