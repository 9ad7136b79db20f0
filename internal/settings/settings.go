// Package settings holds application-wide options: frame rate, storage
// location, logging and the SSH server. Values come from defaults, an
// optional arcade.yaml, ARCADE_* environment variables and command flags,
// in increasing priority.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keys understood by Load.
const (
	KeyFPS            = "fps"
	KeySeed           = "seed"
	KeyDB             = "db"
	KeyLogLevel       = "log_level"
	KeySSHAddress     = "ssh.address"
	KeySSHHostKey     = "ssh.host_key"
	KeySSHIdleTimeout = "ssh.idle_timeout"
	KeyMetrics        = "metrics.enabled"
	KeyMetricsPath    = "metrics.path"
	KeyMetricsPeriod  = "metrics.interval"
)

// Settings is a resolved snapshot of the application options.
type Settings struct {
	FPS      int
	Seed     int64
	DBPath   string
	LogLevel string
	SSH      SSH
	Metrics  Metrics
}

// Metrics configures the OpenTelemetry export of `arcade serve`.
type Metrics struct {
	Enabled  bool
	Path     string // empty writes to stderr
	Interval time.Duration
}

// SSH configures `arcade serve`.
type SSH struct {
	Address     string
	HostKey     string
	IdleTimeout time.Duration
}

// Dir returns ~/.arcade, or .arcade when the home directory is unknown.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".arcade"
	}
	return filepath.Join(home, ".arcade")
}

func setDefaults() {
	dir := Dir()
	viper.SetDefault(KeyFPS, 60)
	viper.SetDefault(KeySeed, 0)
	viper.SetDefault(KeyDB, filepath.Join(dir, "scores.db"))
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeySSHAddress, "0.0.0.0:2222")
	viper.SetDefault(KeySSHHostKey, filepath.Join(dir, "ssh_host_ed25519"))
	viper.SetDefault(KeySSHIdleTimeout, "10m")
	viper.SetDefault(KeyMetrics, false)
	viper.SetDefault(KeyMetricsPath, "")
	viper.SetDefault(KeyMetricsPeriod, "1m")
}

// Load sets defaults, reads arcade.yaml from configDir if it exists and
// enables ARCADE_* environment overrides (ssh.address is ARCADE_SSH_ADDRESS).
// A missing file is not an error; a malformed one is.
func Load(configDir string) error {
	setDefaults()

	viper.SetConfigName("arcade")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)

	viper.SetEnvPrefix("arcade")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("settings: read %s: %w", viper.ConfigFileUsed(), err)
		}
	}
	return nil
}

// BindFlags lets command flags override the file and environment. Flags
// are bound by name; the ssh flags use their dashed names.
func BindFlags(fs *pflag.FlagSet) error {
	pairs := map[string]string{
		KeyFPS:            "fps",
		KeySeed:           "seed",
		KeyDB:             "db",
		KeyLogLevel:       "log-level",
		KeySSHAddress:     "addr",
		KeySSHHostKey:     "host-key",
		KeySSHIdleTimeout: "idle-timeout",
		KeyMetrics:        "metrics",
		KeyMetricsPath:    "metrics-path",
	}
	for key, name := range pairs {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("settings: bind %s: %w", name, err)
		}
	}
	return nil
}

// Current resolves the options in effect.
func Current() Settings {
	fps := viper.GetInt(KeyFPS)
	if fps <= 0 {
		fps = 60
	}
	idle := viper.GetDuration(KeySSHIdleTimeout)
	if idle <= 0 {
		idle = 10 * time.Minute
	}
	period := viper.GetDuration(KeyMetricsPeriod)
	if period <= 0 {
		period = time.Minute
	}
	return Settings{
		FPS:      fps,
		Seed:     viper.GetInt64(KeySeed),
		DBPath:   viper.GetString(KeyDB),
		LogLevel: viper.GetString(KeyLogLevel),
		SSH: SSH{
			Address:     viper.GetString(KeySSHAddress),
			HostKey:     viper.GetString(KeySSHHostKey),
			IdleTimeout: idle,
		},
		Metrics: Metrics{
			Enabled:  viper.GetBool(KeyMetrics),
			Path:     viper.GetString(KeyMetricsPath),
			Interval: period,
		},
	}
}
