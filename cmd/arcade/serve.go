package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/battle-arcade/internal/platform/tui"
	"github.com/vovakirdan/battle-arcade/internal/storage"
	"github.com/vovakirdan/battle-arcade/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the arcade SSH server",
	Long: `Start an SSH server that allows users to connect and play games.

Each SSH connection gets its own session with a game picker menu.
"Online Battle" pairs two connections for a tank battle: one hosts
and shares the six-letter code, the other joins with it. After a
battle both players may ask for a rematch.

Scores and battle results are stored per server, all users share
the same leaderboard.

The host key is created at --host-key on first start.

With --metrics (or metrics.enabled in arcade.yaml) lobby and match
counters are exported through OpenTelemetry to stderr, or to
--metrics-path.

Examples:
  arcade serve                           # Listen on 0.0.0.0:2222
  arcade serve --addr :23234             # Listen on port 23234
  arcade serve --host-key ./my_host_key  # Use specific host key
  arcade serve --idle-timeout 30m

Users can connect with:
  ssh -t localhost -p 2222`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "0.0.0.0:2222", "SSH server address (host:port)")
	serveCmd.Flags().String("host-key", "~/.arcade/ssh_host_ed25519", "Path to host key file")
	serveCmd.Flags().Duration("idle-timeout", 0, "Disconnect idle sessions after this long (default 10m)")
	serveCmd.Flags().Bool("metrics", false, "Export OpenTelemetry metrics")
	serveCmd.Flags().String("metrics-path", "", "Write metrics to this file instead of stderr")
}

// startMetrics builds the metrics pipeline described by the settings.
// The returned stop flushes it and closes the output file.
func startMetrics() (*telemetry.Provider, func(), error) {
	m := opts.Metrics
	if !m.Enabled {
		p, err := telemetry.New(telemetry.Config{})
		return p, func() {}, err
	}

	var out io.Writer = os.Stderr
	var file *os.File
	if m.Path != "" {
		path, err := storage.ExpandPath(m.Path)
		if err != nil {
			return nil, nil, err
		}
		if file, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err != nil {
			return nil, nil, fmt.Errorf("open metrics file: %w", err)
		}
		out = file
	}

	p, err := telemetry.New(telemetry.Config{
		Enabled:     true,
		ServiceName: "arcade-ssh",
		Interval:    m.Interval,
		Writer:      out,
	})
	if err != nil {
		if file != nil {
			file.Close()
		}
		return nil, nil, err
	}

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.Shutdown(ctx); err != nil {
			logger.Warn("metrics shutdown", "err", err)
		}
		if file != nil {
			file.Close()
		}
	}
	logger.Info("metrics enabled", "interval", m.Interval, "path", m.Path)
	return p, stop, nil
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := tui.SSHServerConfig{
		Address:     opts.SSH.Address,
		HostKeyPath: opts.SSH.HostKey,
		DBPath:      opts.DBPath,
		IdleTimeout: opts.SSH.IdleTimeout,
		TickRate:    opts.FPS,
	}

	metrics, stopMetrics, err := startMetrics()
	if err != nil {
		return err
	}
	defer stopMetrics()
	cfg.MeterProvider = metrics.MeterProvider()

	server, err := tui.NewSSHServer(cfg, logger.WithPrefix("ssh"))
	if err != nil {
		return err
	}

	fmt.Printf("Starting arcade SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")
	return server.ListenAndServe()
}
