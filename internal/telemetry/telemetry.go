// Package telemetry installs the OpenTelemetry metrics pipeline of the
// SSH server. Disabled, it hands out a no-op provider.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Config selects where metrics go.
type Config struct {
	Enabled     bool
	ServiceName string
	Interval    time.Duration // export period, default one minute
	Writer      io.Writer     // required when enabled
}

// Provider owns the meter provider and its exporter.
type Provider struct {
	sdk *sdkmetric.MeterProvider
}

// New builds the metrics pipeline. A disabled config yields a no-op
// provider and no error.
func New(cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{}, nil
	}
	if cfg.Writer == nil {
		return nil, fmt.Errorf("telemetry: metrics enabled without a writer")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "arcade"
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)))
	if err != nil {
		return nil, fmt.Errorf("telemetry: resource: %w", err)
	}

	exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(cfg.Writer))
	if err != nil {
		return nil, fmt.Errorf("telemetry: stdout exporter: %w", err)
	}

	return NewWithReader(
		sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.Interval)),
		sdkmetric.WithResource(res),
	), nil
}

// NewWithReader builds a provider around a reader, such as a manual
// reader in tests.
func NewWithReader(r sdkmetric.Reader, opts ...sdkmetric.Option) *Provider {
	opts = append(opts, sdkmetric.WithReader(r))
	return &Provider{sdk: sdkmetric.NewMeterProvider(opts...)}
}

// MeterProvider returns the provider instruments should use.
func (p *Provider) MeterProvider() metric.MeterProvider {
	if p.sdk == nil {
		return noop.NewMeterProvider()
	}
	return p.sdk
}

// Enabled reports whether metrics are exported.
func (p *Provider) Enabled() bool {
	return p.sdk != nil
}

// Shutdown flushes pending metrics and stops the exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.sdk == nil {
		return nil
	}
	if err := p.sdk.Shutdown(ctx); err != nil {
		return fmt.Errorf("telemetry: shutdown: %w", err)
	}
	return nil
}
