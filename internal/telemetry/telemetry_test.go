package telemetry

import (
	"bytes"
	"context"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestDisabledIsNoop(t *testing.T) {
	p, err := New(Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if p.Enabled() {
		t.Error("Enabled() = true for a disabled config")
	}
	if p.MeterProvider() == nil {
		t.Error("MeterProvider() = nil, expected a no-op provider")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestEnabledNeedsWriter(t *testing.T) {
	if _, err := New(Config{Enabled: true}); err == nil {
		t.Error("New(enabled, no writer) error = nil, expected an error")
	}
}

func TestStdoutExportOnShutdown(t *testing.T) {
	var buf bytes.Buffer
	p, err := New(Config{Enabled: true, Writer: &buf, Interval: time.Hour})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	c, err := p.MeterProvider().Meter("test").Int64Counter("arcade.test")
	if err != nil {
		t.Fatalf("Int64Counter() error = %v", err)
	}
	c.Add(context.Background(), 2)

	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("arcade.test")) {
		t.Errorf("exported output does not mention arcade.test: %s", buf.String())
	}
}

func TestManualReader(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	p := NewWithReader(reader)
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	c, err := p.MeterProvider().Meter("test").Int64Counter("arcade.test")
	if err != nil {
		t.Fatalf("Int64Counter() error = %v", err)
	}
	c.Add(context.Background(), 3)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(rm.ScopeMetrics) != 1 || len(rm.ScopeMetrics[0].Metrics) != 1 {
		t.Fatalf("collected %+v, expected one metric", rm.ScopeMetrics)
	}
	sum, ok := rm.ScopeMetrics[0].Metrics[0].Data.(metricdata.Sum[int64])
	if !ok || len(sum.DataPoints) != 1 || sum.DataPoints[0].Value != 3 {
		t.Errorf("data = %+v, expected a sum of 3", rm.ScopeMetrics[0].Metrics[0].Data)
	}
}
