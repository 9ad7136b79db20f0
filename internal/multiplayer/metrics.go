package multiplayer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/vovakirdan/battle-arcade/internal/multiplayer"

// metrics are recorded against CoordinatorConfig.MeterProvider, or the
// global provider when it is nil.
type metrics struct {
	lobbies  metric.Int64Counter
	started  metric.Int64Counter
	ended    metric.Int64Counter
	dropped  metric.Int64Counter
	active   metric.Int64ObservableGauge
	rematch  metric.Int64Counter
	register metric.Registration
}

func newMetrics(c *Coordinator) (*metrics, error) {
	provider := c.config.MeterProvider
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	m := provider.Meter(instrumentationName)
	var (
		mt  metrics
		err error
	)

	if mt.lobbies, err = m.Int64Counter("arcade.lobbies.created",
		metric.WithDescription("Lobbies opened by hosts")); err != nil {
		return nil, fmt.Errorf("multiplayer: lobbies counter: %w", err)
	}
	if mt.started, err = m.Int64Counter("arcade.matches.started",
		metric.WithDescription("Matches started, rematches included")); err != nil {
		return nil, fmt.Errorf("multiplayer: started counter: %w", err)
	}
	if mt.ended, err = m.Int64Counter("arcade.matches.ended",
		metric.WithDescription("Matches ended, by reason")); err != nil {
		return nil, fmt.Errorf("multiplayer: ended counter: %w", err)
	}
	if mt.rematch, err = m.Int64Counter("arcade.matches.rematched",
		metric.WithDescription("Rematches agreed by both players")); err != nil {
		return nil, fmt.Errorf("multiplayer: rematch counter: %w", err)
	}
	if mt.dropped, err = m.Int64Counter("arcade.inputs.dropped",
		metric.WithDescription("Player input frames dropped due to a full queue")); err != nil {
		return nil, fmt.Errorf("multiplayer: dropped counter: %w", err)
	}
	if mt.active, err = m.Int64ObservableGauge("arcade.active",
		metric.WithDescription("Open lobbies and running matches")); err != nil {
		return nil, fmt.Errorf("multiplayer: active gauge: %w", err)
	}

	mt.register, err = m.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(mt.active, int64(c.LobbyCount()), metric.WithAttributes(attribute.String("kind", "lobby")))
		o.ObserveInt64(mt.active, int64(c.MatchCount()), metric.WithAttributes(attribute.String("kind", "match")))
		return nil
	}, mt.active)
	if err != nil {
		return nil, fmt.Errorf("multiplayer: register gauge: %w", err)
	}
	return &mt, nil
}

func (m *metrics) matchEnded(gameID string, reason MatchEndReason) {
	m.ended.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("game", gameID),
		attribute.String("reason", reason.String()),
	))
}

func (m *metrics) add(c metric.Int64Counter, gameID string) {
	c.Add(context.Background(), 1, metric.WithAttributes(attribute.String("game", gameID)))
}
