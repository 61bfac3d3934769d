// Package telemetry provides Prometheus metrics and correlation-id aware logging helpers.
package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// CommandsHandled counts chat commands by command name.
	CommandsHandled *prometheus.CounterVec
	// CommandErrors counts commands that failed with an internal error.
	CommandErrors *prometheus.CounterVec
	// Resolutions counts entity lookups by kind and outcome.
	Resolutions *prometheus.CounterVec

	// Histograms (seconds)
	ResolveDuration prometheus.Observer
	CommandDuration prometheus.Observer

	// ChatConnectedGauge is 1 while the IRC connection is up.
	ChatConnectedGauge prometheus.Gauge
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		CommandsHandled = promauto.NewCounterVec(prometheus.CounterOpts{Name: "bot_commands_handled_total", Help: "Number of chat commands handled"}, []string{"command"})
		CommandErrors = promauto.NewCounterVec(prometheus.CounterOpts{Name: "bot_command_errors_total", Help: "Number of chat commands that errored"}, []string{"command"})
		Resolutions = promauto.NewCounterVec(prometheus.CounterOpts{Name: "bot_resolutions_total", Help: "Number of entity resolutions by kind and outcome"}, []string{"kind", "outcome"})
		ResolveDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "bot_resolve_duration_seconds", Help: "Entity resolution duration seconds", Buckets: prometheus.DefBuckets})
		CommandDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "bot_command_duration_seconds", Help: "Full command handling duration seconds", Buckets: prometheus.DefBuckets})
		ChatConnectedGauge = promauto.NewGauge(prometheus.GaugeOpts{Name: "bot_chat_connected", Help: "Chat connection up=1 down=0"})
	})
}

// SetChatConnected flips the connection gauge.
func SetChatConnected(up bool) {
	if ChatConnectedGauge == nil {
		return
	}
	if up {
		ChatConnectedGauge.Set(1)
	} else {
		ChatConnectedGauge.Set(0)
	}
}

// CountResolution records one lookup outcome.
func CountResolution(kind, outcome string) {
	if Resolutions != nil {
		Resolutions.WithLabelValues(kind, outcome).Inc()
	}
}

// TimeFunc measures the duration of fn and records in observer if non-nil.
func TimeFunc(obs prometheus.Observer, fn func()) time.Duration {
	start := time.Now()
	fn()
	d := time.Since(start)
	if obs != nil {
		obs.Observe(d.Seconds())
	}
	return d
}

// Correlation ID helpers ----------------------------------------------------
type corrKeyType struct{}

var corrKey corrKeyType

// WithCorrelation returns a new context embedding correlation id (if absent) and the id.
func WithCorrelation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, corrKey, id)
}

// GetCorrelation returns correlation id or empty string.
func GetCorrelation(ctx context.Context) string {
	v := ctx.Value(corrKey)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// LoggerWith returns a slog.Logger enriched with the context's correlation id.
func LoggerWith(ctx context.Context, base *slog.Logger) *slog.Logger {
	if corr := GetCorrelation(ctx); corr != "" {
		return base.With(slog.String("correlation_id", corr))
	}
	return base
}
