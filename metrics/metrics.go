package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/fx"
)

const (
	StrategyRemote       = "remote"
	StrategyCache        = "cache"
	StrategyDefault      = "default"
	StrategyDefaultLocal = "default_local"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

var Module = fx.Provide(NewMetrics)

// Metrics holds the prometheus collectors of the profile synchronization core.
//
// Metrics:
//   - profilesync_initialize_total{strategy} - initializations by the strategy that produced the set
//   - profilesync_switch_rollbacks_total - active profile switches rolled back after a remote failure
//   - profilesync_breaker_trips_total - auth circuit breaker transitions to open
//   - profilesync_notifications_dropped_total{reason} - notifications dropped by the inbox
type Metrics struct {
	InitializeTotal      *prometheus.CounterVec
	SwitchRollbacksTotal prometheus.Counter
	BreakerTripsTotal    prometheus.Counter
	NotificationsDropped *prometheus.CounterVec
}

// NewMetrics registers the collectors with the default registry once per process
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			InitializeTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "profilesync_initialize_total",
					Help: "Total number of profile set initializations",
				},
				[]string{"strategy"},
			),
			SwitchRollbacksTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "profilesync_switch_rollbacks_total",
					Help: "Total number of active profile switches rolled back",
				},
			),
			BreakerTripsTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "profilesync_breaker_trips_total",
					Help: "Total number of auth circuit breaker trips",
				},
			),
			NotificationsDropped: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "profilesync_notifications_dropped_total",
					Help: "Total number of notifications dropped",
				},
				[]string{"reason"}, // "duplicate", "evicted" or "expired"
			),
		}
	})
	return globalMetrics
}
