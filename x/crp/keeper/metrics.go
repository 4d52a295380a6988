package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CRPMetrics holds all Prometheus metrics for the crp module
type CRPMetrics struct {
	Operations     *prometheus.CounterVec
	ResyncDegraded *prometheus.CounterVec
	WeightPokes    prometheus.Counter
	PoolsCreated   prometheus.Counter
	ActiveUpdates  prometheus.Gauge
}

var (
	crpMetricsOnce sync.Once
	crpMetrics     *CRPMetrics
)

// NewCRPMetrics creates and registers crp metrics (singleton pattern)
func NewCRPMetrics() *CRPMetrics {
	crpMetricsOnce.Do(func() {
		crpMetrics = &CRPMetrics{
			Operations: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "crp",
					Name:      "operations_total",
					Help:      "Pool operations by outcome",
				},
				[]string{"operation", "status"},
			),
			ResyncDegraded: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "crp",
					Name:      "resync_degraded_total",
					Help:      "Safe resyncs that fell back to a gulp",
				},
				[]string{"pool_id"},
			),
			WeightPokes: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "crp",
					Name:      "weight_pokes_total",
					Help:      "Scheduled weight updates applied",
				},
			),
			PoolsCreated: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "crp",
					Name:      "pools_created_total",
					Help:      "Pools whose underlying pool was created",
				},
			),
			ActiveUpdates: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "paw",
					Subsystem: "crp",
					Name:      "active_gradual_updates",
					Help:      "Weight schedules awaiting completion at the last end block",
				},
			),
		}
	})
	return crpMetrics
}

func (m *CRPMetrics) recordOperation(operation string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.Operations.WithLabelValues(operation, status).Inc()
}
