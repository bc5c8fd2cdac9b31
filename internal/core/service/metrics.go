package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK    = "ok"
	outcomeUsage = "usage"
	outcomeFault = "fault"
)

type Metrics struct {
	InFlight      prometheus.Gauge
	Waiting       prometheus.Gauge
	AdmissionWait prometheus.Histogram
	Invocations   *prometheus.CounterVec
}

// NewMetrics creates the dispatch metrics and registers them with reg. A nil
// reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		InFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "bridgebot",
			Subsystem: "scheduler",
			Name:      "in_flight",
			Help:      "Invocations currently holding a slot.",
		}),
		Waiting: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "bridgebot",
			Subsystem: "scheduler",
			Name:      "waiting",
			Help:      "Invocations waiting for a free slot.",
		}),
		AdmissionWait: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bridgebot",
			Subsystem: "scheduler",
			Name:      "admission_wait_seconds",
			Help:      "Time spent waiting for a slot.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		Invocations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bridgebot",
			Name:      "invocations_total",
			Help:      "Matched commands by outcome.",
		}, []string{"command", "outcome"}),
	}
}
