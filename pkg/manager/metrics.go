package manager

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	transitions   *prometheus.CounterVec
	downloads     *prometheus.CounterVec
	checkDuration prometheus.Histogram
	checks        *prometheus.CounterVec
}

func newMetrics(registry prometheus.Registerer) *metrics {
	factory := promauto.With(registry)

	return &metrics{
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "snatcher_release_transitions_total",
			Help: "Release status changes",
		}, []string{"from", "to"}),
		downloads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "snatcher_download_attempts_total",
			Help: "Download attempts by result",
		}, []string{"result"}),
		checkDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "snatcher_check_snatched_duration_seconds",
			Help:    "Time spent reconciling snatched releases",
			Buckets: prometheus.DefBuckets,
		}),
		checks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "snatcher_check_snatched_total",
			Help: "Reconcile passes by result",
		}, []string{"result"}),
	}
}
