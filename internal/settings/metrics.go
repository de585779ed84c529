package settings

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheLookups *prometheus.CounterVec //nolint:gochecknoglobals
	metricsOnce  sync.Once              //nolint:gochecknoglobals
)

func initMetrics() {
	metricsOnce.Do(func() {
		cacheLookups = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settings_cache_lookups_total",
				Help: "Number of settings cache lookups, differentiated by result.",
			},
			[]string{"result"},
		)
	})
}

func observeHit() {
	cacheLookups.WithLabelValues("hit").Inc()
}

func observeMiss() {
	cacheLookups.WithLabelValues("miss").Inc()
}
