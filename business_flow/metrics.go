package businessflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsOpenedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "panelbridge_sessions_opened_total",
			Help: "Sessions opened at vendor entry, labeled by addressing form",
		},
		[]string{"addressing"},
	)

	sessionsResolvedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "panelbridge_sessions_resolved_total",
			Help: "Sessions resolved at exit, labeled by terminal status",
		},
		[]string{"status"},
	)

	duplicateResolutionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "panelbridge_duplicate_resolutions_total",
			Help: "Exit requests that arrived for an already resolved session",
		},
	)
)
