package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campfire_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// Registrations counts accounts created through registration.
	Registrations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campfire_registrations_total",
		Help: "Total number of registered accounts",
	})

	// FollowToggles counts follow toggles by resulting action.
	FollowToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campfire_follow_toggles_total",
		Help: "Total number of camp follow toggles by action",
	}, []string{"action"})

	// Bans counts ban records created.
	Bans = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campfire_bans_total",
		Help: "Total number of ban records created",
	})

	// ValidationChecks counts ajax field checks by field and outcome.
	ValidationChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campfire_validation_checks_total",
		Help: "Total number of ajax field validation checks",
	}, []string{"field", "result"})

	// ActiveWebSockets tracks open notification streams.
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "campfire_active_websockets",
		Help: "Number of open notification websocket connections",
	})
)
