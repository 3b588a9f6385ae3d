package recovery

import "github.com/prometheus/client_golang/prometheus"

var (
	recoveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booster_recoveries_total",
			Help: "Startup replays by result (ok, cold).",
		},
		[]string{"result"},
	)
	replayedEntries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "booster_recovery_entries_total",
			Help: "Log entries read during replay.",
		},
	)
)

func init() {
	prometheus.MustRegister(recoveries, replayedEntries)
}
