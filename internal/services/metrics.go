package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// eventsTotal counts inbound events by kind and outcome.
	eventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booster_events_total",
			Help: "Inbound chat events handled, by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	// eventDuration records handler latency by kind.
	eventDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "booster_event_duration_seconds",
			Help:    "Time spent handling an inbound chat event.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	claimsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booster_claims_total",
			Help: "Claim attempts by result (claimed, already_claimed, wrong_channel).",
		},
		[]string{"result"},
	)

	linksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "booster_links_total",
			Help: "Ticket channels linked to an order.",
		},
	)

	// grantsTotal counts access grants by the transition that fired them.
	grantsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booster_access_grants_total",
			Help: "Ticket access grants by trigger (claim, link) and result (ok, error).",
		},
		[]string{"trigger", "result"},
	)

	// logAppendFailures counts best-effort log appends that were dropped.
	logAppendFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booster_log_append_failures_total",
			Help: "Event log appends that failed and were swallowed, by tag.",
		},
		[]string{"tag"},
	)

	jobsReposted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "booster_jobs_reposted_total",
			Help: "Job postings reposted with claim controls.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		eventsTotal,
		eventDuration,
		claimsTotal,
		linksTotal,
		grantsTotal,
		logAppendFailures,
		jobsReposted,
	)
}
