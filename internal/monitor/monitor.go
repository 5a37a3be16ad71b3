package monitor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	SubmissionsAccepted prometheus.Counter
	SubmissionsRejected *prometheus.CounterVec
	LeaderboardQueries  *prometheus.CounterVec
	PlayersRegistered   prometheus.Counter
}

func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		SubmissionsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_accepted_total",
			Help:      "Total number of accepted score submissions",
		}),
		SubmissionsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_rejected_total",
			Help:      "Total number of rejected score submissions by reason",
		}, []string{"reason"}),
		LeaderboardQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leaderboard_queries_total",
			Help:      "Total number of leaderboard queries by period",
		}, []string{"period"}),
		PlayersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "players_registered_total",
			Help:      "Total number of register operations",
		}),
	}

	prometheus.MustRegister(
		m.SubmissionsAccepted,
		m.SubmissionsRejected,
		m.LeaderboardQueries,
		m.PlayersRegistered,
	)

	return m
}

type Monitor struct {
	metrics   *Metrics
	startTime time.Time
}

func New(namespace string) *Monitor {
	return &Monitor{
		metrics:   NewMetrics(namespace),
		startTime: time.Now(),
	}
}

func (m *Monitor) IncSubmissionAccepted() {
	m.metrics.SubmissionsAccepted.Inc()
}

func (m *Monitor) IncSubmissionRejected(reason string) {
	m.metrics.SubmissionsRejected.WithLabelValues(reason).Inc()
}

func (m *Monitor) IncLeaderboardQuery(period string) {
	m.metrics.LeaderboardQueries.WithLabelValues(period).Inc()
}

func (m *Monitor) IncPlayerRegistered() {
	m.metrics.PlayersRegistered.Inc()
}

func (m *Monitor) Uptime() time.Duration {
	return time.Since(m.startTime)
}
