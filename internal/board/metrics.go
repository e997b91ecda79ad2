package board

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Mutation kinds used as metric labels
const (
	KindReorderColumns = "reorder_columns"
	KindMoveCard       = "move_card"
)

// Metrics counts optimistic mutations and how they settle
type Metrics struct {
	mutations *prometheus.CounterVec
	reverts   *prometheus.CounterVec
	resyncs   prometheus.Counter
	persist   *prometheus.HistogramVec
}

// NewMetrics creates coordinator metrics registered with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tablero_board_mutations_total",
			Help: "Optimistic board mutations applied locally",
		}, []string{"kind"}),
		reverts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tablero_board_reverts_total",
			Help: "Optimistic mutations rolled back after a persistence failure",
		}, []string{"kind"}),
		resyncs: factory.NewCounter(prometheus.CounterOpts{
			Name: "tablero_board_resyncs_total",
			Help: "Full board refetches triggered by superseded failures",
		}),
		persist: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tablero_board_persist_seconds",
			Help:    "Time to persist an optimistic mutation",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind", "outcome"}),
	}
}

func (m *Metrics) mutation(kind string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(kind).Inc()
}

func (m *Metrics) settled(kind string, outcome Outcome, d time.Duration) {
	if m == nil {
		return
	}
	if outcome == Reverted {
		m.reverts.WithLabelValues(kind).Inc()
	}
	m.persist.WithLabelValues(kind, outcome.String()).Observe(d.Seconds())
}

func (m *Metrics) resync() {
	if m == nil {
		return
	}
	m.resyncs.Inc()
}
