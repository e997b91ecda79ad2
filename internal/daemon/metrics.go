package daemon

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks daemon statistics. Counters are atomics so the hot paths
// stay lock-free; Register exposes them to prometheus as func collectors.
type Metrics struct {
	EventsSent       atomic.Int64
	EventsReceived   atomic.Int64
	EventsDropped    atomic.Int64
	BroadcastsTotal  atomic.Int64
	ConnectedClients atomic.Int32
	StartTime        time.Time
}

// NewMetrics creates a new Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{StartTime: time.Now()}
}

// Register exposes the counters on reg
func (m *Metrics) Register(reg prometheus.Registerer) {
	factory := promauto.With(reg)
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "tablero_daemon_clients",
		Help: "Connected board clients",
	}, func() float64 { return float64(m.ConnectedClients.Load()) })
	factory.NewCounterFunc(prometheus.CounterOpts{
		Name: "tablero_daemon_events_sent_total",
		Help: "Messages queued to clients, pings included",
	}, func() float64 { return float64(m.EventsSent.Load()) })
	factory.NewCounterFunc(prometheus.CounterOpts{
		Name: "tablero_daemon_events_received_total",
		Help: "Change events received from clients",
	}, func() float64 { return float64(m.EventsReceived.Load()) })
	factory.NewCounterFunc(prometheus.CounterOpts{
		Name: "tablero_daemon_events_dropped_total",
		Help: "Messages dropped because a client queue was full",
	}, func() float64 { return float64(m.EventsDropped.Load()) })
	factory.NewCounterFunc(prometheus.CounterOpts{
		Name: "tablero_daemon_broadcasts_total",
		Help: "Events stamped with a sequence id and fanned out",
	}, func() float64 { return float64(m.BroadcastsTotal.Load()) })
}

// MetricsSnapshot is a point-in-time copy, logged on shutdown
type MetricsSnapshot struct {
	EventsSent       int64     `json:"events_sent"`
	EventsReceived   int64     `json:"events_received"`
	EventsDropped    int64     `json:"events_dropped"`
	BroadcastsTotal  int64     `json:"broadcasts_total"`
	ConnectedClients int32     `json:"connected_clients"`
	StartTime        time.Time `json:"start_time"`
	Uptime           string    `json:"uptime"`
}

// Snapshot returns the current values
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		EventsSent:       m.EventsSent.Load(),
		EventsReceived:   m.EventsReceived.Load(),
		EventsDropped:    m.EventsDropped.Load(),
		BroadcastsTotal:  m.BroadcastsTotal.Load(),
		ConnectedClients: m.ConnectedClients.Load(),
		StartTime:        m.StartTime,
		Uptime:           time.Since(m.StartTime).Round(time.Second).String(),
	}
}
