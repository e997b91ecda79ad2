package daemon

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	assert.WithinDuration(t, time.Now(), m.StartTime, time.Second)

	m.EventsSent.Add(3)
	m.EventsReceived.Add(2)
	m.EventsDropped.Add(1)
	m.BroadcastsTotal.Add(4)
	m.ConnectedClients.Store(5)

	snap := m.Snapshot()
	assert.Equal(t, int64(3), snap.EventsSent)
	assert.Equal(t, int64(2), snap.EventsReceived)
	assert.Equal(t, int64(1), snap.EventsDropped)
	assert.Equal(t, int64(4), snap.BroadcastsTotal)
	assert.Equal(t, int32(5), snap.ConnectedClients)
	assert.NotEmpty(t, snap.Uptime)
}

func TestMetricsConcurrentUpdates(t *testing.T) {
	m := NewMetrics()
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				m.EventsSent.Add(1)
				m.BroadcastsTotal.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(5000), m.EventsSent.Load())
	assert.Equal(t, int64(5000), m.BroadcastsTotal.Load())
}

func TestMetricsRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics()
	m.Register(reg)

	m.ConnectedClients.Store(2)
	m.EventsSent.Add(7)
	m.EventsDropped.Add(1)

	families, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, fam := range families {
		for _, metric := range fam.GetMetric() {
			switch {
			case metric.GetGauge() != nil:
				values[fam.GetName()] = metric.GetGauge().GetValue()
			case metric.GetCounter() != nil:
				values[fam.GetName()] = metric.GetCounter().GetValue()
			}
		}
	}

	assert.Equal(t, 2.0, values["tablero_daemon_clients"])
	assert.Equal(t, 7.0, values["tablero_daemon_events_sent_total"])
	assert.Equal(t, 1.0, values["tablero_daemon_events_dropped_total"])
	assert.Equal(t, 0.0, values["tablero_daemon_events_received_total"])
	assert.Contains(t, values, "tablero_daemon_broadcasts_total")
}
