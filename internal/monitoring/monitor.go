// Package monitoring records what the webhook does: prometheus metrics,
// a snapshot of recent activity and a live websocket feed of turns.
package monitoring

import (
	"log/slog"
	"sync"
	"time"

	"voicechef/internal/conversation"
	"voicechef/internal/tracker"
)

// TurnRecord describes one answered webhook turn
type TurnRecord struct {
	At        time.Time     `json:"at"`
	RequestID string        `json:"request_id,omitempty"`
	Project   string        `json:"project"`
	Session   string        `json:"session,omitempty"`
	Action    string        `json:"action"`
	Reply     string        `json:"reply"`
	Speech    string        `json:"speech,omitempty"`
	Event     string        `json:"event,omitempty"`
	Contexts  []string      `json:"contexts,omitempty"`
	Duration  time.Duration `json:"duration_ns"`
}

// Monitor collects metrics for the webhook and observes conversations
type Monitor struct {
	metrics      map[string]any
	metricsMutex sync.RWMutex
	startTime    time.Time

	collector *Collector
	feed      *Feed
}

// Compile-time interface check.
var _ conversation.Observer = (*Monitor)(nil)

// NewMonitor creates a new monitoring instance
func NewMonitor(log *slog.Logger) *Monitor {
	m := &Monitor{
		metrics:   make(map[string]any),
		startTime: time.Now(),
		collector: NewCollector(),
		feed:      NewFeed(log),
	}
	m.feed.onChange = func(n int) {
		m.collector.feedClients.Set(float64(n))
		m.RecordMetric("feed_clients", n)
	}
	return m
}

// Collector returns the prometheus metrics
func (m *Monitor) Collector() *Collector {
	return m.collector
}

// Feed returns the live turn feed
func (m *Monitor) Feed() *Feed {
	return m.feed
}

// RecordMetric records a metric value
func (m *Monitor) RecordMetric(name string, value any) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics[name] = value
}

// GetMetric returns a specific metric value
func (m *Monitor) GetMetric(name string) (any, bool) {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()
	value, exists := m.metrics[name]
	return value, exists
}

// GetMetrics returns all current metrics
func (m *Monitor) GetMetrics() map[string]any {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()

	metrics := make(map[string]any, len(m.metrics)+1)
	for k, v := range m.metrics {
		metrics[k] = v
	}
	metrics["uptime_seconds"] = time.Since(m.startTime).Seconds()
	return metrics
}

// Reset clears all snapshot metrics
func (m *Monitor) Reset() {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics = make(map[string]any)
}

func (m *Monitor) increment(name string) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	n, _ := m.metrics[name].(int)
	m.metrics[name] = n + 1
}

// RecordTurn records an answered turn and publishes it to the feed
func (m *Monitor) RecordTurn(rec TurnRecord) {
	m.collector.turns.WithLabelValues(rec.Project, rec.Reply).Inc()
	m.collector.turnDuration.WithLabelValues(rec.Project).Observe(rec.Duration.Seconds())

	m.increment(rec.Project + "_turns")
	m.RecordMetric(rec.Project+"_last_action", rec.Action)
	m.RecordMetric(rec.Project+"_last_turn_at", rec.At.Format(time.RFC3339))

	m.feed.Publish(rec)
}

// Navigated counts a section navigation decision
func (m *Monitor) Navigated(section tracker.Section, dir tracker.Direction, outcome tracker.Outcome) {
	m.collector.navigations.WithLabelValues(section.String(), dir.String(), outcome.String()).Inc()
	m.increment("navigations")
}

// Transitioned counts a stage transition
func (m *Monitor) Transitioned(from, to conversation.Stage, trigger conversation.Trigger) {
	m.collector.transitions.WithLabelValues(from.String(), to.String(), string(trigger)).Inc()
	if to == conversation.StageComplete {
		m.increment("recipes_completed")
	}
}

// Recovered counts a recovered turn by the operation that failed
func (m *Monitor) Recovered(op string, err error) {
	m.collector.recoveries.WithLabelValues(op).Inc()
	m.increment("recoveries")
	m.RecordMetric("last_recovery_error", err.Error())
}
