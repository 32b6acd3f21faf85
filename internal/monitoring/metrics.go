package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the service's prometheus metrics on a private registry
type Collector struct {
	registry *prometheus.Registry

	turns        *prometheus.CounterVec
	turnDuration *prometheus.HistogramVec
	navigations  *prometheus.CounterVec
	transitions  *prometheus.CounterVec
	recoveries   *prometheus.CounterVec
	feedClients  prometheus.Gauge
}

// NewCollector creates and registers the conversation metrics
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voicechef_turns_total",
				Help: "Webhook turns answered, by project and reply kind",
			},
			[]string{"project", "reply"},
		),
		turnDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "voicechef_turn_duration_seconds",
				Help:    "Time taken to answer a webhook turn",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
			},
			[]string{"project"},
		),
		navigations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voicechef_navigations_total",
				Help: "Section navigation decisions",
			},
			[]string{"section", "direction", "outcome"},
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voicechef_stage_transitions_total",
				Help: "Conversation stage transitions",
			},
			[]string{"from", "to", "trigger"},
		),
		recoveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voicechef_recoveries_total",
				Help: "Turns recovered after a failed operation",
			},
			[]string{"op"},
		),
		feedClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "voicechef_feed_clients",
				Help: "Connected live turn feed clients",
			},
		),
	}

	registry.MustRegister(
		c.turns,
		c.turnDuration,
		c.navigations,
		c.transitions,
		c.recoveries,
		c.feedClients,
		collectors.NewGoCollector(),
	)
	return c
}

// Registry returns the collector's registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
