// Package metrics exports scheduler activity as Prometheus metrics.
//
//	c := metrics.New("game")
//	scene := motion.NewScene(motion.WithHooks(c.Hooks()))
//	http.Handle("/metrics", c.Handler())
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phanxgames/motion"
)

// Collector owns a registry and the metrics fed by a Manager's hooks.
type Collector struct {
	registry *prometheus.Registry

	started       prometheus.Counter
	completed     prometheus.Counter
	reverted      *prometheus.CounterVec
	failures      prometheus.Counter
	contributions prometheus.Counter
	tickDuration  *prometheus.HistogramVec
	instances     prometheus.Gauge
	activeLanes   prometheus.Gauge
}

// New creates a Collector whose metric names start with namespace.
func New(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "instances_started_total",
			Help:      "Storyboard instances started.",
		}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "instances_completed_total",
			Help:      "Storyboard instances that completed and were swept.",
		}),
		reverted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lanes_reverted_total",
			Help:      "Lanes restored to their base value, by property.",
		}, []string{"property"}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Evaluation and conversion failures.",
		}),
		contributions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contributions_total",
			Help:      "Lane contributions composed.",
		}),
		tickDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_phase_duration_seconds",
			Help:      "Time spent per tick, by phase.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"phase"}),
		instances: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "instances",
			Help:      "Live storyboard instances at the last tick.",
		}),
		activeLanes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_lanes",
			Help:      "Lanes driven by at least one animation at the last tick.",
		}),
	}
	c.registry.MustRegister(
		c.started, c.completed, c.reverted, c.failures,
		c.contributions, c.tickDuration, c.instances, c.activeLanes,
	)
	return c
}

// Registry returns the collector's registry, for gathering or for adding
// process collectors.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Hooks returns manager hooks that record into c. Combine them with other
// observers through motion.MergeHooks.
func (c *Collector) Hooks() motion.Hooks {
	return motion.Hooks{
		OnTick:              c.observeTick,
		OnInstanceStarted:   func(*motion.StoryboardInstance) { c.started.Inc() },
		OnInstanceCompleted: func(*motion.StoryboardInstance) { c.completed.Inc() },
		OnLaneReverted:      func(k motion.LaneKey) { c.reverted.WithLabelValues(k.Property).Inc() },
		OnError:             func(error) { c.failures.Inc() },
	}
}

func (c *Collector) observeTick(s motion.TickStats) {
	c.contributions.Add(float64(s.Contributions))
	c.tickDuration.WithLabelValues("advance").Observe(s.AdvanceTime.Seconds())
	c.tickDuration.WithLabelValues("compose").Observe(s.ComposeTime.Seconds())
	c.instances.Set(float64(s.Instances - s.Completed))
	c.activeLanes.Set(float64(s.ActiveLanes))
}
