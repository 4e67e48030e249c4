// Package observability bundles the Prometheus metrics and OpenTelemetry
// tracing wiring for a navigator session.
package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/signalsfoundry/globe-navigator/core"
)

// NavCollector bundles Prometheus metrics for the navigation loop and
// provides a ready-to-use /metrics handler. It implements
// core.MetricsRecorder so controllers can count speed-sample outcomes
// directly.
type NavCollector struct {
	gatherer prometheus.Gatherer

	Frames         prometheus.Counter
	FrameDurations prometheus.Histogram
	SpeedSamples   *prometheus.CounterVec

	MaxSpeed           prometheus.Gauge
	PreMultiplierSpeed prometheus.Gauge
	SpeedMultiplier    prometheus.Gauge
	NearClip           prometheus.Gauge
	FarClip            prometheus.Gauge
	InRangeBodies      prometheus.Gauge
}

// NewNavCollector registers navigation Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry when
// nil.
func NewNavCollector(reg prometheus.Registerer) (*NavCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	frames, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nav_frames_total",
		Help: "Total number of navigation frames run.",
	}), "nav_frames_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "nav_frame_duration_seconds",
		Help:    "Navigation frame update latency in seconds.",
		Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
	}), "nav_frame_duration_seconds")
	if err != nil {
		return nil, err
	}

	samples := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nav_speed_samples_total",
		Help: "Dynamic speed height samples, labeled by outcome.",
	}, []string{"outcome"})
	samples, err = registerCounterVec(reg, samples, "nav_speed_samples_total")
	if err != nil {
		return nil, err
	}

	gauges := make(map[string]prometheus.Gauge, 6)
	for _, g := range []struct{ name, help string }{
		{"nav_max_speed", "Current maximum movement speed bound."},
		{"nav_pre_multiplier_speed", "Current altitude-derived pre-multiplier speed."},
		{"nav_speed_multiplier", "Current user speed multiplier."},
		{"nav_near_clip", "Current near clip-plane distance."},
		{"nav_far_clip", "Current far clip-plane distance."},
		{"nav_in_range_bodies", "Number of bodies in interaction range of the active controller."},
	} {
		gauge, gerr := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Name: g.name,
			Help: g.help,
		}), g.name)
		if gerr != nil {
			return nil, gerr
		}
		gauges[g.name] = gauge
	}

	return &NavCollector{
		gatherer:           gatherer,
		Frames:             frames,
		FrameDurations:     durations,
		SpeedSamples:       samples,
		MaxSpeed:           gauges["nav_max_speed"],
		PreMultiplierSpeed: gauges["nav_pre_multiplier_speed"],
		SpeedMultiplier:    gauges["nav_speed_multiplier"],
		NearClip:           gauges["nav_near_clip"],
		FarClip:            gauges["nav_far_clip"],
		InRangeBodies:      gauges["nav_in_range_bodies"],
	}, nil
}

// SpeedSample satisfies core.MetricsRecorder.
func (c *NavCollector) SpeedSample(outcome core.SpeedSampleOutcome) {
	if c == nil || c.SpeedSamples == nil {
		return
	}
	c.SpeedSamples.WithLabelValues(string(outcome)).Inc()
}

// ObserveFrame records one completed frame and its duration.
func (c *NavCollector) ObserveFrame(d time.Duration) {
	if c == nil {
		return
	}
	if c.Frames != nil {
		c.Frames.Inc()
	}
	if c.FrameDurations != nil {
		c.FrameDurations.Observe(d.Seconds())
	}
}

// SetSpeedState publishes the controller's current speed bounds.
func (c *NavCollector) SetSpeedState(maxSpeed, preMultiplier, multiplier float64) {
	if c == nil {
		return
	}
	if c.MaxSpeed != nil {
		c.MaxSpeed.Set(maxSpeed)
	}
	if c.PreMultiplierSpeed != nil {
		c.PreMultiplierSpeed.Set(preMultiplier)
	}
	if c.SpeedMultiplier != nil {
		c.SpeedMultiplier.Set(multiplier)
	}
}

// SetClipPlanes publishes the controller's current clip-plane distances.
func (c *NavCollector) SetClipPlanes(near, far float64) {
	if c == nil {
		return
	}
	if c.NearClip != nil {
		c.NearClip.Set(near)
	}
	if c.FarClip != nil {
		c.FarClip.Set(far)
	}
}

// SetInRangeBodies publishes the size of the active in-range set.
func (c *NavCollector) SetInRangeBodies(n int) {
	if c == nil || c.InRangeBodies == nil {
		return
	}
	c.InRangeBodies.Set(float64(n))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *NavCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
