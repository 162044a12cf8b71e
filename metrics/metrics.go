// Package metrics exposes prometheus collectors for the definition
// pipeline. All methods are safe on a nil *Metrics and do nothing.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brunobiangulo/godefine/llm"
)

const namespace = "godefine"

// Metrics owns a private registry so tests and multiple engines in one
// process never collide on the default registerer.
type Metrics struct {
	registry *prometheus.Registry

	requests    *prometheus.CounterVec
	tiers       *prometheus.CounterVec
	fallbacks   prometheus.Counter
	generations *prometheus.HistogramVec
	genErrors   prometheus.Counter
}

// New creates and registers all collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Pipeline requests by operation and citation format.",
		}, []string{"operation", "format"}),
		tiers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "confidence_tier_total",
			Help:      "Processed documents by confidence tier.",
		}, []string{"tier"}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "paraphrase_fallback_total",
			Help:      "Paraphrases produced from templates instead of the model.",
		}),
		generations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Latency of text generation calls.",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"outcome"}),
		genErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_errors_total",
			Help:      "Text generation calls that returned an error.",
		}),
	}
	reg.MustRegister(m.requests, m.tiers, m.fallbacks, m.generations, m.genErrors)
	reg.MustRegister(prometheus.NewGoCollector())
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// ObserveRequest counts one pipeline request.
func (m *Metrics) ObserveRequest(operation, format string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(operation, format).Inc()
}

// ObserveTier counts one classified document.
func (m *Metrics) ObserveTier(tier string) {
	if m == nil {
		return
	}
	m.tiers.WithLabelValues(tier).Inc()
}

// ObserveFallback counts one templated paraphrase.
func (m *Metrics) ObserveFallback() {
	if m == nil {
		return
	}
	m.fallbacks.Inc()
}

// InstrumentGenerator wraps g so every Generate call is timed. A nil
// receiver or generator returns g unchanged.
func (m *Metrics) InstrumentGenerator(g llm.Generator) llm.Generator {
	if m == nil || g == nil {
		return g
	}
	return llm.GeneratorFunc(func(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
		start := time.Now()
		resp, err := g.Generate(ctx, req)
		outcome := "ok"
		if err != nil {
			outcome = "error"
			m.genErrors.Inc()
		}
		m.generations.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
		return resp, err
	})
}
