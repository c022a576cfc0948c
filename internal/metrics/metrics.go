package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "climate_requests_total",
		Help: "Total API requests by route",
	}, []string{"route"})
	RequestDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "climate_request_duration_ms",
		Help:    "API request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	SynthesisTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "climate_synthesis_total",
		Help: "Total synthesized temperature fields",
	})
	SynthesisDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "climate_synthesis_duration_ms",
		Help:    "Field synthesis duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500},
	})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "climate_field_cache_hits_total",
		Help: "Total field cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "climate_field_cache_misses_total",
		Help: "Total field cache misses",
	})
	JobsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "climate_jobs_total",
		Help: "Total jobs by terminal state",
	}, []string{"state"})
	JobDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "climate_job_duration_ms",
		Help:    "Job execution duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(SynthesisTotal)
	prometheus.MustRegister(SynthesisDurationMs)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(JobsTotal)
	prometheus.MustRegister(JobDurationMs)
}
