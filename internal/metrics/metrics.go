// Package metrics exposes Prometheus metrics for the coverage engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type BuildInfo struct {
	Version   string
	Revision  string
	BuildDate string
}

type Provider struct {
	reg       *prometheus.Registry
	buildInfo *prometheus.GaugeVec
}

func Init(build BuildInfo) *Provider {
	reg := prometheus.NewRegistry()

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	bi := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_build_info",
			Help: "Build info for this binary (value is always 1).",
		},
		[]string{"version", "revision", "build_date"},
	)
	reg.MustRegister(bi)
	if build.Version == "" {
		build.Version = "dev"
	}
	bi.WithLabelValues(build.Version, build.Revision, build.BuildDate).Set(1)

	return &Provider{reg: reg, buildInfo: bi}
}

func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{})
}

func (p *Provider) Register(cs ...prometheus.Collector) {
	for _, c := range cs {
		p.reg.MustRegister(c)
	}
}

func (p *Provider) Registerer() prometheus.Registerer { return p.reg }

// Coverage holds the coverage-engine collectors. A nil *Coverage is a
// no-op, so the engine works without a metrics provider.
type Coverage struct {
	Queries    *prometheus.CounterVec
	CacheHits  prometheus.Counter
	CacheMiss  prometheus.Counter
	ResultSize prometheus.Histogram
}

func NewCoverage(p *Provider) *Coverage {
	c := &Coverage{
		Queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coverage_queries_total",
				Help: "Coverage queries by region kind.",
			},
			[]string{"region"},
		),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coverage_cache_hits_total",
			Help: "Coverage queries answered from the result cache.",
		}),
		CacheMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coverage_cache_misses_total",
			Help: "Coverage queries computed from scratch.",
		}),
		ResultSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "coverage_result_cells",
			Help:    "Cells per coverage result.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 12),
		}),
	}
	if p != nil {
		p.Register(c.Queries, c.CacheHits, c.CacheMiss, c.ResultSize)
	}
	return c
}

func (c *Coverage) Query(region string) {
	if c == nil {
		return
	}
	c.Queries.WithLabelValues(region).Inc()
}

func (c *Coverage) Cache(hit bool) {
	if c == nil {
		return
	}
	if hit {
		c.CacheHits.Inc()
	} else {
		c.CacheMiss.Inc()
	}
}

func (c *Coverage) Result(cells int) {
	if c == nil {
		return
	}
	c.ResultSize.Observe(float64(cells))
}
