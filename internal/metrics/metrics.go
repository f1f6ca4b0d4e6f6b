package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg              *prometheus.Registry
	RequestsTotal    prometheus.Counter
	SearchesTotal    prometheus.Counter
	AnalyzesTotal    prometheus.Counter
	LookupMissTotal  prometheus.Counter
	LedgerErrorTotal prometheus.Counter
	CatalogSize      prometheus.Gauge
	SearchLatencySec prometheus.Histogram
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	requests := prometheus.NewCounter(prometheus.CounterOpts{Name: "origintrace_http_requests_total"})
	searches := prometheus.NewCounter(prometheus.CounterOpts{Name: "origintrace_catalog_searches_total"})
	analyzes := prometheus.NewCounter(prometheus.CounterOpts{Name: "origintrace_device_analyzes_total"})
	lookupMiss := prometheus.NewCounter(prometheus.CounterOpts{Name: "origintrace_lookup_miss_total"})
	ledgerErrors := prometheus.NewCounter(prometheus.CounterOpts{Name: "origintrace_ledger_errors_total"})
	catalogSize := prometheus.NewGauge(prometheus.GaugeOpts{Name: "origintrace_catalog_devices"})
	searchLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "origintrace_catalog_search_latency_seconds",
		Buckets: prometheus.DefBuckets,
	})

	r.MustRegister(requests, searches, analyzes, lookupMiss, ledgerErrors, catalogSize, searchLatency)
	return &Registry{
		reg:              r,
		RequestsTotal:    requests,
		SearchesTotal:    searches,
		AnalyzesTotal:    analyzes,
		LookupMissTotal:  lookupMiss,
		LedgerErrorTotal: ledgerErrors,
		CatalogSize:      catalogSize,
		SearchLatencySec: searchLatency,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
