package insights

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "pso2_news"

	healthPath  = "/health"
	readyPath   = "/ready"
	metricsPath = "/metrics"
)

var (
	TicksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ticks_total",
		Help:      "Number of news polls started.",
	})

	CrawlFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "crawl_failures_total",
		Help:      "Number of category pipelines aborted, by category and step.",
	}, []string{"category", "step"})

	NewItemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "new_items_total",
		Help:      "Number of new news items detected, by category.",
	}, []string{"category"})

	DeliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deliveries_total",
		Help:      "Number of delivery attempts, by category and result.",
	}, []string{"category", "result"})

	TickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "tick_duration_seconds",
		Help:      "Duration of a news poll.",
		Buckets:   prometheus.DefBuckets,
	})
)

type Probes interface {
	ListenAndServe()
	Shutdown()
}

type probesImpl struct {
	isDBConnected func() bool
	server        *http.Server
}
