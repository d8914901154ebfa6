package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salesinsight_queries_total",
		Help: "Questions answered, by outcome",
	}, []string{"status"})

	QueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "salesinsight_query_duration_seconds",
		Help:    "End-to-end question latency",
		Buckets: prometheus.DefBuckets,
	})

	OrderFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salesinsight_order_fetch_total",
		Help: "Order fetches by where the body came from",
	}, []string{"source"})

	LLMRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salesinsight_llm_requests_total",
		Help: "Text generation calls by provider and outcome",
	}, []string{"provider", "status"})
)
