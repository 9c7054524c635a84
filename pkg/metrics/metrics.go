package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	KafkaMessagesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Number of change events fetched from Kafka",
		},
		[]string{"topic"},
	)
	KafkaMessagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_processed_total",
			Help: "Number of change events applied successfully",
		},
		[]string{"topic"},
	)
	KafkaMessagesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_failed_total",
			Help: "Number of change events failed to apply",
		},
		[]string{"topic"},
	)
	KafkaMessagesPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_published_total",
			Help: "Number of change events published",
		},
		[]string{"topic", "result"}, // ok|error
	)
)

var (
	// CollectionRefreshes — исходы refresh по коллекциям.
	CollectionRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_collection_refreshes_total",
			Help: "Collection refresh outcomes",
		},
		[]string{"collection", "result"}, // hit|fetch|error
	)
	CollectionSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "store_collection_size",
			Help: "Number of items currently held per collection",
		},
		[]string{"collection"},
	)
	Mutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_mutations_total",
			Help: "Mutations against the remote store",
		},
		[]string{"mutation", "result"}, // ok|error
	)
)

var (
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "LRU cache operations",
		},
		[]string{"cache", "op"}, // op: hit|miss|evicted|expired
	)
	CacheSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Number of items currently in LRU cache",
		},
		[]string{"cache"}, // admin|sign_in_limiter
	)
)

var SignIns = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "auth_sign_ins_total",
		Help: "Sign-in attempts by outcome",
	},
	[]string{"result"}, // ok|invalid|error|limited
)

// HTTPRequestDuration — route — шаблон gin ("/api/products/:id"), не сырой путь.
var HTTPRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by route and status class",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	},
	[]string{"method", "route", "status"}, // status: 2xx|3xx|4xx|5xx
)

var registerOnce sync.Once

// MustRegister — регистрирует метрики в глобальном реестре; повторный вызов безопасен.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			KafkaMessagesConsumed, KafkaMessagesProcessed, KafkaMessagesFailed, KafkaMessagesPublished,
			CollectionRefreshes, CollectionSize, Mutations,
			CacheOps, CacheSize,
			SignIns, HTTPRequestDuration,
		)
	})
}
