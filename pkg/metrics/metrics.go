package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EntitySyncs counts sync attempts per entity type and outcome
	// Labels allow filtering by status (success/failed) and entity
	EntitySyncs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_entity_attempts_total",
		Help: "Total number of per-entity sync attempts",
	}, []string{"status", "entity"})

	// SyncDuration measures how long one entity sync takes end to end
	// Use this to identify degradation in the upstream API or Postgres
	SyncDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sync_entity_duration_seconds",
		Help:    "Duration of a single entity sync in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"entity"})

	// RecordsFetched tracks how many upstream records each entity pulled
	RecordsFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_records_fetched_total",
		Help: "Total number of records fetched from the upstream API",
	}, []string{"entity"})

	// RecordsUpserted tracks rows durably written to the target store
	RecordsUpserted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_records_upserted_total",
		Help: "Total number of rows upserted into the target store",
	}, []string{"entity"})

	// APIRequests counts upstream HTTP requests by response status
	// The network_error label value covers transport-level failures
	APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_api_requests_total",
		Help: "Total number of requests issued against the Lightspeed API",
	}, []string{"status"})

	// APIRateLimited counts 429 back-off events
	// Frequent increments mean the request interval needs widening
	APIRateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sync_api_rate_limited_total",
		Help: "Total number of 429 responses that triggered a back-off",
	})

	// StoreHealth provides a binary 0/1 signal for target store reachability
	// 1 = Healthy, 0 = Unhealthy (last ping failed)
	StoreHealth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sync_store_healthy",
		Help: "Current target store health (1 for healthy, 0 for unhealthy)",
	})
)
