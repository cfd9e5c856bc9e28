// Package metrics holds the Prometheus collectors shared by the API server, the engine packages
// and the catalog client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GalleryPagesApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scenehub_gallery_pages_total",
			Help: "Scene pages handed back to the gallery composer, by result",
		},
		[]string{"result"}, // appended, stale, failed
	)

	GalleryScenesFiltered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scenehub_gallery_scenes_filtered_total",
			Help: "Fetched scenes dropped by client-side predicates (tag AND, visibility)",
		},
	)

	SocialToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scenehub_social_toggles_total",
			Help: "Optimistic like/favourite toggles, by relation and outcome",
		},
		[]string{"relation", "outcome"}, // confirmed, rolled_back, superseded, unauthenticated
	)

	TrendingComputations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scenehub_trending_computations_total",
			Help: "Trending rankings served, by source",
		},
		[]string{"source"}, // computed, cache, failed
	)

	CatalogRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scenehub_catalog_requests_total",
			Help: "Requests to the external anime catalog, by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scenehub_cache_requests_total",
			Help: "Redis cache lookups by namespace and result",
		},
		[]string{"namespace", "result"}, // hit, miss, error
	)

	RedisErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scenehub_redis_errors_total",
			Help: "Failed Redis commands by command name",
		},
		[]string{"command"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scenehub_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)
