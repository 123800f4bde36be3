// Package metrics defines and registers the custom Prometheus metrics of the
// rental API. It is the single source of truth for metric names, labels and
// help strings.
//
// Metrics are registered with the default Prometheus registry at package init;
// HTTP request metrics are added separately by the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rental"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - op: "register" or "login"
//   - result: "ok", "conflict", "invalid", "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register/login attempts by outcome.",
	},
	[]string{"op", "result"},
)

// ── Property metrics ──────────────────────────────────────────────────────────

// PropertyMutationsTotal counts create/update/delete calls on the catalog.
// Labels:
//   - op: "create", "update", "delete"
//   - result: "ok", "invalid", "forbidden", "not_found", "error"
var PropertyMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "property_mutations_total",
		Help:      "Total number of property mutations by operation and outcome.",
	},
	[]string{"op", "result"},
)

// PropertyCacheLookupsTotal counts read-through cache decisions.
// Label:
//   - result: "hit" or "miss"
var PropertyCacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "property_cache_lookups_total",
		Help:      "Total number of property cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Availability metrics ──────────────────────────────────────────────────────

// AvailabilityMutationsTotal counts block/unblock calls.
// Labels:
//   - op: "create" or "delete"
//   - result: "ok", "invalid", "conflict", "forbidden", "not_found", "error"
var AvailabilityMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "availability_mutations_total",
		Help:      "Total number of availability mutations by operation and outcome.",
	},
	[]string{"op", "result"},
)

// ── Upload metrics ────────────────────────────────────────────────────────────

// UploadsTotal counts upload attempts.
// Labels:
//   - backend: "local" or "gridfs"
//   - result: "ok", "rejected", "error"
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of image uploads by storage backend and outcome.",
	},
	[]string{"backend", "result"},
)

// UploadSizeBytes observes the size of accepted uploads.
var UploadSizeBytes = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upload_size_bytes",
		Help:      "Size of accepted image uploads.",
		Buckets:   prometheus.ExponentialBuckets(16*1024, 4, 7), // 16KiB .. 64MiB
	},
)
