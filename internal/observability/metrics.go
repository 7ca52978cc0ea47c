// Package observability provides tracing and metrics instrumentation.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// PostViews counts view-counter increments, labeled by outcome.
	PostViews = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_post_views_total",
		Help: "Total number of post detail views recorded",
	}, []string{"outcome"})

	// MailDispatches counts contact-form mail deliveries by outcome.
	MailDispatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_mail_dispatches_total",
		Help: "Total number of contact mail dispatch attempts",
	}, []string{"outcome"})

	// ImageRemovals counts best-effort image file removals by outcome.
	ImageRemovals = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_image_removals_total",
		Help: "Total number of stored image file removals",
	}, []string{"outcome"})
)
