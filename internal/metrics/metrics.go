package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/inkpress/blog-engine/internal/domain"
	"github.com/inkpress/blog-engine/internal/listing"
	"github.com/inkpress/blog-engine/internal/mailer"
	"github.com/inkpress/blog-engine/internal/projector"
)

// Metrics groups all Prometheus instruments used across the application.
// Registered once at startup via New(); passed by pointer wherever needed.
// Using a custom registry (instead of prometheus.DefaultRegisterer) keeps
// tests isolated and avoids global state.
type Metrics struct {
	CacheHits          *prometheus.CounterVec
	CacheMisses        *prometheus.CounterVec
	CacheInvalidations *prometheus.CounterVec

	EventsPublished      *prometheus.CounterVec
	EventPublishFailures *prometheus.CounterVec

	NotificationsProjected *prometheus.CounterVec
	ProjectionFailures     *prometheus.CounterVec

	MailsSent   prometheus.Counter
	MailsFailed prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "listing_cache_hits_total",
			Help: "Listing reads served from the cache.",
		}, []string{"content_type"}),

		CacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "listing_cache_misses_total",
			Help: "Listing reads that fell through to the database.",
		}, []string{"content_type"}),

		CacheInvalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "listing_cache_invalidations_total",
			Help: "Explicit listing cache invalidations triggered by mutations.",
		}, []string{"content_type"}),

		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Events handed to the pub/sub transport.",
		}, []string{"kind"}),

		EventPublishFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "event_publish_failures_total",
			Help: "Events lost because the transport was unreachable.",
		}, []string{"kind"}),

		NotificationsProjected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_projected_total",
			Help: "Notification feed entries persisted by the projector.",
		}, []string{"kind"}),

		ProjectionFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notification_projection_failures_total",
			Help: "Events the projector dropped (malformed payload or persist failure).",
		}, []string{"kind"}),

		MailsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mails_sent_total",
			Help: "Successfully delivered bulk mails.",
		}),
		MailsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mails_failed_total",
			Help: "Bulk mails whose send failed (isolated per recipient).",
		}),
	}

	reg.MustRegister(
		m.CacheHits,
		m.CacheMisses,
		m.CacheInvalidations,
		m.EventsPublished,
		m.EventPublishFailures,
		m.NotificationsProjected,
		m.ProjectionFailures,
		m.MailsSent,
		m.MailsFailed,
	)

	return m
}

// GatewayHooks returns the callbacks the listing cache gateway expects.
// Centralising the prometheus observation calls keeps the core packages
// free of metrics imports.
func (m *Metrics) GatewayHooks() listing.MetricHooks {
	return listing.MetricHooks{
		OnHit:        func(t domain.ContentType) { m.CacheHits.WithLabelValues(string(t)).Inc() },
		OnMiss:       func(t domain.ContentType) { m.CacheMisses.WithLabelValues(string(t)).Inc() },
		OnInvalidate: func(t domain.ContentType) { m.CacheInvalidations.WithLabelValues(string(t)).Inc() },
	}
}

// EventHooks returns the publish-side callbacks wired into the services.
func (m *Metrics) EventHooks() (onPublished, onFailed func(domain.EventKind)) {
	onPublished = func(k domain.EventKind) { m.EventsPublished.WithLabelValues(string(k)).Inc() }
	onFailed = func(k domain.EventKind) { m.EventPublishFailures.WithLabelValues(string(k)).Inc() }
	return
}

// ProjectorHooks returns the callbacks the notification projector expects.
func (m *Metrics) ProjectorHooks() projector.MetricHooks {
	return projector.MetricHooks{
		OnProjected: func(k domain.EventKind) { m.NotificationsProjected.WithLabelValues(string(k)).Inc() },
		OnFailed:    func(k domain.EventKind) { m.ProjectionFailures.WithLabelValues(string(k)).Inc() },
	}
}

// MailHooks returns the callbacks the bulk mail dispatcher expects.
func (m *Metrics) MailHooks() mailer.MetricHooks {
	return mailer.MetricHooks{
		OnSent:   func() { m.MailsSent.Inc() },
		OnFailed: func() { m.MailsFailed.Inc() },
	}
}
