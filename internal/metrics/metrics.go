// Package metrics exposes Prometheus collectors for the ingestion
// pipeline.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pagesFetchedTotal      *prometheus.CounterVec
	linksQueuedTotal       prometheus.Counter
	articlesPersistedTotal prometheus.Counter
	articlesDroppedTotal   *prometheus.CounterVec
	photosTotal            *prometheus.CounterVec
	activeWorkers          prometheus.Gauge

	once sync.Once
)

// Init registers the collectors. Safe to call more than once.
func Init() {
	once.Do(func() {
		pagesFetchedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kpnews_pages_fetched_total",
				Help: "Pages fetched, labeled by outcome (ok, error).",
			},
			[]string{"outcome"},
		)
		linksQueuedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "kpnews_links_queued_total",
				Help: "Article links admitted by the frontier.",
			},
		)
		articlesPersistedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "kpnews_articles_persisted_total",
				Help: "Articles upserted into the store.",
			},
		)
		articlesDroppedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kpnews_articles_dropped_total",
				Help: "Articles dropped, labeled by the failing field or stage.",
			},
			[]string{"reason"},
		)
		photosTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kpnews_photos_total",
				Help: "Cover photo enrichment attempts, labeled by outcome (enriched, skipped).",
			},
			[]string{"outcome"},
		)
		activeWorkers = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "kpnews_active_workers",
				Help: "Workers currently processing a page.",
			},
		)
	})
}

// PageFetched records a page fetch outcome.
func PageFetched(ok bool) {
	if pagesFetchedTotal == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	pagesFetchedTotal.WithLabelValues(outcome).Inc()
}

// LinkQueued records a frontier admission.
func LinkQueued() {
	if linksQueuedTotal != nil {
		linksQueuedTotal.Inc()
	}
}

// ArticlePersisted records a successful upsert.
func ArticlePersisted() {
	if articlesPersistedTotal != nil {
		articlesPersistedTotal.Inc()
	}
}

// ArticleDropped records a drop with its reason.
func ArticleDropped(reason string) {
	if articlesDroppedTotal != nil {
		articlesDroppedTotal.WithLabelValues(reason).Inc()
	}
}

// PhotoOutcome records an enrichment attempt.
func PhotoOutcome(enriched bool) {
	if photosTotal == nil {
		return
	}
	outcome := "skipped"
	if enriched {
		outcome = "enriched"
	}
	photosTotal.WithLabelValues(outcome).Inc()
}

// WorkerActive adjusts the active-worker gauge by delta.
func WorkerActive(delta float64) {
	if activeWorkers != nil {
		activeWorkers.Add(delta)
	}
}
