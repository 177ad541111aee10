// Package crawl runs the acquisition pipeline: frontier-driven page
// fetching, field extraction, validation, photo enrichment, and
// idempotent persistence.
package crawl

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"kpnews/internal/article"
	"kpnews/internal/enrich"
	"kpnews/internal/extract"
	"kpnews/internal/fetch"
	"kpnews/internal/frontier"
	"kpnews/internal/metrics"
	"kpnews/internal/validate"
)

// Store is the persistence stage seen by the engine.
type Store interface {
	Upsert(ctx context.Context, a article.Article) error
}

// Enricher is the photo enrichment stage seen by the engine.
type Enricher interface {
	Enrich(ctx context.Context, a *article.Article) enrich.Outcome
}

// Config controls one crawl run.
type Config struct {
	Seeds        []string
	Quota        int
	Concurrency  int
	PerOriginMax int
	Delay        time.Duration
}

// Summary reports what one run accomplished.
type Summary struct {
	PagesFetched      int
	PagesFailed       int
	LinksQueued       int
	ArticlesParsed    int
	ArticlesPersisted int
	ArticlesDropped   int
}

type pageKind int

const (
	listingPage pageKind = iota
	articlePage
)

type task struct {
	url  string
	kind pageKind
}

// Engine wires the pipeline stages to a bounded worker pool. One Engine
// serves one Run; frontier state is never shared across runs.
type Engine struct {
	cfg      Config
	fetcher  fetch.Fetcher
	robots   fetch.RobotsPolicy
	enricher Enricher
	store    Store
	logger   *zap.Logger

	front *frontier.Frontier
	pacer *pacer
	tasks chan task
	// pending counts enqueued-but-unfinished tasks; the channel closes
	// when it reaches zero.
	pending sync.WaitGroup

	mu          sync.Mutex
	listingSeen map[string]struct{}
	summary     Summary
}

// New builds an Engine for a single run.
func New(
	cfg Config,
	fetcher fetch.Fetcher,
	robots fetch.RobotsPolicy,
	enricher Enricher,
	store Store,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		cfg:      cfg,
		fetcher:  fetcher,
		robots:   robots,
		enricher: enricher,
		store:    store,
		logger:   logger,
		front:    frontier.New(cfg.Quota),
		pacer:    newPacer(cfg.PerOriginMax, cfg.Delay),
		// Article tasks are bounded by the quota; listing tasks by the
		// deduplicated pagination chain.
		tasks:       make(chan task, cfg.Quota+256),
		listingSeen: make(map[string]struct{}),
	}
}

// Run crawls from the seeds until the quota is exhausted and the queue
// drains. Already-dispatched fetches complete; nothing is forcibly
// aborted except through ctx.
func (e *Engine) Run(ctx context.Context) (Summary, error) {
	runID := uuid.NewString()
	logger := e.logger.With(zap.String("run_id", runID))
	logger.Info("crawl run starting",
		zap.Strings("seeds", e.cfg.Seeds),
		zap.Int("quota", e.cfg.Quota),
		zap.Int("concurrency", e.cfg.Concurrency),
	)

	for _, seed := range e.cfg.Seeds {
		if e.markListingSeen(seed) {
			e.enqueue(task{url: seed, kind: listingPage}, logger)
		}
	}

	var workers sync.WaitGroup
	for i := 0; i < e.cfg.Concurrency; i++ {
		workers.Add(1)
		go func() {
			defer workers.Done()
			e.worker(ctx, logger)
		}()
	}

	go func() {
		e.pending.Wait()
		close(e.tasks)
	}()
	workers.Wait()

	queued, parsed := e.front.Counters()
	e.mu.Lock()
	e.summary.LinksQueued = queued
	e.summary.ArticlesParsed = parsed
	summary := e.summary
	e.mu.Unlock()

	logger.Info("crawl run finished",
		zap.Int("links_queued", summary.LinksQueued),
		zap.Int("articles_parsed", summary.ArticlesParsed),
		zap.Int("articles_persisted", summary.ArticlesPersisted),
		zap.Int("articles_dropped", summary.ArticlesDropped),
		zap.Int("pages_failed", summary.PagesFailed),
	)

	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return summary, err
	}
	return summary, nil
}

func (e *Engine) worker(ctx context.Context, logger *zap.Logger) {
	for t := range e.tasks {
		if ctx.Err() != nil {
			e.pending.Done()
			continue
		}
		metrics.WorkerActive(1)
		switch t.kind {
		case listingPage:
			e.processListing(ctx, t.url, logger)
		case articlePage:
			e.processArticle(ctx, t.url, logger)
		}
		metrics.WorkerActive(-1)
		e.pending.Done()
	}
}

// enqueue never blocks; a full queue drops the task with a warning
// rather than deadlocking a worker that is both producer and consumer.
func (e *Engine) enqueue(t task, logger *zap.Logger) {
	e.pending.Add(1)
	select {
	case e.tasks <- t:
	default:
		e.pending.Done()
		logger.Warn("task queue full, dropping url", zap.String("url", t.url))
	}
}

func (e *Engine) fetchPage(ctx context.Context, rawURL string, logger *zap.Logger) (*goquery.Document, string, bool) {
	if !e.robots.Allowed(ctx, rawURL) {
		logger.Debug("blocked by robots.txt", zap.String("url", rawURL))
		return nil, "", false
	}
	if err := e.pacer.acquire(ctx, rawURL); err != nil {
		return nil, "", false
	}
	page, err := e.fetcher.Fetch(ctx, rawURL)
	e.pacer.release(rawURL)
	if err != nil {
		metrics.PageFetched(false)
		e.countFailedPage()
		logger.Warn("page fetch failed", zap.String("url", rawURL), zap.Error(err))
		return nil, "", false
	}
	metrics.PageFetched(true)
	e.countFetchedPage()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		e.countFailedPage()
		logger.Warn("page parse failed", zap.String("url", rawURL), zap.Error(err))
		return nil, "", false
	}
	pageURL := page.FinalURL
	if pageURL == "" {
		pageURL = rawURL
	}
	return doc, pageURL, true
}

func (e *Engine) processListing(ctx context.Context, rawURL string, logger *zap.Logger) {
	doc, pageURL, ok := e.fetchPage(ctx, rawURL, logger)
	if !ok {
		return
	}

	e.admitLinks(extract.ListingLinks(doc, pageURL), logger)

	if e.front.Exhausted() {
		return
	}
	next := extract.NextListingPage(doc, pageURL)
	if next == "" || !e.markListingSeen(next) {
		return
	}
	e.enqueue(task{url: next, kind: listingPage}, logger)
}

func (e *Engine) processArticle(ctx context.Context, rawURL string, logger *zap.Logger) {
	doc, pageURL, ok := e.fetchPage(ctx, rawURL, logger)
	if !ok {
		return
	}
	e.front.NoteParsed()

	raw := extract.Extract(doc, pageURL)
	a, err := validate.Validate(raw)
	if err != nil {
		reason := "invalid"
		var drop *validate.DropError
		if errors.As(err, &drop) {
			reason = drop.Field
		}
		metrics.ArticleDropped(reason)
		e.countDropped()
		logger.Info("article dropped",
			zap.String("url", pageURL),
			zap.String("reason", reason),
		)
	} else {
		outcome := e.enricher.Enrich(ctx, &a)
		metrics.PhotoOutcome(outcome == enrich.Enriched)

		if perr := e.store.Upsert(ctx, a); perr != nil {
			metrics.ArticleDropped("persist")
			e.countDropped()
			logger.Warn("article persist failed",
				zap.String("url", a.SourceURL),
				zap.Error(perr),
			)
		} else {
			metrics.ArticlePersisted()
			e.countPersisted()
			logger.Debug("article persisted", zap.String("url", a.SourceURL))
		}
	}

	// Articles also feed the frontier: every outbound in-scope link is
	// a candidate until the quota is gone.
	if !e.front.Exhausted() {
		e.admitLinks(extract.Links(doc, pageURL), logger)
	}
}

func (e *Engine) admitLinks(links []string, logger *zap.Logger) {
	for _, link := range links {
		if e.front.Exhausted() {
			return
		}
		if !frontier.Classify(link) {
			continue
		}
		if !e.front.Admit(link) {
			continue
		}
		metrics.LinkQueued()
		e.enqueue(task{url: link, kind: articlePage}, logger)
	}
}

func (e *Engine) markListingSeen(rawURL string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.listingSeen[rawURL]; ok {
		return false
	}
	e.listingSeen[rawURL] = struct{}{}
	return true
}

func (e *Engine) countFetchedPage() {
	e.mu.Lock()
	e.summary.PagesFetched++
	e.mu.Unlock()
}

func (e *Engine) countFailedPage() {
	e.mu.Lock()
	e.summary.PagesFailed++
	e.mu.Unlock()
}

func (e *Engine) countPersisted() {
	e.mu.Lock()
	e.summary.ArticlesPersisted++
	e.mu.Unlock()
}

func (e *Engine) countDropped() {
	e.mu.Lock()
	e.summary.ArticlesDropped++
	e.mu.Unlock()
}
