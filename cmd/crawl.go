package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"kpnews/internal/config"
	"kpnews/internal/crawl"
	"kpnews/internal/enrich"
	"kpnews/internal/fetch"
	"kpnews/internal/store"
)

func newCrawlCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crawl",
		Short: "Runs one acquisition pass against kp.ru",
		Long: `Crawls article links starting from the configured seed pages until
the article quota is reached, then exits. Re-running is safe: records
are upserted by source URL.`,
		RunE: runCrawl,
	}
}

func runCrawl(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.Connect(ctx, store.Config{
		URI:        cfg.Mongo.URI,
		Database:   cfg.Mongo.Database,
		Collection: cfg.Mongo.Collection,
	})
	if err != nil {
		return fmt.Errorf("article store: %w", err)
	}
	defer func() {
		if cerr := db.Close(context.Background()); cerr != nil {
			logger.Warn("close store", zap.Error(cerr))
		}
	}()

	fetcher, closeFetcher, err := buildFetcher(cfg, logger)
	if err != nil {
		return err
	}
	defer closeFetcher()

	engine := crawl.New(
		crawl.Config{
			Seeds:        cfg.Crawler.Seeds,
			Quota:        cfg.Crawler.MaxArticles,
			Concurrency:  cfg.Crawler.Concurrency,
			PerOriginMax: cfg.Crawler.PerOriginMax,
			Delay:        cfg.Crawler.Delay,
		},
		fetcher,
		fetch.NewRobotsPolicy(cfg.Crawler.RespectRobots, cfg.Crawler.UserAgent, logger),
		enrich.New(enrich.Config{
			Timeout:   cfg.Photo.Timeout,
			MaxBytes:  cfg.Photo.MaxBytes,
			UserAgent: cfg.Crawler.UserAgent,
		}, logger),
		db,
		logger,
	)

	summary, err := engine.Run(ctx)
	if err != nil {
		return fmt.Errorf("crawl run: %w", err)
	}
	logger.Info("done",
		zap.Int("articles_persisted", summary.ArticlesPersisted),
		zap.Int("articles_dropped", summary.ArticlesDropped),
	)
	return nil
}

// buildFetcher picks the headless renderer when enabled, else the plain
// HTTP fetcher.
func buildFetcher(cfg config.Config, logger *zap.Logger) (fetch.Fetcher, func(), error) {
	if cfg.Renderer.Enabled {
		renderer, err := fetch.NewChromedpRenderer(fetch.RendererConfig{
			UserAgent:   cfg.Crawler.UserAgent,
			NavTimeout:  cfg.Renderer.NavTimeout,
			MaxParallel: cfg.Renderer.MaxParallel,
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("init renderer: %w", err)
		}
		return renderer, renderer.Close, nil
	}

	fetcher, err := fetch.NewCollyFetcher(fetch.CollyConfig{
		UserAgent: cfg.Crawler.UserAgent,
		Timeout:   cfg.Crawler.Timeout,
		Parallel:  cfg.Crawler.Concurrency,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init fetcher: %w", err)
	}
	return fetcher, func() {}, nil
}
