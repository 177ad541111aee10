package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"kpnews/internal/article"
	"kpnews/internal/store"
	"kpnews/internal/viewer"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serves collected articles over HTTP",
		Long: `Starts the read-side viewer. When MongoDB is unreachable the page
is rendered from the bundled sample file with the data source clearly
labeled; the server never shows an error page for an unavailable store.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var readStore viewer.Store
	db, err := store.Connect(ctx, store.Config{
		URI:        cfg.Mongo.URI,
		Database:   cfg.Mongo.Database,
		Collection: cfg.Mongo.Collection,
	})
	if err != nil {
		// The viewer keeps running on the sample fallback.
		logger.Warn("store unavailable, viewer will serve the sample file", zap.Error(err))
		readStore = unavailableStore{err: err}
	} else {
		readStore = db
		defer func() {
			if cerr := db.Close(context.Background()); cerr != nil {
				logger.Warn("close store", zap.Error(cerr))
			}
		}()
	}

	srv := viewer.New(viewer.Config{
		Port:       cfg.Server.Port,
		SamplePath: cfg.Server.SamplePath,
	}, readStore, logger)

	logger.Info("viewer listening", zap.Int("port", cfg.Server.Port))
	return srv.ListenAndServe(ctx)
}

// unavailableStore turns every query into an error so the viewer's
// sample fallback kicks in.
type unavailableStore struct {
	err error
}

func (s unavailableStore) Recent(context.Context, int) ([]article.Article, error) {
	return nil, s.err
}
