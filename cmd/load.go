package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"kpnews/internal/loader"
	"kpnews/internal/store"
)

func newLoadCmd() *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Bulk-imports a JSONL export into the article store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			ctx := cmd.Context()
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

			loaded, err := loader.Load(ctx, filePath, db, logger)
			if err != nil {
				return err
			}
			logger.Info("import finished", zap.Int("loaded", loaded), zap.String("file", filePath))
			return nil
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "sample.jsonl", "path to a line-delimited JSON export")
	return cmd
}
