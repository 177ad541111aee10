// Package loader bulk-imports line-delimited JSON articles with the
// same upsert semantics as the crawl pipeline.
package loader

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"kpnews/internal/article"
)

// Store is the upsert target for imported records.
type Store interface {
	Upsert(ctx context.Context, a article.Article) error
}

// Load reads path and upserts every record keyed by source_url.
// Records without a source URL are skipped; individual write failures
// are logged and counted, not fatal. Returns the number of records
// written.
func Load(ctx context.Context, path string, store Store, logger *zap.Logger) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			logger.Debug("close import file", zap.Error(cerr))
		}
	}()

	articles, err := article.DecodeLines(file)
	if err != nil {
		return 0, err
	}

	loaded := 0
	for _, a := range articles {
		if a.SourceURL == "" {
			logger.Warn("skipping record without source_url", zap.String("title", a.Title))
			continue
		}
		if err := store.Upsert(ctx, a); err != nil {
			logger.Warn("import upsert failed", zap.String("url", a.SourceURL), zap.Error(err))
			continue
		}
		loaded++
	}
	return loaded, nil
}
