// Package enrich downloads an article's cover photo and embeds it as
// base64. Enrichment is best-effort: no outcome here may fail or drop
// the article.
package enrich

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"kpnews/internal/article"
)

// Outcome reports what happened to the record so callers cannot mistake
// a skip for a failure.
type Outcome int

const (
	// Skipped means the record is unchanged: no photo URL, the image
	// was oversized, or the fetch failed.
	Skipped Outcome = iota
	// Enriched means the photo bytes were embedded.
	Enriched
)

// Config bounds the photo download.
type Config struct {
	Timeout   time.Duration
	MaxBytes  int64
	UserAgent string
}

// Enricher fetches cover photos within configured bounds.
type Enricher struct {
	client   *http.Client
	maxBytes int64
	ua       string
	logger   *zap.Logger
}

// New builds an Enricher with its own bounded HTTP client.
func New(cfg Config, logger *zap.Logger) *Enricher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 5_000_000
	}
	return &Enricher{
		client:   &http.Client{Timeout: cfg.Timeout},
		maxBytes: cfg.MaxBytes,
		ua:       cfg.UserAgent,
		logger:   logger,
	}
}

// Enrich attempts to download a.HeaderPhotoURL and set
// a.HeaderPhotoBase64. Oversize images and transport failures leave the
// record intact and return Skipped; they are capacity decisions, not
// errors.
func (e *Enricher) Enrich(ctx context.Context, a *article.Article) Outcome {
	if a.HeaderPhotoURL == "" {
		return Skipped
	}

	body, err := e.download(ctx, a.HeaderPhotoURL)
	if err != nil {
		e.logger.Debug("photo download failed",
			zap.String("url", a.HeaderPhotoURL),
			zap.Error(err),
		)
		return Skipped
	}
	if int64(len(body)) > e.maxBytes {
		e.logger.Debug("photo exceeds size ceiling, skipping",
			zap.String("url", a.HeaderPhotoURL),
			zap.Int64("max_bytes", e.maxBytes),
		)
		return Skipped
	}

	a.HeaderPhotoBase64 = base64.StdEncoding.EncodeToString(body)
	return Enriched
}

// download reads at most maxBytes+1 bytes so an oversized image is
// detected without buffering it whole.
func (e *Enricher) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new photo request: %w", err)
	}
	if e.ua != "" {
		req.Header.Set("User-Agent", e.ua)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch photo: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			e.logger.Debug("close photo body", zap.Error(cerr))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("photo status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read photo body: %w", err)
	}
	return body, nil
}
