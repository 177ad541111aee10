package enrich

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kpnews/internal/article"
)

func newEnricher(maxBytes int64) *Enricher {
	return New(Config{Timeout: 2 * time.Second, MaxBytes: maxBytes}, zap.NewNop())
}

func TestEnrichEmbedsSmallImage(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte{0xAB}, 1000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	a := article.Article{HeaderPhotoURL: srv.URL}
	require.Equal(t, Enriched, newEnricher(5_000_000).Enrich(context.Background(), &a))

	decoded, err := base64.StdEncoding.DecodeString(a.HeaderPhotoBase64)
	require.NoError(t, err)
	require.Equal(t, payload, decoded)
}

func TestEnrichSkipsOversizeImage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte{0x01}, 6_000_001))
	}))
	defer srv.Close()

	a := article.Article{HeaderPhotoURL: srv.URL}
	require.Equal(t, Skipped, newEnricher(5_000_000).Enrich(context.Background(), &a))
	require.Empty(t, a.HeaderPhotoBase64)
}

func TestEnrichAcceptsImageAtExactCeiling(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte{0x02}, 1024))
	}))
	defer srv.Close()

	a := article.Article{HeaderPhotoURL: srv.URL}
	require.Equal(t, Enriched, newEnricher(1024).Enrich(context.Background(), &a))
}

func TestEnrichSkipsWithoutPhotoURL(t *testing.T) {
	t.Parallel()

	a := article.Article{}
	require.Equal(t, Skipped, newEnricher(1024).Enrich(context.Background(), &a))
	require.Empty(t, a.HeaderPhotoBase64)
}

func TestEnrichSkipsOnHTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	a := article.Article{HeaderPhotoURL: srv.URL}
	require.Equal(t, Skipped, newEnricher(1024).Enrich(context.Background(), &a))
	require.Empty(t, a.HeaderPhotoBase64)
}

func TestEnrichSkipsOnTransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	a := article.Article{HeaderPhotoURL: srv.URL}
	require.Equal(t, Skipped, newEnricher(1024).Enrich(context.Background(), &a))
}

func TestEnrichSkipsOnTimeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	e := New(Config{Timeout: 50 * time.Millisecond, MaxBytes: 1024}, zap.NewNop())
	a := article.Article{HeaderPhotoURL: srv.URL}
	require.Equal(t, Skipped, e.Enrich(context.Background(), &a))
}
