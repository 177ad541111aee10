// Package viewer serves the read side: an HTML page of the most recent
// articles, with a bundled sample file as fallback when the store is
// unreachable.
package viewer

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"kpnews/internal/article"
)

const (
	defaultLimit = 10
	maxLimit     = 500
)

// Store is the read-side query contract.
type Store interface {
	Recent(ctx context.Context, limit int) ([]article.Article, error)
}

// Config controls the viewer server.
type Config struct {
	Port       int
	SamplePath string
}

// Server renders recent articles over HTTP.
type Server struct {
	cfg    Config
	store  Store
	logger *zap.Logger
	tmpl   *template.Template
}

// New builds the viewer server.
func New(cfg Config, store Store, logger *zap.Logger) *Server {
	return &Server{
		cfg:    cfg,
		store:  store,
		logger: logger,
		tmpl:   template.Must(template.New("articles").Parse(pageTemplate)),
	}
}

// Router wires the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleArticles)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// ListenAndServe blocks until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("viewer listen: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("viewer shutdown: %w", err)
		}
		return nil
	}
}

type pageData struct {
	Limit    int
	Source   string
	Articles []article.Article
}

func (s *Server) handleArticles(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("n"))

	data := pageData{Limit: limit, Source: "MongoDB"}
	articles, err := s.store.Recent(r.Context(), limit)
	if err != nil {
		// The read side never shows an error page for an unreachable
		// store; it serves the bundled sample and says so.
		s.logger.Warn("store query failed, serving sample fallback", zap.Error(err))
		articles, err = s.sampleArticles(limit)
		if err != nil {
			s.logger.Error("sample fallback failed", zap.Error(err))
			http.Error(w, "no data available", http.StatusServiceUnavailable)
			return
		}
		data.Source = fmt.Sprintf("sample.jsonl fallback (%s)", s.cfg.SamplePath)
	}
	data.Articles = articles

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, data); err != nil {
		s.logger.Error("render articles", zap.Error(err))
	}
}

func (s *Server) sampleArticles(limit int) ([]article.Article, error) {
	file, err := os.Open(s.cfg.SamplePath)
	if err != nil {
		return nil, fmt.Errorf("open sample: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	articles, err := article.DecodeLines(file)
	if err != nil {
		return nil, err
	}
	if len(articles) > limit {
		articles = articles[:limit]
	}
	return articles, nil
}

func parseLimit(raw string) int {
	if raw == "" {
		return defaultLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return defaultLimit
	}
	if n > maxLimit {
		return maxLimit
	}
	return n
}

const pageTemplate = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>KP News</title></head>
<body>
<h1>KP News (N={{.Limit}})</h1>
<p><b>Source:</b> {{.Source}}</p>
{{range $i, $a := .Articles}}
<article style="border:1px solid #ddd;padding:12px;margin:12px 0;">
<h3>{{$a.Title}}</h3>
<p><b>Дата публикации:</b> {{$a.PublicationDatetime}}</p>
<p><b>Авторы:</b> {{range $j, $v := $a.Authors}}{{if $j}}, {{end}}{{$v}}{{end}}</p>
<p><b>Ключевые слова:</b> {{range $j, $v := $a.Keywords}}{{if $j}}, {{end}}{{$v}}{{end}}</p>
<p>{{$a.Description}}</p>
{{if $a.HeaderPhotoURL}}<img src="{{$a.HeaderPhotoURL}}" alt="cover" style="max-width:420px;display:block;margin:8px 0;">{{end}}
<p>{{$a.ArticleText}}</p>
<p><a href="{{$a.SourceURL}}" target="_blank" rel="noopener">{{$a.SourceURL}}</a></p>
</article>
{{end}}
</body></html>
`
