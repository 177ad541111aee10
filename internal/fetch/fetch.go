// Package fetch retrieves rendered page markup. Two implementations
// exist: a plain HTTP fetcher built on Colly and a headless Chrome
// renderer for pages that need JavaScript.
package fetch

import "context"

// Page is the rendered markup of one fetched URL.
type Page struct {
	URL        string
	FinalURL   string
	StatusCode int
	Body       []byte
}

// Fetcher returns rendered page markup or a transport error. Per-request
// failures are reported distinctly from success; callers decide what a
// failed page means for the run.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Page, error)
}
