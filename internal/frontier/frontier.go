// Package frontier tracks discovered URLs and enforces the per-run
// article quota.
package frontier

import (
	"net/url"
	"regexp"
	"strings"
	"sync"
)

// articlePatterns identify article-like paths on kp.ru.
var articlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`/online/news/\d+/`),
	regexp.MustCompile(`/daily/\d{2}\.\d{2}\.\d{4}/\d+\d*/`),
	regexp.MustCompile(`/daily/theme/\d+/`),
}

// excludedSections are content types that are never articles.
var excludedSections = []string{"/video/", "/photo/", "/radio/", "/afisha/"}

var allowedHosts = map[string]struct{}{
	"kp.ru":     {},
	"www.kp.ru": {},
}

// Frontier owns the seen-set and admission counters for one crawl run.
// It is safe for concurrent use; admission is a single check-then-act
// under the mutex so quota decisions cannot race.
type Frontier struct {
	mu             sync.Mutex
	seen           map[string]struct{}
	quota          int
	linksQueued    int
	articlesParsed int
}

// New creates an empty frontier with the given article quota.
func New(quota int) *Frontier {
	return &Frontier{
		seen:  make(map[string]struct{}),
		quota: quota,
	}
}

// Resolve joins href against base and returns the absolute URL, or ""
// when either side is malformed. Malformed input is out of scope, never
// an error.
func Resolve(href, base string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(ref).String()
}

// Classify reports whether absURL is a candidate article page: an
// allowed kp.ru host over https, not an excluded section, and matching
// at least one article path pattern.
func Classify(absURL string) bool {
	if absURL == "" {
		return false
	}
	parsed, err := url.Parse(absURL)
	if err != nil {
		return false
	}
	if parsed.Scheme != "https" {
		return false
	}
	if _, ok := allowedHosts[strings.ToLower(parsed.Host)]; !ok {
		return false
	}
	for _, section := range excludedSections {
		if strings.Contains(absURL, section) {
			return false
		}
	}
	for _, pattern := range articlePatterns {
		if pattern.MatchString(absURL) {
			return true
		}
	}
	return false
}

// Admit records rawURL as seen and charges it against the quota.
// It returns false, without side effects, when the URL was already seen
// or the quota is exhausted. First-seen, first-queued; dropped URLs are
// never re-queued.
func (f *Frontier) Admit(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.seen[rawURL]; ok {
		return false
	}
	if f.articlesParsed+f.linksQueued >= f.quota {
		return false
	}
	f.seen[rawURL] = struct{}{}
	f.linksQueued++
	return true
}

// NoteParsed increments the parsed-article counter.
func (f *Frontier) NoteParsed() {
	f.mu.Lock()
	f.articlesParsed++
	f.mu.Unlock()
}

// Exhausted reports whether the quota has been reached.
func (f *Frontier) Exhausted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.articlesParsed+f.linksQueued >= f.quota
}

// Counters returns the monotonic linksQueued and articlesParsed values.
func (f *Frontier) Counters() (linksQueued, articlesParsed int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.linksQueued, f.articlesParsed
}
