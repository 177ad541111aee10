package crawl

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// pacer serializes fetches per origin and enforces a minimum delay
// between successive requests to the same host. Both are politeness
// constraints, not correctness ones.
type pacer struct {
	mu       sync.Mutex
	slots    map[string]chan struct{}
	limiters map[string]*rate.Limiter
	perHost  int
	delay    rate.Limit
}

func newPacer(perHost int, minDelay time.Duration) *pacer {
	if perHost <= 0 {
		perHost = 1
	}
	limit := rate.Inf
	if minDelay > 0 {
		limit = rate.Every(minDelay)
	}
	return &pacer{
		slots:    make(map[string]chan struct{}),
		limiters: make(map[string]*rate.Limiter),
		perHost:  perHost,
		delay:    limit,
	}
}

// acquire blocks until the host has a free fetch slot and its
// inter-request delay has elapsed.
func (p *pacer) acquire(ctx context.Context, rawURL string) error {
	host := hostOf(rawURL)
	slot, limiter := p.hostState(host)

	select {
	case slot <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := limiter.Wait(ctx); err != nil {
		<-slot
		return err
	}
	return nil
}

func (p *pacer) release(rawURL string) {
	host := hostOf(rawURL)
	slot, _ := p.hostState(host)
	select {
	case <-slot:
	default:
	}
}

func (p *pacer) hostState(host string) (chan struct{}, *rate.Limiter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	slot, ok := p.slots[host]
	if !ok {
		slot = make(chan struct{}, p.perHost)
		p.slots[host] = slot
	}
	limiter, ok := p.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(p.delay, 1)
		p.limiters[host] = limiter
	}
	return slot, limiter
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "unknown"
	}
	return strings.ToLower(parsed.Host)
}
