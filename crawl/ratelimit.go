package crawl

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/fwojciec/sphinxdex"
	"golang.org/x/time/rate"
)

var _ sphinxdex.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces the requests an update sends to each documentation
// host. Projects on one host, such as several Read the Docs projects, share
// a bucket; projects on different hosts are fetched independently.
type DomainLimiter struct {
	rps float64

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// NewDomainLimiter allows rps requests per second to each host, without
// bursts. A non-positive rps disables limiting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{rps: rps, buckets: make(map[string]*rate.Limiter)}
}

// Wait blocks until a request to host may be sent or ctx ends. Host names
// are case-insensitive. Requests without a host, such as reads of a local
// build, are never delayed.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	host = strings.ToLower(host)
	if host == "" || d.rps <= 0 {
		return ctx.Err()
	}

	d.mu.Lock()
	bucket, ok := d.buckets[host]
	if !ok {
		bucket = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.buckets[host] = bucket
	}
	d.mu.Unlock()

	return bucket.Wait(ctx)
}

// domainOf returns the host of rawURL without its port, or an empty string
// for paths and malformed URLs.
func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
