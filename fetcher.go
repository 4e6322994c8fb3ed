package sphinxdex

import "context"

// Fetcher retrieves raw content, such as an HTML page or a searchindex.js
// file, from a location.
type Fetcher interface {
	// Fetch returns the body found at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) ([]byte, error)

	// Close releases resources.
	Close() error
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
