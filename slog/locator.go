package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/sphinxdex"
)

// Ensure LoggingLocator implements sphinxdex.Locator.
var _ sphinxdex.Locator = (*LoggingLocator)(nil)

// LoggingLocator wraps a Locator with logging of the detected framework and
// the resolved index location.
type LoggingLocator struct {
	next     sphinxdex.Locator
	detector sphinxdex.FrameworkDetector
	logger   *slog.Logger
}

// NewLoggingLocator creates a new LoggingLocator.
func NewLoggingLocator(next sphinxdex.Locator, detector sphinxdex.FrameworkDetector, logger *slog.Logger) *LoggingLocator {
	return &LoggingLocator{next: next, detector: detector, logger: logger}
}

// Locate detects the framework, delegates to the wrapped locator and logs
// the outcome.
func (l *LoggingLocator) Locate(html, pageURL string) (site *sphinxdex.Site, err error) {
	defer func(begin time.Time) {
		framework := string(l.detector.Detect(html))
		if framework == string(sphinxdex.FrameworkUnknown) {
			framework = "(unknown)"
		}
		attrs := []any{
			"url", pageURL,
			"framework", framework,
		}
		if site != nil {
			attrs = append(attrs, "root", site.Root, "index", site.IndexURL)
		}
		attrs = append(attrs, "duration", time.Since(begin), "err", err)
		l.logger.Info("locate", attrs...)
	}(time.Now())
	return l.next.Locate(html, pageURL)
}

// ApplyOptions delegates to the wrapped locator.
func (l *LoggingLocator) ApplyOptions(site *sphinxdex.Site, js string) {
	l.next.ApplyOptions(site, js)
	l.logger.Debug("documentation options",
		"root", site.Root,
		"suffix", site.FileSuffix,
		"builder", site.Builder,
	)
}
