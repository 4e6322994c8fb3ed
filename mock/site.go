package mock

import "github.com/fwojciec/sphinxdex"

var _ sphinxdex.Locator = (*Locator)(nil)

// Locator is a mock implementation of sphinxdex.Locator.
type Locator struct {
	LocateFn       func(html, pageURL string) (*sphinxdex.Site, error)
	ApplyOptionsFn func(site *sphinxdex.Site, js string)
}

func (l *Locator) Locate(html, pageURL string) (*sphinxdex.Site, error) {
	return l.LocateFn(html, pageURL)
}

func (l *Locator) ApplyOptions(site *sphinxdex.Site, js string) {
	l.ApplyOptionsFn(site, js)
}

var _ sphinxdex.FrameworkDetector = (*FrameworkDetector)(nil)

// FrameworkDetector is a mock implementation of sphinxdex.FrameworkDetector.
type FrameworkDetector struct {
	DetectFn func(html string) sphinxdex.Framework
}

func (d *FrameworkDetector) Detect(html string) sphinxdex.Framework {
	return d.DetectFn(html)
}
