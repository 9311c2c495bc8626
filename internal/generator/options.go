package generator

import (
	"context"
	"time"

	"git.home.luguber.info/inful/sitemapper/internal/config"
	"git.home.luguber.info/inful/sitemapper/internal/metrics"
	"git.home.luguber.info/inful/sitemapper/internal/notify"
	"git.home.luguber.info/inful/sitemapper/internal/storage"
)

// Option configures a Generator.
type Option func(*Generator)

// WithClock sets the time source for lastmod. Tests use a fixed clock.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Generator) {
		if r != nil {
			g.recorder = r
		}
	}
}

// WithStores replaces the stores derived from the configuration (destination
// directory plus the optional upload bucket).
func WithStores(stores ...storage.ArtifactStore) Option {
	return func(g *Generator) {
		g.openStores = func(context.Context, *config.Config) ([]storage.ArtifactStore, error) {
			return stores, nil
		}
	}
}

// WithNotifier replaces the notifier derived from the configuration.
func WithNotifier(n notify.Notifier) Option {
	return func(g *Generator) {
		g.openNotifier = func(*config.NotifyConfig) (notify.Notifier, error) { return n, nil }
	}
}

// WithBuildIDFunc sets how a build ID is minted when none is configured.
func WithBuildIDFunc(fn func() string) Option {
	return func(g *Generator) { g.newBuildID = fn }
}
