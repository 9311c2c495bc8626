package generator

import (
	"context"
	"time"

	"git.home.luguber.info/inful/sitemapper/internal/config"
	ferrors "git.home.luguber.info/inful/sitemapper/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapper/internal/logfields"
	"git.home.luguber.info/inful/sitemapper/internal/metrics"
	"git.home.luguber.info/inful/sitemapper/internal/notify"
	"git.home.luguber.info/inful/sitemapper/internal/observability"
	"git.home.luguber.info/inful/sitemapper/internal/robots"
	"git.home.luguber.info/inful/sitemapper/internal/storage"
)

// Result reports a completed Run.
type Result struct {
	*Output
	// Locations are the stores the artifacts were written to.
	Locations []string
	Outcome   metrics.OutcomeLabel
	Duration  time.Duration
	// Warnings are follow-up failures (notification, metrics export) that did
	// not fail the run.
	Warnings []error
}

func errConfigRequired() error {
	return ferrors.ConfigError("configuration required").Build()
}

// Run performs a full generation: validate, remove stale artifacts from every
// store, generate in memory, write, notify.
//
// Stale artifacts are removed before generation starts. A generation that fails
// after that point leaves the stores without artifacts; the previous output is
// not restored.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res, err := g.run(ctx)
	duration := time.Since(start)

	outcome := metrics.OutcomeFailed
	if err == nil {
		outcome = res.Outcome
		res.Duration = duration
	}
	g.recorder.IncOutcome(outcome)
	g.recorder.ObserveGenerationDuration(duration)

	if werr := g.exportMetrics(ctx); werr != nil && res != nil {
		res.Warnings = append(res.Warnings, werr)
	}
	return res, err
}

func (g *Generator) run(ctx context.Context) (*Result, error) {
	if err := g.prepare(); err != nil {
		return nil, err
	}
	bc := g.buildContext()
	ctx = observability.WithBuildID(ctx, bc.BuildID)

	stores, err := g.openStores(ctx, g.cfg)
	if err != nil {
		return nil, err
	}
	defer func() {
		for _, s := range stores {
			_ = s.Close()
		}
	}()

	if err := g.clean(ctx, stores); err != nil {
		return nil, err
	}

	out, err := g.generate(ctx, bc)
	if err != nil {
		return nil, err
	}

	if err := g.write(ctx, stores, out); err != nil {
		return nil, err
	}

	res := &Result{Output: out, Outcome: metrics.OutcomeSuccess}
	for _, s := range stores {
		res.Locations = append(res.Locations, s.Location())
	}

	if nerr := g.notify(ctx, res); nerr != nil {
		res.Warnings = append(res.Warnings, nerr)
		res.Outcome = metrics.OutcomeWarning
	}

	observability.InfoContext(ctx, "Sitemap generation complete",
		logfields.BaseURL(g.cfg.BaseURL),
		logfields.Count(len(out.Entries)))
	return res, nil
}

// clean removes every artifact name this configuration can produce, enabled or
// not, so a disabled artifact does not linger from an earlier run.
func (g *Generator) clean(ctx context.Context, stores []storage.ArtifactStore) error {
	for _, s := range stores {
		for _, name := range g.cfg.ArtifactNames() {
			if err := s.Delete(ctx, name); err != nil {
				return err
			}
			observability.DebugContext(ctx, "Removed stale artifact", logfields.Artifact(name), logfields.Sink(s.Location()))
		}
	}
	return nil
}

func (g *Generator) write(ctx context.Context, stores []storage.ArtifactStore, out *Output) error {
	return g.stage(ctx, metrics.StageWrite, func(ctx context.Context) error {
		for _, s := range stores {
			for _, obj := range out.Artifacts {
				if _, err := s.Put(ctx, obj); err != nil {
					return err
				}
				observability.InfoContext(ctx, "Wrote artifact",
					logfields.Artifact(obj.Name), logfields.Sink(s.Location()), logfields.Count(len(obj.Data)))
			}
		}
		return nil
	})
}

// notify publishes the generation event. Failures are warnings: the artifacts
// are already written.
func (g *Generator) notify(ctx context.Context, res *Result) error {
	if g.cfg.Notify == nil {
		return nil
	}
	return g.stage(ctx, metrics.StageNotify, func(ctx context.Context) error {
		n, err := g.openNotifier(g.cfg.Notify)
		if err != nil {
			observability.WarnContext(ctx, "Notification skipped", logfields.Error(err))
			return err
		}
		defer func() { _ = n.Close() }()

		if err := n.Notify(ctx, g.event(res)); err != nil {
			observability.WarnContext(ctx, "Notification failed", logfields.Error(err))
			return err
		}
		return nil
	})
}

func (g *Generator) event(res *Result) notify.Event {
	ev := notify.Event{
		BuildID:     res.BuildID,
		BaseURL:     g.cfg.BaseURL,
		URLCount:    len(res.Entries),
		Locations:   res.Locations,
		GeneratedAt: g.now().UTC(),
	}
	if g.cfg.Sitemap {
		ev.SitemapURL = robots.SitemapURL(g.cfg.BaseURL, g.cfg.SitemapFilename)
	}
	for _, obj := range res.Artifacts {
		ev.Artifacts = append(ev.Artifacts, notify.Artifact{Name: obj.Name, SHA256: obj.Hash, Size: len(obj.Data)})
	}
	return ev
}

type textfileWriter interface {
	WriteTextfile(path string) error
}

func (g *Generator) exportMetrics(ctx context.Context) error {
	if g.cfg == nil || g.cfg.Metrics == nil {
		return nil
	}
	w, ok := g.recorder.(textfileWriter)
	if !ok {
		return nil
	}
	if err := w.WriteTextfile(g.cfg.Metrics.Textfile); err != nil {
		observability.WarnContext(ctx, "Failed to export metrics", logfields.Path(g.cfg.Metrics.Textfile), logfields.Error(err))
		return err
	}
	return nil
}

func defaultStores(ctx context.Context, cfg *config.Config) ([]storage.ArtifactStore, error) {
	local, err := storage.NewFSStore(cfg.DestDir())
	if err != nil {
		return nil, err
	}
	stores := []storage.ArtifactStore{local}

	if u := cfg.Upload; u != nil {
		s3, err := storage.NewS3Store(ctx, storage.S3Options{
			Bucket:          u.Bucket,
			Prefix:          u.Prefix,
			Region:          u.Region,
			Endpoint:        u.Endpoint,
			UsePathStyle:    u.UsePathStyle,
			AccessKeyID:     u.AccessKeyID,
			SecretAccessKey: u.SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		stores = append(stores, s3)
	}
	return stores, nil
}

func defaultNotifier(cfg *config.NotifyConfig) (notify.Notifier, error) {
	if cfg == nil {
		return notify.NoopNotifier{}, nil
	}
	return notify.NewNATSNotifier(notify.NATSOptions{
		URL:       cfg.NATSURL,
		Subject:   cfg.Subject,
		JetStream: cfg.JetStream,
	})
}
