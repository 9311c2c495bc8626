package generator

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitemapper/internal/config"
	"git.home.luguber.info/inful/sitemapper/internal/logfields"
	"git.home.luguber.info/inful/sitemapper/internal/metrics"
	"git.home.luguber.info/inful/sitemapper/internal/notify"
	"git.home.luguber.info/inful/sitemapper/internal/observability"
	"git.home.luguber.info/inful/sitemapper/internal/pages"
	"git.home.luguber.info/inful/sitemapper/internal/robots"
	"git.home.luguber.info/inful/sitemapper/internal/routes"
	"git.home.luguber.info/inful/sitemapper/internal/sitemap"
	"git.home.luguber.info/inful/sitemapper/internal/storage"
)

// Generator produces the sitemap and robots artifacts for one configuration.
type Generator struct {
	cfg          *config.Config
	now          func() time.Time
	recorder     metrics.Recorder
	newBuildID   func() string
	openStores   func(context.Context, *config.Config) ([]storage.ArtifactStore, error)
	openNotifier func(*config.NotifyConfig) (notify.Notifier, error)
}

// New creates a Generator. With a metrics block in the configuration and no
// explicit recorder, a PrometheusRecorder is used so the textfile can be written.
func New(cfg *config.Config, opts ...Option) *Generator {
	g := &Generator{
		cfg:          cfg,
		now:          time.Now,
		recorder:     metrics.NoopRecorder{},
		newBuildID:   uuid.NewString,
		openStores:   defaultStores,
		openNotifier: defaultNotifier,
	}
	if cfg != nil && cfg.Metrics != nil {
		g.recorder = metrics.NewPrometheusRecorder(nil)
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Output is everything one generation produces, before it is written.
type Output struct {
	BuildID string
	Routes  *routes.PathMap
	Entries []sitemap.URLEntry
	// Sitemap, Robots and Gzip are nil when the artifact is disabled.
	Sitemap []byte
	Robots  []byte
	Gzip    []byte
	// Artifacts lists the enabled artifacts in write order.
	Artifacts []*storage.Object
}

// Routes discovers and resolves the route table without generating artifacts.
func (g *Generator) Routes(ctx context.Context) (*routes.PathMap, error) {
	if err := g.prepare(); err != nil {
		return nil, err
	}
	bc := g.buildContext()
	return g.resolve(observability.WithBuildID(ctx, bc.BuildID), bc)
}

// Generate runs the whole generation in memory. Nothing is written.
func (g *Generator) Generate(ctx context.Context) (*Output, error) {
	if err := g.prepare(); err != nil {
		return nil, err
	}
	bc := g.buildContext()
	return g.generate(observability.WithBuildID(ctx, bc.BuildID), bc)
}

// prepare normalizes and validates the configuration. It runs before any file
// is touched.
func (g *Generator) prepare() error {
	if g.cfg == nil {
		return errConfigRequired()
	}
	if err := g.cfg.Normalize(); err != nil {
		return err
	}
	if err := g.cfg.Validate(); err != nil {
		return err
	}
	if g.cfg.PathMap != nil && len(g.cfg.PathMapCommand) > 0 {
		slog.Warn("Both an in-process path map and path_map_command are configured; using the in-process path map",
			logfields.Field("path_map_command"))
	}
	return nil
}

func (g *Generator) buildContext() routes.BuildContext {
	id := g.cfg.BuildID
	if id == "" {
		id = g.newBuildID()
	}
	return routes.BuildContext{
		Dev:     g.cfg.Dev,
		Dir:     g.cfg.Dir,
		OutDir:  g.cfg.OutDir,
		DistDir: g.cfg.DistDir,
		BuildID: id,
	}
}

func (g *Generator) pathMap() routes.PathMapFunc {
	if g.cfg.PathMap != nil {
		return g.cfg.PathMap
	}
	if len(g.cfg.PathMapCommand) > 0 {
		return routes.CommandPathMap(g.cfg.PathMapCommand)
	}
	return nil
}

// resolve runs discovery then the overrides, in that fixed order.
func (g *Generator) resolve(ctx context.Context, bc routes.BuildContext) (*routes.PathMap, error) {
	var discovered []string
	err := g.stage(ctx, metrics.StageDiscover, func(ctx context.Context) error {
		var err error
		discovered, err = pages.NewDiscovery(g.cfg.PagesRoot(), g.cfg.PageExtensions, g.cfg.TrailingSlash).Routes()
		if err == nil {
			observability.InfoContext(ctx, "Discovered page routes",
				logfields.Path(g.cfg.PagesRoot()), logfields.Count(len(discovered)))
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	var pm *routes.PathMap
	err = g.stage(ctx, metrics.StageResolve, func(ctx context.Context) error {
		var err error
		pm, err = routes.Resolve(ctx, discovered, routes.Overrides{
			PathMap:  g.pathMap(),
			Excluded: g.cfg.ExcludedPaths,
			Extra:    g.cfg.ExtraPaths,
		}, bc)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pm, nil
}

func (g *Generator) generate(ctx context.Context, bc routes.BuildContext) (*Output, error) {
	pm, err := g.resolve(ctx, bc)
	if err != nil {
		return nil, err
	}
	out := &Output{BuildID: bc.BuildID, Routes: pm}

	err = g.stage(ctx, metrics.StageBuild, func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		b := sitemap.NewBuilder(g.cfg.BaseURL, g.cfg.AlternateBaseURLs, g.cfg.PageTags, g.now())
		out.Entries = b.Build(pm.Paths())
		observability.DebugContext(ctx, "Built URL entries",
			logfields.Count(len(out.Entries)), slog.String("lastmod", b.LastMod()))
		return nil
	})
	if err != nil {
		return nil, err
	}
	g.recorder.SetURLCount(len(out.Entries))

	err = g.stage(ctx, metrics.StageSerialize, func(context.Context) error {
		return g.serialize(out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// serialize renders the enabled artifacts in write order: robots, sitemap, gzip.
func (g *Generator) serialize(out *Output) error {
	if g.cfg.Robots {
		out.Robots = []byte(robots.Build(g.cfg.BaseURL, g.cfg.SitemapFilename))
		out.Artifacts = append(out.Artifacts, &storage.Object{
			Name: g.cfg.RobotsFilename, ContentType: storage.ContentTypeText, Data: out.Robots,
		})
	}
	if !g.cfg.Sitemap {
		return nil
	}

	doc, err := sitemap.Encode(out.Entries, g.cfg.Format)
	if err != nil {
		return err
	}
	out.Sitemap = doc
	out.Artifacts = append(out.Artifacts, &storage.Object{
		Name: g.cfg.SitemapFilename, ContentType: storage.ContentTypeXML, Data: doc,
	})

	if g.cfg.Gzip {
		gz, err := storage.Gzip(g.cfg.SitemapFilename, doc)
		if err != nil {
			return err
		}
		out.Gzip = gz
		out.Artifacts = append(out.Artifacts, &storage.Object{
			Name: g.cfg.GzipFilename(), ContentType: storage.ContentTypeGzip, Data: gz,
		})
	}
	return nil
}

// stage times fn and records its result. Errors are returned unchanged.
func (g *Generator) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	ctx = observability.WithStage(ctx, name)
	err := fn(ctx)
	d := time.Since(start)
	g.recorder.ObserveStageDuration(name, d)
	if err != nil {
		g.recorder.IncStageResult(name, metrics.ResultFatal)
		return err
	}
	g.recorder.IncStageResult(name, metrics.ResultSuccess)
	observability.DebugContext(ctx, "Stage complete", logfields.DurationMS(float64(d.Microseconds())/1000))
	return nil
}
