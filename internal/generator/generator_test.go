package generator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitemapper/internal/config"
	ferrors "git.home.luguber.info/inful/sitemapper/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapper/internal/routes"
	"git.home.luguber.info/inful/sitemapper/internal/sitemap"
)

var fixedNow = time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// writePages creates empty page files under dir/pages.
func writePages(t *testing.T, dir string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(dir, "pages", filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte("export default {}\n"), 0o600))
	}
}

func testConfig(t *testing.T, files ...string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	writePages(t, dir, files...)
	cfg := config.Defaults()
	cfg.Dir = dir
	cfg.BaseURL = "https://example.com"
	return &cfg
}

func TestRoutes(t *testing.T) {
	cfg := testConfig(t, "index.js", "about.js", "_app.js", "blog/index.js", "blog/first-post.js", "styles.css")
	cfg.ExcludedPaths = []string{"/about"}
	cfg.ExtraPaths = []string{"/landing"}

	pm, err := New(cfg, WithClock(clock)).Routes(context.Background())
	require.NoError(t, err)

	want := []string{"/blog/first-post", "/blog", "/", "/landing"}
	if diff := cmp.Diff(want, pm.Paths()); diff != "" {
		t.Errorf("routes mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateBuildsEntries(t *testing.T) {
	cfg := testConfig(t, "index.js", "about.js")
	cfg.PageTags = []sitemap.PageTag{{Path: "/about", ChangeFreq: sitemap.ChangeFreqWeekly, Priority: sitemap.Float64(0.5)}}
	cfg.AlternateBaseURLs = []sitemap.AlternateBaseURL{{Lang: "es", URL: "https://example.com/es"}}

	out, err := New(cfg, WithClock(clock), WithBuildIDFunc(func() string { return "b-1" })).Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "b-1", out.BuildID)

	want := []sitemap.URLEntry{
		{
			Location:   "https://example.com/about",
			LastMod:    "2024-05-02",
			Alternates: []sitemap.AlternateLink{{Rel: "alternate", HrefLang: "es", Href: "https://example.com/es/about"}},
			ChangeFreq: sitemap.ChangeFreqWeekly,
			Priority:   sitemap.Float64(0.5),
		},
		{
			Location:   "https://example.com/",
			LastMod:    "2024-05-02",
			Alternates: []sitemap.AlternateLink{{Rel: "alternate", HrefLang: "es", Href: "https://example.com/es/"}},
		},
	}
	if diff := cmp.Diff(want, out.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "User-agent: *\nAllow: /\nSitemap: https://example.com/sitemap.xml", string(out.Robots))
	assert.True(t, strings.HasPrefix(string(out.Sitemap), `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, string(out.Sitemap), "<loc>https://example.com/about</loc>")
	assert.Nil(t, out.Gzip)

	names := make([]string, len(out.Artifacts))
	for i, a := range out.Artifacts {
		names[i] = a.Name
	}
	assert.Equal(t, []string{"robots.txt", "sitemap.xml"}, names)
}

func TestGenerateZeroPagesProducesEmptyEnvelope(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.Dir, "pages"), 0o750))

	out, err := New(cfg, WithClock(clock)).Generate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, out.Entries)
	assert.Contains(t, string(out.Sitemap), "<urlset")
	assert.NotContains(t, string(out.Sitemap), "<url>")
}

func TestGenerateIsDeterministic(t *testing.T) {
	cfg := testConfig(t, "index.js", "a.js", "b/c.js")
	cfg.Gzip = true

	first, err := New(cfg, WithClock(clock)).Generate(context.Background())
	require.NoError(t, err)
	second, err := New(cfg, WithClock(clock)).Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Sitemap, second.Sitemap)
	assert.Equal(t, first.Gzip, second.Gzip)
	assert.NotEqual(t, first.BuildID, second.BuildID, "a fresh build id per run")
}

func TestGenerateDisabledArtifacts(t *testing.T) {
	cfg := testConfig(t, "index.js")
	cfg.Robots = false
	cfg.Gzip = true

	out, err := New(cfg, WithClock(clock)).Generate(context.Background())
	require.NoError(t, err)
	assert.Nil(t, out.Robots)
	require.Len(t, out.Artifacts, 2)
	assert.Equal(t, "sitemap.xml.gz", out.Artifacts[1].Name)

	cfg.Sitemap = false
	cfg.Robots = true
	out, err = New(cfg, WithClock(clock)).Generate(context.Background())
	require.NoError(t, err)
	assert.Nil(t, out.Sitemap)
	assert.Nil(t, out.Gzip, "no gzip copy without a sitemap")
	require.Len(t, out.Artifacts, 1)
}

func TestGeneratePathMapOverride(t *testing.T) {
	cfg := testConfig(t, "index.js", "about.js")
	var gotContext routes.BuildContext
	cfg.BuildID = "fixed"
	cfg.Dev = true
	cfg.PathMap = func(_ context.Context, discovered *routes.PathMap, bc routes.BuildContext) (*routes.PathMap, error) {
		gotContext = bc
		assert.True(t, discovered.Has("/about"))
		pm := routes.NewPathMap()
		pm.Set("/custom", routes.Descriptor{Page: "/about"})
		return pm, nil
	}
	cfg.ExtraPaths = []string{"/extra"}

	out, err := New(cfg, WithClock(clock)).Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"/custom", "/extra"}, out.Routes.Paths())
	assert.Equal(t, "fixed", gotContext.BuildID)
	assert.True(t, gotContext.Dev)
	assert.Equal(t, cfg.Dir, gotContext.Dir)
}

func TestGenerateOverrideRoutesBecomeAbsoluteLocations(t *testing.T) {
	cfg := testConfig(t, "index.js")
	cfg.AlternateBaseURLs = []sitemap.AlternateBaseURL{{Lang: "jp", URL: "https://example.jp"}}
	cfg.PathMap = func(context.Context, *routes.PathMap, routes.BuildContext) (*routes.PathMap, error) {
		pm := routes.NewPathMap()
		pm.Set("about", routes.Descriptor{Page: "/about"})
		pm.Set("", routes.Descriptor{Page: "/"})
		return pm, nil
	}

	out, err := New(cfg, WithClock(clock)).Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, out.Entries, 2)
	assert.Equal(t, "https://example.com/about", out.Entries[0].Location)
	assert.Equal(t, "https://example.jp/about", out.Entries[0].Alternates[0].Href)
	assert.Equal(t, "https://example.com/", out.Entries[1].Location)
}

func TestGenerateOverrideErrorIsReturnedUnchanged(t *testing.T) {
	cfg := testConfig(t, "index.js")
	boom := errors.New("path map exploded")
	cfg.PathMap = func(context.Context, *routes.PathMap, routes.BuildContext) (*routes.PathMap, error) {
		return nil, boom
	}

	_, err := New(cfg, WithClock(clock)).Generate(context.Background())
	assert.Same(t, boom, err)
}

func TestGenerateCanceledBeforeBuild(t *testing.T) {
	cfg := testConfig(t, "index.js")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := New(cfg, WithClock(clock)).Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, out)
}

func TestGenerateUnreadablePagesRoot(t *testing.T) {
	cfg := testConfig(t)
	cfg.Pages = "does-not-exist"

	_, err := New(cfg, WithClock(clock)).Generate(context.Background())
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryDiscovery))
}

func TestGenerateRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t, "index.js")
	cfg.PageTags = []sitemap.PageTag{{Path: "/", Priority: sitemap.Float64(2)}}

	_, err := New(cfg).Generate(context.Background())
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))

	_, err = New(nil).Generate(context.Background())
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}
