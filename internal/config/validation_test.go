package config

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/sitemapper/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapper/internal/sitemap"
)

func validConfig() Config {
	cfg := Defaults()
	cfg.BaseURL = "https://example.com"
	return cfg
}

func requireFieldError(t *testing.T, err error, field string) *ferrors.ClassifiedError {
	t.Helper()
	require.Error(t, err)
	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok, "expected classified error, got %T", err)
	assert.Equal(t, ferrors.CategoryConfig, ce.Category())
	got, _ := ce.Context().GetString("field")
	assert.Equal(t, field, got)
	return ce
}

func TestValidateDefaultsWithBaseURL(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Normalize())
	assert.NoError(t, cfg.Validate())
}

func TestValidateBaseURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"missing", ""},
		{"relative", "/docs"},
		{"ftp", "ftp://example.com"},
		{"query", "https://example.com?x=1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.BaseURL = tt.url
			requireFieldError(t, cfg.Validate(), "base_url")
		})
	}
}

func TestValidatePageTagChangeFreq(t *testing.T) {
	cfg := validConfig()
	cfg.PageTags = []sitemap.PageTag{{Path: "/about", ChangeFreq: "Weekly"}}

	ce := requireFieldError(t, cfg.Validate(), "page_tags[0].changefreq")
	assert.Contains(t, ce.Message(), "should be one of")
	path, _ := ce.Context().GetString("path")
	assert.Equal(t, "/about", path)
}

func TestValidatePageTagPriority(t *testing.T) {
	for _, p := range []float64{-0.1, 1.1, math.NaN()} {
		cfg := validConfig()
		cfg.PageTags = []sitemap.PageTag{{Path: "/", Priority: sitemap.Float64(p)}}
		ce := requireFieldError(t, cfg.Validate(), "page_tags[0].priority")
		path, _ := ce.Context().GetString("path")
		assert.Equal(t, "/", path)
	}

	cfg := validConfig()
	cfg.PageTags = []sitemap.PageTag{
		{Path: "/", Priority: sitemap.Float64(0)},
		{Path: "/a", Priority: sitemap.Float64(1)},
		{Path: "/a", ChangeFreq: sitemap.ChangeFreqNever},
	}
	assert.NoError(t, cfg.Validate(), "boundaries and duplicate tag paths are accepted")
}

func TestValidateAlternates(t *testing.T) {
	cfg := validConfig()
	cfg.AlternateBaseURLs = []sitemap.AlternateBaseURL{
		{Lang: "jp", URL: "https://example.jp"},
		{Lang: "es", URL: "https://example.com/es"},
		{Lang: "x-default", URL: "https://example.com"},
	}
	require.NoError(t, cfg.Validate())

	cfg.AlternateBaseURLs = []sitemap.AlternateBaseURL{{Lang: "not a tag", URL: "https://example.com"}}
	requireFieldError(t, cfg.Validate(), "alternate_base_urls[0].lang")

	cfg.AlternateBaseURLs = []sitemap.AlternateBaseURL{{Lang: "de", URL: "example.de"}}
	requireFieldError(t, cfg.Validate(), "alternate_base_urls[0].url")

	cfg.AlternateBaseURLs = []sitemap.AlternateBaseURL{
		{Lang: "de", URL: "https://example.de"},
		{Lang: "de", URL: "https://example.de"},
	}
	requireFieldError(t, cfg.Validate(), "alternate_base_urls[1]")
}

func TestValidateRouteLists(t *testing.T) {
	cfg := validConfig()
	cfg.ExcludedPaths = []string{"/a", "/a"}
	requireFieldError(t, cfg.Validate(), "excluded_paths[1]")

	cfg = validConfig()
	cfg.ExtraPaths = []string{" "}
	requireFieldError(t, cfg.Validate(), "extra_paths[0]")
}

func TestValidateOutput(t *testing.T) {
	cfg := validConfig()
	cfg.SitemapFilename = "nested/sitemap.xml"
	requireFieldError(t, cfg.Validate(), "sitemap_filename")

	cfg = validConfig()
	cfg.RobotsFilename = "sitemap.xml"
	requireFieldError(t, cfg.Validate(), "robots_filename")

	cfg = validConfig()
	cfg.Format = "compact"
	requireFieldError(t, cfg.Validate(), "format")

	cfg = validConfig()
	cfg.PageExtensions = nil
	requireFieldError(t, cfg.Validate(), "page_extensions")
}

func TestValidateIntegrations(t *testing.T) {
	cfg := validConfig()
	cfg.Upload = &UploadConfig{}
	requireFieldError(t, cfg.Validate(), "upload.bucket")

	cfg = validConfig()
	cfg.Upload = &UploadConfig{Bucket: "b", AccessKeyID: "id"}
	requireFieldError(t, cfg.Validate(), "upload.access_key_id")

	cfg = validConfig()
	cfg.Notify = &NotifyConfig{}
	requireFieldError(t, cfg.Validate(), "notify.nats_url")

	cfg = validConfig()
	cfg.Metrics = &MetricsConfig{}
	requireFieldError(t, cfg.Validate(), "metrics.textfile")
}
