package config

import (
	"path/filepath"
	"slices"

	"git.home.luguber.info/inful/sitemapper/internal/routes"
	"git.home.luguber.info/inful/sitemapper/internal/sitemap"
)

// Config holds every recognized sitemapper option. Decoding rejects any key not
// declared here.
type Config struct {
	// BaseURL is the absolute site URL every location is built from. Required.
	BaseURL string `yaml:"base_url"`
	// Dir is the project root that Pages and Dest are relative to.
	Dir string `yaml:"dir,omitempty"`
	// Dest is the directory the artifacts are written to.
	Dest string `yaml:"dest"`
	// Pages is the page-file root that routes are discovered from.
	Pages string `yaml:"pages"`
	// PageExtensions are the file extensions recognized as pages.
	PageExtensions []string `yaml:"page_extensions"`

	PageTags          []sitemap.PageTag          `yaml:"page_tags,omitempty"`
	AlternateBaseURLs []sitemap.AlternateBaseURL `yaml:"alternate_base_urls,omitempty"`
	// ExcludedPaths are removed after the path map runs.
	ExcludedPaths []string `yaml:"excluded_paths,omitempty"`
	// ExtraPaths are added last and cannot be excluded.
	ExtraPaths []string `yaml:"extra_paths,omitempty"`
	// TrailingSlash appends "/" to every discovered non-root route.
	TrailingSlash bool `yaml:"trailing_slash"`

	Robots          bool           `yaml:"robots"`
	Sitemap         bool           `yaml:"sitemap"`
	RobotsFilename  string         `yaml:"robots_filename"`
	SitemapFilename string         `yaml:"sitemap_filename"`
	Format          sitemap.Format `yaml:"format"`
	// Gzip also writes a gzip-compressed copy of the sitemap next to it.
	Gzip bool `yaml:"gzip"`

	// Build context handed to the path map.
	Dev     bool   `yaml:"dev,omitempty"`
	OutDir  string `yaml:"out_dir,omitempty"`
	DistDir string `yaml:"dist_dir,omitempty"`
	BuildID string `yaml:"build_id,omitempty"`

	// PathMapCommand is an external program acting as the path map (see routes.CommandPathMap).
	PathMapCommand []string `yaml:"path_map_command,omitempty"`

	Upload  *UploadConfig  `yaml:"upload,omitempty"`
	Notify  *NotifyConfig  `yaml:"notify,omitempty"`
	Metrics *MetricsConfig `yaml:"metrics,omitempty"`

	// PathMap is the in-process path map override. It takes precedence over PathMapCommand.
	PathMap routes.PathMapFunc `yaml:"-"`
}

// UploadConfig mirrors the artifacts into an S3-compatible bucket.
type UploadConfig struct {
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix,omitempty"`
	Region          string `yaml:"region,omitempty"`
	Endpoint        string `yaml:"endpoint,omitempty"` // R2, MinIO, ...
	UsePathStyle    bool   `yaml:"use_path_style,omitempty"`
	AccessKeyID     string `yaml:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty"`
}

// NotifyConfig publishes a build event over NATS once artifacts are written.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject,omitempty"`
	// JetStream publishes through JetStream and waits for the stream ack.
	JetStream bool `yaml:"jetstream,omitempty"`
}

// MetricsConfig exports generation metrics in Prometheus text format.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// DefaultNotifySubject is used when notify.subject is omitted.
const DefaultNotifySubject = "sitemapper.generated"

// Defaults returns a fresh copy of the default configuration.
func Defaults() Config {
	return Config{
		Dir:               ".",
		Dest:              "public",
		Pages:             "pages",
		PageExtensions:    []string{"js"},
		PageTags:          []sitemap.PageTag{},
		AlternateBaseURLs: []sitemap.AlternateBaseURL{},
		Robots:            true,
		Sitemap:           true,
		RobotsFilename:    "robots.txt",
		SitemapFilename:   "sitemap.xml",
		Format:            sitemap.FormatPretty,
	}
}

// PagesRoot is the absolute page-file root.
func (c *Config) PagesRoot() string {
	return c.resolve(c.Pages)
}

// DestDir is the absolute artifact directory.
func (c *Config) DestDir() string {
	return c.resolve(c.Dest)
}

// GzipFilename is the name of the compressed sitemap copy.
func (c *Config) GzipFilename() string {
	return c.SitemapFilename + ".gz"
}

// ArtifactNames lists every file a run may produce, enabled or not, so stale
// copies can be cleaned before generation.
func (c *Config) ArtifactNames() []string {
	names := []string{c.RobotsFilename, c.SitemapFilename, c.GzipFilename()}
	return slices.Compact(names)
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir, p)
}
