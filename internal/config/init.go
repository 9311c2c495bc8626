package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/sitemapper/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapper/internal/sitemap"
)

const initHeader = "# sitemapper configuration\n# Values may reference environment variables as ${VAR}; .env and .env.local are loaded first.\n\n"

// Example returns the configuration written by Init.
func Example() Config {
	cfg := Defaults()
	cfg.Dir = ""
	cfg.BaseURL = "https://example.com"
	cfg.PageTags = []sitemap.PageTag{
		{Path: "/", ChangeFreq: sitemap.ChangeFreqDaily, Priority: sitemap.Float64(1)},
	}
	cfg.AlternateBaseURLs = []sitemap.AlternateBaseURL{
		{Lang: "es", URL: "https://example.com/es"},
	}
	cfg.ExcludedPaths = []string{"/404"}
	return cfg
}

// Init writes an example configuration file. An existing file is kept unless force is set.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return ferrors.FileSystemError("failed to inspect configuration path").WithCause(err).WithContext("path", configPath).Build()
	}

	example := Example()
	data, err := yaml.Marshal(&example)
	if err != nil {
		return ferrors.InternalError("failed to marshal example configuration").WithCause(err).Build()
	}

	// #nosec G306 -- configuration is not secret
	if err := os.WriteFile(configPath, append([]byte(initHeader), data...), 0o644); err != nil {
		return ferrors.FileSystemError("failed to write configuration file").WithCause(err).WithContext("path", configPath).Build()
	}
	return nil
}
