package config

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/idna"

	ferrors "git.home.luguber.info/inful/sitemapper/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapper/internal/routes"
)

// Normalize canonicalizes user input in place. It is idempotent and runs before
// Validate, so validation only ever sees canonical values.
func (c *Config) Normalize() error {
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	base, err := normalizeBaseURL(c.BaseURL)
	if err != nil {
		return ferrors.ConfigError("base_url host is not a valid domain name").
			WithCause(err).
			WithContext("field", "base_url").
			Build()
	}
	c.BaseURL = base

	for i := range c.AlternateBaseURLs {
		alt := &c.AlternateBaseURLs[i]
		alt.Lang = strings.TrimSpace(alt.Lang)
		u, err := normalizeBaseURL(strings.TrimSpace(alt.URL))
		if err != nil {
			return ferrors.ConfigError("alternate_base_urls url host is not a valid domain name").
				WithCause(err).
				WithContext("field", "alternate_base_urls").
				WithContext("lang", alt.Lang).
				Build()
		}
		alt.URL = u
	}

	for i, ext := range c.PageExtensions {
		c.PageExtensions[i] = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	}
	for i := range c.PageTags {
		if p := strings.TrimSpace(c.PageTags[i].Path); p != "" {
			c.PageTags[i].Path = routes.NormalizeRoute(p)
		}
	}
	normalizeRoutes(c.ExcludedPaths)
	normalizeRoutes(c.ExtraPaths)

	if c.Dir == "" {
		c.Dir = "."
	}
	if abs, err := filepath.Abs(c.Dir); err == nil {
		c.Dir = abs
	}
	if c.Format == "" {
		c.Format = Defaults().Format
	}
	if c.Notify != nil && c.Notify.Subject == "" {
		c.Notify.Subject = DefaultNotifySubject
	}
	if c.Upload != nil {
		c.Upload.Prefix = strings.Trim(c.Upload.Prefix, "/")
	}
	return nil
}

// normalizeRoutes leaves empty entries alone so Validate can report them.
func normalizeRoutes(paths []string) {
	for i, p := range paths {
		if strings.TrimSpace(p) != "" {
			paths[i] = routes.NormalizeRoute(p)
		}
	}
}

// normalizeBaseURL strips trailing slashes and converts an internationalized
// host to its ASCII form. Unparseable input is returned unchanged for Validate
// to reject.
func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimRight(raw, "/")
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw, nil
	}
	host := u.Hostname()
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return raw, err
	}
	if ascii != host {
		if port := u.Port(); port != "" {
			u.Host = ascii + ":" + port
		} else {
			u.Host = ascii
		}
		raw = strings.TrimRight(u.String(), "/")
	}
	return raw, nil
}
