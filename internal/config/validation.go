package config

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"

	"golang.org/x/text/language"

	ferrors "git.home.luguber.info/inful/sitemapper/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapper/internal/sitemap"
)

// Validate checks the complete configuration. The first violation is returned
// as a fatal configuration error whose context names the offending field.
func (c *Config) Validate() error {
	return newConfigurationValidator(c).validate()
}

// configurationValidator coordinates validation across configuration domains.
type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	steps := []func() error{
		cv.validateBaseURL,
		cv.validatePages,
		cv.validatePageTags,
		cv.validateAlternates,
		cv.validateRouteLists,
		cv.validateOutput,
		cv.validateIntegrations,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func fieldError(field, message string) *ferrors.ErrorBuilder {
	return ferrors.ConfigError(message).WithContext("field", field)
}

func (cv *configurationValidator) validateBaseURL() error {
	if cv.config.BaseURL == "" {
		return fieldError("base_url", "configuration misses the required property 'base_url'").Build()
	}
	if err := checkAbsoluteURL(cv.config.BaseURL); err != nil {
		return fieldError("base_url", "base_url must be an absolute http(s) URL").
			WithCause(err).
			WithContext("value", cv.config.BaseURL).
			Build()
	}
	return nil
}

func checkAbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return errors.New("query and fragment are not allowed")
	}
	return nil
}

func (cv *configurationValidator) validatePages() error {
	if strings.TrimSpace(cv.config.Pages) == "" {
		return fieldError("pages", "pages must not be empty").Build()
	}
	if len(cv.config.PageExtensions) == 0 {
		return fieldError("page_extensions", "page_extensions must not be empty").Build()
	}
	seen := make(map[string]bool, len(cv.config.PageExtensions))
	for i, ext := range cv.config.PageExtensions {
		field := fmt.Sprintf("page_extensions[%d]", i)
		if ext == "" {
			return fieldError(field, "page extension must not be empty").Build()
		}
		if strings.ContainsAny(ext, `/\`) {
			return fieldError(field, "page extension must not contain path separators").WithContext("value", ext).Build()
		}
		if seen[ext] {
			return fieldError(field, "duplicate page extension").WithContext("value", ext).Build()
		}
		seen[ext] = true
	}
	return nil
}

// validatePageTags enforces the changefreq enumeration and the [0,1] priority
// range. Duplicate paths are allowed; the first matching tag wins at build time.
func (cv *configurationValidator) validatePageTags() error {
	for i, tag := range cv.config.PageTags {
		prefix := fmt.Sprintf("page_tags[%d]", i)
		if tag.Path == "" {
			return fieldError(prefix+".path", prefix+".path must not be empty").Build()
		}
		if tag.ChangeFreq != "" && !tag.ChangeFreq.Valid() {
			return fieldError(prefix+".changefreq", prefix+".changefreq should be one of: "+sitemap.ChangeFreqValues()).
				WithContext("path", tag.Path).
				WithContext("value", string(tag.ChangeFreq)).
				Build()
		}
		if tag.Priority != nil {
			p := *tag.Priority
			if math.IsNaN(p) || p < 0 || p > 1 {
				return fieldError(prefix+".priority", prefix+".priority should be >= 0 and <= 1").
					WithContext("path", tag.Path).
					WithContext("value", p).
					Build()
			}
		}
	}
	return nil
}

func (cv *configurationValidator) validateAlternates() error {
	seen := make(map[sitemap.AlternateBaseURL]bool, len(cv.config.AlternateBaseURLs))
	for i, alt := range cv.config.AlternateBaseURLs {
		prefix := fmt.Sprintf("alternate_base_urls[%d]", i)
		if alt.Lang == "" {
			return fieldError(prefix+".lang", prefix+".lang must not be empty").Build()
		}
		if !validHrefLang(alt.Lang) {
			return fieldError(prefix+".lang", prefix+".lang is not a well-formed language tag").
				WithContext("value", alt.Lang).
				Build()
		}
		if alt.URL == "" {
			return fieldError(prefix+".url", prefix+".url must not be empty").Build()
		}
		if err := checkAbsoluteURL(alt.URL); err != nil {
			return fieldError(prefix+".url", prefix+".url must be an absolute http(s) URL").
				WithCause(err).
				WithContext("value", alt.URL).
				Build()
		}
		if seen[alt] {
			return fieldError(prefix, "duplicate alternate base URL").
				WithContext("lang", alt.Lang).
				WithContext("value", alt.URL).
				Build()
		}
		seen[alt] = true
	}
	return nil
}

// validHrefLang accepts "x-default" and any syntactically valid BCP 47 tag,
// including well-formed tags the language registry does not know (e.g. "jp").
func validHrefLang(tag string) bool {
	if strings.EqualFold(tag, "x-default") {
		return true
	}
	_, err := language.Parse(tag)
	if err == nil {
		return true
	}
	var verr language.ValueError
	return errors.As(err, &verr)
}

func (cv *configurationValidator) validateRouteLists() error {
	lists := []struct {
		field string
		paths []string
	}{
		{"excluded_paths", cv.config.ExcludedPaths},
		{"extra_paths", cv.config.ExtraPaths},
	}
	for _, l := range lists {
		seen := make(map[string]bool, len(l.paths))
		for i, p := range l.paths {
			field := fmt.Sprintf("%s[%d]", l.field, i)
			if strings.TrimSpace(p) == "" {
				return fieldError(field, field+" must not be empty").Build()
			}
			if seen[p] {
				return fieldError(field, "duplicate route in "+l.field).WithContext("path", p).Build()
			}
			seen[p] = true
		}
	}
	return nil
}

func (cv *configurationValidator) validateOutput() error {
	c := cv.config
	if strings.TrimSpace(c.Dest) == "" {
		return fieldError("dest", "dest must not be empty").Build()
	}
	if err := checkFilename("robots_filename", c.RobotsFilename); err != nil {
		return err
	}
	if err := checkFilename("sitemap_filename", c.SitemapFilename); err != nil {
		return err
	}
	if c.RobotsFilename == c.SitemapFilename {
		return fieldError("robots_filename", "robots_filename and sitemap_filename must differ").
			WithContext("value", c.RobotsFilename).
			Build()
	}
	if !c.Format.Valid() {
		return fieldError("format", fmt.Sprintf("format should be one of: %s, %s", sitemap.FormatPretty, sitemap.FormatMinified)).
			WithContext("value", string(c.Format)).
			Build()
	}
	return nil
}

func checkFilename(field, name string) error {
	if name == "" {
		return fieldError(field, field+" must not be empty").Build()
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fieldError(field, field+" must be a bare file name").WithContext("value", name).Build()
	}
	return nil
}

func (cv *configurationValidator) validateIntegrations() error {
	c := cv.config
	if len(c.PathMapCommand) > 0 && strings.TrimSpace(c.PathMapCommand[0]) == "" {
		return fieldError("path_map_command", "path_map_command must name a program").Build()
	}
	if c.Upload != nil {
		if c.Upload.Bucket == "" {
			return fieldError("upload.bucket", "upload.bucket is required when upload is configured").Build()
		}
		if (c.Upload.AccessKeyID == "") != (c.Upload.SecretAccessKey == "") {
			return fieldError("upload.access_key_id", "upload.access_key_id and upload.secret_access_key must be set together").Build()
		}
		if c.Upload.Endpoint != "" {
			if err := checkAbsoluteURL(c.Upload.Endpoint); err != nil {
				return fieldError("upload.endpoint", "upload.endpoint must be an absolute http(s) URL").WithCause(err).Build()
			}
		}
	}
	if c.Notify != nil && c.Notify.NATSURL == "" {
		return fieldError("notify.nats_url", "notify.nats_url is required when notify is configured").Build()
	}
	if c.Metrics != nil && c.Metrics.Textfile == "" {
		return fieldError("metrics.textfile", "metrics.textfile is required when metrics is configured").Build()
	}
	return nil
}
