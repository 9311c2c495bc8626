package config

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/sitemapper/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapper/internal/logfields"
)

var unknownFieldPattern = regexp.MustCompile(`field (\S+) not found in type`)

// Load reads a configuration file, expands ${VAR} references from the
// environment (after loading .env/.env.local), decodes it on top of Defaults,
// then normalizes and validates the result. Every failure is a fatal
// configuration error raised before any output is touched.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		slog.Debug("No .env file loaded", logfields.Error(err))
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ferrors.ConfigError("configuration file not found").
				WithCause(err).
				WithContext("path", configPath).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read configuration file").
			Fatal().
			WithContext("path", configPath).
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	slog.Debug("Configuration loaded", logfields.Path(configPath), logfields.BaseURL(cfg.BaseURL))
	return cfg, nil
}

// Parse decodes, normalizes and validates configuration bytes.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := Defaults()
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, decodeError(err)
	}

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeError(err error) error {
	if m := unknownFieldPattern.FindStringSubmatch(err.Error()); m != nil {
		return ferrors.ConfigError("configuration has an unknown property '"+m[1]+"'").
			WithCause(err).
			WithContext("field", m[1]).
			Build()
	}
	return ferrors.ConfigError("failed to parse configuration").
		WithCause(err).
		Build()
}
