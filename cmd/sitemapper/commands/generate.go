package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sitemapper/internal/config"
	"git.home.luguber.info/inful/sitemapper/internal/generator"
	"git.home.luguber.info/inful/sitemapper/internal/logfields"
	"git.home.luguber.info/inful/sitemapper/internal/sitemap"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	BaseURL string `name:"base-url" help:"Override base_url from the configuration"`
	Dest    string `help:"Override the destination directory"`
	Format  string `help:"Override the sitemap format (pretty, minified)"`
	DryRun  bool   `name:"dry-run" help:"Print the sitemap to stdout instead of writing files"`
}

func (c *GenerateCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	c.apply(cfg)
	return RunGenerate(ctx, g, cfg, c.DryRun)
}

// apply lays flag overrides over the loaded configuration. The generator
// normalizes and validates again, so overrides get the same checks.
func (c *GenerateCmd) apply(cfg *config.Config) {
	if c.BaseURL != "" {
		cfg.BaseURL = c.BaseURL
	}
	if c.Dest != "" {
		cfg.Dest = c.Dest
	}
	if c.Format != "" {
		cfg.Format = sitemap.Format(c.Format)
	}
}

// RunGenerate writes the artifacts, or prints the sitemap on a dry run.
func RunGenerate(ctx context.Context, g *Global, cfg *config.Config, dryRun bool) error {
	gen := generator.New(cfg)

	if dryRun {
		out, err := gen.Generate(ctx)
		if err != nil {
			return err
		}
		slog.Info("Dry run: nothing written", logfields.Count(len(out.Entries)))
		body := out.Sitemap
		if body == nil {
			body = out.Robots
		}
		_, err = g.out().Write(body)
		return err
	}

	res, err := gen.Run(ctx)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		slog.Warn("Generation finished with a warning", logfields.Error(w))
	}
	_, err = fmt.Fprintf(g.out(), "Generated %d URLs (build %s) in %s\n", len(res.Entries), res.BuildID, res.Duration.Round(time.Millisecond))
	return err
}
