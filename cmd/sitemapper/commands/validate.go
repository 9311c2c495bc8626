package commands

import (
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/sitemapper/internal/logfields"
)

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct{}

func (v *ValidateCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	slog.Debug("Configuration valid", logfields.Path(root.Config), logfields.BaseURL(cfg.BaseURL))
	_, err = fmt.Fprintf(g.out(), "%s: configuration is valid\n", root.Config)
	return err
}
