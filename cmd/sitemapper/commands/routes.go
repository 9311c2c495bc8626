package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"git.home.luguber.info/inful/sitemapper/internal/generator"
	"git.home.luguber.info/inful/sitemapper/internal/routes"
)

// RoutesCmd implements the 'routes' command.
type RoutesCmd struct {
	JSON bool `help:"Print the route table as JSON"`
}

func (c *RoutesCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	pm, err := generator.New(cfg).Routes(ctx)
	if err != nil {
		return err
	}
	if c.JSON {
		return printRoutesJSON(g, pm)
	}
	_, err = fmt.Fprint(g.out(), pm.String())
	return err
}

type routeRow struct {
	Path  string         `json:"path"`
	Page  string         `json:"page"`
	Query map[string]any `json:"query,omitempty"`
}

func printRoutesJSON(g *Global, pm *routes.PathMap) error {
	rows := make([]routeRow, 0, pm.Len())
	for _, p := range pm.Paths() {
		d, _ := pm.Get(p)
		rows = append(rows, routeRow{Path: p, Page: d.Page, Query: d.Query})
	}
	enc := json.NewEncoder(g.out())
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
