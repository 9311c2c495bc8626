package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitemapper/cmd/sitemapper/commands"
	ferrors "git.home.luguber.info/inful/sitemapper/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapper/internal/version"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("sitemapper"),
		kong.Description("Generate sitemap.xml and robots.txt from a pages directory."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	global := &commands.Global{Logger: slog.Default(), Out: os.Stdout}
	err := parser.Run(global, cli)
	cancel()

	os.Exit(ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err))
}
