package commands

import (
	"context"

	"github.com/hay-kot/adcraft/pkgs/printer"
	"github.com/urfave/cli/v3"
)

// Welcome is the root action, run when no subcommand is given.
func Welcome(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	p.Title(MessageWelcome)
	p.LineBreak()
	p.Text(
		"Use 'adcraft watch' to start watching a banner directory for changes.",
		"For help, type 'adcraft --help'.",
	)

	return nil
}
