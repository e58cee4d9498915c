package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/hay-kot/adcraft/internal/core"
	"github.com/hay-kot/adcraft/pkgs/cll"
	"github.com/urfave/cli/v3"
)

type BuildCmd struct {
	coreFlags *core.Flags
	flags     struct {
		Strict bool
	}
}

func NewBuildCmd(coreFlags *core.Flags) *BuildCmd {
	return &BuildCmd{coreFlags: coreFlags}
}

func (bc *BuildCmd) Register(app *cli.Command) *cli.Command {
	cmd := &cli.Command{
		Name:  "build",
		Usage: "Build every banner variant once",
		Description: `Builds build/{country}/{width}x{height} for every country and size in
banner-project.json. For each variant the command:

  1. copies the files of every asset group in src/ (src/{group}/{file})
  2. copies .woff, .woff2 and .ttf files from fonts/
  3. applies src/overrides/{country}/{width}x{height}/{group}/{file}
  4. renders src/index.handlebars to index.html with country, width and height

A failing step is reported and the build carries on with the next one.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "strict",
				Aliases:     []string{"s"},
				Usage:       "exit with an error when any build step fails",
				Destination: &bc.flags.Strict,
			},
		},
		Action: bc.build,
	}

	return cll.Mount(app, cmd)
}

func (bc *BuildCmd) build(ctx context.Context, c *cli.Command) error {
	cfg, err := core.SetupEnv(bc.coreFlags)
	if err != nil {
		return err
	}

	report, err := newBuilder(cfg, bc.coreFlags, os.Stderr).Build(ctx, cfg)
	if err != nil {
		return err
	}

	printReport(ctx, report)

	if bc.flags.Strict {
		if failures := report.Failures(); len(failures) > 0 {
			return fmt.Errorf("build finished with %d failures: %w", len(failures), report.Err())
		}
	}

	return nil
}
