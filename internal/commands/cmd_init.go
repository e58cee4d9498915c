package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/hay-kot/adcraft/internal/core"
	"github.com/hay-kot/adcraft/pkgs/cll"
	"github.com/hay-kot/adcraft/pkgs/printer"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

// commonSizes are the IAB sizes offered by the interactive form.
var commonSizes = []string{"300x250", "728x90", "160x600", "300x600", "320x50", "970x250"}

const starterTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="ad.size" content="width={{width}},height={{height}}">
  <title>{{country}} {{width}}x{{height}}</title>
</head>
<body>
  <div class="banner" style="width:{{width}}px;height:{{height}}px"></div>
</body>
</html>
`

type InitCmd struct {
	coreFlags *core.Flags
	flags     struct {
		Countries []string
		Sizes     []string
		Force     bool
	}
}

func NewInitCmd(coreFlags *core.Flags) *InitCmd {
	return &InitCmd{coreFlags: coreFlags}
}

func (ic *InitCmd) Register(app *cli.Command) *cli.Command {
	cmd := &cli.Command{
		Name:  "init",
		Usage: "Create banner-project.json and the src/ and fonts/ directories",
		Description: `Scaffolds a banner project next to the config path. Countries and sizes
are asked for interactively unless both flags are given.

Examples:
  adcraft init
  adcraft init --country US --country DE --size 300x250 --size 728x90`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:        "country",
				Usage:       "country identifier, repeatable",
				Destination: &ic.flags.Countries,
			},
			&cli.StringSliceFlag{
				Name:        "size",
				Usage:       "banner size as WIDTHxHEIGHT, repeatable",
				Destination: &ic.flags.Sizes,
			},
			&cli.BoolFlag{
				Name:        "force",
				Usage:       "overwrite an existing banner-project.json",
				Destination: &ic.flags.Force,
			},
		},
		Action: ic.scaffold,
	}

	return cll.Mount(app, cmd)
}

func (ic *InitCmd) scaffold(ctx context.Context, c *cli.Command) error {
	if len(ic.flags.Countries) == 0 || len(ic.flags.Sizes) == 0 {
		if err := ic.form().Run(); err != nil {
			return err
		}
	}

	spec, err := ic.spec()
	if err != nil {
		return err
	}

	cfgpath, err := filepath.Abs(ic.coreFlags.ConfigFilePath)
	if err != nil {
		return err
	}

	if err := core.WriteConfig(cfgpath, []core.BannerSpec{spec}, ic.flags.Force); err != nil {
		return err
	}

	layout := core.NewLayout(core.NewPathResolver(filepath.Dir(cfgpath)))
	for _, dir := range []string{layout.Source, layout.Fonts} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	if _, err := os.Stat(layout.Template()); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(layout.Template(), []byte(starterTemplate), 0o644); err != nil {
			return err
		}
		log.Info().Str("path", layout.Template()).Msg("created template")
	}

	variants := core.ConfigFile{Specs: []core.BannerSpec{spec}}.Variants()

	p := printer.Ctx(ctx)
	p.Title(fmt.Sprintf("Created %s with %d variants", cfgpath, len(variants)))
	p.LineBreak()
	p.Text("Put shared assets in " + filepath.Join(layout.Source, "{group}") + " and run 'adcraft build'.")

	return nil
}

func (ic *InitCmd) form() *huh.Form {
	countries := strings.Join(ic.flags.Countries, ", ")

	options := []huh.Option[string]{}
	for _, size := range commonSizes {
		options = append(options, huh.NewOption(size, size))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Countries").
				Description("Comma separated, for example US, DE").
				Value(&countries).
				Validate(func(s string) error {
					if len(splitList(s)) == 0 {
						return errors.New("at least one country is required")
					}
					ic.flags.Countries = splitList(s)
					return nil
				}),
			huh.NewMultiSelect[string]().
				Title("Banner sizes").
				Options(options...).
				Value(&ic.flags.Sizes),
		),
	)
}

// spec builds the banner spec from the collected countries and sizes.
func (ic *InitCmd) spec() (core.BannerSpec, error) {
	spec := core.BannerSpec{}

	for _, c := range ic.flags.Countries {
		spec.Countries = append(spec.Countries, splitList(c)...)
	}

	for _, s := range ic.flags.Sizes {
		size, err := core.ParseSize(s)
		if err != nil {
			return spec, err
		}
		spec.BannerSizes = append(spec.BannerSizes, size)
	}

	if len(spec.Countries) == 0 || len(spec.BannerSizes) == 0 {
		return spec, errors.New("at least one country and one size are required")
	}

	return spec, nil
}

func splitList(s string) []string {
	items := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
