package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/hay-kot/adcraft/internal/core"
	"github.com/hay-kot/adcraft/pkgs/cll"
	"github.com/hay-kot/adcraft/pkgs/printer"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

type VariantsCmd struct {
	coreFlags *core.Flags
	expr      string
}

func NewVariantsCmd(coreFlags *core.Flags) *VariantsCmd {
	return &VariantsCmd{coreFlags: coreFlags}
}

func (vc *VariantsCmd) Register(app *cli.Command) *cli.Command {
	cmd := &cli.Command{
		Name:      "variants",
		Aliases:   []string{"ls"},
		Usage:     "List the banner variants defined in banner-project.json",
		ArgsUsage: "[expression]",
		Description: `Lists every (country x size) variant and the directory it builds to.
Nothing is built. Variants can be filtered with an expression.

Examples:
  adcraft variants                              # all variants
  adcraft variants 'country == "US"'            # one country
  adcraft variants 'width >= 300 && height < 300'
  adcraft variants 'size == "728x90"'

Expression variables:
  - country: Country identifier
  - width:   Banner width
  - height:  Banner height
  - size:    WIDTHxHEIGHT
  - spec:    Index of the banner spec in banner-project.json`,
		Action: func(ctx context.Context, c *cli.Command) error {
			vc.expr = strings.Join(c.Args().Slice(), " ")
			return vc.list(ctx)
		},
	}

	return cll.Mount(app, cmd)
}

func (vc *VariantsCmd) list(ctx context.Context) error {
	cfg, err := core.SetupEnv(vc.coreFlags)
	if err != nil {
		return err
	}

	program, err := compileExpr(vc.expr)
	if err != nil {
		return fmt.Errorf("invalid expression: %w", err)
	}

	layout := cfg.Layout()
	items := []string{}

	for _, v := range cfg.Variants() {
		matched, err := evalCompiledExpr(program, variantEnv(v))
		if err != nil {
			return fmt.Errorf("expression evaluation failed for variant %s: %w", v.Key(), err)
		}

		if !matched {
			log.Debug().Str("variant", v.Key()).Msg("filtered")
			continue
		}

		items = append(items, fmt.Sprintf("%s (spec %d) %s", v.Key(), v.Spec, layout.VariantDir(v)))
	}

	if len(items) == 0 {
		printer.Ctx(ctx).Text("No variants match")
		return nil
	}

	printer.Ctx(ctx).List("Variants", items)
	return nil
}

func variantEnv(v core.Variant) map[string]any {
	return map[string]any{
		"country": v.Country,
		"width":   v.Size.Width,
		"height":  v.Size.Height,
		"size":    v.Size.String(),
		"spec":    v.Spec,
	}
}

// compileExpr compiles an expression string once for reuse
func compileExpr(code string) (*vm.Program, error) {
	if strings.TrimSpace(code) == "" {
		code = "true" // default: match everything
	}

	return expr.Compile(code, expr.Env(variantEnv(core.Variant{})), expr.AsBool())
}

// evalCompiledExpr evaluates a pre-compiled expression with given context
func evalCompiledExpr(program *vm.Program, env map[string]any) (bool, error) {
	output, err := expr.Run(program, env)
	if err != nil {
		return false, err
	}

	result, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("expression did not evaluate to boolean, got %T", output)
	}

	return result, nil
}
