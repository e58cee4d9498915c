// Package builder runs the banner build pipeline over every configured
// variant.
package builder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hay-kot/adcraft/internal/copier"
	"github.com/hay-kot/adcraft/internal/core"
	"github.com/hay-kot/adcraft/internal/render"
	"github.com/rs/zerolog/log"
)

type Step string

const (
	StepMkdir     Step = "mkdir"
	StepAssets    Step = "assets"
	StepFonts     Step = "fonts"
	StepOverrides Step = "overrides"
	StepTemplate  Step = "template"
)

// StepError is a failed pipeline step for one variant.
type StepError struct {
	Variant core.Variant
	Step    Step
	Err     error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Variant.Key(), e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

type Option func(*Builder)

// WithFontExtensions replaces the font extensions copied into each variant.
func WithFontExtensions(exts ...string) Option {
	return func(b *Builder) {
		b.fontExts = exts
	}
}

// WithVariantHook registers fn to run before each variant is built.
func WithVariantHook(fn func(v core.Variant)) Option {
	return func(b *Builder) {
		b.onVariant = fn
	}
}

type Builder struct {
	layout    core.Layout
	fontExts  []string
	onVariant func(v core.Variant)
}

func New(layout core.Layout, opts ...Option) *Builder {
	b := &Builder{
		layout:    layout,
		fontExts:  copier.DefaultFontExtensions,
		onVariant: func(core.Variant) {},
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Build builds every variant of cfg in order. Step failures are recorded in
// the report and never stop the run; the returned error is only set when ctx
// is cancelled between variants.
func (b *Builder) Build(ctx context.Context, cfg core.ConfigFile) (*Report, error) {
	start := time.Now()
	report := &Report{}

	log.Info().Int("variants", len(cfg.Variants())).Msg("building banners")

	for _, v := range cfg.Variants() {
		if err := ctx.Err(); err != nil {
			report.Duration = time.Since(start)
			return report, err
		}

		report.Variants = append(report.Variants, b.BuildVariant(ctx, v))
	}

	report.Duration = time.Since(start)

	log.Info().
		Int("variants", len(report.Variants)).
		Int("files", report.Files()).
		Int("failures", len(report.Failures())).
		Dur("took", report.Duration).
		Msg("build complete")

	return report, nil
}

// BuildVariant runs the pipeline for a single variant: create the output
// directory, copy assets, copy fonts, apply overrides, render the template.
// Each step finishes before the next one starts.
func (b *Builder) BuildVariant(ctx context.Context, v core.Variant) VariantResult {
	b.onVariant(v)

	res := VariantResult{
		Variant: v,
		Dir:     b.layout.VariantDir(v),
	}

	fail := func(step Step, err error) {
		log.Error().Err(err).Str("variant", v.Key()).Str("step", string(step)).Msg("build step failed")
		res.Errors = append(res.Errors, &StepError{Variant: v, Step: step, Err: err})
	}

	if err := os.MkdirAll(res.Dir, 0o755); err != nil {
		fail(StepMkdir, err)
		return res
	}

	copied, err := copier.CopyAssets(b.layout.Source, res.Dir)
	res.Files += len(copied.Copied)
	if err != nil {
		fail(StepAssets, err)
	}

	copied, err = copier.CopyFonts(b.layout.Fonts, res.Dir, b.fontExts...)
	res.Files += len(copied.Copied)
	if err != nil {
		fail(StepFonts, err)
	}

	overrideDir := b.layout.OverrideDir(v)
	if exists(overrideDir) {
		copied, err = copier.ApplyOverrides(overrideDir, res.Dir)
		res.Overrides = len(copied.Copied)
		if err != nil {
			fail(StepOverrides, err)
		}
		for _, c := range copied.Copied {
			log.Info().Str("src", c.Src).Str("dest", c.Dest).Msg("applied override")
		}
	}

	rendered, err := render.RenderFile(b.layout.Template(), filepath.Join(res.Dir, core.OutputFile), v.Context())
	res.Rendered = rendered && err == nil
	if err != nil {
		fail(StepTemplate, err)
	}

	return res
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

type VariantResult struct {
	Variant   core.Variant
	Dir       string
	Files     int // asset and font files copied
	Overrides int // override files applied
	Rendered  bool
	Errors    []error
}

func (r VariantResult) Ok() bool {
	return len(r.Errors) == 0
}

type Report struct {
	Variants []VariantResult
	Duration time.Duration
}

// Files is the number of files written across all variants, overrides and
// rendered templates included.
func (r *Report) Files() int {
	total := 0
	for _, v := range r.Variants {
		total += v.Files + v.Overrides
		if v.Rendered {
			total++
		}
	}
	return total
}

func (r *Report) Failures() []error {
	var errs []error
	for _, v := range r.Variants {
		errs = append(errs, v.Errors...)
	}
	return errs
}

// Err joins every recorded failure, or returns nil for a clean build.
func (r *Report) Err() error {
	return errors.Join(r.Failures()...)
}
