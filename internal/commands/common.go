// Package commands contains the CLI commands for the application
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/hay-kot/adcraft/internal/builder"
	"github.com/hay-kot/adcraft/internal/core"
	"github.com/hay-kot/adcraft/pkgs/printer"
	"github.com/hay-kot/adcraft/pkgs/styles"
	"golang.org/x/term"
)

const (
	MessageWelcome  = "Welcome to AdCraft!"
	MessageWatching = "AdWatch is watching for changes..."
)

// terminalWidth returns the width of stdout, or 80 when it is not a terminal.
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// createStyledHeader creates a "-- [LABEL] name -----" divider spanning the
// terminal width.
func createStyledHeader(label, name string, terminalWidth int) string {
	leftPart := fmt.Sprintf("%s %s%s%s %s ",
		styles.Muted("--"),
		styles.Muted("["),
		styles.Accent(label),
		styles.Muted("]"),
		name,
	)

	// "-- " + "[" + label + "]" + " " + name + " "
	visibleLength := 4 + len(label) + len(name) + 4
	remainingSpace := max(terminalWidth-visibleLength, 0)

	return leftPart + styles.Muted(strings.Repeat("-", remainingSpace))
}

// newBuilder returns a builder for cfg that writes a header for every variant
// to w, so per-file log lines group under the variant they belong to.
func newBuilder(cfg core.ConfigFile, flags *core.Flags, w io.Writer) *builder.Builder {
	width := terminalWidth()

	opts := []builder.Option{
		builder.WithVariantHook(func(v core.Variant) {
			_, _ = fmt.Fprintln(w, createStyledHeader("VARIANT", v.Key(), width))
		}),
	}
	if len(flags.FontExtensions) > 0 {
		opts = append(opts, builder.WithFontExtensions(flags.FontExtensions...))
	}

	return builder.New(cfg.Layout(), opts...)
}

// printReport writes the per-variant result list and a summary line.
func printReport(ctx context.Context, report *builder.Report) {
	p := printer.Ctx(ctx)

	items := make([]printer.StatusListItem, 0, len(report.Variants))
	for _, v := range report.Variants {
		status := fmt.Sprintf("%s %s %d files", v.Variant.Key(), styles.Arrow, v.Files+v.Overrides)
		if v.Rendered {
			status += " + " + core.OutputFile
		}
		if !v.Ok() {
			status += fmt.Sprintf(" (%d failed)", len(v.Errors))
		}

		items = append(items, printer.StatusListItem{Ok: v.Ok(), Status: status})
	}

	p.StatusList("Banners", items)
	p.LineBreak()

	noun := "variants"
	if len(report.Variants) == 1 {
		noun = "variant"
	}

	summary := fmt.Sprintf("Built %d %s, %d files in %s", len(report.Variants), noun, report.Files(), report.Duration.Round(time.Millisecond))
	if failures := report.Failures(); len(failures) > 0 {
		summary += fmt.Sprintf(", %d failures", len(failures))
	}
	p.Text(summary)
}
