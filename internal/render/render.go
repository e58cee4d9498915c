// Package render renders the shared banner template for a variant.
package render

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aymerick/raymond"
	"github.com/rs/zerolog/log"
)

// Render compiles source as a handlebars template and evaluates it against
// ctx. The template is parsed on every call. {{x}} is escaped with the
// Handlebars.js table (& < > " ' ` =), {{{x}}} and {{&x}} are written raw.
func Render(source string, ctx map[string]any) (string, error) {
	// Syntax errors are reported against the template as written.
	if _, err := raymond.Parse(source); err != nil {
		return "", err
	}

	tpl, err := raymond.Parse(routeEscaped(source))
	if err != nil {
		return "", err
	}
	tpl.RegisterHelper(escapeHelper, escapeExpression)

	return tpl.Exec(ctx)
}

// RenderFile renders the template at tmplPath into outPath, replacing any
// existing file. It reports whether the template existed; a missing template
// is not an error.
func RenderFile(tmplPath, outPath string, ctx map[string]any) (bool, error) {
	source, err := os.ReadFile(tmplPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug().Str("template", tmplPath).Msg("template does not exist, skipping")
			return false, nil
		}
		return false, fmt.Errorf("failed to read template file %s: %w", tmplPath, err)
	}

	out, err := Render(string(source), ctx)
	if err != nil {
		return true, NewTemplateError(tmplPath, err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return true, fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
		return true, fmt.Errorf("failed to write output file: %w", err)
	}

	log.Info().
		Str("template", tmplPath).
		Str("output", outPath).
		Msg("rendered template")

	return true, nil
}
