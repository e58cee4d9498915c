package core

import (
	"os"
	"path/filepath"
	"strings"
)

// PathResolver provides a resolving service for paths that turns a relative or
// paths with '~' type symbols into absolute paths.
type PathResolver struct {
	configDir string // config directory used to set relative path roots
}

func NewPathResolver(configDir string) PathResolver {
	return PathResolver{configDir: configDir}
}

func (pr PathResolver) Resolve(ip string) (string, error) {
	// Handle home directory expansion
	if strings.HasPrefix(ip, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		ip = filepath.Join(homeDir, strings.TrimPrefix(ip, "~"))
	}

	if filepath.IsAbs(ip) {
		return filepath.Clean(ip), nil
	}

	if pr.configDir != "" {
		return filepath.Join(pr.configDir, ip), nil
	}

	absPath, err := filepath.Abs(ip)
	if err != nil {
		return "", err
	}

	return absPath, nil
}

// MustResolve is Resolve for paths known to be relative project paths, where
// the only failure mode (home directory lookup) cannot occur.
func (pr PathResolver) MustResolve(ip string) string {
	p, err := pr.Resolve(ip)
	if err != nil {
		panic(err)
	}
	return p
}

const (
	SourceDir    = "src"
	FontsDir     = "fonts"
	BuildDir     = "build"
	OverridesDir = "overrides"
	TemplateFile = "index.handlebars"
	OutputFile   = "index.html"
	MetadataFile = ".DS_Store"
)

// Layout is the on-disk structure of a banner project:
//
//	src/                      shared assets, grouped in subdirectories
//	src/index.handlebars      shared template
//	src/overrides/{country}/{WxH}/{group}/{file}
//	fonts/                    flat font directory
//	build/{country}/{WxH}/    output
type Layout struct {
	Source string
	Fonts  string
	Build  string
}

func NewLayout(pr PathResolver) Layout {
	return Layout{
		Source: pr.MustResolve(SourceDir),
		Fonts:  pr.MustResolve(FontsDir),
		Build:  pr.MustResolve(BuildDir),
	}
}

// Template is the shared handlebars template path.
func (l Layout) Template() string {
	return filepath.Join(l.Source, TemplateFile)
}

// VariantDir is the output directory for v.
func (l Layout) VariantDir(v Variant) string {
	return filepath.Join(l.Build, v.Country, v.Size.String())
}

// OverrideDir is the per-variant override source directory for v.
func (l Layout) OverrideDir(v Variant) string {
	return filepath.Join(l.Source, OverridesDir, v.Country, v.Size.String())
}
