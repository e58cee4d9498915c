package copier

import (
	"io/fs"
	"slices"
	"strings"

	"github.com/hay-kot/adcraft/internal/core"
)

// DefaultFontExtensions are the font formats copied into every variant.
var DefaultFontExtensions = []string{"woff", "woff2", "ttf"}

// ExcludeNames matches entries with one of the given names.
func ExcludeNames(names ...string) Predicate {
	return func(entry fs.DirEntry) bool {
		return slices.Contains(names, entry.Name())
	}
}

// Hidden matches dot-prefixed entries.
func Hidden(entry fs.DirEntry) bool {
	return strings.HasPrefix(entry.Name(), ".")
}

// HasExtension matches files whose extension, the text after the last '.',
// is one of exts. Matching is case-sensitive.
func HasExtension(exts ...string) Predicate {
	return func(entry fs.DirEntry) bool {
		return slices.Contains(exts, extension(entry.Name()))
	}
}

func extension(name string) string {
	return name[strings.LastIndex(name, ".")+1:]
}

// Assets copies the files of every asset group (src/{group}/{file}) into the
// variant root. The fixed exclusions only apply to the entries of src itself;
// inside a group only dotfiles are left out. Loose files in src are ignored.
func Assets() Rule {
	return Rule{
		Name:       "assets",
		Depth:      1,
		SkipRoot:   []Predicate{ExcludeNames(core.MetadataFile, core.TemplateFile, core.OverridesDir)},
		SkipNested: []Predicate{Hidden},
	}
}

// Fonts copies font files from a flat directory into the variant root.
func Fonts(exts ...string) Rule {
	if len(exts) == 0 {
		exts = DefaultFontExtensions
	}

	return Rule{
		Name:     "fonts",
		Depth:    0,
		Include:  HasExtension(exts...),
		Optional: true,
	}
}

// Overrides copies per-variant override groups
// (src/overrides/{country}/{WxH}/{group}/{file}) over the built variant,
// dotfiles included. Loose files directly inside the override directory are
// ignored.
func Overrides() Rule {
	return Rule{
		Name:     "overrides",
		Depth:    1,
		Optional: true,
	}
}

func CopyAssets(srcDir, destDir string) (Result, error) {
	return Assets().Apply(srcDir, destDir)
}

func CopyFonts(srcDir, destDir string, exts ...string) (Result, error) {
	return Fonts(exts...).Apply(srcDir, destDir)
}

func ApplyOverrides(overrideDir, destDir string) (Result, error) {
	return Overrides().Apply(overrideDir, destDir)
}
