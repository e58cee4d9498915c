package copier

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tree creates files (relative path -> content) below root.
func tree(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// listing returns every file below root as a sorted list of relative paths.
func listing(t *testing.T, root string) []string {
	t.Helper()

	files := []string{}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)

	sort.Strings(files)
	return files
}

func read(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestCopyAssets(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()

	tree(t, src, map[string]string{
		"common/logo.png":                      "logo",
		"common/app.js":                        "app",
		"styles/main.css":                      "css",
		"styles/nested/deep.css":               "deep",
		"common/.hidden":                       "hidden",
		".DS_Store":                            "meta",
		"index.handlebars":                     "{{country}}",
		"loose.txt":                            "loose",
		"overrides/US/300x250/common/logo.png": "override",
	})

	res, err := CopyAssets(src, dest)
	require.NoError(t, err)

	assert.Equal(t, []string{"app.js", "logo.png", "main.css"}, listing(t, dest))
	assert.Len(t, res.Copied, 3)
	assert.Contains(t, res.Ignored, filepath.Join(src, "loose.txt"))
	assert.Contains(t, res.Ignored, filepath.Join(src, "styles", "nested"))
	assert.Equal(t, "logo", read(t, filepath.Join(dest, "logo.png")))
}

func TestCopyAssets_ExclusionsOnlyAtRoot(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()

	tree(t, src, map[string]string{
		"partials/index.handlebars": "partial",
		"common/overrides":          "named overrides",
		"common/a.js":               "a",
		"common/.DS_Store":          "meta",
		".shared/brand.svg":         "svg",
		"index.handlebars":          "{{country}}",
	})

	res, err := CopyAssets(src, dest)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.js", "brand.svg", "index.handlebars", "overrides"}, listing(t, dest))
	assert.Len(t, res.Copied, 4)
	assert.Equal(t, "partial", read(t, filepath.Join(dest, "index.handlebars")))
}

func TestCopyAssets_MissingSource(t *testing.T) {
	_, err := CopyAssets(filepath.Join(t.TempDir(), "src"), t.TempDir())
	require.Error(t, err)
}

func TestCopyFonts(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()

	tree(t, src, map[string]string{
		"brand.woff":     "woff",
		"brand.woff2":    "woff2",
		"brand.ttf":      "ttf",
		"brand.otf":      "otf",
		"brand.WOFF":     "upper",
		"LICENSE":        "license",
		"extra/sub.woff": "nested",
	})

	res, err := CopyFonts(src, dest)
	require.NoError(t, err)

	assert.Equal(t, []string{"brand.ttf", "brand.woff", "brand.woff2"}, listing(t, dest))
	assert.Len(t, res.Copied, 3)
}

func TestCopyFonts_Overwrites(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()

	tree(t, src, map[string]string{"brand.woff2": "new"})
	tree(t, dest, map[string]string{"brand.woff2": "old"})

	_, err := CopyFonts(src, dest)
	require.NoError(t, err)
	assert.Equal(t, "new", read(t, filepath.Join(dest, "brand.woff2")))
}

func TestCopyFonts_MissingSource(t *testing.T) {
	res, err := CopyFonts(filepath.Join(t.TempDir(), "fonts"), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, res.Copied)
}

func TestApplyOverrides(t *testing.T) {
	overrides := t.TempDir()
	dest := t.TempDir()

	tree(t, dest, map[string]string{
		"a.js":     "base",
		"logo.png": "base-logo",
	})
	tree(t, overrides, map[string]string{
		"common/a.js":      "override",
		"common/.htaccess": "deny",
		"images/new.png":   "new",
		"loose.js":         "ignored",
	})

	res, err := ApplyOverrides(overrides, dest)
	require.NoError(t, err)

	assert.Equal(t, []string{".htaccess", "a.js", "logo.png", "new.png"}, listing(t, dest))
	assert.Len(t, res.Copied, 3)
	assert.Equal(t, "deny", read(t, filepath.Join(dest, ".htaccess")))
	assert.Equal(t, "override", read(t, filepath.Join(dest, "a.js")))
	assert.Equal(t, "base-logo", read(t, filepath.Join(dest, "logo.png")))
	assert.Equal(t, []string{filepath.Join(overrides, "loose.js")}, res.Ignored)
}

func TestApplyOverrides_MissingDir(t *testing.T) {
	res, err := ApplyOverrides(filepath.Join(t.TempDir(), "overrides", "US", "300x250"), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, res.Copied)
}

func TestRule_ContinuesAfterFailure(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()

	tree(t, src, map[string]string{
		"a/one.js": "one",
		"b/two.js": "two",
	})

	// A directory where the file should land makes that single copy fail.
	require.NoError(t, os.MkdirAll(filepath.Join(dest, "one.js", "blocker"), 0o755))

	res, err := CopyAssets(src, dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "one.js")

	require.Len(t, res.Copied, 1)
	assert.Equal(t, "two", read(t, filepath.Join(dest, "two.js")))
}

func TestHasExtension(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"font.woff2", true},
		{"font.min.ttf", true},
		{"font.otf", false},
		{"font.TTF", false},
		{"woff", true}, // no dot: the whole name is the extension
		{"font.", false},
	}

	match := HasExtension(DefaultFontExtensions...)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, match(fakeEntry(tt.name)))
		})
	}
}

type fakeEntry string

func (f fakeEntry) Name() string               { return string(f) }
func (f fakeEntry) IsDir() bool                { return false }
func (f fakeEntry) Type() os.FileMode          { return 0 }
func (f fakeEntry) Info() (os.FileInfo, error) { return nil, os.ErrNotExist }
