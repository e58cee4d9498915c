package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathResolver_Resolve(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	cwd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name      string
		configDir string
		input     string
		want      string
	}{
		{
			name:      "absolute path",
			configDir: "/project",
			input:     "/absolute/src",
			want:      "/absolute/src",
		},
		{
			name:      "home directory expansion",
			configDir: "/project",
			input:     "~/banners",
			want:      filepath.Join(homeDir, "banners"),
		},
		{
			name:      "relative path with config dir",
			configDir: "/project",
			input:     "src",
			want:      "/project/src",
		},
		{
			name:      "relative path without config dir",
			configDir: "",
			input:     "src",
			want:      filepath.Join(cwd, "src"),
		},
		{
			name:      "parent directory with config dir",
			configDir: "/project/campaign",
			input:     "../fonts",
			want:      "/project/fonts",
		},
		{
			name:      "absolute path with double slashes",
			configDir: "/project",
			input:     "/absolute//build/",
			want:      "/absolute/build",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewPathResolver(tt.configDir).Resolve(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLayout(t *testing.T) {
	layout := NewLayout(NewPathResolver("/project"))
	v := Variant{Country: "US", Size: Size{Width: 300, Height: 250}}

	assert.Equal(t, "/project/src", layout.Source)
	assert.Equal(t, "/project/fonts", layout.Fonts)
	assert.Equal(t, "/project/build", layout.Build)
	assert.Equal(t, "/project/src/index.handlebars", layout.Template())
	assert.Equal(t, "/project/build/US/300x250", layout.VariantDir(v))
	assert.Equal(t, "/project/src/overrides/US/300x250", layout.OverrideDir(v))
}
