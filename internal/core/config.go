package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

const (
	EnvPrefix = "ADCRAFT_"

	DefaultConfigFile = "banner-project.json"
)

var (
	ErrConfigNotFound   = errors.New("config file not found")
	ErrDuplicateVariant = errors.New("duplicate banner variant")
	ErrConfigExists     = errors.New("config file already exists")
)

// Flags are the global flags shared by every command.
type Flags struct {
	LogLevel        string
	ConfigFilePath  string
	AllowDuplicates bool
	FontExtensions  []string
}

// BannerSpec is one family of creatives sharing the same source assets.
type BannerSpec struct {
	Countries   []string `yaml:"countries"   json:"countries"`
	BannerSizes []Size   `yaml:"bannerSizes" json:"bannerSizes"`
}

// ConfigFile is the decoded banner-project.json, an ordered list of specs.
type ConfigFile struct {
	Specs []BannerSpec

	// ConfigDir is the directory containing the config file. Project paths
	// (src, fonts, build) are resolved relative to it.
	ConfigDir string
}

// LoadConfig reads and decodes the project file at cfgpath. A missing file is
// reported as ErrConfigNotFound so callers can abort before doing any work.
func LoadConfig(cfgpath string) (ConfigFile, error) {
	cfg := ConfigFile{}

	absolutePath, err := filepath.Abs(cfgpath)
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(absolutePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("%w: %s does not exist", ErrConfigNotFound, cfgpath)
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg.Specs); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", cfgpath, err)
	}

	cfg.ConfigDir = filepath.Dir(absolutePath)

	log.Debug().
		Str("path", absolutePath).
		Int("specs", len(cfg.Specs)).
		Msg("loaded config")

	return cfg, nil
}

// WriteConfig writes specs to cfgpath as indented JSON. An existing file is
// only replaced when overwrite is set.
func WriteConfig(cfgpath string, specs []BannerSpec, overwrite bool) error {
	if _, err := os.Stat(cfgpath); err == nil && !overwrite {
		return fmt.Errorf("%w: %s", ErrConfigExists, cfgpath)
	}

	data, err := json.MarshalIndent(specs, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfgpath), 0o755); err != nil {
		return err
	}

	return os.WriteFile(cfgpath, append(data, '\n'), 0o644)
}

// Layout returns the project layout rooted at the config directory.
func (c ConfigFile) Layout() Layout {
	return NewLayout(PathResolver{configDir: c.ConfigDir})
}

// Variants expands every spec into its (country x size) variants, in spec,
// country, then size order.
func (c ConfigFile) Variants() []Variant {
	var variants []Variant

	for i, spec := range c.Specs {
		for _, country := range spec.Countries {
			for _, size := range spec.BannerSizes {
				variants = append(variants, Variant{
					Spec:    i,
					Country: country,
					Size:    size,
				})
			}
		}
	}

	return variants
}

// Duplicates returns the keys of variants that map to an output directory
// already claimed by an earlier variant.
func (c ConfigFile) Duplicates() []string {
	seen := map[string]int{}
	dupes := []string{}

	for _, v := range c.Variants() {
		key := v.Key()
		seen[key]++
		if seen[key] == 2 {
			dupes = append(dupes, key)
		}
	}

	return dupes
}

// Validate rejects configs where two variants share an output directory.
// Such variants would silently overwrite each other.
func (c ConfigFile) Validate() error {
	dupes := c.Duplicates()
	if len(dupes) == 0 {
		return nil
	}

	return fmt.Errorf("%w: %s are produced by more than one banner spec", ErrDuplicateVariant, strings.Join(dupes, ", "))
}

// SetupEnv loads the config referenced by the global flags and applies the
// duplicate check unless it was disabled.
func SetupEnv(flags *Flags) (ConfigFile, error) {
	cfg, err := LoadConfig(flags.ConfigFilePath)
	if err != nil {
		return cfg, err
	}

	if flags.AllowDuplicates {
		if dupes := cfg.Duplicates(); len(dupes) > 0 {
			log.Warn().Strs("variants", dupes).Msg("duplicate variants, the last banner spec wins")
		}
		return cfg, nil
	}

	return cfg, cfg.Validate()
}
