// Package copier copies project files into variant output directories.
//
// The asset, font and override steps all follow the same shape: list a
// source root, descend a fixed number of directory levels, filter entries,
// and copy the files found at the final level flat into the destination.
// Rule captures that shape, and Assets, Fonts and Overrides are its three
// configurations.
package copier

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/otiai10/copy"
	"github.com/rs/zerolog/log"
)

// Predicate reports whether a directory entry matches.
type Predicate func(entry fs.DirEntry) bool

type Rule struct {
	// Name is used in log output.
	Name string

	// Depth is the number of directory levels between the source root and
	// the files that get copied. Files found above that level are ignored,
	// directories found at that level are not descended into.
	Depth int

	// SkipRoot drops matching entries directly inside the source root.
	SkipRoot []Predicate

	// SkipNested drops matching entries below the source root.
	SkipNested []Predicate

	// Include, when set, must match a file for it to be copied.
	Include Predicate

	// Optional makes a missing source root a no-op instead of an error.
	Optional bool
}

// Copied is a single file written by a rule.
type Copied struct {
	Src  string
	Dest string
}

type Result struct {
	Copied  []Copied
	Ignored []string
}

// Apply copies the files selected by the rule from src into dest, flattening
// them into dest and overwriting files of the same name. Copy failures for
// individual files are collected and returned together after every other
// file has been attempted.
func (r Rule) Apply(src, dest string) (Result, error) {
	res := Result{}

	info, err := os.Stat(src)
	switch {
	case errors.Is(err, fs.ErrNotExist) && r.Optional:
		log.Debug().Str("rule", r.Name).Str("src", src).Msg("source does not exist, skipping")
		return res, nil
	case err != nil:
		return res, fmt.Errorf("%s: %w", r.Name, err)
	case !info.IsDir():
		return res, fmt.Errorf("%s: %s is not a directory", r.Name, src)
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return res, fmt.Errorf("%s: failed to create %s: %w", r.Name, dest, err)
	}

	err = r.walk(src, dest, 0, &res)
	return res, err
}

func (r Rule) walk(dir, dest string, level int, res *Result) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("%s: failed to read %s: %w", r.Name, dir, err)
	}

	var errs []error
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if r.skipped(entry, level) {
			continue
		}

		if level < r.Depth {
			if !entry.IsDir() {
				log.Debug().Str("rule", r.Name).Str("path", path).Msg("ignoring file above copy depth")
				res.Ignored = append(res.Ignored, path)
				continue
			}

			if err := r.walk(path, dest, level+1, res); err != nil {
				errs = append(errs, err)
			}
			continue
		}

		if entry.IsDir() {
			log.Debug().Str("rule", r.Name).Str("path", path).Msg("ignoring nested directory")
			res.Ignored = append(res.Ignored, path)
			continue
		}

		if r.Include != nil && !r.Include(entry) {
			continue
		}

		target := filepath.Join(dest, entry.Name())
		if err := copyFile(path, target); err != nil {
			log.Error().Err(err).Str("rule", r.Name).Str("src", path).Str("dest", target).Msg("copy failed")
			errs = append(errs, fmt.Errorf("%s: failed to copy %s: %w", r.Name, path, err))
			continue
		}

		log.Info().Str("rule", r.Name).Str("src", path).Str("dest", target).Msg("copied")
		res.Copied = append(res.Copied, Copied{Src: path, Dest: target})
	}

	return errors.Join(errs...)
}

func (r Rule) skipped(entry fs.DirEntry, level int) bool {
	preds := r.SkipNested
	if level == 0 {
		preds = r.SkipRoot
	}

	for _, skip := range preds {
		if skip(entry) {
			return true
		}
	}
	return false
}

// copyFile writes src to dest and waits for the data to reach disk, so that
// later steps observe the finished file.
func copyFile(src, dest string) error {
	return copy.Copy(src, dest, copy.Options{
		OnSymlink: func(string) copy.SymlinkAction { return copy.Deep },
		Sync:      true,
	})
}
