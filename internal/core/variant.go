package core

import (
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
)

var ErrInvalidSize = errors.New("invalid banner size")

// Size is one creative dimension.
type Size struct {
	Width  int `yaml:"width"  json:"width"`
	Height int `yaml:"height" json:"height"`
}

// String formats the size as the WIDTHxHEIGHT path segment.
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// ParseSize parses a WIDTHxHEIGHT string such as "300x250".
func ParseSize(s string) (Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return Size{}, fmt.Errorf("%w: %q, expected WIDTHxHEIGHT", ErrInvalidSize, s)
	}

	width, err := strconv.Atoi(w)
	if err != nil || width <= 0 {
		return Size{}, fmt.Errorf("%w: %q has a bad width", ErrInvalidSize, s)
	}

	height, err := strconv.Atoi(h)
	if err != nil || height <= 0 {
		return Size{}, fmt.Errorf("%w: %q has a bad height", ErrInvalidSize, s)
	}

	return Size{Width: width, Height: height}, nil
}

// Variant is a single (spec, country, size) build unit.
type Variant struct {
	Spec    int // index of the originating BannerSpec
	Country string
	Size    Size
}

// Key identifies the variant's output directory, "country/WxH".
func (v Variant) Key() string {
	return path.Join(v.Country, v.Size.String())
}

// Context is the data the index template is rendered with.
func (v Variant) Context() map[string]any {
	return map[string]any{
		"country": v.Country,
		"width":   v.Size.Width,
		"height":  v.Size.Height,
	}
}
