package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/b0tShaman/medimg/data"
)

const (
	DefaultHeight = 64
	DefaultWidth  = 64
)

// BuildConfig holds the parameters of one dataset build.
type BuildConfig struct {
	Root       string // directory of per-class subfolders
	OutDir     string // created if absent
	Height     int    // every image must decode to exactly Height x Width
	Width      int
	Extensions []string // accepted suffixes, case-insensitive
	Log        zerolog.Logger
}

// DefaultBuildConfig returns the builder defaults.
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		Root:       "data/images",
		OutDir:     "data/medimg_bin",
		Height:     DefaultHeight,
		Width:      DefaultWidth,
		Extensions: append([]string(nil), data.DefaultExtensions...),
		Log:        zerolog.Nop(),
	}
}

func (c BuildConfig) validate() error {
	if c.Root == "" {
		return fmt.Errorf("root directory is required")
	}
	if c.OutDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.Height <= 0 || c.Width <= 0 {
		return fmt.Errorf("shape must be positive, got %dx%d", c.Height, c.Width)
	}
	return nil
}

// InspectConfig holds the parameters of one sample inspection.
type InspectConfig struct {
	Dir    string // dataset directory containing meta.json
	Index  int    // zero-based sample index
	Out    string // output image path; format follows the extension
	Height int
	Width  int
	Scale  int  // integer upscale of the preview, 1 keeps H x W
	Verify bool // check artifact sizes and labels before reading
	Log    zerolog.Logger
}

// DefaultInspectConfig returns the inspector defaults.
func DefaultInspectConfig() InspectConfig {
	return InspectConfig{
		Dir:    "data",
		Index:  0,
		Out:    "sample.png",
		Height: DefaultHeight,
		Width:  DefaultWidth,
		Scale:  1,
		Log:    zerolog.Nop(),
	}
}

func (c InspectConfig) validate() error {
	if c.Out == "" {
		return fmt.Errorf("output path is required")
	}
	if c.Height <= 0 || c.Width <= 0 {
		return fmt.Errorf("shape must be positive, got %dx%d", c.Height, c.Width)
	}
	if c.Scale < 1 {
		return fmt.Errorf("scale must be >= 1, got %d", c.Scale)
	}
	return nil
}

// ParseShape parses "H,W" into its two components.
func ParseShape(s string) (h, w int, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("shape %q: want H,W", s)
	}
	if h, err = strconv.Atoi(strings.TrimSpace(parts[0])); err != nil {
		return 0, 0, fmt.Errorf("shape %q: height: %w", s, err)
	}
	if w, err = strconv.Atoi(strings.TrimSpace(parts[1])); err != nil {
		return 0, 0, fmt.Errorf("shape %q: width: %w", s, err)
	}
	if h <= 0 || w <= 0 {
		return 0, 0, fmt.Errorf("shape %q: dimensions must be positive", s)
	}
	return h, w, nil
}

// ParseExtensions splits a comma separated suffix list.
func ParseExtensions(s string) []string {
	var out []string
	for _, e := range strings.Split(s, ",") {
		if e = data.NormalizeExt(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}
