package segment

import (
	"errors"
	"fmt"
	"strings"
)

const (
	DefaultMinFrameHeight = 100
	DefaultMinGapSize     = 20
	DefaultColorThreshold = 30
	DefaultFilenamePrefix = "manga-frame"
)

type Options struct {
	// MinFrameHeight is the smallest frame, in rows, that gets written.
	MinFrameHeight int
	// MinGapSize is the smallest separation region, in rows, that splits
	// two frames. Shorter regions are treated as noise.
	MinGapSize       int
	BackgroundColors []RGB
	ColorThreshold   int
	FilenamePrefix   string
}

func DefaultOptions() Options {
	return Options{
		MinFrameHeight:   DefaultMinFrameHeight,
		MinGapSize:       DefaultMinGapSize,
		BackgroundColors: []RGB{Black, White},
		ColorThreshold:   DefaultColorThreshold,
		FilenamePrefix:   DefaultFilenamePrefix,
	}
}

func (o Options) Palette() Palette {
	return Palette{Colors: o.BackgroundColors, Tolerance: o.ColorThreshold}
}

func (o Options) Validate() error {
	var errs []error

	if o.MinFrameHeight < 0 {
		errs = append(errs, fmt.Errorf("min frame height must be >= 0, got %d", o.MinFrameHeight))
	}
	if o.MinGapSize < 0 {
		errs = append(errs, fmt.Errorf("min gap size must be >= 0, got %d", o.MinGapSize))
	}
	if o.ColorThreshold < 0 {
		errs = append(errs, fmt.Errorf("colour threshold must be >= 0, got %d", o.ColorThreshold))
	}
	if len(o.BackgroundColors) == 0 {
		errs = append(errs, errors.New("at least one background colour is required"))
	}
	if o.FilenamePrefix == "" {
		errs = append(errs, errors.New("filename prefix cannot be empty"))
	}
	if strings.ContainsAny(o.FilenamePrefix, `/\`) {
		errs = append(errs, fmt.Errorf("filename prefix %q must not contain path separators", o.FilenamePrefix))
	}

	return errors.Join(errs...)
}
